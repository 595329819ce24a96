package ledger

import "fmt"

// ReferralPolicy selects how referrer bonuses are granted. Exactly one
// policy is active per deployment; the two variants are never combined
// because each carries its own one-shot guarantee.
type ReferralPolicy string

const (
	// PolicyVisitThreshold credits the referrer a fixed bonus once the
	// referred account has claimed a configured number of links.
	PolicyVisitThreshold ReferralPolicy = "visit-threshold"

	// PolicyBalanceThreshold credits the referrer once the referred
	// account's balance first reaches a configured amount.
	PolicyBalanceThreshold ReferralPolicy = "balance-threshold"
)

func ParseReferralPolicy(s string) (ReferralPolicy, error) {
	switch ReferralPolicy(s) {
	case PolicyVisitThreshold, PolicyBalanceThreshold:
		return ReferralPolicy(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}
