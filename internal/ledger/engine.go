package ledger

import (
	"time"

	"clickwin_backend/internal/model"

	"github.com/google/uuid"
)

const (
	DefaultLinkReward       = 10
	DefaultVisitThreshold   = 4
	DefaultVisitBonus       = 50
	DefaultBalanceThreshold = 500
	DefaultBalanceBonus     = 100
	DefaultMinWithdrawal    = 500
)

type Config struct {
	LinkReward       int
	Policy           ReferralPolicy
	VisitThreshold   int
	VisitBonus       int
	BalanceThreshold int
	BalanceBonus     int
	MinWithdrawal    int
}

// Engine holds the coin-ledger decision rules. It is pure: callers load
// account snapshots, the engine computes the outcome, callers persist it.
type Engine struct {
	cfg Config
}

func New(cfg Config) *Engine {
	if cfg.LinkReward <= 0 {
		cfg.LinkReward = DefaultLinkReward
	}
	if cfg.Policy == "" {
		cfg.Policy = PolicyVisitThreshold
	}
	if cfg.VisitThreshold <= 0 {
		cfg.VisitThreshold = DefaultVisitThreshold
	}
	if cfg.VisitBonus <= 0 {
		cfg.VisitBonus = DefaultVisitBonus
	}
	if cfg.BalanceThreshold <= 0 {
		cfg.BalanceThreshold = DefaultBalanceThreshold
	}
	if cfg.BalanceBonus <= 0 {
		cfg.BalanceBonus = DefaultBalanceBonus
	}
	if cfg.MinWithdrawal <= 0 {
		cfg.MinWithdrawal = DefaultMinWithdrawal
	}
	return &Engine{cfg: cfg}
}

// AccountState is the snapshot of an account the engine decides on.
type AccountState struct {
	ID         uuid.UUID
	Coins      int
	Visited    model.VisitRecord
	ReferrerID *uuid.UUID
}

// ReferralBonus instructs the caller to credit the referrer's record in the
// same transaction as the subject account's update.
type ReferralBonus struct {
	ReferrerID    uuid.UUID
	Coins         int
	ReferralCoins int
}

type VisitOutcome struct {
	AlreadyVisited bool
	CoinsDelta     int
	VisitedAt      time.Time
	ReferralBonus  *ReferralBonus
}

// ApplyLinkVisit computes the result of an account claiming the reward for
// linkIndex. A repeated claim for the same index is a no-op. referrerCredited
// reports whether the referrer has already been paid a bonus for this account;
// it is only consulted when the account has a referrer.
func (e *Engine) ApplyLinkVisit(acc AccountState, referrerCredited bool, linkIndex int, now time.Time) (VisitOutcome, error) {
	if linkIndex < 0 {
		return VisitOutcome{}, ErrUnknownLink
	}

	if _, claimed := acc.Visited[linkIndex]; claimed {
		return VisitOutcome{AlreadyVisited: true}, nil
	}

	out := VisitOutcome{
		CoinsDelta: e.cfg.LinkReward,
		VisitedAt:  now,
	}

	if acc.ReferrerID == nil || referrerCredited {
		return out, nil
	}

	switch e.cfg.Policy {
	case PolicyVisitThreshold:
		if len(acc.Visited)+1 >= e.cfg.VisitThreshold {
			out.ReferralBonus = &ReferralBonus{
				ReferrerID:    *acc.ReferrerID,
				Coins:         e.cfg.VisitBonus,
				ReferralCoins: e.cfg.VisitBonus,
			}
		}
	case PolicyBalanceThreshold:
		if acc.Coins < e.cfg.BalanceThreshold && acc.Coins+out.CoinsDelta >= e.cfg.BalanceThreshold {
			out.ReferralBonus = &ReferralBonus{
				ReferrerID: *acc.ReferrerID,
				Coins:      e.cfg.BalanceBonus,
			}
		}
	}

	return out, nil
}

// ValidateWithdrawal checks a withdrawal request against the account balance.
// The caller has already verified the credential proof. On success the caller
// must debit the amount immediately so overlapping requests cannot jointly
// exceed the balance.
func (e *Engine) ValidateWithdrawal(balance, amount int) error {
	if amount > balance {
		return ErrInsufficientFunds
	}
	if amount < e.cfg.MinWithdrawal {
		return ErrBelowMinimum
	}
	return nil
}

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

type ResolutionOutcome struct {
	NewStatus  model.WithdrawalStatus
	CreditBack int
}

// ResolveWithdrawal computes the terminal transition for a request. Only
// pending requests are eligible; a rejected request credits the debited
// amount back exactly once.
func (e *Engine) ResolveWithdrawal(status model.WithdrawalStatus, amount int, decision Decision) (ResolutionOutcome, error) {
	if status != model.WithdrawalPending {
		return ResolutionOutcome{}, ErrInvalidStateTransition
	}

	switch decision {
	case DecisionApprove:
		return ResolutionOutcome{NewStatus: model.WithdrawalApproved}, nil
	case DecisionReject:
		return ResolutionOutcome{
			NewStatus:  model.WithdrawalRejected,
			CreditBack: amount,
		}, nil
	default:
		return ResolutionOutcome{}, ErrInvalidDecision
	}
}
