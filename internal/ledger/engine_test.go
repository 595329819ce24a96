package ledger

import (
	"testing"
	"time"

	"clickwin_backend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func visited(indices ...int) model.VisitRecord {
	v := make(model.VisitRecord, len(indices))
	for _, i := range indices {
		v[i] = time.Now().UTC()
	}
	return v
}

func applyOutcome(acc *AccountState, out VisitOutcome, linkIndex int) {
	if out.AlreadyVisited {
		return
	}
	acc.Coins += out.CoinsDelta
	acc.Visited[linkIndex] = out.VisitedAt
}

func TestApplyLinkVisit_IdempotentCredit(t *testing.T) {
	eng := New(Config{})
	now := time.Now().UTC()

	acc := AccountState{ID: uuid.New(), Coins: 0, Visited: visited()}

	out, err := eng.ApplyLinkVisit(acc, false, 0, now)
	require.NoError(t, err)
	assert.False(t, out.AlreadyVisited)
	assert.Equal(t, DefaultLinkReward, out.CoinsDelta)
	applyOutcome(&acc, out, 0)
	assert.Equal(t, 10, acc.Coins)

	out, err = eng.ApplyLinkVisit(acc, false, 0, now)
	require.NoError(t, err)
	assert.True(t, out.AlreadyVisited)
	assert.Zero(t, out.CoinsDelta)
	assert.Nil(t, out.ReferralBonus)
	applyOutcome(&acc, out, 0)
	assert.Equal(t, 10, acc.Coins)
	assert.Len(t, acc.Visited, 1)
}

func TestApplyLinkVisit_NoLostUpdates(t *testing.T) {
	eng := New(Config{})
	now := time.Now().UTC()

	orders := [][]int{{1, 2}, {2, 1}}
	for _, order := range orders {
		acc := AccountState{ID: uuid.New(), Coins: 0, Visited: visited()}
		for _, idx := range order {
			out, err := eng.ApplyLinkVisit(acc, false, idx, now)
			require.NoError(t, err)
			applyOutcome(&acc, out, idx)
		}
		assert.Equal(t, 2*DefaultLinkReward, acc.Coins)
		assert.Contains(t, acc.Visited, 1)
		assert.Contains(t, acc.Visited, 2)
	}
}

func TestApplyLinkVisit_NegativeIndex(t *testing.T) {
	eng := New(Config{})
	acc := AccountState{ID: uuid.New(), Visited: visited()}

	_, err := eng.ApplyLinkVisit(acc, false, -1, time.Now())
	assert.ErrorIs(t, err, ErrUnknownLink)
}

func TestApplyLinkVisit_VisitThresholdPolicy(t *testing.T) {
	eng := New(Config{Policy: PolicyVisitThreshold})
	now := time.Now().UTC()
	referrerID := uuid.New()

	tests := []struct {
		name             string
		acc              AccountState
		referrerCredited bool
		linkIndex        int
		expectBonus      bool
	}{
		{
			name:      "below threshold no bonus",
			acc:       AccountState{Visited: visited(0, 1), ReferrerID: &referrerID},
			linkIndex: 2,
		},
		{
			name:        "fourth visit fires bonus",
			acc:         AccountState{Visited: visited(0, 1, 2), ReferrerID: &referrerID},
			linkIndex:   3,
			expectBonus: true,
		},
		{
			name:             "already credited never pays twice",
			acc:              AccountState{Visited: visited(0, 1, 2), ReferrerID: &referrerID},
			referrerCredited: true,
			linkIndex:        3,
		},
		{
			name:      "no referrer no bonus",
			acc:       AccountState{Visited: visited(0, 1, 2)},
			linkIndex: 3,
		},
		{
			name:        "beyond threshold still guarded by credit record",
			acc:         AccountState{Visited: visited(0, 1, 2, 3, 4), ReferrerID: &referrerID},
			linkIndex:   5,
			expectBonus: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := eng.ApplyLinkVisit(tt.acc, tt.referrerCredited, tt.linkIndex, now)
			require.NoError(t, err)

			if !tt.expectBonus {
				assert.Nil(t, out.ReferralBonus)
				return
			}
			require.NotNil(t, out.ReferralBonus)
			assert.Equal(t, referrerID, out.ReferralBonus.ReferrerID)
			assert.Equal(t, DefaultVisitBonus, out.ReferralBonus.Coins)
			assert.Equal(t, DefaultVisitBonus, out.ReferralBonus.ReferralCoins)
		})
	}
}

func TestApplyLinkVisit_BalanceThresholdPolicy(t *testing.T) {
	eng := New(Config{Policy: PolicyBalanceThreshold})
	now := time.Now().UTC()
	referrerID := uuid.New()

	tests := []struct {
		name             string
		coins            int
		referrerCredited bool
		expectBonus      bool
	}{
		{name: "well below threshold", coins: 100},
		{name: "crossing threshold fires once", coins: 490, expectBonus: true},
		{name: "already above threshold", coins: 500},
		{name: "crossing but already credited", coins: 490, referrerCredited: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := AccountState{
				Coins:      tt.coins,
				Visited:    visited(0),
				ReferrerID: &referrerID,
			}
			out, err := eng.ApplyLinkVisit(acc, tt.referrerCredited, 1, now)
			require.NoError(t, err)

			if !tt.expectBonus {
				assert.Nil(t, out.ReferralBonus)
				return
			}
			require.NotNil(t, out.ReferralBonus)
			assert.Equal(t, DefaultBalanceBonus, out.ReferralBonus.Coins)
			assert.Zero(t, out.ReferralBonus.ReferralCoins)
		})
	}
}

func TestValidateWithdrawal(t *testing.T) {
	eng := New(Config{})

	tests := []struct {
		name    string
		balance int
		amount  int
		wantErr error
	}{
		{name: "exact balance", balance: 500, amount: 500},
		{name: "above balance", balance: 499, amount: 500, wantErr: ErrInsufficientFunds},
		{name: "below minimum", balance: 1000, amount: 499, wantErr: ErrBelowMinimum},
		{name: "zero amount", balance: 1000, amount: 0, wantErr: ErrBelowMinimum},
		{name: "sufficient", balance: 600, amount: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := eng.ValidateWithdrawal(tt.balance, tt.amount)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResolveWithdrawal(t *testing.T) {
	eng := New(Config{})

	tests := []struct {
		name       string
		status     model.WithdrawalStatus
		decision   Decision
		wantErr    error
		wantStatus model.WithdrawalStatus
		wantCredit int
	}{
		{
			name:       "approve pending",
			status:     model.WithdrawalPending,
			decision:   DecisionApprove,
			wantStatus: model.WithdrawalApproved,
		},
		{
			name:       "reject pending credits back",
			status:     model.WithdrawalPending,
			decision:   DecisionReject,
			wantStatus: model.WithdrawalRejected,
			wantCredit: 500,
		},
		{
			name:     "reject already rejected",
			status:   model.WithdrawalRejected,
			decision: DecisionReject,
			wantErr:  ErrInvalidStateTransition,
		},
		{
			name:     "approve already approved",
			status:   model.WithdrawalApproved,
			decision: DecisionApprove,
			wantErr:  ErrInvalidStateTransition,
		},
		{
			name:     "unknown decision",
			status:   model.WithdrawalPending,
			decision: Decision("defer"),
			wantErr:  ErrInvalidDecision,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := eng.ResolveWithdrawal(tt.status, 500, tt.decision)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, out.NewStatus)
			assert.Equal(t, tt.wantCredit, out.CreditBack)
		})
	}
}

// End-to-end walk over the engine rules: claim, repeated claim, rejected
// withdrawal floor, optimistic debit, credit-back, double-reject refusal.
func TestLedgerScenario(t *testing.T) {
	eng := New(Config{})
	now := time.Now().UTC()

	acc := AccountState{ID: uuid.New(), Coins: 0, Visited: visited()}

	out, err := eng.ApplyLinkVisit(acc, false, 0, now)
	require.NoError(t, err)
	applyOutcome(&acc, out, 0)
	assert.Equal(t, 10, acc.Coins)

	out, err = eng.ApplyLinkVisit(acc, false, 0, now)
	require.NoError(t, err)
	assert.True(t, out.AlreadyVisited)
	applyOutcome(&acc, out, 0)
	assert.Equal(t, 10, acc.Coins)

	assert.ErrorIs(t, eng.ValidateWithdrawal(acc.Coins, 500), ErrInsufficientFunds)

	acc.Coins = 600
	require.NoError(t, eng.ValidateWithdrawal(acc.Coins, 500))
	acc.Coins -= 500
	assert.Equal(t, 100, acc.Coins)

	res, err := eng.ResolveWithdrawal(model.WithdrawalPending, 500, DecisionReject)
	require.NoError(t, err)
	acc.Coins += res.CreditBack
	assert.Equal(t, 600, acc.Coins)
	assert.Equal(t, model.WithdrawalRejected, res.NewStatus)

	_, err = eng.ResolveWithdrawal(res.NewStatus, 500, DecisionReject)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
}
