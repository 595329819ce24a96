package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"clickwin_backend/internal/ledger"
	"clickwin_backend/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// VisitLink applies a link-visit event to an account. The whole
// load-decide-persist sequence runs in one transaction with the account row
// (and the referrer row, when a bonus fires) locked, so concurrent visits
// for the same account serialize and neither credit is lost.
func (r *Repository) VisitLink(ctx context.Context, userID uuid.UUID, linkIndex int) (*model.VisitResult, error) {
	var result *model.VisitResult

	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		if err := r.checkLinkExists(ctx, tx, linkIndex); err != nil {
			return err
		}

		user, err := r.getUserForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}

		visits, err := r.getVisits(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("failed to get visit record: %w", err)
		}

		referrerCredited := false
		if user.ReferrerID != nil {
			referrerCredited, err = r.referrerCredited(ctx, tx, *user.ReferrerID, userID)
			if err != nil {
				return err
			}
		}

		state := ledger.AccountState{
			ID:         user.ID,
			Coins:      user.Coins,
			Visited:    visits,
			ReferrerID: user.ReferrerID,
		}

		outcome, err := r.eng.ApplyLinkVisit(state, referrerCredited, linkIndex, time.Now().UTC())
		if err != nil {
			return err
		}

		if outcome.AlreadyVisited {
			result = &model.VisitResult{Coins: user.Coins, VisitedLinks: visits}
			return nil
		}

		insertQuery, insertArgs, err := squirrel.
			Insert("link_visits").
			SetMap(map[string]interface{}{
				"user_id":    userID,
				"link_index": linkIndex,
				"visited_at": outcome.VisitedAt,
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build visit insert query: %w", err)
		}

		_, err = tx.ExecContext(ctx, insertQuery, insertArgs...)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrConflict
			}
			return fmt.Errorf("failed to insert link visit: %w", err)
		}

		err = r.addCoinsTx(ctx, tx, userID, outcome.CoinsDelta, 0)
		if err != nil {
			return fmt.Errorf("failed to credit user: %w", err)
		}

		if outcome.ReferralBonus != nil {
			err = r.applyReferralBonus(ctx, tx, userID, outcome.ReferralBonus, outcome.VisitedAt)
			if err != nil {
				return err
			}
		}

		err = r.incrementLinkClicks(ctx, tx, outcome.VisitedAt)
		if err != nil {
			return fmt.Errorf("failed to update statistics: %w", err)
		}

		visits[linkIndex] = outcome.VisitedAt
		result = &model.VisitResult{
			Coins:        user.Coins + outcome.CoinsDelta,
			VisitedLinks: visits,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *Repository) referrerCredited(ctx context.Context, tx *sqlx.Tx, referrerID, referredID uuid.UUID) (bool, error) {
	query, args, err := squirrel.
		Select("1").
		From("referral_credits").
		Where(squirrel.Eq{
			"referrer_id": referrerID,
			"referred_id": referredID,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build referral credit check query: %w", err)
	}

	var one int
	err = tx.GetContext(ctx, &one, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check referral credit: %w", err)
	}

	return true, nil
}

// applyReferralBonus records the one-shot credit and pays the referrer inside
// the caller's transaction. A referrer account that has disappeared is
// skipped rather than failing the visit.
func (r *Repository) applyReferralBonus(ctx context.Context, tx *sqlx.Tx, referredID uuid.UUID, bonus *ledger.ReferralBonus, creditedAt time.Time) error {
	_, err := r.getUserForUpdate(ctx, tx, bonus.ReferrerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to lock referrer: %w", err)
	}

	creditQuery, creditArgs, err := squirrel.
		Insert("referral_credits").
		SetMap(map[string]interface{}{
			"referrer_id": bonus.ReferrerID,
			"referred_id": referredID,
			"credited_at": creditedAt,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build referral credit insert query: %w", err)
	}

	_, err = tx.ExecContext(ctx, creditQuery, creditArgs...)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to insert referral credit: %w", err)
	}

	err = r.addCoinsTx(ctx, tx, bonus.ReferrerID, bonus.Coins, bonus.ReferralCoins)
	if err != nil {
		return fmt.Errorf("failed to credit referrer: %w", err)
	}

	return nil
}

func (r *Repository) addCoinsTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, coins, referralCoins int) error {
	builder := squirrel.
		Update("users").
		Set("coins", squirrel.Expr("coins + ?", coins)).
		Where(squirrel.Eq{"id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	if referralCoins != 0 {
		builder = builder.Set("referral_coins", squirrel.Expr("referral_coins + ?", referralCoins))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, query, args...)
	return err
}
