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

type withdrawalRow struct {
	ID            uuid.UUID `db:"id"`
	UserID        uuid.UUID `db:"user_id"`
	UserName      string    `db:"user_name"`
	Amount        int       `db:"amount"`
	PaymentHandle string    `db:"payment_handle"`
	Status        string    `db:"status"`
	CreatedAt     time.Time `db:"created_at"`
}

func (w *withdrawalRow) toModel() *model.WithdrawalRequest {
	return &model.WithdrawalRequest{
		ID:            w.ID,
		UserID:        w.UserID,
		UserName:      w.UserName,
		Amount:        w.Amount,
		PaymentHandle: w.PaymentHandle,
		Status:        model.WithdrawalStatus(w.Status),
		CreatedAt:     w.CreatedAt,
	}
}

// CreateWithdrawal validates and debits the amount in one transaction with
// the account row locked, then records the pending request. The debit at
// request time keeps overlapping requests from jointly exceeding the balance.
func (r *Repository) CreateWithdrawal(ctx context.Context, userID uuid.UUID, amount int, paymentHandle string) (*model.WithdrawalRequest, error) {
	var created *model.WithdrawalRequest

	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		user, err := r.getUserForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}

		if err := r.eng.ValidateWithdrawal(user.Coins, amount); err != nil {
			return err
		}

		err = r.addCoinsTx(ctx, tx, userID, -amount, 0)
		if err != nil {
			return fmt.Errorf("failed to debit user: %w", err)
		}

		request := &model.WithdrawalRequest{
			ID:            uuid.New(),
			UserID:        userID,
			UserName:      user.Name,
			Amount:        amount,
			PaymentHandle: paymentHandle,
			Status:        model.WithdrawalPending,
			CreatedAt:     time.Now().UTC(),
		}

		query, args, err := squirrel.
			Insert("withdrawal_requests").
			SetMap(map[string]interface{}{
				"id":             request.ID,
				"user_id":        request.UserID,
				"user_name":      request.UserName,
				"amount":         request.Amount,
				"payment_handle": request.PaymentHandle,
				"status":         string(request.Status),
				"created_at":     request.CreatedAt,
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build withdrawal insert query: %w", err)
		}

		_, err = tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to insert withdrawal request: %w", err)
		}

		created = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// ResolveWithdrawal moves a pending request to its terminal status. The
// guarded update on status backs the exactly-once credit-back even if the
// row lock were ever bypassed.
func (r *Repository) ResolveWithdrawal(ctx context.Context, requestID uuid.UUID, decision ledger.Decision) (*model.WithdrawalRequest, error) {
	var resolved *model.WithdrawalRequest

	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		var row withdrawalRow
		query, args, err := squirrel.
			Select("*").
			From("withdrawal_requests").
			Where(squirrel.Eq{"id": requestID}).
			Suffix("FOR UPDATE").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		err = tx.GetContext(ctx, &row, query, args...)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to get withdrawal request: %w", err)
		}

		request := row.toModel()
		outcome, err := r.eng.ResolveWithdrawal(request.Status, request.Amount, decision)
		if err != nil {
			return err
		}

		updateQuery, updateArgs, err := squirrel.
			Update("withdrawal_requests").
			Set("status", string(outcome.NewStatus)).
			Where(squirrel.Eq{
				"id":     requestID,
				"status": string(model.WithdrawalPending),
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, updateQuery, updateArgs...)
		if err != nil {
			return fmt.Errorf("failed to update withdrawal status: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get affected rows: %w", err)
		}
		if rows == 0 {
			return ledger.ErrInvalidStateTransition
		}

		if outcome.CreditBack > 0 {
			_, err = r.getUserForUpdate(ctx, tx, request.UserID)
			if err != nil {
				return fmt.Errorf("failed to lock request owner: %w", err)
			}

			err = r.addCoinsTx(ctx, tx, request.UserID, outcome.CreditBack, 0)
			if err != nil {
				return fmt.Errorf("failed to credit back: %w", err)
			}
		}

		request.Status = outcome.NewStatus
		resolved = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resolved, nil
}

func (r *Repository) GetWithdrawalsByUser(ctx context.Context, userID uuid.UUID) ([]*model.WithdrawalRequest, error) {
	query, args, err := squirrel.
		Select("*").
		From("withdrawal_requests").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build withdrawal history query: %w", err)
	}

	var rows []withdrawalRow
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal history: %w", err)
	}

	requests := make([]*model.WithdrawalRequest, len(rows))
	for i := range rows {
		requests[i] = rows[i].toModel()
	}

	return requests, nil
}

func (r *Repository) ListPendingWithdrawals(ctx context.Context) ([]*model.WithdrawalRequest, error) {
	query, args, err := squirrel.
		Select("*").
		From("withdrawal_requests").
		Where(squirrel.Eq{"status": string(model.WithdrawalPending)}).
		OrderBy("created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build pending withdrawals query: %w", err)
	}

	var rows []withdrawalRow
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending withdrawals: %w", err)
	}

	requests := make([]*model.WithdrawalRequest, len(rows))
	for i := range rows {
		requests[i] = rows[i].toModel()
	}

	return requests, nil
}
