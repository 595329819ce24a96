package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"clickwin_backend/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type User struct {
	ID            uuid.UUID  `db:"id"`
	Name          string     `db:"name"`
	Phone         string     `db:"phone"`
	Email         string     `db:"email"`
	PasswordHash  string     `db:"password_hash"`
	Fingerprint   string     `db:"fingerprint"`
	Coins         int        `db:"coins"`
	ReferralCoins int        `db:"referral_coins"`
	ReferrerID    *uuid.UUID `db:"referrer_id"`
	IsAdmin       bool       `db:"is_admin"`
	RegisteredAt  time.Time  `db:"registered_at"`
}

func (u *User) toModel() *model.User {
	return &model.User{
		ID:            u.ID,
		Name:          u.Name,
		Phone:         u.Phone,
		Email:         u.Email,
		PasswordHash:  u.PasswordHash,
		Fingerprint:   u.Fingerprint,
		Coins:         u.Coins,
		ReferralCoins: u.ReferralCoins,
		ReferrerID:    u.ReferrerID,
		IsAdmin:       u.IsAdmin,
		RegisteredAt:  u.RegisteredAt,
	}
}

func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		var existing User
		checkQuery, checkArgs, err := squirrel.
			Select("email", "phone", "fingerprint").
			From("users").
			Where(squirrel.Or{
				squirrel.Eq{"email": user.Email},
				squirrel.Eq{"phone": user.Phone},
				squirrel.Eq{"fingerprint": user.Fingerprint},
			}).
			Limit(1).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build uniqueness check query: %w", err)
		}

		err = tx.GetContext(ctx, &existing, checkQuery, checkArgs...)
		if err == nil {
			switch {
			case existing.Email == user.Email:
				return ErrEmailTaken
			case existing.Phone == user.Phone:
				return ErrPhoneTaken
			default:
				return ErrDeviceTaken
			}
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to check existing users: %w", err)
		}

		if user.ReferrerID != nil {
			referrerQuery, referrerArgs, err := squirrel.
				Select("1").
				From("users").
				Where(squirrel.Eq{"id": user.ReferrerID}).
				PlaceholderFormat(squirrel.Dollar).
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build referrer check query: %w", err)
			}

			var one int
			err = tx.GetContext(ctx, &one, referrerQuery, referrerArgs...)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					// Unknown referral codes register fine, just unattributed.
					user.ReferrerID = nil
				} else {
					return fmt.Errorf("failed to check referrer: %w", err)
				}
			}
		}

		query, args, err := squirrel.
			Insert("users").
			SetMap(map[string]interface{}{
				"id":             user.ID,
				"name":           user.Name,
				"phone":          user.Phone,
				"email":          user.Email,
				"password_hash":  user.PasswordHash,
				"fingerprint":    user.Fingerprint,
				"coins":          user.Coins,
				"referral_coins": user.ReferralCoins,
				"referrer_id":    user.ReferrerID,
				"is_admin":       user.IsAdmin,
				"registered_at":  user.RegisteredAt,
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build user insert query: %w", err)
		}

		_, err = tx.ExecContext(ctx, query, args...)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrConflict
			}
			return fmt.Errorf("failed to insert user: %w", err)
		}

		return nil
	})
}

func (r *Repository) GetUserByID(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	var user User
	query, args, err := squirrel.
		Select("*").
		From("users").
		Where(squirrel.Eq{"id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &user, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return user.toModel(), nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user User
	query, args, err := squirrel.
		Select("*").
		From("users").
		Where(squirrel.Eq{"email": email}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &user, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return user.toModel(), nil
}

// getUserForUpdate locks the account row for the rest of the transaction so
// read-modify-write sequences on the balance are serialized per account.
func (r *Repository) getUserForUpdate(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) (*model.User, error) {
	var user User
	query, args, err := squirrel.
		Select("*").
		From("users").
		Where(squirrel.Eq{"id": userID}).
		Suffix("FOR UPDATE").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = tx.GetContext(ctx, &user, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return user.toModel(), nil
}

type profileRow struct {
	Name          string         `db:"name"`
	Coins         int            `db:"coins"`
	ReferralCoins int            `db:"referral_coins"`
	Referrals     pq.StringArray `db:"referrals"`
}

func (r *Repository) GetProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	query, args, err := squirrel.
		Select(
			"u.name",
			"u.coins",
			"u.referral_coins",
			"array_agg(ru.name ORDER BY rc.credited_at) FILTER (WHERE ru.name IS NOT NULL) as referrals",
		).
		From("users u").
		LeftJoin("referral_credits rc ON rc.referrer_id = u.id").
		LeftJoin("users ru ON ru.id = rc.referred_id").
		Where(squirrel.Eq{"u.id": userID}).
		GroupBy("u.id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build profile query: %w", err)
	}

	var row profileRow
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	visits, err := r.getVisits(ctx, r.db, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get visit record: %w", err)
	}

	return &model.Profile{
		UserID:        userID,
		Name:          row.Name,
		Coins:         row.Coins,
		VisitedLinks:  visits,
		ReferralCoins: row.ReferralCoins,
		Referrals:     row.Referrals,
	}, nil
}

type visitRow struct {
	LinkIndex int       `db:"link_index"`
	VisitedAt time.Time `db:"visited_at"`
}

func (r *Repository) getVisits(ctx context.Context, q sqlx.QueryerContext, userID uuid.UUID) (model.VisitRecord, error) {
	query, args, err := squirrel.
		Select("link_index", "visited_at").
		From("link_visits").
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []visitRow
	err = sqlx.SelectContext(ctx, q, &rows, query, args...)
	if err != nil {
		return nil, err
	}

	visits := make(model.VisitRecord, len(rows))
	for _, row := range rows {
		visits[row.LinkIndex] = row.VisitedAt
	}

	return visits, nil
}
