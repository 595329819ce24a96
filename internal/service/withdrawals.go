package service

import (
	"context"
	"errors"
	"fmt"

	"clickwin_backend/internal/ledger"
	"clickwin_backend/internal/model"
	"clickwin_backend/internal/repository"
	"clickwin_backend/pkg/auth"

	"github.com/google/uuid"
)

type WithdrawalService struct {
	repo     WithdrawalRepository
	notifier *WithdrawalNotifier
}

func NewWithdrawalService(repo WithdrawalRepository, notifier *WithdrawalNotifier) *WithdrawalService {
	return &WithdrawalService{
		repo:     repo,
		notifier: notifier,
	}
}

// RequestWithdrawal re-authenticates the owner, then delegates the solvency
// check and optimistic debit to the repository's transactional path. A newly
// created request is pushed to the admin notification feed.
func (s *WithdrawalService) RequestWithdrawal(ctx context.Context, userID uuid.UUID, amount int, paymentHandle, password string) (*model.WithdrawalRequest, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	request, err := s.repo.CreateWithdrawal(ctx, userID, amount, paymentHandle)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Publish(request)
	}

	return request, nil
}

func (s *WithdrawalService) ResolveWithdrawal(ctx context.Context, requestID uuid.UUID, decision ledger.Decision) (*model.WithdrawalRequest, error) {
	request, err := s.repo.ResolveWithdrawal(ctx, requestID, decision)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return request, nil
}

func (s *WithdrawalService) GetWithdrawalHistory(ctx context.Context, userID uuid.UUID) ([]*model.WithdrawalRequest, error) {
	requests, err := s.repo.GetWithdrawalsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal history: %w", err)
	}
	return requests, nil
}

func (s *WithdrawalService) ListPendingWithdrawals(ctx context.Context) ([]*model.WithdrawalRequest, error) {
	requests, err := s.repo.ListPendingWithdrawals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending withdrawals: %w", err)
	}
	return requests, nil
}

func (s *WithdrawalService) GetDailyStatistics(ctx context.Context, days int) ([]*model.DailyStatistics, error) {
	stats, err := s.repo.GetDailyStatistics(ctx, days)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily statistics: %w", err)
	}
	return stats, nil
}
