package service

import (
	"context"
	"testing"
	"time"

	"clickwin_backend/internal/ledger"
	"clickwin_backend/internal/model"
	"clickwin_backend/internal/repository"
	"clickwin_backend/internal/service/mocks"
	"clickwin_backend/pkg/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestWithdrawalService_RequestWithdrawal(t *testing.T) {
	userID := uuid.New()

	hash, err := auth.HashPassword("correct-horse")
	assert.NoError(t, err)

	user := &model.User{
		ID:           userID,
		Name:         "asha",
		Coins:        600,
		PasswordHash: hash,
	}

	tests := []struct {
		name          string
		password      string
		amount        int
		mockSetup     func(mockRepo *mocks.MockWithdrawalRepository)
		expectedError error
	}{
		{
			name:     "Successful request",
			password: "correct-horse",
			amount:   500,
			mockSetup: func(mockRepo *mocks.MockWithdrawalRepository) {
				mockRepo.On("GetUserByID", mock.Anything, userID).Return(user, nil)
				mockRepo.On("CreateWithdrawal", mock.Anything, userID, 500, "asha@upi").
					Return(&model.WithdrawalRequest{
						ID:            uuid.New(),
						UserID:        userID,
						UserName:      "asha",
						Amount:        500,
						PaymentHandle: "asha@upi",
						Status:        model.WithdrawalPending,
						CreatedAt:     time.Now().UTC(),
					}, nil)
			},
		},
		{
			name:     "Wrong password never reaches the store",
			password: "battery-staple",
			amount:   500,
			mockSetup: func(mockRepo *mocks.MockWithdrawalRepository) {
				mockRepo.On("GetUserByID", mock.Anything, userID).Return(user, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "Insufficient funds passes through",
			password: "correct-horse",
			amount:   5000,
			mockSetup: func(mockRepo *mocks.MockWithdrawalRepository) {
				mockRepo.On("GetUserByID", mock.Anything, userID).Return(user, nil)
				mockRepo.On("CreateWithdrawal", mock.Anything, userID, 5000, "asha@upi").
					Return(nil, ledger.ErrInsufficientFunds)
			},
			expectedError: ledger.ErrInsufficientFunds,
		},
		{
			name:     "Below minimum passes through",
			password: "correct-horse",
			amount:   100,
			mockSetup: func(mockRepo *mocks.MockWithdrawalRepository) {
				mockRepo.On("GetUserByID", mock.Anything, userID).Return(user, nil)
				mockRepo.On("CreateWithdrawal", mock.Anything, userID, 100, "asha@upi").
					Return(nil, ledger.ErrBelowMinimum)
			},
			expectedError: ledger.ErrBelowMinimum,
		},
		{
			name:     "Unknown user",
			password: "correct-horse",
			amount:   500,
			mockSetup: func(mockRepo *mocks.MockWithdrawalRepository) {
				mockRepo.On("GetUserByID", mock.Anything, userID).
					Return(nil, repository.ErrNotFound)
			},
			expectedError: ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockWithdrawalRepository{}
			notifier := NewWithdrawalNotifier()
			service := NewWithdrawalService(mockRepo, notifier)

			feed := notifier.Subscribe()
			defer notifier.Unsubscribe(feed)

			tt.mockSetup(mockRepo)

			request, err := service.RequestWithdrawal(context.Background(), userID, tt.amount, "asha@upi", tt.password)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, feed)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, model.WithdrawalPending, request.Status)

				select {
				case published := <-feed:
					assert.Equal(t, request.ID, published.ID)
				default:
					t.Fatal("expected request on notification feed")
				}
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestWithdrawalService_ResolveWithdrawal(t *testing.T) {
	requestID := uuid.New()

	tests := []struct {
		name          string
		decision      ledger.Decision
		mockSetup     func(mockRepo *mocks.MockWithdrawalRepository)
		expectedError error
	}{
		{
			name:     "Reject pending",
			decision: ledger.DecisionReject,
			mockSetup: func(mockRepo *mocks.MockWithdrawalRepository) {
				mockRepo.On("ResolveWithdrawal", mock.Anything, requestID, ledger.DecisionReject).
					Return(&model.WithdrawalRequest{
						ID:     requestID,
						Status: model.WithdrawalRejected,
					}, nil)
			},
		},
		{
			name:     "Already terminal",
			decision: ledger.DecisionReject,
			mockSetup: func(mockRepo *mocks.MockWithdrawalRepository) {
				mockRepo.On("ResolveWithdrawal", mock.Anything, requestID, ledger.DecisionReject).
					Return(nil, ledger.ErrInvalidStateTransition)
			},
			expectedError: ledger.ErrInvalidStateTransition,
		},
		{
			name:     "Unknown request",
			decision: ledger.DecisionApprove,
			mockSetup: func(mockRepo *mocks.MockWithdrawalRepository) {
				mockRepo.On("ResolveWithdrawal", mock.Anything, requestID, ledger.DecisionApprove).
					Return(nil, repository.ErrNotFound)
			},
			expectedError: ErrRequestNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockWithdrawalRepository{}
			service := NewWithdrawalService(mockRepo, NewWithdrawalNotifier())

			tt.mockSetup(mockRepo)

			request, err := service.ResolveWithdrawal(context.Background(), requestID, tt.decision)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, model.WithdrawalRejected, request.Status)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestWithdrawalNotifier_SkipsSlowSubscribers(t *testing.T) {
	notifier := NewWithdrawalNotifier()

	fast := notifier.Subscribe()
	defer notifier.Unsubscribe(fast)

	slow := notifier.Subscribe()
	defer notifier.Unsubscribe(slow)

	for i := 0; i < 20; i++ {
		notifier.Publish(&model.WithdrawalRequest{ID: uuid.New()})
	}

	// Both buffers cap at 16; nothing blocked and the fast reader still
	// drains what fits.
	assert.Len(t, fast, 16)
	assert.Len(t, slow, 16)
}
