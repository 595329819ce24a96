package service

import (
	"context"
	"testing"

	"clickwin_backend/internal/model"
	"clickwin_backend/internal/repository"
	"clickwin_backend/internal/service/mocks"
	"clickwin_backend/pkg/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestUserService_Register(t *testing.T) {
	mockRepo := &mocks.MockUserRepository{}
	service := NewUserService(mockRepo)

	tests := []struct {
		name          string
		input         RegisterInput
		mockSetup     func()
		expectedError error
	}{
		{
			name: "Successful registration hashes the password",
			input: RegisterInput{
				Name:        "asha",
				Phone:       "9900112233",
				Email:       "asha@example.com",
				Password:    "hunter2hunter2",
				Fingerprint: "203.0.113.9",
			},
			mockSetup: func() {
				mockRepo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
					return u.Email == "asha@example.com" &&
						u.PasswordHash != "hunter2hunter2" &&
						auth.CheckPassword(u.PasswordHash, "hunter2hunter2") &&
						u.Coins == 0
				})).Return(nil)
			},
		},
		{
			name: "Duplicate email surfaces conflict",
			input: RegisterInput{
				Name:        "asha",
				Phone:       "9900112234",
				Email:       "asha@example.com",
				Password:    "hunter2hunter2",
				Fingerprint: "203.0.113.10",
			},
			mockSetup: func() {
				mockRepo.On("CreateUser", mock.Anything, mock.Anything).
					Return(repository.ErrEmailTaken)
			},
			expectedError: repository.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.ExpectedCalls = nil
			mockRepo.Calls = nil

			tt.mockSetup()

			user, err := service.Register(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.NotEqual(t, uuid.Nil, user.ID)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_Login(t *testing.T) {
	mockRepo := &mocks.MockUserRepository{}
	service := NewUserService(mockRepo)

	hash, err := auth.HashPassword("correct-horse")
	assert.NoError(t, err)

	userID := uuid.New()
	stored := &model.User{
		ID:           userID,
		Email:        "asha@example.com",
		PasswordHash: hash,
	}

	tests := []struct {
		name          string
		email         string
		password      string
		mockSetup     func()
		expectedID    uuid.UUID
		expectedError error
	}{
		{
			name:     "Valid credentials",
			email:    "asha@example.com",
			password: "correct-horse",
			mockSetup: func() {
				mockRepo.On("GetUserByEmail", mock.Anything, "asha@example.com").
					Return(stored, nil)
			},
			expectedID: userID,
		},
		{
			name:     "Wrong password",
			email:    "asha@example.com",
			password: "battery-staple",
			mockSetup: func() {
				mockRepo.On("GetUserByEmail", mock.Anything, "asha@example.com").
					Return(stored, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "Unknown email maps to invalid credentials",
			email:    "nobody@example.com",
			password: "correct-horse",
			mockSetup: func() {
				mockRepo.On("GetUserByEmail", mock.Anything, "nobody@example.com").
					Return(nil, repository.ErrNotFound)
			},
			expectedError: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.ExpectedCalls = nil
			mockRepo.Calls = nil

			tt.mockSetup()

			id, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedID, id)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_GetProfile(t *testing.T) {
	mockRepo := &mocks.MockUserRepository{}
	service := NewUserService(mockRepo)

	userID := uuid.New()

	mockRepo.On("GetProfile", mock.Anything, userID).
		Return(&model.Profile{
			UserID:        userID,
			Name:          "asha",
			Coins:         120,
			ReferralCoins: 50,
			Referrals:     []string{"ravi"},
		}, nil)

	profile, err := service.GetProfile(context.Background(), userID)
	assert.NoError(t, err)
	assert.Equal(t, 120, profile.Coins)
	assert.Equal(t, []string{"ravi"}, profile.Referrals)

	mockRepo.On("GetProfile", mock.Anything, mock.Anything).
		Return(nil, repository.ErrNotFound)

	_, err = service.GetProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)

	mockRepo.AssertExpectations(t)
}
