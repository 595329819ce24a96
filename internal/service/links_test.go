package service

import (
	"context"
	"testing"
	"time"

	"clickwin_backend/internal/model"
	"clickwin_backend/internal/repository"
	"clickwin_backend/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestLinkService_VisitLink(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name          string
		linkIndex     int
		mockSetup     func(mockRepo *mocks.MockLinkRepository)
		expectedCoins int
		expectedError error
	}{
		{
			name:      "Successful visit",
			linkIndex: 2,
			mockSetup: func(mockRepo *mocks.MockLinkRepository) {
				mockRepo.On("VisitLink", mock.Anything, userID, 2).
					Return(&model.VisitResult{
						Coins: 30,
						VisitedLinks: model.VisitRecord{
							0: time.Now().UTC(),
							1: time.Now().UTC(),
							2: time.Now().UTC(),
						},
					}, nil)
			},
			expectedCoins: 30,
		},
		{
			name:      "Unknown link",
			linkIndex: 99,
			mockSetup: func(mockRepo *mocks.MockLinkRepository) {
				mockRepo.On("VisitLink", mock.Anything, userID, 99).
					Return(nil, repository.ErrLinkNotFound)
			},
			expectedError: ErrLinkNotFound,
		},
		{
			name:      "Unknown user",
			linkIndex: 0,
			mockSetup: func(mockRepo *mocks.MockLinkRepository) {
				mockRepo.On("VisitLink", mock.Anything, userID, 0).
					Return(nil, repository.ErrNotFound)
			},
			expectedError: ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockLinkRepository{}
			service := NewLinkService(mockRepo)

			tt.mockSetup(mockRepo)

			result, err := service.VisitLink(context.Background(), userID, tt.linkIndex)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedCoins, result.Coins)
				assert.Contains(t, result.VisitedLinks, tt.linkIndex)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestLinkService_CreateLink(t *testing.T) {
	mockRepo := &mocks.MockLinkRepository{}
	service := NewLinkService(mockRepo)

	err := service.CreateLink(context.Background(), &model.Link{Index: -1, URL: "https://example.com"})
	assert.Error(t, err)

	err = service.CreateLink(context.Background(), &model.Link{Index: 0})
	assert.Error(t, err)

	mockRepo.On("CreateLink", mock.Anything, mock.Anything).Return(nil)
	err = service.CreateLink(context.Background(), &model.Link{Index: 0, URL: "https://example.com"})
	assert.NoError(t, err)

	mockRepo.AssertExpectations(t)
}
