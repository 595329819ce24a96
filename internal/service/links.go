package service

import (
	"context"
	"errors"
	"fmt"

	"clickwin_backend/internal/model"
	"clickwin_backend/internal/repository"

	"github.com/google/uuid"
)

type LinkService struct {
	repo LinkRepository
}

func NewLinkService(repo LinkRepository) *LinkService {
	return &LinkService{
		repo: repo,
	}
}

func (s *LinkService) ListLinks(ctx context.Context) ([]*model.Link, error) {
	links, err := s.repo.ListLinks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	return links, nil
}

func (s *LinkService) CreateLink(ctx context.Context, link *model.Link) error {
	if link.Index < 0 {
		return fmt.Errorf("link index must be non-negative")
	}
	if link.URL == "" {
		return fmt.Errorf("link url is required")
	}
	return s.repo.CreateLink(ctx, link)
}

func (s *LinkService) VisitLink(ctx context.Context, userID uuid.UUID, linkIndex int) (*model.VisitResult, error) {
	result, err := s.repo.VisitLink(ctx, userID, linkIndex)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrLinkNotFound):
			return nil, ErrLinkNotFound
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		default:
			return nil, fmt.Errorf("failed to visit link: %w", err)
		}
	}
	return result, nil
}
