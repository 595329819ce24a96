package service

import (
	"context"
	"errors"

	"clickwin_backend/internal/ledger"
	"clickwin_backend/internal/model"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrLinkNotFound       = errors.New("link not found")
	ErrRequestNotFound    = errors.New("withdrawal request not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Service struct {
	*UserService
	*LinkService
	*WithdrawalService
}

func NewService(userService *UserService, linkService *LinkService, withdrawalService *WithdrawalService) *Service {
	return &Service{
		UserService:       userService,
		LinkService:       linkService,
		WithdrawalService: withdrawalService,
	}
}

type RegisterInput struct {
	Name        string
	Phone       string
	Email       string
	Password    string
	Fingerprint string
	ReferrerID  *uuid.UUID
}

type UserServiceI interface {
	Register(ctx context.Context, input RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (uuid.UUID, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*model.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, userID uuid.UUID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
}

type LinkServiceI interface {
	ListLinks(ctx context.Context) ([]*model.Link, error)
	CreateLink(ctx context.Context, link *model.Link) error
	VisitLink(ctx context.Context, userID uuid.UUID, linkIndex int) (*model.VisitResult, error)
}

type LinkRepository interface {
	ListLinks(ctx context.Context) ([]*model.Link, error)
	CreateLink(ctx context.Context, link *model.Link) error
	VisitLink(ctx context.Context, userID uuid.UUID, linkIndex int) (*model.VisitResult, error)
}

type WithdrawalServiceI interface {
	RequestWithdrawal(ctx context.Context, userID uuid.UUID, amount int, paymentHandle, password string) (*model.WithdrawalRequest, error)
	ResolveWithdrawal(ctx context.Context, requestID uuid.UUID, decision ledger.Decision) (*model.WithdrawalRequest, error)
	GetWithdrawalHistory(ctx context.Context, userID uuid.UUID) ([]*model.WithdrawalRequest, error)
	ListPendingWithdrawals(ctx context.Context) ([]*model.WithdrawalRequest, error)
	GetDailyStatistics(ctx context.Context, days int) ([]*model.DailyStatistics, error)
}

type WithdrawalRepository interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (*model.User, error)
	CreateWithdrawal(ctx context.Context, userID uuid.UUID, amount int, paymentHandle string) (*model.WithdrawalRequest, error)
	ResolveWithdrawal(ctx context.Context, requestID uuid.UUID, decision ledger.Decision) (*model.WithdrawalRequest, error)
	GetWithdrawalsByUser(ctx context.Context, userID uuid.UUID) ([]*model.WithdrawalRequest, error)
	ListPendingWithdrawals(ctx context.Context) ([]*model.WithdrawalRequest, error)
	GetDailyStatistics(ctx context.Context, days int) ([]*model.DailyStatistics, error)
}
