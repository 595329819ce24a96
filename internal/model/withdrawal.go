package model

import (
	"time"

	"github.com/google/uuid"
)

type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "pending"
	WithdrawalApproved WithdrawalStatus = "approved"
	WithdrawalRejected WithdrawalStatus = "rejected"
)

type WithdrawalRequest struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	UserName      string
	Amount        int
	PaymentHandle string
	Status        WithdrawalStatus
	CreatedAt     time.Time
}
