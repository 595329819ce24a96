package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID            uuid.UUID
	Name          string
	Phone         string
	Email         string
	PasswordHash  string
	Fingerprint   string
	Coins         int
	ReferralCoins int
	ReferrerID    *uuid.UUID
	IsAdmin       bool
	RegisteredAt  time.Time
}

// VisitRecord maps link index to the time the reward was claimed.
// Key existence is the "already claimed" check.
type VisitRecord map[int]time.Time

type Profile struct {
	UserID        uuid.UUID
	Name          string
	Coins         int
	VisitedLinks  VisitRecord
	ReferralCoins int
	Referrals     []string
}

type VisitResult struct {
	Coins        int
	VisitedLinks VisitRecord
}
