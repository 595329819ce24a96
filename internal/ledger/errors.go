package ledger

import "errors"

var (
	ErrUnknownLink       = errors.New("unknown link index")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrBelowMinimum      = errors.New("amount below minimum withdrawal")

	ErrInvalidStateTransition = errors.New("withdrawal request is not pending")
	ErrInvalidDecision        = errors.New("invalid resolution decision")

	ErrUnknownPolicy = errors.New("unknown referral policy")
)
