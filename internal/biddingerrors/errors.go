package biddingerrors

import "errors"

// Repository-level errors
var (
	ErrItemNotFound = errors.New("item not found")
	ErrUserNotFound = errors.New("user not found")
	ErrStore        = errors.New("store failure")
)

// business logic errors
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrConflict          = errors.New("user name already exists")
	ErrInvalidBid        = errors.New("bid must exceed current highest bid")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// auction lifecycle errors
var (
	ErrAuctionClosed = errors.New("auction is closed")
	ErrAlreadyOpen   = errors.New("auction is already open")
	ErrAlreadyClosed = errors.New("auction is already closed")
)
