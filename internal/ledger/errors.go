package ledger

import "errors"

var (
	ErrInvalidAmount    = errors.New("share amount must not be negative")
	ErrInvalidPrice     = errors.New("price per share must be positive")
	ErrInvalidArguments = errors.New("amount and price are mutually exclusive")
	ErrSymbolNotFound   = errors.New("symbol not found in portfolio")
	ErrPriceUnavailable = errors.New("price unavailable")
)
