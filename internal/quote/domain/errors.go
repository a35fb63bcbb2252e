package domain

import "errors"

var (
	ErrNotFound            = errors.New("quote_not_found")
	ErrInvalidQuote        = errors.New("invalid_quote")
	ErrInvalidQuoteID      = errors.New("invalid_quote_id")
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidTransition   = errors.New("invalid_status_transition")
)
