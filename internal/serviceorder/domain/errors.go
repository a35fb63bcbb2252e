package domain

import "errors"

var (
	ErrNotFound            = errors.New("service_order_not_found")
	ErrInvalidOrder        = errors.New("invalid_service_order")
	ErrInvalidOrderID      = errors.New("invalid_service_order_id")
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidTransition   = errors.New("invalid_status_transition")
)
