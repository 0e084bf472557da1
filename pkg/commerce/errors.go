package commerce

import "errors"

var (
	// ErrInvalidConfig is returned when the client configuration is incomplete
	ErrInvalidConfig = errors.New("invalid commerce client config")

	// ErrInvalidProductID is returned for a blank product id
	ErrInvalidProductID = errors.New("invalid product id")

	// ErrProductNotFound is returned when the backend has no such product
	ErrProductNotFound = errors.New("product not found")

	// ErrUnauthorized is returned when the API key is rejected
	ErrUnauthorized = errors.New("unauthorized: invalid API key")

	// ErrNetworkError is returned when there's a network communication error
	ErrNetworkError = errors.New("network error")

	// ErrUnexpectedResponse is returned for any other non-200 status or an unreadable body
	ErrUnexpectedResponse = errors.New("unexpected commerce response")
)
