package apperrors

import "github.com/pkg/errors"

var (
	// ErrInvalidArgument is returned when the request parameters are invalid.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoProviders is returned when no provider is eligible for the requested
	// token and chain combination.
	ErrNoProviders = errors.New("No dApps available")

	// ErrNoValidQuotes is returned when every candidate provider failed.
	ErrNoValidQuotes = errors.New("No valid quotes found.")

	// ErrTokenMetadata is returned when token metadata could not be resolved
	// from the cache nor from the chain.
	ErrTokenMetadata = errors.New("token metadata unavailable")

	// ErrNoEndpoint is returned when the resource pool has no client for the
	// requested chain or no outbound HTTP client at all.
	ErrNoEndpoint = errors.New("no endpoint available")

	// ErrGasEstimation is returned when the gas limit of a transaction could not be estimated.
	ErrGasEstimation = errors.New("gas estimation failed")

	// ErrProvider is returned when an upstream provider answers with a transport
	// or status error.
	ErrProvider = errors.New("provider request failed")

	// ErrMalformedQuote is returned when a provider answer lacks a required field.
	ErrMalformedQuote = errors.New("malformed quote")
)
