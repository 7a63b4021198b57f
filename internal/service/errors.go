package service

import "errors"

// Pipeline failure kinds
var (
	// ErrGraphUnavailable means the knowledge graph cannot be parsed or queried
	ErrGraphUnavailable = errors.New("knowledge graph unavailable")
	// ErrMarketUnavailable means the listings store failed; callers degrade to no market data
	ErrMarketUnavailable = errors.New("market data unavailable")
	// ErrGeneratorFailure covers non-success responses and transport errors from the generator
	ErrGeneratorFailure = errors.New("generator failure")
	// ErrMissingCredential means the generator key is not configured
	ErrMissingCredential = errors.New("generator credential missing")
)

// ErrEmptyMessage is returned for blank chat messages
var ErrEmptyMessage = errors.New("message is empty")
