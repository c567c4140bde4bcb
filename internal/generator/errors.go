// Package generator provides the text-generator collaborator used to obtain a percentage
// distribution for a scored race.
package generator

import "errors"

var (
	// ErrGeneratorUnavailable indicates the generator could not be reached
	ErrGeneratorUnavailable = errors.New("text generator unavailable")

	// ErrCircuitOpen indicates too many consecutive failures; requests are refused
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrUnauthorized indicates the API key was rejected
	ErrUnauthorized = errors.New("text generator rejected credentials")

	// ErrInvalidResponse indicates a response body that is not a chat completion
	ErrInvalidResponse = errors.New("invalid response from text generator")

	// ErrEmptyReply indicates a completion without any content
	ErrEmptyReply = errors.New("text generator returned an empty reply")

	// ErrNoEntrants indicates a prompt was requested for an empty race
	ErrNoEntrants = errors.New("no entrants to build a prompt from")
)
