package models

import "errors"

// Custom errors
var (
	ErrEntrantNameRequired  = errors.New("entrant name is required")
	ErrInvalidStartNumber   = errors.New("start number must be a positive integer")
	ErrDuplicateStartNumber = errors.New("duplicate start number in race")
	ErrEmptyRace            = errors.New("race has no entrants")
)
