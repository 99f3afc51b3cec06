package domain

import "errors"

var (
	ErrOverlayNotFound     = errors.New("overlay not found")
	ErrStoreUnavailable    = errors.New("overlay store unavailable")
	ErrValidationRejected  = errors.New("overlay payload rejected by store")
	ErrCompressionFailed   = errors.New("image compression failed")
	ErrInvalidDragState    = errors.New("drag already in progress")
	ErrNoActiveDrag        = errors.New("no drag in progress")
	ErrSessionActive       = errors.New("edit session already open")
	ErrNoSession           = errors.New("no edit session open")
	ErrKindMismatch        = errors.New("content does not match overlay kind")
	ErrInvalidPlaybackRate = errors.New("playback rate not in allowed set")
)
