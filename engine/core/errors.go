package core

import (
	"errors"
)

var (
	ErrInvalidSourceDir = errors.New("source is not a readable directory")
	ErrNoAssets         = errors.New("no png assets found")
	ErrDuplicateName    = errors.New("duplicate atlas item name")
	ErrDecodeFailed     = errors.New("image decode failed")
	ErrMalformedLine    = errors.New("malformed metadata line")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrInvalidManifest  = errors.New("invalid manifest")
	ErrOverlap          = errors.New("atlas regions overlap")
	ErrUnknown          = errors.New("unknown")
)
