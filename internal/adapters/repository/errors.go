package repository

import (
	"errors"
	"fmt"

	"github.com/okian/foundermatch/internal/domain/model"
)

// Sentinel kinds for profile store errors.
var (
	ErrNotFound        = fmt.Errorf("%w: profile not found", model.ErrInvalidProfile)
	ErrCorruptDocument = errors.New("profile document is corrupt")
	ErrReadDocument    = errors.New("read profile document")
	ErrWriteDocument   = errors.New("write profile document")
)
