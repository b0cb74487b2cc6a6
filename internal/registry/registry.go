package registry

import (
	"context"
	"errors"
)

var (
	ErrDuplicate  = errors.New("registry: context already registered")
	ErrInvalidKey = errors.New("registry: call id is required")
)

// Store maps a provider call id to the training context that launched it.
//
// Take is an atomic read+delete: replaying the same terminal event finds no
// entry the second time, which is what makes webhook handling idempotent.
type Store interface {
	Insert(ctx context.Context, cc CallContext) error
	Take(ctx context.Context, callID string) (CallContext, bool, error)
}
