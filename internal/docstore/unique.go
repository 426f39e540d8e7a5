package docstore

import (
	"context"
	"errors"
	"strings"

	"jobgate/pkg/platform/sentinel"
)

// Unique enforces a unique secondary field (an email, a DID) by reserving
// each value as a key in its own collection. Values are trimmed; they are
// compared case-sensitively unless the Unique is built with CaseInsensitive.
type Unique struct {
	refs     Collection[string]
	foldCase bool
}

type UniqueOption func(*Unique)

// CaseInsensitive folds values to lower case before reserving them. Use it
// for emails, never for DIDs, whose method-specific ids are case-sensitive.
func CaseInsensitive() UniqueOption {
	return func(u *Unique) { u.foldCase = true }
}

func NewUnique(refs Collection[string], opts ...UniqueOption) *Unique {
	u := &Unique{refs: refs}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Reserve claims value for owner. It returns sentinel.ErrConflict when
// another owner holds it; re-reserving for the same owner is a no-op.
func (u *Unique) Reserve(ctx context.Context, value, owner string) error {
	key := u.normalize(value)
	err := u.refs.Create(ctx, key, owner)
	if !errors.Is(err, sentinel.ErrConflict) {
		return err
	}
	holder, getErr := u.refs.Get(ctx, key)
	if getErr == nil && holder == owner {
		return nil
	}
	return err
}

// Release frees value. Releasing an unknown value is not an error.
func (u *Unique) Release(ctx context.Context, value string) error {
	err := u.refs.Delete(ctx, u.normalize(value))
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil
	}
	return err
}

// Owner returns who holds value, or sentinel.ErrNotFound.
func (u *Unique) Owner(ctx context.Context, value string) (string, error) {
	return u.refs.Get(ctx, u.normalize(value))
}

func (u *Unique) normalize(value string) string {
	value = strings.TrimSpace(value)
	if u.foldCase {
		return strings.ToLower(value)
	}
	return value
}
