package sentinel

import "errors"

// Infrastructure facts returned (optionally wrapped) by stores, search indexes
// and revocation lists. Services translate them into pkg/domain-errors codes.
//
//   - ErrNotFound: no record under the requested key
//   - ErrConflict: a record already exists under the key (create-only writes)
//   - ErrInvalidState: the record cannot take the requested transition
//   - ErrUnavailable: the backend is unreachable or its circuit is open
//   - ErrExpired: a signed token or credential is past its expiry
//
// Input validation failures never use these; see pkg/domain-errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrExpired      = errors.New("expired")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
