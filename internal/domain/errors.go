// File: internal/domain/errors.go
package domain

import "errors"

// Authorization outcomes are part of the API contract: a missing entity
// and an entity owned by someone else must stay distinguishable (404 vs
// 403), and existence must leak only to the owner.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("access denied")
)
