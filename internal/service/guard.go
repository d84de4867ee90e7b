package service

import (
	"campuscoin-ledger/internal/core/domain"
	"campuscoin-ledger/pkg/apperror"
)

// AccessGuard is the single-admin authorization check used by all
// privileged operations. The admin identity is fixed at genesis.
type AccessGuard struct {
	admin domain.Address
}

// NewAccessGuard creates a guard for the given admin address.
func NewAccessGuard(admin domain.Address) AccessGuard {
	return AccessGuard{admin: admin}
}

// RequireAdmin fails unless caller is the admin.
func (g AccessGuard) RequireAdmin(caller domain.Address) error {
	if caller != g.admin {
		return apperror.ErrUnauthorized()
	}
	return nil
}

// Admin returns the admin address.
func (g AccessGuard) Admin() domain.Address {
	return g.admin
}
