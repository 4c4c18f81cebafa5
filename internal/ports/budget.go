package ports

import "time"

// GrantHandle identifies one issued execution grant. Zero is never issued.
type GrantHandle uint64

type BudgetHost interface {
	// RequestGrant asks the host for a time-bounded execution grant. onExpire
	// fires when the host revokes the grant on its own.
	RequestGrant(name string, onExpire func()) (GrantHandle, error)
	Release(h GrantHandle)
	Remaining() time.Duration
}
