package database

import (
	"context"

	"gorm.io/gorm"
)

// Handle is a store handle with an explicit privilege scope. Ledger writes
// accept a Handle so call sites show whether they run on behalf of a user
// or from a trusted server-to-server callback.
type Handle interface {
	DB() *gorm.DB
	Privilege() string
}

// Scoped is bound to one authenticated request.
type Scoped struct {
	db     *gorm.DB
	UserID string
}

func NewScoped(db *gorm.DB, userID string) Scoped {
	return Scoped{db: db, UserID: userID}
}

func (s Scoped) DB() *gorm.DB      { return s.db }
func (s Scoped) Privilege() string { return "user" }

// Elevated bypasses per-user authorization. Only the payment webhook path
// constructs one.
type Elevated struct {
	db *gorm.DB
}

func NewElevated(db *gorm.DB) Elevated {
	return Elevated{db: db}
}

func (e Elevated) DB() *gorm.DB      { return e.db }
func (e Elevated) Privilege() string { return "elevated" }

// WithContext returns a copy of the elevated handle bound to ctx.
func (e Elevated) WithContext(ctx context.Context) Elevated {
	return Elevated{db: e.db.WithContext(ctx)}
}
