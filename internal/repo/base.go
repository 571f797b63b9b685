// Package repo holds the shared foundation domain repositories embed.
package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base binds a GORM connection and hands out context-scoped sessions. The
// favorites and users repositories embed it rather than holding *gorm.DB
// directly.
type Base struct {
	conn *gorm.DB
}

// NewBase wraps the provided connection.
func NewBase(conn *gorm.DB) Base {
	return Base{conn: conn}
}

// DB returns the connection scoped to ctx. A nil ctx yields the raw
// connection.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.conn
	}
	return b.conn.WithContext(ctx)
}
