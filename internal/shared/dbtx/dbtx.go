// Package dbtx lets gorm repositories join a transaction that a service opened
// on the underlying *sql.DB.
package dbtx

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Bind returns a gorm handle for ctx whose statements run on tx. A nil tx
// returns db scoped to ctx. db itself is never modified.
func Bind(ctx context.Context, db *gorm.DB, tx *sql.Tx) *gorm.DB {
	if tx == nil {
		return db.WithContext(ctx)
	}
	// Setting Context makes Session clone the statement, so the pool swap
	// below stays local to the returned handle.
	session := db.Session(&gorm.Session{NewDB: true, Context: ctx})
	session.Statement.ConnPool = tx
	return session
}
