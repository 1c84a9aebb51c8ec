package testutil

import (
	"errors"
	"sync"
	"testing"

	"gorm.io/gorm"
)

// UnboundedStatements watches db and returns a func listing every statement,
// as "op:table", that reached the driver without a context deadline.
func UnboundedStatements(t *testing.T, db *gorm.DB) func() []string {
	t.Helper()

	var (
		mu      sync.Mutex
		missing []string
	)
	watch := func(op string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			if _, ok := tx.Statement.Context.Deadline(); ok {
				return
			}
			mu.Lock()
			missing = append(missing, op+":"+tx.Statement.Table)
			mu.Unlock()
		}
	}

	cb := db.Callback()
	if err := errors.Join(
		cb.Create().After("gorm:create").Register("testutil:deadline", watch("create")),
		cb.Query().After("gorm:query").Register("testutil:deadline", watch("query")),
		cb.Update().After("gorm:update").Register("testutil:deadline", watch("update")),
		cb.Delete().After("gorm:delete").Register("testutil:deadline", watch("delete")),
	); err != nil {
		t.Fatalf("register deadline watch: %v", err)
	}

	return func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), missing...)
	}
}
