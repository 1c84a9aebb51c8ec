package usecase

import (
	"context"
	"testing"
	"time"

	"neuropharm-backend/internal/testutil"
)

func TestUpstreamBeginBoundsTransaction(t *testing.T) {
	db := testutil.NewDB(t)

	start := time.Now()
	tx, cancel := upstream{timeout: time.Second}.begin(context.Background(), db)
	defer cancel()
	defer tx.Rollback()

	if tx.Error != nil {
		t.Fatalf("begin: %v", tx.Error)
	}
	deadline, ok := tx.Statement.Context.Deadline()
	if !ok {
		t.Fatal("transaction context has no deadline")
	}
	if deadline.After(start.Add(2 * time.Second)) {
		t.Fatalf("deadline %v exceeds the timeout", deadline)
	}
}

func TestUpstreamCallWithoutTimeout(t *testing.T) {
	ctx, cancel := upstream{}.call(context.Background())
	defer cancel()

	if _, ok := ctx.Deadline(); ok {
		t.Fatal("a zero timeout should not add a deadline")
	}
}
