package repo

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestConn(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	return conn
}

func TestBaseKeepsConnection(t *testing.T) {
	conn := openTestConn(t)
	base := NewBase(conn)

	if base.conn != conn {
		t.Fatal("expected base to hold the provided connection")
	}
	if got := base.DB(nil); got != conn {
		t.Fatal("expected nil context to return the raw connection")
	}
}

func TestBaseDBScopesContext(t *testing.T) {
	base := NewBase(openTestConn(t))

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	scoped := base.DB(ctx)

	if scoped == nil || scoped.Statement == nil {
		t.Fatal("expected a context-scoped session")
	}
	if scoped.Statement.Context != ctx {
		t.Fatalf("expected context to flow through, got %v", scoped.Statement.Context)
	}
}
