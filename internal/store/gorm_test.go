package store

import (
	"path/filepath"
	"sort"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupSQLiteProvider opens a throwaway sqlite database for testing; in
// production the provider runs on postgres.
func setupSQLiteProvider(t *testing.T) *GormProvider {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "kv.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	p, err := NewGormProvider(db)
	if err != nil {
		t.Fatalf("NewGormProvider failed: %v", err)
	}
	return p
}

func TestGormProviderUpsert(t *testing.T) {
	p := setupSQLiteProvider(t)
	defer p.Close()

	if err := p.Set("mirror:alice", []byte("bob")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	// Overwrite must not violate the primary key.
	if err := p.Set("mirror:alice", []byte("carol")); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	val, ok, err := p.Get("mirror:alice")
	if err != nil || !ok {
		t.Fatalf("Get = (%v, %v)", ok, err)
	}
	if string(val) != "carol" {
		t.Fatalf("Get value = %q, want carol", val)
	}
}

func TestGormProviderListPrefix(t *testing.T) {
	p := setupSQLiteProvider(t)
	defer p.Close()

	p.Set("enabled:alice", []byte("true"))
	p.Set("enabled:bob", []byte("true"))
	p.Set("session:alice", []byte("sess"))

	keys, err := p.List("enabled:")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "enabled:alice" || keys[1] != "enabled:bob" {
		t.Fatalf("List = %v", keys)
	}
}
