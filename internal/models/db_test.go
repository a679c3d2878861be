package models

import (
	"fmt"
	"testing"
	"time"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/config"

	"golang.org/x/crypto/bcrypt"
)

func TestWithSQLitePragmas(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "affiliate.db", want: "affiliate.db?_pragma=busy_timeout(5000)"},
		{in: "file:x?mode=memory", want: "file:x?mode=memory&_pragma=busy_timeout(5000)"},
		{in: "x.db?_pragma=journal_mode(WAL)", want: "x.db?_pragma=journal_mode(WAL)"},
	}
	for _, tt := range tests {
		if got := withSQLitePragmas(tt.in); got != tt.want {
			t.Fatalf("withSQLitePragmas(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(config.DatabaseConfig{Driver: "mysql"}); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

func TestEnsureDefaultAdmin(t *testing.T) {
	db, err := Open(config.DatabaseConfig{
		DSN: fmt.Sprintf("file:models_admin_%d?mode=memory&cache=shared", time.Now().UnixNano()),
	})
	if err != nil {
		t.Fatalf("open db failed: %v", err)
	}
	if err := MigrateDB(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	created, err := EnsureDefaultAdmin(db, "  root  ", "S3cure-pass!")
	if err != nil || !created {
		t.Fatalf("expected admin created, got created=%v err=%v", created, err)
	}
	var admin Admin
	if err := db.Where("username = ?", "root").First(&admin).Error; err != nil {
		t.Fatalf("load admin failed: %v", err)
	}
	if !admin.IsSuper || bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("S3cure-pass!")) != nil {
		t.Fatalf("unexpected admin: %+v", admin)
	}

	created, err = EnsureDefaultAdmin(db, "other", "")
	if err != nil || created {
		t.Fatalf("second call should be a no-op, got created=%v err=%v", created, err)
	}
	if _, err := EnsureDefaultAdmin(nil, "", ""); err == nil {
		t.Fatalf("expected error for nil db")
	}
}
