//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"testing"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/constants"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	all := models.AllModels()
	_ = db.Migrator().DropTable(all...)
	if err := db.AutoMigrate(all...); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(all...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestPostgresAffiliateKeywordSearch(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	createRepoTestAffiliate(t, db, "Pg.Owner@example.com", "PGCODE01")
	createRepoTestAffiliate(t, db, "other@example.com", "OTHER001")

	repo := NewAffiliateRepository(db)
	rows, total, err := repo.List(AffiliateListFilter{Page: 1, PageSize: 20, Keyword: "pg.owner"})
	if err != nil {
		t.Fatalf("list affiliates failed: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].Code != "PGCODE01" {
		t.Fatalf("ILIKE keyword search should match case-insensitively, got total=%d rows=%+v", total, rows)
	}
}

func TestPostgresAuditLogDetailSearch(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewAuditLogRepository(db)

	logs := []models.AffiliateAuditLog{
		{
			OperatorAdminID:  1,
			OperatorUsername: "finance",
			Action:           constants.AuditActionPayoutReject,
			TargetType:       constants.AuditTargetPayout,
			TargetID:         9,
			DetailJSON:       models.JSON{"reason": "Duplicate Account"},
		},
		{
			OperatorAdminID:  1,
			OperatorUsername: "finance",
			Action:           constants.AuditActionCommissionRefund,
			TargetType:       constants.AuditTargetReferral,
			TargetID:         3,
			DetailJSON:       models.JSON{"referenceId": "pi_123"},
		},
	}
	for i := range logs {
		if err := repo.Create(&logs[i]); err != nil {
			t.Fatalf("create audit log failed: %v", err)
		}
	}

	rows, total, err := repo.List(AuditLogListFilter{Page: 1, PageSize: 20, Keyword: "duplicate"})
	if err != nil {
		t.Fatalf("list audit logs failed: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].TargetID != 9 {
		t.Fatalf("jsonb detail search mismatch: total=%d rows=%+v", total, rows)
	}
}

func TestPostgresLedgerSourceKeyIsUnique(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	affiliate := createRepoTestAffiliate(t, db, "ledger-pg@example.com", "LEDGERPG")
	repo := NewLedgerRepository(db)

	entry := models.AffiliateLedgerEntry{
		AffiliateID: affiliate.ID,
		EntryType:   constants.LedgerEntryCommissionCredit,
		SourceKey:   "referral:1",
		Amount:      500,
	}
	if err := repo.Append(&entry); err != nil {
		t.Fatalf("append ledger entry failed: %v", err)
	}
	dup := entry
	dup.ID = 0
	if err := repo.Append(&dup); err == nil {
		t.Fatalf("duplicate (entry_type, source_key) should be rejected")
	}
	sum, err := repo.SumByAffiliate(affiliate.ID)
	if err != nil {
		t.Fatalf("sum ledger failed: %v", err)
	}
	if sum != 500 {
		t.Fatalf("sum want 500 got %d", sum)
	}
}
