package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/constants"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAffiliateRepositoryTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:affiliate_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func createRepoTestAffiliate(t *testing.T, db *gorm.DB, email, code string) models.Affiliate {
	t.Helper()
	user := models.User{
		Email:        email,
		PasswordHash: "hash",
		DisplayName:  email,
		Status:       constants.UserStatusActive,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	affiliate := models.Affiliate{
		UserID:         user.ID,
		Code:           code,
		CommissionRate: models.NewRateFromFloat(0.2),
		Tier:           1,
		Status:         constants.AffiliateStatusActive,
	}
	if err := db.Create(&affiliate).Error; err != nil {
		t.Fatalf("create affiliate failed: %v", err)
	}
	return affiliate
}

func TestAffiliateRepositoryGetByCodeIsCaseInsensitive(t *testing.T) {
	db := setupAffiliateRepositoryTest(t)
	repo := NewAffiliateRepository(db)
	created := createRepoTestAffiliate(t, db, "alpha_aff_repo@example.com", "ABC123")

	got, err := repo.GetByCode("  abc123 ")
	if err != nil {
		t.Fatalf("get by code failed: %v", err)
	}
	if got == nil || got.ID != created.ID {
		t.Fatalf("expected affiliate %d, got %+v", created.ID, got)
	}

	missing, err := repo.GetByCode("NOPE99")
	if err != nil {
		t.Fatalf("get missing code failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown code, got %+v", missing)
	}
}

func TestAffiliateRepositoryListKeywordAndStats(t *testing.T) {
	db := setupAffiliateRepositoryTest(t)
	repo := NewAffiliateRepository(db)
	alpha := createRepoTestAffiliate(t, db, "alpha_list@example.com", "ALPHA001")
	beta := createRepoTestAffiliate(t, db, "beta_list@example.com", "BETA0001")

	rows, total, err := repo.List(AffiliateListFilter{Page: 1, PageSize: 10, Keyword: "alpha_list"})
	if err != nil {
		t.Fatalf("list affiliates failed: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].ID != alpha.ID {
		t.Fatalf("unexpected keyword result total=%d rows=%+v", total, rows)
	}
	if rows[0].User.Email != "alpha_list@example.com" {
		t.Fatalf("expected preloaded user, got %+v", rows[0].User)
	}

	now := time.Now()
	if err := repo.CreateClick(&models.AffiliateClick{AffiliateID: alpha.ID, VisitorKey: "v1", CreatedAt: now}); err != nil {
		t.Fatalf("create click failed: %v", err)
	}
	referrals := []models.Referral{
		{AffiliateID: alpha.ID, ReferredUserID: 901, Status: constants.ReferralStatusConverted, Commission: 500, Currency: "USD"},
		{AffiliateID: alpha.ID, ReferredUserID: 902, Status: constants.ReferralStatusCanceled, Currency: "USD"},
		{AffiliateID: beta.ID, ReferredUserID: 903, Status: constants.ReferralStatusPending, Currency: "USD"},
	}
	if err := db.Create(&referrals).Error; err != nil {
		t.Fatalf("create referrals failed: %v", err)
	}

	stats, err := repo.GetStatsBatch([]uint{alpha.ID, beta.ID})
	if err != nil {
		t.Fatalf("stats batch failed: %v", err)
	}
	if got := stats[alpha.ID]; got.ClickCount != 1 || got.ReferralCount != 2 || got.ConvertedCount != 1 || got.CanceledCount != 1 || got.EarnedCommission != 500 {
		t.Fatalf("unexpected alpha stats: %+v", got)
	}
	if got := stats[beta.ID]; got.ReferralCount != 1 || got.EarnedCommission != 0 {
		t.Fatalf("unexpected beta stats: %+v", got)
	}

	recent, err := repo.HasRecentClick(alpha.ID, "v1", "", now.Add(-time.Minute))
	if err != nil {
		t.Fatalf("has recent click failed: %v", err)
	}
	if !recent {
		t.Fatalf("expected recent click to be found")
	}
}

func TestReferralRepositoryReferredUserIsUnique(t *testing.T) {
	db := setupAffiliateRepositoryTest(t)
	repo := NewReferralRepository(db)
	alpha := createRepoTestAffiliate(t, db, "alpha_unique@example.com", "UNIQ0001")
	beta := createRepoTestAffiliate(t, db, "beta_unique@example.com", "UNIQ0002")

	first := &models.Referral{AffiliateID: alpha.ID, ReferredUserID: 77, Status: constants.ReferralStatusPending, Currency: "USD"}
	if err := repo.Create(first); err != nil {
		t.Fatalf("create first referral failed: %v", err)
	}
	second := &models.Referral{AffiliateID: beta.ID, ReferredUserID: 77, Status: constants.ReferralStatusPending, Currency: "USD"}
	if err := repo.Create(second); err == nil {
		t.Fatalf("expected unique violation for second referral of same user")
	}

	got, err := repo.GetByReferredUserID(77)
	if err != nil {
		t.Fatalf("get referral failed: %v", err)
	}
	if got == nil || got.AffiliateID != alpha.ID {
		t.Fatalf("expected first writer to win, got %+v", got)
	}
}

func TestLedgerRepositorySumAndUniqueSource(t *testing.T) {
	db := setupAffiliateRepositoryTest(t)
	repo := NewLedgerRepository(db)
	alpha := createRepoTestAffiliate(t, db, "alpha_ledger@example.com", "LEDG0001")

	entries := []models.AffiliateLedgerEntry{
		{AffiliateID: alpha.ID, EntryType: constants.LedgerEntryCommissionCredit, SourceKey: "referral:1", Amount: 1500},
		{AffiliateID: alpha.ID, EntryType: constants.LedgerEntryPayoutHold, SourceKey: "payout:1", Amount: -400},
		{AffiliateID: alpha.ID, EntryType: constants.LedgerEntryCommissionReversal, SourceKey: "referral:1", Amount: -500},
	}
	for i := range entries {
		if err := repo.Append(&entries[i]); err != nil {
			t.Fatalf("append entry %d failed: %v", i, err)
		}
	}
	duplicate := models.AffiliateLedgerEntry{AffiliateID: alpha.ID, EntryType: constants.LedgerEntryCommissionCredit, SourceKey: "referral:1", Amount: 1500}
	if err := repo.Append(&duplicate); err == nil {
		t.Fatalf("expected duplicate ledger entry to be rejected")
	}

	sum, err := repo.SumByAffiliate(alpha.ID)
	if err != nil {
		t.Fatalf("sum ledger failed: %v", err)
	}
	if sum != 600 {
		t.Fatalf("expected balance 600, got %d", sum)
	}
	exists, err := repo.Exists(constants.LedgerEntryPayoutHold, "payout:1")
	if err != nil || !exists {
		t.Fatalf("expected hold entry to exist, exists=%v err=%v", exists, err)
	}
}

func TestPayoutRepositoryListByStatuses(t *testing.T) {
	db := setupAffiliateRepositoryTest(t)
	repo := NewPayoutRepository(db)
	alpha := createRepoTestAffiliate(t, db, "alpha_payout@example.com", "PAYO0001")

	payouts := []models.Payout{
		{Reference: "P-1", AffiliateID: alpha.ID, Amount: 100, Currency: "USD", Method: constants.PayoutMethodPaypal, Status: constants.PayoutStatusPending},
		{Reference: "P-2", AffiliateID: alpha.ID, Amount: 200, Currency: "USD", Method: constants.PayoutMethodStripe, Status: constants.PayoutStatusPaid},
		{Reference: "P-3", AffiliateID: alpha.ID, Amount: 300, Currency: "USD", Method: constants.PayoutMethodPaypal, Status: constants.PayoutStatusPending},
	}
	for i := range payouts {
		if err := repo.Create(&payouts[i]); err != nil {
			t.Fatalf("create payout %d failed: %v", i, err)
		}
	}

	rows, total, err := repo.List(PayoutListFilter{Statuses: []string{constants.PayoutStatusPending}})
	if err != nil {
		t.Fatalf("list payouts failed: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("expected 2 pending payouts, got total=%d len=%d", total, len(rows))
	}
	if rows[0].Reference != "P-1" || rows[1].Reference != "P-3" {
		t.Fatalf("expected oldest first, got %s,%s", rows[0].Reference, rows[1].Reference)
	}
	if rows[0].Affiliate == nil || rows[0].Affiliate.Code != "PAYO0001" {
		t.Fatalf("expected preloaded affiliate, got %+v", rows[0].Affiliate)
	}
}

func TestAuditLogRepositoryKeywordSearchesDetail(t *testing.T) {
	db := setupAffiliateRepositoryTest(t)
	repo := NewAuditLogRepository(db)

	logs := []models.AffiliateAuditLog{
		{OperatorAdminID: 1, OperatorUsername: "finance", Action: constants.AuditActionPayoutReject, TargetType: constants.AuditTargetPayout, TargetID: 9, DetailJSON: models.JSON{"reason": "duplicate account"}},
		{OperatorAdminID: 1, OperatorUsername: "finance", Action: constants.AuditActionPayoutProcess, TargetType: constants.AuditTargetPayout, TargetID: 10, DetailJSON: models.JSON{"providerRef": "tr_123"}},
	}
	for i := range logs {
		if err := repo.Create(&logs[i]); err != nil {
			t.Fatalf("create audit log %d failed: %v", i, err)
		}
	}

	rows, total, err := repo.List(AuditLogListFilter{Keyword: "duplicate"})
	if err != nil {
		t.Fatalf("list audit logs failed: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].TargetID != 9 {
		t.Fatalf("unexpected keyword result total=%d rows=%+v", total, rows)
	}
}
