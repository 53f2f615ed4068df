package repositories

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/vendorhub/vendorhub/internal/db/models"
)

var paymentCols = []string{
	"id", "vendor_id", "gateway_order_id", "gateway_payment_id",
	"amount_minor", "currency", "plan", "status", "created_at",
}

func newPaymentRepo(t *testing.T) (*PaymentRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPaymentRepository(sqlx.NewDb(db, "postgres")), mock
}

func TestPaymentCreateIfAbsent_Inserts(t *testing.T) {
	repo, mock := newPaymentRepo(t)
	mock.ExpectExec("INSERT INTO payments.*ON CONFLICT").
		WillReturnResult(sqlmock.NewResult(0, 1))

	payment := &models.Payment{
		VendorID:         "vendor-1",
		GatewayOrderID:   "order_abc",
		GatewayPaymentID: "pay_xyz",
		AmountMinor:      49900,
		Currency:         "INR",
		Plan:             "gold",
		Status:           "captured",
	}
	inserted, err := repo.CreateIfAbsent(context.Background(), payment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !inserted {
		t.Error("expected insert on first callback")
	}
	if payment.ID == "" {
		t.Error("expected server-generated ID")
	}
}

func TestPaymentCreateIfAbsent_Replay(t *testing.T) {
	repo, mock := newPaymentRepo(t)
	// ON CONFLICT DO NOTHING reports zero rows affected for a replay
	mock.ExpectExec("INSERT INTO payments.*ON CONFLICT").
		WillReturnResult(sqlmock.NewResult(0, 0))

	payment := &models.Payment{
		VendorID:         "vendor-1",
		GatewayOrderID:   "order_abc",
		GatewayPaymentID: "pay_xyz",
		AmountMinor:      49900,
	}
	inserted, err := repo.CreateIfAbsent(context.Background(), payment)
	if err != nil {
		t.Fatalf("replay must not error: %v", err)
	}
	if inserted {
		t.Error("replay must not report an insert")
	}
}

func TestPaymentGetByGatewayPaymentID_NotFound(t *testing.T) {
	repo, mock := newPaymentRepo(t)
	mock.ExpectQuery("SELECT.*FROM payments.*WHERE gateway_payment_id").
		WithArgs("pay_missing").
		WillReturnRows(sqlmock.NewRows(paymentCols))

	payment, err := repo.GetByGatewayPaymentID(context.Background(), "pay_missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment != nil {
		t.Errorf("expected nil payment, got %v", payment)
	}
}

func TestPaymentList(t *testing.T) {
	repo, mock := newPaymentRepo(t)
	mock.ExpectQuery("SELECT.*FROM payments.*ORDER BY created_at DESC").
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows(paymentCols).
			AddRow("pay-1", "vendor-1", "order_a", "gw_a", int64(49900), "INR", "gold", "captured", time.Now()))

	payments, err := repo.List(context.Background(), "", 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(payments) != 1 || payments[0].AmountMinor != 49900 {
		t.Errorf("payments = %v", payments)
	}
}

func TestPaymentSumAmount(t *testing.T) {
	repo, mock := newPaymentRepo(t)
	mock.ExpectQuery("SELECT COALESCE\\(SUM").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(int64(149700)))

	total, err := repo.SumAmount(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 149700 {
		t.Errorf("total = %d, want 149700", total)
	}
}

// ---------------------------------------------------------------------------
// StatusAuditRepository
// ---------------------------------------------------------------------------

func newAuditRepo(t *testing.T) (*StatusAuditRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStatusAuditRepository(sqlx.NewDb(db, "postgres")), mock
}

func TestStatusAuditRecord(t *testing.T) {
	repo, mock := newAuditRepo(t)
	mock.ExpectExec("INSERT INTO vendor_status_audit").
		WillReturnResult(sqlmock.NewResult(0, 1))

	entry := &models.VendorStatusAudit{
		VendorID:   "vendor-1",
		FromStatus: "pending",
		ToStatus:   "approved",
		ActorID:    "admin-1",
	}
	if err := repo.Record(context.Background(), entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.ID == "" {
		t.Error("expected server-generated ID")
	}
}

func TestStatusAuditListByVendor(t *testing.T) {
	repo, mock := newAuditRepo(t)
	auditCols := []string{"id", "vendor_id", "from_status", "to_status", "actor_id", "created_at"}
	mock.ExpectQuery("SELECT.*FROM vendor_status_audit.*WHERE vendor_id").
		WithArgs("vendor-1", 20, 0).
		WillReturnRows(sqlmock.NewRows(auditCols).
			AddRow("a-2", "vendor-1", "approved", "rejected", "admin-1", time.Now()).
			AddRow("a-1", "vendor-1", "pending", "approved", "admin-1", time.Now().Add(-time.Hour)))

	entries, err := repo.ListByVendor(context.Background(), "vendor-1", 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ToStatus != "rejected" {
		t.Errorf("newest entry ToStatus = %s, want rejected", entries[0].ToStatus)
	}
}
