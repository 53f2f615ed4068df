package admin

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/vendorhub/vendorhub/internal/auth"
)

var (
	categoryCols = []string{"id", "name", "image_url", "created_at"}
	bannerCols   = []string{"id", "title", "image_url", "target_url", "position", "created_at"}
	adminCols    = []string{"id", "email", "password_hash", "name", "role", "created_at", "updated_at"}
	enquiryCols  = []string{"id", "name", "email", "phone", "message", "vendor_id", "created_at"}
	paymentCols  = []string{"id", "vendor_id", "gateway_order_id", "gateway_payment_id", "amount_minor", "currency", "plan", "status", "created_at"}
)

func newConsoleRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	mediaSvc, _ := newTestMedia(t)
	sqlxDB := sqlx.NewDb(db, "postgres")

	categories := NewCategoryHandlers(db, mediaSvc)
	banners := NewBannerHandlers(db, mediaSvc)
	enquiries := NewEnquiryHandlers(db)
	subadmins := NewSubadminHandlers(db)
	payments := NewPaymentAdminHandlers(sqlxDB)
	stats := NewStatsHandlers(db, sqlxDB)

	r := gin.New()
	grp := r.Group("/api/v1/admin", operatorSession("admin-1", auth.RoleAdmin))
	grp.POST("/categories", categories.CreateCategory)
	grp.PUT("/categories/:id", categories.UpdateCategory)
	grp.POST("/categories/:id/image", categories.UploadCategoryImage)
	grp.DELETE("/categories/:id", categories.DeleteCategory)
	grp.POST("/banners", banners.CreateBanner)
	grp.PUT("/banners/:id", banners.UpdateBanner)
	grp.POST("/banners/:id/image", banners.UploadBannerImage)
	grp.DELETE("/banners/:id", banners.DeleteBanner)
	grp.GET("/enquiries", enquiries.ListEnquiries)
	grp.DELETE("/enquiries/:id", enquiries.DeleteEnquiry)
	grp.GET("/subadmins", subadmins.ListSubadmins)
	grp.POST("/subadmins", subadmins.CreateSubadmin)
	grp.PUT("/subadmins/:id", subadmins.UpdateSubadmin)
	grp.DELETE("/subadmins/:id", subadmins.DeleteSubadmin)
	grp.GET("/payments", payments.ListPayments)
	grp.GET("/stats", stats.GetStats)
	return r, mock
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// multipartUpload builds a multipart body with a single "file" part.
func multipartUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()
	return body, mw.FormDataContentType()
}

// ---------------------------------------------------------------------------
// Categories
// ---------------------------------------------------------------------------

func TestCreateCategory(t *testing.T) {
	r, mock := newConsoleRouter(t)

	mock.ExpectExec(`INSERT INTO categories`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := doJSON(r, http.MethodPost, "/api/v1/admin/categories", map[string]string{"name": "Textiles"})

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"Textiles"`) {
		t.Errorf("expected category in response, got %s", w.Body.String())
	}
}

func TestCreateCategory_MissingName(t *testing.T) {
	r, _ := newConsoleRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/admin/categories", map[string]string{})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestUpdateCategory_NotFound(t *testing.T) {
	r, mock := newConsoleRouter(t)

	mock.ExpectQuery(`SELECT .* FROM categories WHERE id`).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(categoryCols))

	w := doJSON(r, http.MethodPut, "/api/v1/admin/categories/nope", map[string]string{"name": "Crafts"})

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestUploadCategoryImage(t *testing.T) {
	r, mock := newConsoleRouter(t)

	rows := sqlmock.NewRows(categoryCols).AddRow("c1", "Textiles", "", time.Now())
	mock.ExpectQuery(`SELECT .* FROM categories WHERE id`).
		WithArgs("c1").
		WillReturnRows(rows)
	mock.ExpectExec(`UPDATE categories`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	body, contentType := multipartUpload(t, "textiles.png", []byte("png bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/categories/c1/image", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "categories/") {
		t.Errorf("expected stored image URL in response, got %s", w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUploadCategoryImage_MissingFile(t *testing.T) {
	r, mock := newConsoleRouter(t)

	rows := sqlmock.NewRows(categoryCols).AddRow("c1", "Textiles", "", time.Now())
	mock.ExpectQuery(`SELECT .* FROM categories WHERE id`).
		WithArgs("c1").
		WillReturnRows(rows)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/categories/c1/image", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", w.Code, w.Body.String())
	}
}

func TestDeleteCategory(t *testing.T) {
	r, mock := newConsoleRouter(t)

	rows := sqlmock.NewRows(categoryCols).AddRow("c1", "Textiles", "", time.Now())
	mock.ExpectQuery(`SELECT .* FROM categories WHERE id`).
		WithArgs("c1").
		WillReturnRows(rows)
	mock.ExpectExec(`DELETE FROM categories`).
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/categories/c1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
}

// ---------------------------------------------------------------------------
// Banners
// ---------------------------------------------------------------------------

func TestCreateBanner(t *testing.T) {
	r, mock := newConsoleRouter(t)

	mock.ExpectExec(`INSERT INTO banners`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := doJSON(r, http.MethodPost, "/api/v1/admin/banners", map[string]interface{}{
		"title":      "Summer Sale",
		"target_url": "https://example.com/sale",
		"position":   1,
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", w.Code, w.Body.String())
	}
}

func TestUpdateBanner(t *testing.T) {
	r, mock := newConsoleRouter(t)

	rows := sqlmock.NewRows(bannerCols).AddRow("b1", "Old Title", "", "", 2, time.Now())
	mock.ExpectQuery(`SELECT .* FROM banners WHERE id`).
		WithArgs("b1").
		WillReturnRows(rows)
	mock.ExpectExec(`UPDATE banners`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := doJSON(r, http.MethodPut, "/api/v1/admin/banners/b1", map[string]interface{}{
		"title":    "New Title",
		"position": 1,
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"New Title"`) {
		t.Errorf("expected updated title, got %s", w.Body.String())
	}
}

func TestUploadBannerImage(t *testing.T) {
	r, mock := newConsoleRouter(t)

	rows := sqlmock.NewRows(bannerCols).AddRow("b1", "Summer Sale", "", "", 1, time.Now())
	mock.ExpectQuery(`SELECT .* FROM banners WHERE id`).
		WithArgs("b1").
		WillReturnRows(rows)
	mock.ExpectExec(`UPDATE banners`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	body, contentType := multipartUpload(t, "sale.png", []byte("png bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/banners/b1/image", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "banners/") {
		t.Errorf("expected stored image URL in response, got %s", w.Body.String())
	}
}

func TestDeleteBanner_NotFound(t *testing.T) {
	r, mock := newConsoleRouter(t)

	mock.ExpectQuery(`SELECT .* FROM banners WHERE id`).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(bannerCols))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/banners/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

// ---------------------------------------------------------------------------
// Enquiries
// ---------------------------------------------------------------------------

func TestListEnquiries(t *testing.T) {
	r, mock := newConsoleRouter(t)

	rows := sqlmock.NewRows(enquiryCols).
		AddRow("e1", "Asha", "asha@example.com", "", "Bulk order pricing?", nil, time.Now())
	mock.ExpectQuery(`SELECT .* FROM enquiries`).
		WithArgs(20, 0).
		WillReturnRows(rows)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/enquiries", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Bulk order pricing?") {
		t.Errorf("expected enquiry in response, got %s", w.Body.String())
	}
}

func TestDeleteEnquiry_NotFound(t *testing.T) {
	r, mock := newConsoleRouter(t)

	mock.ExpectExec(`DELETE FROM enquiries`).
		WithArgs("nope").
		WillReturnResult(sqlmock.NewResult(0, 0))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/enquiries/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

// ---------------------------------------------------------------------------
// Subadmins
// ---------------------------------------------------------------------------

func TestCreateSubadmin(t *testing.T) {
	r, mock := newConsoleRouter(t)

	mock.ExpectExec(`INSERT INTO admin_users`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := doJSON(r, http.MethodPost, "/api/v1/admin/subadmins", map[string]string{
		"email":    "sub@example.com",
		"name":     "Review Desk",
		"password": "long-enough-pw",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"subadmin"`) {
		t.Errorf("expected subadmin role in response, got %s", w.Body.String())
	}
	if strings.Contains(w.Body.String(), "password_hash") {
		t.Errorf("password hash must not be serialized, got %s", w.Body.String())
	}
}

func TestCreateSubadmin_ShortPassword(t *testing.T) {
	r, _ := newConsoleRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/admin/subadmins", map[string]string{
		"email":    "sub@example.com",
		"name":     "Review Desk",
		"password": "short",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestUpdateSubadmin_AdminAccountHidden(t *testing.T) {
	r, mock := newConsoleRouter(t)

	// A full admin account must not be editable through the subadmin endpoints.
	rows := sqlmock.NewRows(adminCols).
		AddRow("a1", "root@example.com", "hash", "Root", "admin", time.Now(), time.Now())
	mock.ExpectQuery(`SELECT .* FROM admin_users WHERE id`).
		WithArgs("a1").
		WillReturnRows(rows)

	w := doJSON(r, http.MethodPut, "/api/v1/admin/subadmins/a1", map[string]string{"name": "Hijack"})

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404; body: %s", w.Code, w.Body.String())
	}
}

func TestDeleteSubadmin(t *testing.T) {
	r, mock := newConsoleRouter(t)

	rows := sqlmock.NewRows(adminCols).
		AddRow("s1", "sub@example.com", "hash", "Review Desk", "subadmin", time.Now(), time.Now())
	mock.ExpectQuery(`SELECT .* FROM admin_users WHERE id`).
		WithArgs("s1").
		WillReturnRows(rows)
	mock.ExpectExec(`DELETE FROM admin_users`).
		WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/subadmins/s1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
}

// ---------------------------------------------------------------------------
// Payments and stats
// ---------------------------------------------------------------------------

func TestAdminListPayments(t *testing.T) {
	r, mock := newConsoleRouter(t)

	rows := sqlmock.NewRows(paymentCols).
		AddRow("p1", "v1", "order_abc", "pay_xyz", int64(49900), "INR", "silver", "verified", time.Now())
	mock.ExpectQuery(`SELECT .* FROM payments`).
		WithArgs(20, 0).
		WillReturnRows(rows)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/payments", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"pay_xyz"`) {
		t.Errorf("expected payment in response, got %s", w.Body.String())
	}
}

func TestGetStats(t *testing.T) {
	r, mock := newConsoleRouter(t)

	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM vendors`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("pending", 3).
			AddRow("approved", 12))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM products`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM enquiries`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM payments`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount_minor\), 0\) FROM payments`).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(int64(349500)))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["products"].(float64) != 42 {
		t.Errorf("products = %v, want 42", resp["products"])
	}
	if resp["payment_volume_minor"].(float64) != 349500 {
		t.Errorf("payment_volume_minor = %v, want 349500", resp["payment_volume_minor"])
	}
	byStatus := resp["vendors_by_status"].(map[string]interface{})
	if byStatus["pending"].(float64) != 3 {
		t.Errorf("pending = %v, want 3", byStatus["pending"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
