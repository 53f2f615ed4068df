package storefront

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/vendorhub/vendorhub/internal/auth"
	"github.com/vendorhub/vendorhub/internal/middleware"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("VH_JWT_SECRET", "test-jwt-secret-that-is-32-chars!!")
	os.Exit(m.Run())
}

var vendorCols = []string{"id", "name", "email", "password_hash", "phone", "address", "category", "description", "status", "subscription_tier", "media_urls", "created_at", "updated_at"}

func newStorefrontRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	h := NewHandlers(db)
	r := gin.New()
	r.GET("/v1/vendors", h.ListVendors)
	r.GET("/v1/vendors/:id", middleware.OptionalAuthMiddleware(), h.GetVendor)
	r.GET("/v1/products", h.ListProducts)
	r.GET("/v1/products/:id", h.GetProduct)
	r.GET("/v1/categories", h.ListCategories)
	r.GET("/v1/banners", h.ListBanners)
	r.POST("/v1/enquiries", h.CreateEnquiry)
	r.GET("/v1/posts", h.ListPosts)
	return r, mock
}

func vendorRow(status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(vendorCols).
		AddRow("vendor-1", "Sharma Textiles", "v@example.com", "x", "+91-1", "MG Road",
			"textiles", "Fabrics", status, "free", []byte(`[]`), now, now)
}

// ---------------------------------------------------------------------------
// Vendors
// ---------------------------------------------------------------------------

func TestListVendors_PinsApprovedStatus(t *testing.T) {
	r, mock := newStorefrontRouter(t)

	// Whatever the caller sends, the first bound arg must be "approved".
	mock.ExpectQuery(`SELECT .* FROM vendors WHERE 1=1 AND status = \$1`).
		WithArgs("approved", 20, 0).
		WillReturnRows(vendorRow("approved"))

	req := httptest.NewRequest(http.MethodGet, "/v1/vendors?status=pending", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body = %s", w.Code, http.StatusOK, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestListVendors_CategoryAndSearch(t *testing.T) {
	r, mock := newStorefrontRouter(t)

	mock.ExpectQuery(`status = \$1 AND category = \$2.*ILIKE`).
		WithArgs("approved", "textiles", "%silk%", 20, 0).
		WillReturnRows(sqlmock.NewRows(vendorCols))

	req := httptest.NewRequest(http.MethodGet, "/v1/vendors?category=textiles&q=silk", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body = %s", w.Code, http.StatusOK, w.Body.String())
	}
	var resp struct {
		Vendors []json.RawMessage `json:"vendors"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Vendors == nil {
		t.Error("empty result must serialize as [], not null")
	}
}

func TestListVendors_LimitClamped(t *testing.T) {
	r, mock := newStorefrontRouter(t)

	mock.ExpectQuery(`SELECT .* FROM vendors`).
		WithArgs("approved", 100, 0).
		WillReturnRows(sqlmock.NewRows(vendorCols))

	req := httptest.NewRequest(http.MethodGet, "/v1/vendors?limit=5000", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("limit was not clamped to 100: %v", err)
	}
}

func TestGetVendor_Approved(t *testing.T) {
	r, mock := newStorefrontRouter(t)

	mock.ExpectQuery(`SELECT .* FROM vendors WHERE id = \$1`).
		WithArgs("vendor-1").
		WillReturnRows(vendorRow("approved"))

	req := httptest.NewRequest(http.MethodGet, "/v1/vendors/vendor-1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestGetVendor_PendingLooksAbsent(t *testing.T) {
	r, mock := newStorefrontRouter(t)

	mock.ExpectQuery(`SELECT .* FROM vendors WHERE id = \$1`).
		WithArgs("vendor-1").
		WillReturnRows(vendorRow("pending"))

	req := httptest.NewRequest(http.MethodGet, "/v1/vendors/vendor-1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d for unapproved vendor", w.Code, http.StatusNotFound)
	}
}

func TestGetVendor_OperatorPreviewsPending(t *testing.T) {
	r, mock := newStorefrontRouter(t)

	mock.ExpectQuery(`SELECT .* FROM vendors WHERE id = \$1`).
		WithArgs("vendor-1").
		WillReturnRows(vendorRow("pending"))

	token, err := auth.GenerateJWT("admin-1", "a@example.com", auth.RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/vendors/vendor-1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d for operator preview; body = %s", w.Code, http.StatusOK, w.Body.String())
	}
}

func TestGetVendor_VendorSessionGetsNoPreview(t *testing.T) {
	r, mock := newStorefrontRouter(t)

	mock.ExpectQuery(`SELECT .* FROM vendors WHERE id = \$1`).
		WithArgs("vendor-1").
		WillReturnRows(vendorRow("pending"))

	token, err := auth.GenerateJWT("other-vendor", "o@example.com", auth.RoleVendor, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/vendors/vendor-1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d; vendor sessions get no preview", w.Code, http.StatusNotFound)
	}
}

func TestGetVendor_Missing(t *testing.T) {
	r, mock := newStorefrontRouter(t)

	mock.ExpectQuery(`SELECT .* FROM vendors WHERE id = \$1`).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(vendorCols))

	req := httptest.NewRequest(http.MethodGet, "/v1/vendors/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// ---------------------------------------------------------------------------
// Products
// ---------------------------------------------------------------------------

var productCols = []string{"id", "vendor_id", "category_id", "name", "description", "price_minor", "image_url", "video_urls", "created_at", "updated_at"}

func TestListProducts_VendorFilter(t *testing.T) {
	r, mock := newStorefrontRouter(t)

	now := time.Now()
	mock.ExpectQuery(`SELECT .* FROM products WHERE 1=1 AND vendor_id = \$1`).
		WithArgs("vendor-1", 20, 0).
		WillReturnRows(sqlmock.NewRows(productCols).
			AddRow("prod-1", "vendor-1", nil, "Silk saree", "Handwoven", int64(250000), "", []byte(`[]`), now, now))

	req := httptest.NewRequest(http.MethodGet, "/v1/products?vendor_id=vendor-1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body = %s", w.Code, http.StatusOK, w.Body.String())
	}
}

func TestGetProduct_Missing(t *testing.T) {
	r, mock := newStorefrontRouter(t)

	mock.ExpectQuery(`SELECT .* FROM products WHERE id = \$1`).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(productCols))

	req := httptest.NewRequest(http.MethodGet, "/v1/products/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// ---------------------------------------------------------------------------
// Enquiries
// ---------------------------------------------------------------------------

func TestCreateEnquiry(t *testing.T) {
	r, mock := newStorefrontRouter(t)

	mock.ExpectExec(`INSERT INTO enquiries`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	body, _ := json.Marshal(gin.H{
		"name":    "Asha",
		"email":   "asha@example.com",
		"message": "Do you ship to Pune?",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/enquiries", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body = %s", w.Code, http.StatusCreated, w.Body.String())
	}
	var resp struct {
		ID string `json:"id"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.ID == "" {
		t.Error("expected a generated enquiry id")
	}
}

func TestCreateEnquiry_MissingMessage(t *testing.T) {
	r, _ := newStorefrontRouter(t)

	body, _ := json.Marshal(gin.H{"name": "Asha", "email": "asha@example.com"})
	req := httptest.NewRequest(http.MethodPost, "/v1/enquiries", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// ---------------------------------------------------------------------------
// Posts, categories, banners
// ---------------------------------------------------------------------------

func TestListPosts(t *testing.T) {
	r, mock := newStorefrontRouter(t)

	now := time.Now()
	mock.ExpectQuery(`SELECT .* FROM posts`).
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "vendor_id", "body", "image_url", "created_at"}).
			AddRow("post-1", "vendor-1", "New stock", "", now))

	req := httptest.NewRequest(http.MethodGet, "/v1/posts", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body = %s", w.Code, http.StatusOK, w.Body.String())
	}
}

func TestListCategoriesAndBanners(t *testing.T) {
	r, mock := newStorefrontRouter(t)

	now := time.Now()
	mock.ExpectQuery(`SELECT .* FROM categories`).
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "image_url", "created_at"}).
			AddRow("cat-1", "Textiles", "", now))
	mock.ExpectQuery(`SELECT .* FROM banners`).
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "image_url", "target_url", "position", "created_at"}).
			AddRow("ban-1", "Diwali sale", "", "", 1, now))

	for _, path := range []string{"/v1/categories", "/v1/banners"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want %d", path, w.Code, http.StatusOK)
		}
	}
}
