package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vendorhub/vendorhub/internal/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newAuthRouter builds a Gin engine with AuthMiddleware and a handler that
// echoes the session identity.
func newAuthRouter() *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware())
	r.GET("/protected", func(c *gin.Context) {
		sess := SessionFrom(c)
		c.JSON(http.StatusOK, gin.H{"user_id": sess.UserID, "role": sess.Role})
	})
	return r
}

func mintToken(t *testing.T, role string) string {
	t.Helper()
	token, err := auth.GenerateJWT("user-1", "u@example.com", role, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}
	return token
}

// ---------------------------------------------------------------------------
// AuthMiddleware tests
// ---------------------------------------------------------------------------

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	r := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_NonBearerHeader(t *testing.T) {
	r := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_EmptyToken(t *testing.T) {
	r := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer   ")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_GarbageToken(t *testing.T) {
	r := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_ValidTokenSetsSession(t *testing.T) {
	r := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, auth.RoleVendor))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body = %s", w.Code, http.StatusOK, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, `"user_id":"user-1"`) || !strings.Contains(body, `"role":"vendor"`) {
		t.Errorf("unexpected response body: %s", body)
	}
}

func TestOptionalAuthMiddleware_NoHeaderPassesThrough(t *testing.T) {
	r := gin.New()
	r.Use(OptionalAuthMiddleware())
	r.GET("/", func(c *gin.Context) {
		if SessionFrom(c) != nil {
			c.Status(http.StatusTeapot)
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestOptionalAuthMiddleware_ValidTokenSetsSession(t *testing.T) {
	r := gin.New()
	r.Use(OptionalAuthMiddleware())
	r.GET("/", func(c *gin.Context) {
		sess := SessionFrom(c)
		if sess == nil {
			c.Status(http.StatusUnauthorized)
			return
		}
		c.String(http.StatusOK, sess.Role)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, auth.RoleAdmin))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if w.Body.String() != auth.RoleAdmin {
		t.Errorf("role = %q, want %q", w.Body.String(), auth.RoleAdmin)
	}
}

// ---------------------------------------------------------------------------
// Role middleware tests
// ---------------------------------------------------------------------------

func newRoleRouter(handler gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware())
	r.GET("/admin-only", RequireAdmin(), handler)
	r.GET("/operators", RequireOperator(), handler)
	r.GET("/vendor-only", RequireVendor(), handler)
	return r
}

func TestRequireRole(t *testing.T) {
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }

	tests := []struct {
		name string
		path string
		role string
		want int
	}{
		{"admin on admin route", "/admin-only", auth.RoleAdmin, http.StatusOK},
		{"subadmin on admin route", "/admin-only", auth.RoleSubadmin, http.StatusForbidden},
		{"vendor on admin route", "/admin-only", auth.RoleVendor, http.StatusForbidden},
		{"admin on operator route", "/operators", auth.RoleAdmin, http.StatusOK},
		{"subadmin on operator route", "/operators", auth.RoleSubadmin, http.StatusOK},
		{"vendor on operator route", "/operators", auth.RoleVendor, http.StatusForbidden},
		{"vendor on vendor route", "/vendor-only", auth.RoleVendor, http.StatusOK},
		{"admin on vendor route", "/vendor-only", auth.RoleAdmin, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRoleRouter(ok)
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("Authorization", "Bearer "+mintToken(t, tt.role))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestRequireRole_NoSession(t *testing.T) {
	r := gin.New()
	// No AuthMiddleware on purpose
	r.GET("/", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
}

