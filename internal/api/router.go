// Package api wires together all HTTP routes for the VendorHub backend.
//
// Route grouping philosophy:
//   - Storefront routes (/v1/...) are public. They only ever expose approved
//     vendors, so no session is needed to browse; the live feed and stored
//     media files are served here too.
//   - The payment callback (/v1/payments/callback) is public but
//     authenticates itself: the HMAC signature under the gateway key secret
//     is the credential.
//   - Vendor portal routes (/api/v1/vendor/...) require a vendor session;
//     admin console routes (/api/v1/admin/...) require an operator session,
//     with subadmin management restricted to full admins.
package api

import (
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/vendorhub/vendorhub/internal/api/admin"
	"github.com/vendorhub/vendorhub/internal/api/authapi"
	"github.com/vendorhub/vendorhub/internal/api/payments"
	"github.com/vendorhub/vendorhub/internal/api/storefront"
	"github.com/vendorhub/vendorhub/internal/api/vendorportal"
	"github.com/vendorhub/vendorhub/internal/config"
	"github.com/vendorhub/vendorhub/internal/feed"
	"github.com/vendorhub/vendorhub/internal/media"
	"github.com/vendorhub/vendorhub/internal/middleware"
	"github.com/vendorhub/vendorhub/internal/payment"
	"github.com/vendorhub/vendorhub/internal/storage"

	// Import storage backends to register them
	_ "github.com/vendorhub/vendorhub/internal/storage/azure"
	_ "github.com/vendorhub/vendorhub/internal/storage/gcs"
	_ "github.com/vendorhub/vendorhub/internal/storage/local"
	_ "github.com/vendorhub/vendorhub/internal/storage/s3"
)

// BackgroundServices holds resources that must be stopped during graceful
// shutdown. The caller (cmd/server) calls Shutdown() after the HTTP server
// has drained in-flight requests.
type BackgroundServices struct {
	broker         feed.Broker
	redisClient    *redis.Client
	memoryLimiters []*middleware.MemoryLimiter
}

// Shutdown stops background goroutines and closes shared connections.
func (bg *BackgroundServices) Shutdown() {
	slog.Info("stopping background services")
	if bg.broker != nil {
		if err := bg.broker.Close(); err != nil {
			slog.Warn("feed broker close failed", "error", err)
		}
	}
	for _, rl := range bg.memoryLimiters {
		rl.Stop()
	}
	if bg.redisClient != nil {
		if err := bg.redisClient.Close(); err != nil {
			slog.Warn("redis close failed", "error", err)
		}
	}
	slog.Info("all background services stopped")
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, db *sql.DB) (*gin.Engine, *BackgroundServices) {
	router := gin.New()
	bg := &BackgroundServices{}

	// Initialize storage backend
	storageBackend, err := storage.NewStorage(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage backend: %v", err)
	}
	log.Printf("Initialized storage backend: %s", cfg.Storage.DefaultBackend)

	mediaSvc := media.NewService(storageBackend, cfg.Storage.SignedURLTTL, slog.Default())

	// Wrap *sql.DB with sqlx for the payment and audit repositories
	sqlxDB := sqlx.NewDb(db, "postgres")

	// Redis backs the live feed and rate limiting across replicas. Without it
	// both fall back to in-process implementations.
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		bg.redisClient = rdb
		log.Printf("Connected to Redis at %s", cfg.Redis.Addr)
	}

	var broker feed.Broker
	if rdb != nil {
		broker = feed.NewRedisBroker(rdb, slog.Default())
	} else {
		broker = feed.NewMemoryBroker()
		log.Println("Redis not configured; feed events stay on this instance")
	}
	bg.broker = broker

	newLimiter := func(rlc middleware.RateLimitConfig) middleware.Limiter {
		if rdb != nil {
			return middleware.NewRedisLimiter(rdb, rlc)
		}
		ml := middleware.NewMemoryLimiter(rlc)
		bg.memoryLimiters = append(bg.memoryLimiters, ml)
		return ml
	}

	var generalLimit, authLimit, uploadLimit gin.HandlerFunc
	if cfg.Security.RateLimiting.Enabled {
		generalCfg := middleware.DefaultRateLimitConfig()
		if cfg.Security.RateLimiting.RequestsPerMinute > 0 {
			generalCfg.RequestsPerMinute = cfg.Security.RateLimiting.RequestsPerMinute
		}
		if cfg.Security.RateLimiting.Burst > 0 {
			generalCfg.BurstSize = cfg.Security.RateLimiting.Burst
		}
		generalLimit = middleware.RateLimitMiddleware(newLimiter(generalCfg))
		authLimit = middleware.RateLimitMiddleware(newLimiter(middleware.AuthRateLimitConfig()))
		uploadLimit = middleware.RateLimitMiddleware(newLimiter(middleware.UploadRateLimitConfig()))
	} else {
		passthrough := func(c *gin.Context) { c.Next() }
		generalLimit, authLimit, uploadLimit = passthrough, passthrough, passthrough
	}

	paymentProvider := payment.NewGateway(cfg.Payment)

	// Handlers
	authHandlers := authapi.NewHandlers(db, cfg)
	storeHandlers := storefront.NewHandlers(db)
	profileHandlers := vendorportal.NewProfileHandlers(db, mediaSvc)
	certHandlers := vendorportal.NewCertificateHandlers(db, mediaSvc)
	productHandlers := vendorportal.NewProductHandlers(db, mediaSvc)
	postHandlers := vendorportal.NewPostHandlers(db, mediaSvc, broker)
	subscriptionHandlers := vendorportal.NewSubscriptionHandlers(db, paymentProvider, cfg.Payment.Currency)
	vendorAdmin := admin.NewVendorAdminHandlers(db, sqlxDB, mediaSvc)
	categoryAdmin := admin.NewCategoryHandlers(db, mediaSvc)
	bannerAdmin := admin.NewBannerHandlers(db, mediaSvc)
	enquiryAdmin := admin.NewEnquiryHandlers(db)
	subadminAdmin := admin.NewSubadminHandlers(db)
	paymentAdmin := admin.NewPaymentAdminHandlers(sqlxDB)
	statsAdmin := admin.NewStatsHandlers(db, sqlxDB)
	callbackHandlers := payments.NewHandlers(db, sqlxDB, cfg)

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(LoggerMiddleware(cfg))
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.SecurityHeadersMiddleware(middleware.APISecurityHeadersConfig()))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// Readiness check endpoint (includes storage backend probe)
	router.GET("/ready", readinessHandler(db, storageBackend))

	// API version
	router.GET("/version", versionHandler())

	// Public storefront routes
	v1 := router.Group("/v1", generalLimit)
	{
		v1.GET("/vendors", storeHandlers.ListVendors)
		// Optional session: operators may preview unapproved vendor profiles.
		v1.GET("/vendors/:id", middleware.OptionalAuthMiddleware(), storeHandlers.GetVendor)
		v1.GET("/products", storeHandlers.ListProducts)
		v1.GET("/products/:id", storeHandlers.GetProduct)
		v1.GET("/categories", storeHandlers.ListCategories)
		v1.GET("/banners", storeHandlers.ListBanners)
		v1.POST("/enquiries", storeHandlers.CreateEnquiry)
		v1.GET("/posts", storeHandlers.ListPosts)

		// Live feed over Server-Sent Events
		v1.GET("/feed", feed.SSEHandler(broker))

		// Stored media, when the backend serves files directly
		v1.GET("/files/*filepath", storefront.ServeFileHandler(storageBackend))

		// Gateway callback; authenticated by its HMAC signature, not a session
		v1.POST("/payments/callback", callbackHandlers.Callback)
	}

	// Login and registration, behind the tighter auth limiter
	authGroup := router.Group("/v1/auth", authLimit)
	{
		authGroup.POST("/admin/login", authHandlers.AdminLogin)
		authGroup.POST("/vendor/login", authHandlers.VendorLogin)
		authGroup.POST("/vendor/register", authHandlers.VendorRegister)
		authGroup.POST("/logout", authHandlers.Logout)
		authGroup.GET("/me", middleware.AuthMiddleware(), authHandlers.Me)
	}

	// Vendor portal
	vendor := router.Group("/api/v1/vendor", generalLimit, middleware.AuthMiddleware(), middleware.RequireVendor())
	{
		vendor.GET("/profile", profileHandlers.GetProfile)
		vendor.PUT("/profile", profileHandlers.UpdateProfile)
		vendor.POST("/media", uploadLimit, profileHandlers.UploadMedia)
		vendor.DELETE("/media", profileHandlers.RemoveMedia)

		vendor.GET("/certificates", certHandlers.ListCertificates)
		vendor.POST("/certificates", uploadLimit, certHandlers.UploadCertificate)
		vendor.DELETE("/certificates/:id", certHandlers.DeleteCertificate)

		vendor.GET("/products", productHandlers.ListProducts)
		vendor.POST("/products", productHandlers.CreateProduct)
		vendor.PUT("/products/:id", productHandlers.UpdateProduct)
		vendor.POST("/products/:id/image", uploadLimit, productHandlers.UploadProductImage)
		vendor.POST("/products/:id/videos", uploadLimit, productHandlers.UploadProductVideo)
		vendor.DELETE("/products/:id", productHandlers.DeleteProduct)

		vendor.GET("/posts", postHandlers.ListPosts)
		vendor.POST("/posts", uploadLimit, postHandlers.CreatePost)
		vendor.DELETE("/posts/:id", postHandlers.DeletePost)

		if cfg.Payment.Enabled {
			vendor.POST("/subscription/order", subscriptionHandlers.CreateOrder)
		}
	}

	// Admin console
	adminGroup := router.Group("/api/v1/admin", generalLimit, middleware.AuthMiddleware(), middleware.RequireOperator())
	{
		adminGroup.GET("/vendors", vendorAdmin.ListVendors)
		adminGroup.GET("/vendors/:id", vendorAdmin.GetVendor)
		adminGroup.DELETE("/vendors/:id", vendorAdmin.DeleteVendor)
		adminGroup.PUT("/vendors/:id/status", vendorAdmin.UpdateVendorStatus)
		adminGroup.GET("/vendors/:id/audit", vendorAdmin.ListStatusAudit)

		adminGroup.POST("/categories", categoryAdmin.CreateCategory)
		adminGroup.PUT("/categories/:id", categoryAdmin.UpdateCategory)
		adminGroup.POST("/categories/:id/image", uploadLimit, categoryAdmin.UploadCategoryImage)
		adminGroup.DELETE("/categories/:id", categoryAdmin.DeleteCategory)

		adminGroup.POST("/banners", bannerAdmin.CreateBanner)
		adminGroup.PUT("/banners/:id", bannerAdmin.UpdateBanner)
		adminGroup.POST("/banners/:id/image", uploadLimit, bannerAdmin.UploadBannerImage)
		adminGroup.DELETE("/banners/:id", bannerAdmin.DeleteBanner)

		adminGroup.GET("/enquiries", enquiryAdmin.ListEnquiries)
		adminGroup.DELETE("/enquiries/:id", enquiryAdmin.DeleteEnquiry)

		adminGroup.GET("/payments", paymentAdmin.ListPayments)
		adminGroup.GET("/stats", statsAdmin.GetStats)

		// Operator account management is admin-only
		subadmins := adminGroup.Group("/subadmins", middleware.RequireAdmin())
		{
			subadmins.GET("", subadminAdmin.ListSubadmins)
			subadmins.POST("", subadminAdmin.CreateSubadmin)
			subadmins.PUT("/:id", subadminAdmin.UpdateSubadmin)
			subadmins.DELETE("/:id", subadminAdmin.DeleteSubadmin)
		}
	}

	return router, bg
}

// @Summary      Health check
// @Description  Returns the health status of the service, including database connectivity.
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status: healthy, time: RFC3339 timestamp"
// @Failure      503  {object}  map[string]interface{}  "status: unhealthy, error: database connection failed"
// @Router       /health [get]
// healthCheckHandler returns the health status of the service
func healthCheckHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// @Summary      Readiness check
// @Description  Returns whether the service is ready to accept traffic. Checks database and storage connectivity.
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "ready: true, time: RFC3339 timestamp"
// @Failure      503  {object}  map[string]interface{}  "ready: false, error: dependency not ready"
// @Router       /ready [get]
// readinessHandler returns the readiness status of the service.
// Unlike the liveness probe (/health), this also checks the storage backend so
// that a Kubernetes readiness gate fails when media uploads would error.
func readinessHandler(db *sql.DB, storageBackend storage.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		checks := gin.H{}

		if err := db.Ping(); err != nil {
			checks["database"] = "unhealthy"
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"ready":  false,
				"checks": checks,
				"error":  "database not ready",
			})
			return
		}
		checks["database"] = "healthy"

		// Probe the storage backend with a known-absent sentinel path.
		// Exists() exercises authentication and network connectivity without
		// creating any state.
		if _, err := storageBackend.Exists(c.Request.Context(), ".readiness-probe"); err != nil {
			checks["storage"] = "unhealthy"
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"ready":  false,
				"checks": checks,
				"error":  "storage backend not ready",
			})
			return
		}
		checks["storage"] = "healthy"

		c.JSON(http.StatusOK, gin.H{
			"ready":  true,
			"checks": checks,
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// @Summary      API version
// @Description  Returns the current API version.
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "version, api_version"
// @Router       /version [get]
// versionHandler returns the API version
func versionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":     "0.1.0",
			"api_version": "v1",
		})
	}
}
