// Package storefront implements the public browse endpoints: vendor and
// product listings with filters, categories, banners, posts, and enquiry
// submission. Only approved vendors are visible here regardless of the
// filters a caller supplies.
package storefront

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vendorhub/vendorhub/internal/db/models"
	"github.com/vendorhub/vendorhub/internal/db/repositories"
	"github.com/vendorhub/vendorhub/internal/middleware"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Handlers bundles the repositories the storefront endpoints read from.
type Handlers struct {
	vendorRepo   *repositories.VendorRepository
	productRepo  *repositories.ProductRepository
	categoryRepo *repositories.CategoryRepository
	bannerRepo   *repositories.BannerRepository
	enquiryRepo  *repositories.EnquiryRepository
	postRepo     *repositories.PostRepository
}

// NewHandlers creates the storefront handlers.
func NewHandlers(db *sql.DB) *Handlers {
	return &Handlers{
		vendorRepo:   repositories.NewVendorRepository(db),
		productRepo:  repositories.NewProductRepository(db),
		categoryRepo: repositories.NewCategoryRepository(db),
		bannerRepo:   repositories.NewBannerRepository(db),
		enquiryRepo:  repositories.NewEnquiryRepository(db),
		postRepo:     repositories.NewPostRepository(db),
	}
}

// pagination parses limit/offset query params with clamping.
func pagination(c *gin.Context) (limit, offset int) {
	limit = defaultPageSize
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}

// @Summary      List vendors
// @Description  List approved vendors, optionally filtered by category or a name/description search.
// @Tags         Storefront
// @Produce      json
// @Param        category  query  string  false  "Category filter"
// @Param        q         query  string  false  "Search term"
// @Success      200  {object}  map[string]interface{}  "vendors"
// @Router       /v1/vendors [get]
// ListVendors lists approved vendors. The status filter is pinned server-side;
// pending and rejected vendors never appear in storefront results.
// GET /v1/vendors
func (h *Handlers) ListVendors(c *gin.Context) {
	limit, offset := pagination(c)

	filter := repositories.VendorFilter{
		Status:   models.VendorStatusApproved,
		Category: c.Query("category"),
		Query:    c.Query("q"),
	}

	vendors, err := h.vendorRepo.List(c.Request.Context(), filter, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list vendors"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"vendors": vendors})
}

// @Summary      Get vendor
// @Tags         Storefront
// @Produce      json
// @Success      200  {object}  models.Vendor
// @Failure      404  {object}  map[string]interface{}  "Vendor not found"
// @Router       /v1/vendors/{id} [get]
// GetVendor returns one approved vendor's public profile. Operators carrying
// a session see unapproved profiles too, so a storefront link to a pending
// vendor can be previewed before approval.
// GET /v1/vendors/:id
func (h *Handlers) GetVendor(c *gin.Context) {
	vendor, err := h.vendorRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load vendor"})
		return
	}

	sess := middleware.SessionFrom(c)
	operatorPreview := sess != nil && sess.IsOperator()
	if vendor == nil || (!vendor.IsApproved() && !operatorPreview) {
		// Unapproved vendors are indistinguishable from absent ones
		c.JSON(http.StatusNotFound, gin.H{"error": "Vendor not found"})
		return
	}

	c.JSON(http.StatusOK, vendor)
}

// @Summary      List products
// @Tags         Storefront
// @Produce      json
// @Param        vendor_id    query  string  false  "Vendor filter"
// @Param        category_id  query  string  false  "Category filter"
// @Param        q            query  string  false  "Search term"
// @Success      200  {object}  map[string]interface{}  "products"
// @Router       /v1/products [get]
// ListProducts lists products, newest first.
// GET /v1/products
func (h *Handlers) ListProducts(c *gin.Context) {
	limit, offset := pagination(c)

	filter := repositories.ProductFilter{
		VendorID:   c.Query("vendor_id"),
		CategoryID: c.Query("category_id"),
		Query:      c.Query("q"),
	}

	products, err := h.productRepo.List(c.Request.Context(), filter, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetProduct returns one product.
// GET /v1/products/:id
func (h *Handlers) GetProduct(c *gin.Context) {
	product, err := h.productRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load product"})
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// ListCategories lists all categories.
// GET /v1/categories
func (h *Handlers) ListCategories(c *gin.Context) {
	limit, offset := pagination(c)

	categories, err := h.categoryRepo.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// ListBanners lists home page banners in display order.
// GET /v1/banners
func (h *Handlers) ListBanners(c *gin.Context) {
	limit, offset := pagination(c)

	banners, err := h.bannerRepo.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list banners"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"banners": banners})
}

type enquiryRequest struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Phone    string  `json:"phone"`
	Message  string  `json:"message" binding:"required"`
	VendorID *string `json:"vendor_id"`
}

// @Summary      Submit enquiry
// @Description  Submit a contact enquiry, optionally targeting a specific vendor.
// @Tags         Storefront
// @Accept       json
// @Produce      json
// @Success      201  {object}  models.Enquiry
// @Failure      400  {object}  map[string]interface{}  "Invalid request"
// @Router       /v1/enquiries [post]
// CreateEnquiry stores a visitor enquiry.
// POST /v1/enquiries
func (h *Handlers) CreateEnquiry(c *gin.Context) {
	var req enquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	enquiry := &models.Enquiry{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Message:  req.Message,
		VendorID: req.VendorID,
	}
	if err := h.enquiryRepo.Create(c.Request.Context(), enquiry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit enquiry"})
		return
	}

	c.JSON(http.StatusCreated, enquiry)
}

// ListPosts lists feed posts, newest first. The SSE stream at /v1/feed carries
// the live tail; this endpoint serves the backlog.
// GET /v1/posts
func (h *Handlers) ListPosts(c *gin.Context) {
	limit, offset := pagination(c)

	posts, err := h.postRepo.List(c.Request.Context(), c.Query("vendor_id"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}
