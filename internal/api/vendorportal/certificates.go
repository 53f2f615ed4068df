// certificates.go implements vendor registration document management.
package vendorportal

import (
	"bytes"
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vendorhub/vendorhub/internal/db/models"
	"github.com/vendorhub/vendorhub/internal/db/repositories"
	"github.com/vendorhub/vendorhub/internal/media"
)

// CertificateHandlers handles vendor certificate management.
type CertificateHandlers struct {
	vendorRepo *repositories.VendorRepository
	certRepo   *repositories.CertificateRepository
	media      *media.Service
}

// NewCertificateHandlers creates the certificate handlers.
func NewCertificateHandlers(db *sql.DB, mediaSvc *media.Service) *CertificateHandlers {
	return &CertificateHandlers{
		vendorRepo: repositories.NewVendorRepository(db),
		certRepo:   repositories.NewCertificateRepository(db),
		media:      mediaSvc,
	}
}

// ListCertificates lists the session vendor's certificates.
// GET /api/v1/vendor/certificates
func (h *CertificateHandlers) ListCertificates(c *gin.Context) {
	vendor := currentVendor(c, h.vendorRepo)
	if vendor == nil {
		return
	}

	certs, err := h.certRepo.ListByVendor(c.Request.Context(), vendor.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list certificates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"certificates": certs})
}

// UploadCertificate stores a certificate document and its title. The title
// comes from the "title" form field alongside the file.
// POST /api/v1/vendor/certificates
func (h *CertificateHandlers) UploadCertificate(c *gin.Context) {
	vendor := currentVendor(c, h.vendorRepo)
	if vendor == nil {
		return
	}

	filename, data, errMsg := readFormFile(c)
	if errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
		return
	}

	title := c.PostForm("title")
	if title == "" {
		title = filename
	}

	asset, err := h.media.Upload(c.Request.Context(), "certificates", filename, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store certificate"})
		return
	}

	cert := &models.Certificate{
		VendorID: vendor.ID,
		Title:    title,
		FileURL:  asset.URL,
	}
	if err := h.certRepo.Create(c.Request.Context(), cert); err != nil {
		// Compensate: the record never landed, so drop the stored file.
		h.media.RemoveAll(c.Request.Context(), []string{asset.URL})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create certificate"})
		return
	}

	c.JSON(http.StatusCreated, cert)
}

// DeleteCertificate removes a certificate record after best-effort removing
// its file. Certificates belonging to other vendors are reported as absent.
// DELETE /api/v1/vendor/certificates/:id
func (h *CertificateHandlers) DeleteCertificate(c *gin.Context) {
	vendor := currentVendor(c, h.vendorRepo)
	if vendor == nil {
		return
	}

	cert, err := h.certRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load certificate"})
		return
	}
	if cert == nil || cert.VendorID != vendor.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Certificate not found"})
		return
	}

	assetErrors := h.media.RemoveAll(c.Request.Context(), []string{cert.FileURL})

	if err := h.certRepo.Delete(c.Request.Context(), cert.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Certificate not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete certificate"})
		return
	}

	resp := gin.H{"message": "Certificate deleted"}
	if len(assetErrors) > 0 {
		resp["asset_errors"] = assetErrors
	}
	c.JSON(http.StatusOK, resp)
}
