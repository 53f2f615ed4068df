// Package vendorportal implements the authenticated vendor-facing endpoints:
// profile and gallery management, certificates, products, feed posts, and
// subscription orders. The router mounts everything here behind the vendor
// role gate, and every handler scopes its queries to the session vendor.
package vendorportal

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vendorhub/vendorhub/internal/db/models"
	"github.com/vendorhub/vendorhub/internal/db/repositories"
	"github.com/vendorhub/vendorhub/internal/middleware"
)

// maxMediaUploadSize caps portal uploads at 50MB, enough for short product
// videos.
const maxMediaUploadSize = 50 << 20

// currentVendor resolves the session vendor. A nil return means the response
// has already been written.
func currentVendor(c *gin.Context, repo *repositories.VendorRepository) *models.Vendor {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return nil
	}

	vendor, err := repo.GetByID(c.Request.Context(), sess.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load vendor"})
		return nil
	}
	if vendor == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account no longer exists"})
		return nil
	}
	return vendor
}

// readFormFile buffers the "file" part of a multipart request. It returns the
// original filename, the file bytes, and a client-facing error message when
// something is wrong with the upload.
func readFormFile(c *gin.Context) (filename string, data []byte, errMsg string) {
	if err := c.Request.ParseMultipartForm(maxMediaUploadSize); err != nil {
		return "", nil, "Failed to parse multipart form"
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		return "", nil, "Missing or invalid file upload"
	}
	defer file.Close()

	buf := &bytes.Buffer{}
	if _, err := io.Copy(buf, io.LimitReader(file, maxMediaUploadSize+1)); err != nil {
		return "", nil, "Failed to read uploaded file"
	}
	if buf.Len() > maxMediaUploadSize {
		return "", nil, "File exceeds the 50MB upload limit"
	}

	return header.Filename, buf.Bytes(), ""
}
