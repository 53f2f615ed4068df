// serve.go streams stored media for the local storage backend. Cloud backends
// hand out direct or signed URLs and never hit this handler.
package storefront

import (
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/vendorhub/vendorhub/internal/storage"
)

// ServeFileHandler streams a stored asset to the client.
// GET /v1/files/*filepath
func ServeFileHandler(storageBackend storage.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		filePath := c.Param("filepath")
		if filePath == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File path is required"})
			return
		}

		if filePath[0] == '/' {
			filePath = filePath[1:]
		}

		exists, err := storageBackend.Exists(c.Request.Context(), filePath)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check file existence"})
			return
		}
		if !exists {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}

		metadata, err := storageBackend.GetMetadata(c.Request.Context(), filePath)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get file metadata"})
			return
		}

		reader, err := storageBackend.Download(c.Request.Context(), filePath)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
			return
		}
		defer reader.Close()

		contentType := mime.TypeByExtension(filepath.Ext(filePath))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		c.Header("X-Checksum-SHA256", metadata.Checksum)
		c.Header("Cache-Control", "public, max-age=86400")

		c.DataFromReader(http.StatusOK, metadata.Size, contentType, reader, nil)
	}
}
