// posts.go implements vendor feed posts. Creations and deletions are
// broadcast to live feed subscribers after the database write lands.
package vendorportal

import (
	"bytes"
	"database/sql"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vendorhub/vendorhub/internal/db/models"
	"github.com/vendorhub/vendorhub/internal/db/repositories"
	"github.com/vendorhub/vendorhub/internal/feed"
	"github.com/vendorhub/vendorhub/internal/media"
)

// PostHandlers handles vendor feed post management.
type PostHandlers struct {
	vendorRepo *repositories.VendorRepository
	postRepo   *repositories.PostRepository
	media      *media.Service
	broker     feed.Broker
}

// NewPostHandlers creates the post handlers.
func NewPostHandlers(db *sql.DB, mediaSvc *media.Service, broker feed.Broker) *PostHandlers {
	return &PostHandlers{
		vendorRepo: repositories.NewVendorRepository(db),
		postRepo:   repositories.NewPostRepository(db),
		media:      mediaSvc,
		broker:     broker,
	}
}

// ListPosts lists the session vendor's posts, newest first.
// GET /api/v1/vendor/posts
func (h *PostHandlers) ListPosts(c *gin.Context) {
	vendor := currentVendor(c, h.vendorRepo)
	if vendor == nil {
		return
	}

	posts, err := h.postRepo.List(c.Request.Context(), vendor.ID, 100, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// @Summary      Create feed post
// @Description  Publish a post to the live feed. Multipart form with a "body" text field and an optional "file" image. Approved vendors only.
// @Tags         Vendor
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Success      201  {object}  models.Post
// @Failure      403  {object}  map[string]interface{}  "Only approved vendors can post"
// @Router       /api/v1/vendor/posts [post]
// CreatePost creates a feed post and broadcasts it to live subscribers. The
// broadcast happens only after the row is committed, so subscribers never see
// a post that a reload would not also show.
// POST /api/v1/vendor/posts
func (h *PostHandlers) CreatePost(c *gin.Context) {
	vendor := currentVendor(c, h.vendorRepo)
	if vendor == nil {
		return
	}
	if !vendor.IsApproved() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only approved vendors can post"})
		return
	}

	if err := c.Request.ParseMultipartForm(maxMediaUploadSize); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse multipart form"})
		return
	}

	body := c.PostForm("body")
	if body == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Post body is required"})
		return
	}

	post := &models.Post{
		VendorID: vendor.ID,
		Body:     body,
	}

	// Optional image, subject to the same size cap as every other upload.
	if file, header, err := c.Request.FormFile("file"); err == nil {
		buf := &bytes.Buffer{}
		if _, err := io.Copy(buf, io.LimitReader(file, maxMediaUploadSize+1)); err != nil {
			file.Close()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
			return
		}
		file.Close()
		if buf.Len() > maxMediaUploadSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 50MB upload limit"})
			return
		}

		asset, err := h.media.Upload(c.Request.Context(), "posts", header.Filename, bytes.NewReader(buf.Bytes()), int64(buf.Len()))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store image"})
			return
		}
		post.ImageURL = asset.URL
	}

	if err := h.postRepo.Create(c.Request.Context(), post); err != nil {
		if post.ImageURL != "" {
			h.media.RemoveAll(c.Request.Context(), []string{post.ImageURL})
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create post"})
		return
	}

	// Live delivery is best-effort; the row is already committed.
	_ = h.broker.Publish(c.Request.Context(), feed.PostCreated(post))

	c.JSON(http.StatusCreated, post)
}

// DeletePost removes a post, best-effort removes its image, and broadcasts
// the deletion.
// DELETE /api/v1/vendor/posts/:id
func (h *PostHandlers) DeletePost(c *gin.Context) {
	vendor := currentVendor(c, h.vendorRepo)
	if vendor == nil {
		return
	}

	post, err := h.postRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load post"})
		return
	}
	if post == nil || post.VendorID != vendor.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var assetErrors []media.AssetError
	if post.ImageURL != "" {
		assetErrors = h.media.RemoveAll(c.Request.Context(), []string{post.ImageURL})
	}

	if err := h.postRepo.Delete(c.Request.Context(), post.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete post"})
		return
	}

	_ = h.broker.Publish(c.Request.Context(), feed.PostDeleted(post.ID))

	resp := gin.H{"message": "Post deleted"}
	if len(assetErrors) > 0 {
		resp["asset_errors"] = assetErrors
	}
	c.JSON(http.StatusOK, resp)
}
