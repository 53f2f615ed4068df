// upload.go holds the shared multipart handling for admin image uploads.
package admin

import (
	"bytes"
	"io"

	"github.com/gin-gonic/gin"
)

// maxImageUploadSize caps admin image uploads at 10MB
const maxImageUploadSize = 10 << 20

// readFormFile buffers the "file" part of a multipart request. It returns the
// original filename, the file bytes, and a client-facing error message when
// something is wrong with the upload.
func readFormFile(c *gin.Context) (filename string, data []byte, errMsg string) {
	if err := c.Request.ParseMultipartForm(maxImageUploadSize); err != nil {
		return "", nil, "Failed to parse multipart form"
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		return "", nil, "Missing or invalid file upload"
	}
	defer file.Close()

	buf := &bytes.Buffer{}
	if _, err := io.Copy(buf, io.LimitReader(file, maxImageUploadSize+1)); err != nil {
		return "", nil, "Failed to read uploaded file"
	}
	if buf.Len() > maxImageUploadSize {
		return "", nil, "File exceeds the 10MB upload limit"
	}

	return header.Filename, buf.Bytes(), ""
}
