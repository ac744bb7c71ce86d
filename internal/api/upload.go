package api

import (
	"fmt"
	"io"
	"mime"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"platefull-backend-go/internal/imaging"
)

const uploadField = "file"

// readUpload loads the multipart "file" part into memory. A missing or
// generic part content type is replaced by one sniffed from the bytes.
// At most MaxFileSize+1 bytes are read so oversized uploads still fail
// validation without being buffered whole.
func readUpload(c *gin.Context) (*imaging.File, error) {
	header, err := c.FormFile(uploadField)
	if err != nil {
		return nil, fmt.Errorf("multipart field %q: %w", uploadField, err)
	}
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, imaging.MaxFileSize+1))
	if err != nil {
		return nil, err
	}

	contentType := header.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mt
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mimetype.Detect(data).String()
		if mt, _, err := mime.ParseMediaType(contentType); err == nil {
			contentType = mt
		}
	}

	return &imaging.File{
		Name:        filepath.Base(header.Filename),
		ContentType: contentType,
		Data:        data,
	}, nil
}
