package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxUploadBytes caps image uploads at 5 MB.
const maxUploadBytes = 5 << 20

// imageExtensions maps the accepted content types to the extension used in the
// object key. Anything else is rejected before touching storage.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// imageUploader stores user images in an S3-compatible bucket and hands back
// a public URL. The rest of the app treats it as an upload-and-get-URL box.
type imageUploader struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// newImageUploader builds the uploader from the ambient AWS configuration.
// Returns nil (and no error) when UPLOADS_BUCKET is unset — uploads are an
// optional feature and the route answers 503 without it.
func newImageUploader(ctx context.Context) (*imageUploader, error) {
	bucket := os.Getenv("UPLOADS_BUCKET")
	if bucket == "" {
		return nil, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %v", err)
	}

	baseURL := os.Getenv("UPLOADS_BASE_URL")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.amazonaws.com", bucket)
	}

	return &imageUploader{
		client:  s3.NewFromConfig(cfg),
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

// put writes the object and returns its public URL.
func (u *imageUploader) put(ctx context.Context, key, contentType string, body *os.File, size int64) (string, error) {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &u.bucket,
		Key:           &key,
		Body:          body,
		ContentLength: &size,
		ContentType:   &contentType,
	})
	if err != nil {
		return "", err
	}
	return u.baseURL + "/" + key, nil
}

// uploadImage accepts a multipart image and returns its public URL, which the
// client then attaches to a meal as photo_url.
// POST /api/uploads, multipart field "image".
func (h *Handler) uploadImage(c *gin.Context) {
	if h.uploader == nil {
		apiError(c, http.StatusServiceUnavailable, "uploads are not configured")
		return
	}
	userID := c.GetInt("user_id")

	fileHeader, err := c.FormFile("image")
	if err != nil {
		apiError(c, http.StatusBadRequest, "image file is required")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		apiError(c, http.StatusBadRequest, "image must be 5MB or smaller")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	ext, ok := imageExtensions[contentType]
	if !ok {
		apiError(c, http.StatusBadRequest, "image must be jpeg, png, or webp")
		return
	}

	// Spool through a temp file so the S3 client gets a seekable body.
	tmp, err := os.CreateTemp("", "upload-*")
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to stage upload")
		return
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if err := c.SaveUploadedFile(fileHeader, tmp.Name()); err != nil {
		apiError(c, http.StatusInternalServerError, "failed to stage upload")
		return
	}
	if _, err := tmp.Seek(0, 0); err != nil {
		apiError(c, http.StatusInternalServerError, "failed to stage upload")
		return
	}

	// Keys are namespaced per user; uuid keeps them unguessable.
	key := path.Join("images", fmt.Sprintf("%d", userID), uuid.New().String()+ext)
	url, err := h.uploader.put(c, key, contentType, tmp, fileHeader.Size)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to store image")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}
