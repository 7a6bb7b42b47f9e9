package uploads

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/imrishuroy/go-storefront-gateway/internal/backend"
)

// Presign is the API's answer to an image-upload request: a short-lived
// URL to PUT the raw bytes to and the public URL the stored object will be
// served from.
type Presign struct {
	URL       string `json:"url"`
	PublicURL string `json:"publicURL"`
}

// Uploader implements the two-step product image upload: ask the API for a
// presigned URL, then PUT the raw file to object storage. The PUT carries
// the file's content type and no bearer token; the presigned URL is the
// authorization.
type Uploader struct {
	api  *backend.Client
	http *http.Client
}

func NewUploader(api *backend.Client, httpClient *http.Client) *Uploader {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Uploader{api: api, http: httpClient}
}

// RequestPresign asks the API for an upload slot for a file of the given
// content type.
func (u *Uploader) RequestPresign(ctx context.Context, fileType string) (Presign, error) {
	body := map[string]string{"fileType": fileType}
	var out Presign
	if err := u.api.Do(ctx, http.MethodPost, "/products/images", nil, body, &out); err != nil {
		return Presign{}, fmt.Errorf("request upload url: %w", err)
	}
	return out, nil
}

// Put uploads the raw file bytes to a presigned URL.
func (u *Uploader) Put(ctx context.Context, uploadURL, fileType string, file []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(file))
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", fileType)

	resp, err := u.http.Do(req)
	if err != nil {
		return fmt.Errorf("upload image: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("upload image: storage returned status %d", resp.StatusCode)
	}
	return nil
}

// Upload runs the full presign-then-PUT flow and returns the public URL.
func (u *Uploader) Upload(ctx context.Context, fileType string, file []byte) (string, error) {
	p, err := u.RequestPresign(ctx, fileType)
	if err != nil {
		return "", err
	}
	if err := u.Put(ctx, p.URL, fileType, file); err != nil {
		return "", err
	}
	return p.PublicURL, nil
}
