package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"storefront-api/internal/service"
	"storefront-api/internal/util"

	"go.uber.org/zap"
)

// Proxy implements service.AssetUploader by re-posting the file to an
// external upload service with a bearer token.
type Proxy struct {
	uploadURL string
	token     string
	client    *http.Client
	logger    *zap.Logger
}

// NewProxy creates an upload proxy
func NewProxy(uploadURL, token string) *Proxy {
	return &Proxy{
		uploadURL: uploadURL,
		token:     token,
		client:    &http.Client{Timeout: 30 * time.Second},
		logger:    util.GetLogger(),
	}
}

// Upload forwards the file as multipart form data and returns the remote
// asset URL reported by the upstream service.
func (p *Proxy) Upload(ctx context.Context, filename, contentType string, content io.Reader) (*service.UploadResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to read upload content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.uploadURL, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if p.token != "" {
		// The configured token may already carry the scheme
		if strings.HasPrefix(strings.ToLower(p.token), "bearer ") {
			req.Header.Set("Authorization", p.token)
		} else {
			req.Header.Set("Authorization", "Bearer "+p.token)
		}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.logger.Error("External upload service rejected file",
			zap.Int("status", resp.StatusCode),
			zap.String("filename", filename))
		return nil, fmt.Errorf("upload service returned status %d", resp.StatusCode)
	}

	var result service.UploadResult
	if err := json.Unmarshal(payload, &result); err != nil || result.URL == "" {
		return nil, fmt.Errorf("unexpected upload service response")
	}

	return &result, nil
}
