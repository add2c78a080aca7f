package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"
)

// File is a fetched media payload ready for the gateway.
type File struct {
	// Data is base64 without a data-URI prefix.
	Data     string
	MimeType string
	Filename string
}

// FileSource resolves rule media into sendable payloads.
type FileSource interface {
	// Fetch downloads a file by URL.
	Fetch(ctx context.Context, url string) (*File, error)

	// GenerateDocument renders a printable document for attachment.
	GenerateDocument(ctx context.Context, docType, docID, format string) (*File, error)
}

// ErrGenerationUnsupported is returned by file sources that cannot render
// documents themselves.
var ErrGenerationUnsupported = errors.New("document generation is not supported")

// httpFileSource fetches files over plain HTTP. Document generation is left
// to the host application.
type httpFileSource struct {
	client *http.Client
}

func NewHTTPFileSource(timeout time.Duration) FileSource {
	return &httpFileSource{
		client: &http.Client{Timeout: timeout},
	}
}

const maxFileSize = 16 << 20 // gateway rejects larger media

func (f *httpFileSource) Fetch(ctx context.Context, url string) (*File, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create file request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch file: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("file fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file body: %w", err)
	}
	if len(data) > maxFileSize {
		return nil, fmt.Errorf("file exceeds %d bytes", maxFileSize)
	}

	mimeType := resp.Header.Get("Content-Type")
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if mimeType == "" {
		mimeType = mime.TypeByExtension(path.Ext(url))
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return &File{
		Data:     base64.StdEncoding.EncodeToString(data),
		MimeType: mimeType,
		Filename: path.Base(url),
	}, nil
}

func (f *httpFileSource) GenerateDocument(ctx context.Context, docType, docID, format string) (*File, error) {
	return nil, ErrGenerationUnsupported
}
