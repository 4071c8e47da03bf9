package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// maxImageSize caps a single mirrored image
const maxImageSize = 10 << 20

// ObjectStore is the storage surface image mirroring needs
type ObjectStore interface {
	EnsureBucket(ctx context.Context) error
	ObjectExists(ctx context.Context, key string) (bool, error)
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	PublicURL(key string) string
}

// ImageMirror copies remote images into an ObjectStore
type ImageMirror struct {
	store      ObjectStore
	httpClient *http.Client
	logger     *zap.Logger
}

// MirrorOption configures an ImageMirror
type MirrorOption func(*ImageMirror)

// WithHTTPClient replaces the client used to download images
func WithHTTPClient(client *http.Client) MirrorOption {
	return func(m *ImageMirror) {
		m.httpClient = client
	}
}

// WithMirrorLogger sets the mirror logger
func WithMirrorLogger(logger *zap.Logger) MirrorOption {
	return func(m *ImageMirror) {
		m.logger = logger
	}
}

// NewImageMirror creates a new ImageMirror
func NewImageMirror(store ObjectStore, opts ...MirrorOption) *ImageMirror {
	m := &ImageMirror{
		store: store,
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Prepare makes sure the destination bucket exists
func (m *ImageMirror) Prepare(ctx context.Context) error {
	return m.store.EnsureBucket(ctx)
}

// Mirror copies sourceURL to key unless key is already stored and returns
// the URL the copy is served from.
func (m *ImageMirror) Mirror(ctx context.Context, sourceURL, key string) (string, error) {
	exists, err := m.store.ObjectExists(ctx, key)
	if err != nil {
		return "", err
	}
	if exists {
		return m.store.PublicURL(key), nil
	}

	data, contentType, err := m.download(ctx, sourceURL)
	if err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = mime.TypeByExtension(path.Ext(key))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := m.store.Upload(ctx, key, data, contentType); err != nil {
		return "", err
	}
	m.logger.Debug("Mirrored image",
		zap.String("source", sourceURL),
		zap.String("key", key),
		zap.Int("bytes", len(data)),
	)
	return m.store.PublicURL(key), nil
}

func (m *ImageMirror) download(ctx context.Context, sourceURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create image request: %w", err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) > maxImageSize {
		return nil, "", errors.New("image exceeds " + strconv.Itoa(maxImageSize) + " bytes")
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// ArtworkKey names the object an entry's artwork is mirrored to, keeping
// the source file extension.
func ArtworkKey(pokedexID int, shiny bool, sourceURL string) string {
	ext := ".png"
	if u, err := url.Parse(sourceURL); err == nil && path.Ext(u.Path) != "" {
		ext = path.Ext(u.Path)
	}
	variant := "default"
	if shiny {
		variant = "shiny"
	}
	return fmt.Sprintf("artwork/%s/%d%s", variant, pokedexID, ext)
}
