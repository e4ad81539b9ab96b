package assets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/maisonlumiere/boutique-backend/pkg/config"
	pkgerrors "github.com/maisonlumiere/boutique-backend/pkg/errors"
)

var contentTypesByExtension = map[string]string{
	".css":   "text/css; charset=utf-8",
	".js":    "application/javascript; charset=utf-8",
	".json":  "application/json; charset=utf-8",
	".svg":   "image/svg+xml",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".webp":  "image/webp",
	".avif":  "image/avif",
	".gif":   "image/gif",
	".ico":   "image/x-icon",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".ttf":   "font/ttf",
	".otf":   "font/otf",
	".txt":   "text/plain; charset=utf-8",
	".xml":   "application/xml; charset=utf-8",
	".map":   "application/json; charset=utf-8",
}

const fallbackContentType = "application/octet-stream"

// Asset describes a resolved static file ready to serve.
type Asset struct {
	Path         string
	ContentType  string
	CacheControl string
}

// Service resolves public asset paths to files under the configured root.
// Anything that escapes the root resolves to not found, never to an error
// that reveals the layout.
type Service interface {
	Resolve(ctx context.Context, requestPath string) (*Asset, error)
}

type service struct {
	root         string
	cacheControl string
}

// NewService builds the asset resolver from the assets configuration.
func NewService(cfg config.AssetsConfig) (Service, error) {
	root := strings.TrimSpace(cfg.Root)
	if root == "" {
		return nil, fmt.Errorf("assets root is required")
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve assets root: %w", err)
	}
	maxAge := cfg.CacheMaxAge
	if maxAge <= 0 {
		maxAge = 365 * 24 * time.Hour
	}
	return &service{
		root:         absRoot,
		cacheControl: fmt.Sprintf("public, max-age=%d, immutable", int(maxAge.Seconds())),
	}, nil
}

func (s *service) Resolve(ctx context.Context, requestPath string) (*Asset, error) {
	cleaned := filepath.Clean("/" + strings.TrimSpace(requestPath))
	full := filepath.Join(s.root, cleaned)

	// Join + Clean normalizes ".." segments, but keep the prefix check as the
	// invariant: nothing outside the root is ever served.
	if full != s.root && !strings.HasPrefix(full, s.root+string(filepath.Separator)) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "asset not found")
	}

	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "asset not found")
	}

	contentType, ok := contentTypesByExtension[strings.ToLower(filepath.Ext(full))]
	if !ok {
		contentType = fallbackContentType
	}

	return &Asset{
		Path:         full,
		ContentType:  contentType,
		CacheControl: s.cacheControl,
	}, nil
}
