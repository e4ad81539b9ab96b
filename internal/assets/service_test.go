package assets

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/maisonlumiere/boutique-backend/pkg/config"
	pkgerrors "github.com/maisonlumiere/boutique-backend/pkg/errors"
)

func newAssetFixture(t *testing.T) (Service, string) {
	t.Helper()

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "css"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "css", "site.css"), []byte("body{}"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	svc, err := NewService(config.AssetsConfig{Root: root, CacheMaxAge: time.Hour})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, root
}

func TestResolveKnownAsset(t *testing.T) {
	t.Parallel()

	svc, root := newAssetFixture(t)

	asset, err := svc.Resolve(context.Background(), "/css/site.css")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if asset.Path != filepath.Join(root, "css", "site.css") {
		t.Fatalf("unexpected path %q", asset.Path)
	}
	if asset.ContentType != "text/css; charset=utf-8" {
		t.Fatalf("unexpected content type %q", asset.ContentType)
	}
	if !strings.Contains(asset.CacheControl, "max-age=3600") || !strings.Contains(asset.CacheControl, "immutable") {
		t.Fatalf("unexpected cache control %q", asset.CacheControl)
	}
}

func TestResolveTraversalIsNotFound(t *testing.T) {
	t.Parallel()

	svc, _ := newAssetFixture(t)

	for _, path := range []string{
		"/../etc/passwd",
		"/css/../../etc/passwd",
		"../../secret",
	} {
		_, err := svc.Resolve(context.Background(), path)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
			t.Fatalf("path %q: expected NOT_FOUND, got %v", path, err)
		}
	}
}

func TestResolveMissingFileAndDirectory(t *testing.T) {
	t.Parallel()

	svc, _ := newAssetFixture(t)

	_, err := svc.Resolve(context.Background(), "/css/missing.css")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for missing file, got %v", err)
	}

	_, err = svc.Resolve(context.Background(), "/css")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for directory, got %v", err)
	}
}

func TestResolveUnknownExtensionFallsBack(t *testing.T) {
	t.Parallel()

	svc, root := newAssetFixture(t)
	if err := os.WriteFile(filepath.Join(root, "blob.bin"), []byte{0x1}, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	asset, err := svc.Resolve(context.Background(), "/blob.bin")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if asset.ContentType != "application/octet-stream" {
		t.Fatalf("unexpected content type %q", asset.ContentType)
	}
}
