package cloudinary

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/maisonlumiere/boutique-backend/pkg/config"
	"github.com/maisonlumiere/boutique-backend/pkg/logger"
)

const uploadEndpoint = "https://api.cloudinary.com/v1_1/%s/image/upload"

var errNotConfigured = errors.New("cloudinary credentials are not configured")

// Client produces signed upload credentials for direct browser uploads.
// Signing happens locally, so the client never calls Cloudinary itself.
type Client struct {
	cloudName string
	apiKey    string
	apiSecret string
}

// SignedUpload carries everything a browser needs to POST a file to Cloudinary.
type SignedUpload struct {
	CloudName string `json:"cloud_name"`
	APIKey    string `json:"api_key"`
	Timestamp int64  `json:"timestamp"`
	Folder    string `json:"folder"`
	Signature string `json:"signature"`
	UploadURL string `json:"upload_url"`
}

// NewClient validates the configured credentials.
func NewClient(ctx context.Context, cfg config.CloudinaryConfig, logg *logger.Logger) (*Client, error) {
	if !cfg.Configured() {
		return nil, errNotConfigured
	}
	if logg != nil {
		logg.Info(ctx, "cloudinary signer initialized")
	}
	return &Client{
		cloudName: cfg.CloudName,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
	}, nil
}

// UploadCredential signs an upload scoped to the given folder at now.
func (c *Client) UploadCredential(folder string, now time.Time) (*SignedUpload, error) {
	if c == nil {
		return nil, errNotConfigured
	}
	folder = strings.TrimSpace(folder)
	if folder == "" {
		return nil, errors.New("upload folder is required")
	}

	timestamp := now.Unix()
	params := map[string]string{
		"folder":    folder,
		"timestamp": strconv.FormatInt(timestamp, 10),
	}

	return &SignedUpload{
		CloudName: c.cloudName,
		APIKey:    c.apiKey,
		Timestamp: timestamp,
		Folder:    folder,
		Signature: c.sign(params),
		UploadURL: fmt.Sprintf(uploadEndpoint, c.cloudName),
	}, nil
}

// sign implements Cloudinary's request signing: parameters sorted by key,
// serialized as key=value pairs joined with &, with the API secret appended,
// hashed with SHA-1.
func (c *Client) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params[key])
	}

	toSign := strings.Join(pairs, "&") + c.apiSecret
	sum := sha1.Sum([]byte(toSign))
	return hex.EncodeToString(sum[:])
}
