// Package dropbox implements the document-store collaborator on top of
// the Dropbox API.
package dropbox

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/files"
	"golang.org/x/time/rate"

	"github.com/rn-medical/complaints-pipeline/internal/core/ports/driven"
	"github.com/rn-medical/complaints-pipeline/internal/logger"
)

const (
	// maxAttempts and retryBackoff shape the upload retry loop: transient
	// failures (throttling, 5xx) get five tries with linear backoff.
	maxAttempts  = 5
	retryBackoff = 600 * time.Millisecond
)

// Conservative client-side limit for the content endpoints.
var defaultLimit = rate.NewLimiter(rate.Limit(2), 4)

// uploader is the slice of the Dropbox files API the client needs.
// files.Client satisfies it; tests substitute a fake.
type uploader interface {
	Upload(arg *files.UploadArg, content io.Reader) (*files.FileMetadata, error)
}

// Ensure Client implements the interface.
var _ driven.DocumentStore = (*Client)(nil)

// Client uploads artifacts beneath a base folder. Uploads use overwrite
// mode: a deterministic path means a retried upload replaces the same
// remote file instead of duplicating it.
type Client struct {
	api        uploader
	baseFolder string
	limiter    *rate.Limiter
	sleep      func(time.Duration)
}

// NewClient creates a Dropbox client from an API access token.
func NewClient(token, baseFolder string) *Client {
	cfg := dropbox.Config{Token: token, LogLevel: dropbox.LogOff}
	return &Client{
		api:        files.New(cfg),
		baseFolder: baseFolder,
		limiter:    defaultLimit,
		sleep:      time.Sleep,
	}
}

// Upload writes content to path relative to the base folder and returns
// the remote file identifier.
func (c *Client) Upload(ctx context.Context, path string, content []byte) (string, error) {
	arg := files.NewUploadArg(c.remotePath(path))
	arg.Mode = &files.WriteMode{Tagged: dropbox.Tagged{Tag: "overwrite"}}
	arg.Mute = true

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}

		meta, err := c.api.Upload(arg, bytes.NewReader(content))
		if err == nil {
			logger.Debug("uploaded %s (%d bytes)", arg.Path, len(content))
			return meta.Id, nil
		}
		lastErr = err

		if attempt < maxAttempts {
			logger.Warn("upload %s attempt %d failed: %v", arg.Path, attempt, err)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			default:
			}
			c.sleep(time.Duration(attempt) * retryBackoff)
		}
	}

	return "", fmt.Errorf("uploading %s after %d attempts: %w", arg.Path, maxAttempts, lastErr)
}

// remotePath joins the base folder and artifact path into an absolute
// Dropbox path.
func (c *Client) remotePath(path string) string {
	parts := []string{}
	if base := strings.Trim(c.baseFolder, "/"); base != "" {
		parts = append(parts, base)
	}
	parts = append(parts, strings.Trim(path, "/"))
	return "/" + strings.Join(parts, "/")
}
