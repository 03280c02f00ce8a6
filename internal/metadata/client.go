// Package metadata queries static facts about media files and tracks the
// metadata of the file currently selected by the user.
package metadata

import (
	"context"
	"errors"
	"fmt"

	"github.com/ytget/media-workbench/internal/model"
)

// ErrEmptyPath is returned when a query is issued without a path
var ErrEmptyPath = errors.New("empty path")

// Fetcher is the get-video-info side of the worker
type Fetcher interface {
	VideoInfo(ctx context.Context, inputPath string) (model.VideoMetadata, error)
}

// Client issues get-video-info queries
type Client struct {
	fetcher Fetcher
}

// NewClient creates a client backed by fetcher
func NewClient(fetcher Fetcher) *Client {
	return &Client{fetcher: fetcher}
}

// FetchMetadata returns the metadata of path
func (c *Client) FetchMetadata(ctx context.Context, path string) (model.VideoMetadata, error) {
	if path == "" {
		return model.VideoMetadata{}, ErrEmptyPath
	}
	meta, err := c.fetcher.VideoInfo(ctx, path)
	if err != nil {
		return model.VideoMetadata{}, fmt.Errorf("failed to get video info: %w", err)
	}
	return meta, nil
}
