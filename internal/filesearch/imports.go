package filesearch

import (
	"context"
	"fmt"
	"net/http"
)

type importFileRequest struct {
	FileName       string          `json:"fileName"`
	ChunkingConfig *ChunkingConfig `json:"chunkingConfig,omitempty"`
}

// ImportFile requests ingestion of an uploaded file into a store and returns
// the long-running operation handle. The import runs asynchronously; poll
// the operation with GetOperation until Done.
func (c *Client) ImportFile(ctx context.Context, storeName, fileName string, chunking ChunkingConfig) (*Operation, error) {
	req := importFileRequest{FileName: fileName}
	if chunking.WhiteSpaceConfig != nil {
		req.ChunkingConfig = &chunking
	}

	var op Operation
	u := c.endpoint(storeName+":importFile", nil)
	if err := c.doJSON(ctx, http.MethodPost, u, req, &op); err != nil {
		return nil, fmt.Errorf("importing %s into %s: %w", fileName, storeName, err)
	}
	return &op, nil
}

// GetOperation fetches the current state of a long-running operation by its
// resource name. A single poll; callers own the polling loop.
func (c *Client) GetOperation(ctx context.Context, name string) (*Operation, error) {
	var op Operation
	u := c.endpoint(name, nil)
	if err := c.doJSON(ctx, http.MethodGet, u, nil, &op); err != nil {
		return nil, fmt.Errorf("getting operation %s: %w", name, err)
	}
	return &op, nil
}
