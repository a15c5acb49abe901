package filesearch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

type createStoreRequest struct {
	DisplayName string `json:"displayName,omitempty"`
}

// CreateStore creates a new file search store with the given display name.
func (c *Client) CreateStore(ctx context.Context, displayName string) (*Store, error) {
	var store Store
	u := c.endpoint("fileSearchStores", nil)
	if err := c.doJSON(ctx, http.MethodPost, u, createStoreRequest{DisplayName: displayName}, &store); err != nil {
		return nil, fmt.Errorf("creating store %q: %w", displayName, err)
	}
	return &store, nil
}

type listStoresResponse struct {
	FileSearchStores []Store `json:"fileSearchStores,omitempty"`
	NextPageToken    string  `json:"nextPageToken,omitempty"`
}

// ListStores returns all file search stores, following pagination.
func (c *Client) ListStores(ctx context.Context) ([]Store, error) {
	var stores []Store
	pageToken := ""
	for {
		query := url.Values{}
		if pageToken != "" {
			query.Set("pageToken", pageToken)
		}

		var page listStoresResponse
		u := c.endpoint("fileSearchStores", query)
		if err := c.doJSON(ctx, http.MethodGet, u, nil, &page); err != nil {
			return nil, fmt.Errorf("listing stores: %w", err)
		}

		stores = append(stores, page.FileSearchStores...)
		if page.NextPageToken == "" {
			return stores, nil
		}
		pageToken = page.NextPageToken
	}
}

// DeleteStore deletes the store with the given resource name
// (e.g. "fileSearchStores/abc123"). With force set, documents still in the
// store are deleted along with it.
func (c *Client) DeleteStore(ctx context.Context, name string, force bool) error {
	query := url.Values{}
	if force {
		query.Set("force", "true")
	}
	u := c.endpoint(name, query)
	if err := c.doJSON(ctx, http.MethodDelete, u, nil, nil); err != nil {
		return fmt.Errorf("deleting store %s: %w", name, err)
	}
	return nil
}
