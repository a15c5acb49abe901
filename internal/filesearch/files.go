package filesearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
)

// uploadMetadata is the start-request body of the resumable upload protocol.
// Only displayName is sent: the API rejects many on-disk filename formats
// when they are passed as the resource name, so the name field is always
// left for the server to assign.
type uploadMetadata struct {
	File struct {
		DisplayName string `json:"displayName,omitempty"`
	} `json:"file"`
}

type uploadResponse struct {
	File *File `json:"file,omitempty"`
}

// UploadFile uploads a local file via the resumable upload protocol and
// returns the remote File. The returned file may still be in the PROCESSING
// state; importing into a store handles that server-side.
func (c *Client) UploadFile(ctx context.Context, path, displayName, mimeType string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	size := info.Size()

	uploadURL, err := c.startUpload(ctx, displayName, mimeType, size)
	if err != nil {
		return nil, err
	}

	return c.finishUpload(ctx, uploadURL, f, size)
}

// startUpload issues the resumable-protocol start request and returns the
// session upload URL.
func (c *Client) startUpload(ctx context.Context, displayName, mimeType string, size int64) (string, error) {
	var meta uploadMetadata
	meta.File.DisplayName = displayName

	body, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("failed to marshal upload metadata: %w", err)
	}

	u := fmt.Sprintf("%s/upload/%s/files?key=%s", c.baseURL, apiVersion, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Upload-Protocol", "resumable")
	req.Header.Set("X-Goog-Upload-Command", "start")
	req.Header.Set("X-Goog-Upload-Header-Content-Length", strconv.FormatInt(size, 10))
	req.Header.Set("X-Goog-Upload-Header-Content-Type", mimeType)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload start request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read upload start response: %w", err)
	}
	if err := decodeResponse(resp.StatusCode, respBody, nil); err != nil {
		return "", err
	}

	uploadURL := resp.Header.Get("X-Goog-Upload-URL")
	if uploadURL == "" {
		return "", fmt.Errorf("upload start response missing X-Goog-Upload-URL header")
	}
	return uploadURL, nil
}

// finishUpload streams the file bytes to the session URL and finalizes the
// upload in a single request.
func (c *Client) finishUpload(ctx context.Context, uploadURL string, r io.Reader, size int64) (*File, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, r)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.ContentLength = size
	req.Header.Set("X-Goog-Upload-Offset", "0")
	req.Header.Set("X-Goog-Upload-Command", "upload, finalize")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload response: %w", err)
	}

	var out uploadResponse
	if err := decodeResponse(resp.StatusCode, respBody, &out); err != nil {
		return nil, err
	}
	if out.File == nil || out.File.Name == "" {
		return nil, fmt.Errorf("upload response missing file resource")
	}
	return out.File, nil
}

type listFilesResponse struct {
	Files         []File `json:"files,omitempty"`
	NextPageToken string `json:"nextPageToken,omitempty"`
}

// ListFiles returns all uploaded files, following pagination.
func (c *Client) ListFiles(ctx context.Context) ([]File, error) {
	var files []File
	pageToken := ""
	for {
		query := url.Values{}
		if pageToken != "" {
			query.Set("pageToken", pageToken)
		}

		var page listFilesResponse
		u := c.endpoint("files", query)
		if err := c.doJSON(ctx, http.MethodGet, u, nil, &page); err != nil {
			return nil, fmt.Errorf("listing files: %w", err)
		}

		files = append(files, page.Files...)
		if page.NextPageToken == "" {
			return files, nil
		}
		pageToken = page.NextPageToken
	}
}

// DeleteFile deletes the remote file with the given resource name
// (e.g. "files/abc123").
func (c *Client) DeleteFile(ctx context.Context, name string) error {
	u := c.endpoint(name, nil)
	if err := c.doJSON(ctx, http.MethodDelete, u, nil, nil); err != nil {
		return fmt.Errorf("deleting file %s: %w", name, err)
	}
	return nil
}
