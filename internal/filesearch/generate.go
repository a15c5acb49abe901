package filesearch

import (
	"context"
	"fmt"
	"net/http"
)

// GroundedRequest is a grounded query against one file search store. The
// generation parameters are optional; unset ones are left out of the request
// so the model's own defaults apply.
type GroundedRequest struct {
	Model           string
	Question        string
	StoreName       string
	MaxOutputTokens int
	Temperature     *float64
}

type generateRequest struct {
	Contents         []Content         `json:"contents"`
	Tools            []tool            `json:"tools,omitempty"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type tool struct {
	FileSearch *fileSearchTool `json:"fileSearch,omitempty"`
}

type fileSearchTool struct {
	FileSearchStoreNames []string `json:"fileSearchStoreNames"`
}

type generationConfig struct {
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"`
}

// GenerateGrounded sends a generateContent request with the file search tool
// attached, so the model answers from the store's indexed documents and
// returns grounding metadata alongside the text.
func (c *Client) GenerateGrounded(ctx context.Context, req GroundedRequest) (*GroundedResponse, error) {
	if req.StoreName == "" {
		return nil, fmt.Errorf("grounded request requires a store name")
	}

	apiReq := generateRequest{
		Contents: []Content{{
			Role:  "user",
			Parts: []Part{{Text: req.Question}},
		}},
		Tools: []tool{{
			FileSearch: &fileSearchTool{
				FileSearchStoreNames: []string{req.StoreName},
			},
		}},
	}
	if req.MaxOutputTokens > 0 || req.Temperature != nil {
		apiReq.GenerationConfig = &generationConfig{
			MaxOutputTokens: req.MaxOutputTokens,
			Temperature:     req.Temperature,
		}
	}

	var resp GroundedResponse
	u := c.endpoint(fmt.Sprintf("models/%s:generateContent", req.Model), nil)
	if err := c.doJSON(ctx, http.MethodPost, u, apiReq, &resp); err != nil {
		return nil, fmt.Errorf("grounded query: %w", err)
	}
	return &resp, nil
}
