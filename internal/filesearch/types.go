package filesearch

import "encoding/json"

// Store is a remote file search store: a named, persistent collection of
// indexed documents.
type Store struct {
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	CreateTime  string `json:"createTime,omitempty"`
	UpdateTime  string `json:"updateTime,omitempty"`
	SizeBytes   string `json:"sizeBytes,omitempty"`
}

// File states reported by the Files API.
const (
	FileStateProcessing = "PROCESSING"
	FileStateActive     = "ACTIVE"
	FileStateFailed     = "FAILED"
)

// File is a remote uploaded file.
type File struct {
	Name        string  `json:"name,omitempty"`
	DisplayName string  `json:"displayName,omitempty"`
	MimeType    string  `json:"mimeType,omitempty"`
	SizeBytes   string  `json:"sizeBytes,omitempty"`
	State       string  `json:"state,omitempty"`
	URI         string  `json:"uri,omitempty"`
	CreateTime  string  `json:"createTime,omitempty"`
	Error       *Status `json:"error,omitempty"`
}

// Status is the google.rpc.Status error detail carried by files and
// long-running operations.
type Status struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Operation is a long-running operation handle, e.g. a file import job.
// Done is false while the import is pending or running.
type Operation struct {
	Name     string          `json:"name,omitempty"`
	Done     bool            `json:"done,omitempty"`
	Error    *Status         `json:"error,omitempty"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
	Response json.RawMessage `json:"response,omitempty"`
}

// ChunkingConfig controls how the remote service splits an imported document
// into retrievable segments. Passed through unmodified at import time.
type ChunkingConfig struct {
	WhiteSpaceConfig *WhiteSpaceConfig `json:"whiteSpaceConfig,omitempty"`
}

// WhiteSpaceConfig is the whitespace-based chunking strategy.
type WhiteSpaceConfig struct {
	MaxTokensPerChunk int `json:"maxTokensPerChunk,omitempty"`
	MaxOverlapTokens  int `json:"maxOverlapTokens,omitempty"`
}

// NewChunkingConfig builds a whitespace ChunkingConfig from the two knobs the
// API exposes.
func NewChunkingConfig(maxTokensPerChunk, maxOverlapTokens int) ChunkingConfig {
	return ChunkingConfig{
		WhiteSpaceConfig: &WhiteSpaceConfig{
			MaxTokensPerChunk: maxTokensPerChunk,
			MaxOverlapTokens:  maxOverlapTokens,
		},
	}
}

// GroundedResponse is the generateContent payload for a grounded query.
// Grounding metadata is optional; callers must tolerate its absence.
type GroundedResponse struct {
	Candidates []Candidate `json:"candidates,omitempty"`
}

// Candidate is one generated response candidate.
type Candidate struct {
	Content           *Content           `json:"content,omitempty"`
	FinishReason      string             `json:"finishReason,omitempty"`
	GroundingMetadata *GroundingMetadata `json:"groundingMetadata,omitempty"`
}

// Content holds the generated parts.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts,omitempty"`
}

// Part is a single content fragment.
type Part struct {
	Text string `json:"text,omitempty"`
}

// GroundingMetadata links spans of the answer to source documents.
type GroundingMetadata struct {
	GroundingChunks []GroundingChunk `json:"groundingChunks,omitempty"`
}

// GroundingChunk references one retrieved context.
type GroundingChunk struct {
	RetrievedContext *RetrievedContext `json:"retrievedContext,omitempty"`
}

// RetrievedContext names the source document a grounding chunk came from.
// Any field may be empty.
type RetrievedContext struct {
	Title string `json:"title,omitempty"`
	URI   string `json:"uri,omitempty"`
	Text  string `json:"text,omitempty"`
}

// Text returns the concatenated text of the first candidate, or "" when the
// response carries no usable content.
func (r *GroundedResponse) Text() string {
	if r == nil || len(r.Candidates) == 0 || r.Candidates[0].Content == nil {
		return ""
	}
	var text string
	for _, part := range r.Candidates[0].Content.Parts {
		text += part.Text
	}
	return text
}

// Grounding returns the grounding metadata of the first candidate, or nil.
func (r *GroundedResponse) Grounding() *GroundingMetadata {
	if r == nil || len(r.Candidates) == 0 {
		return nil
	}
	return r.Candidates[0].GroundingMetadata
}
