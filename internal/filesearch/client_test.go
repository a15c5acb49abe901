package filesearch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client())), srv
}

func TestCreateStore(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/v1beta/fileSearchStores" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing key query param")
		}

		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["displayName"] != "my-knowledge-base" {
			t.Errorf("expected displayName 'my-knowledge-base', got %q", req["displayName"])
		}

		json.NewEncoder(w).Encode(Store{
			Name:        "fileSearchStores/abc123",
			DisplayName: "my-knowledge-base",
		})
	}))

	store, err := client.CreateStore(context.Background(), "my-knowledge-base")
	if err != nil {
		t.Fatalf("CreateStore failed: %v", err)
	}
	if store.Name != "fileSearchStores/abc123" {
		t.Errorf("unexpected store name %q", store.Name)
	}
}

func TestListStoresFollowsPagination(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("pageToken") == "" {
			json.NewEncoder(w).Encode(listStoresResponse{
				FileSearchStores: []Store{{Name: "fileSearchStores/one"}},
				NextPageToken:    "page2",
			})
			return
		}
		json.NewEncoder(w).Encode(listStoresResponse{
			FileSearchStores: []Store{{Name: "fileSearchStores/two"}},
		})
	}))

	stores, err := client.ListStores(context.Background())
	if err != nil {
		t.Fatalf("ListStores failed: %v", err)
	}
	if len(stores) != 2 {
		t.Fatalf("expected 2 stores, got %d", len(stores))
	}
	if stores[0].Name != "fileSearchStores/one" || stores[1].Name != "fileSearchStores/two" {
		t.Errorf("unexpected stores: %+v", stores)
	}
}

func TestDeleteStoreForce(t *testing.T) {
	var gotForce string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		if r.URL.Path != "/v1beta/fileSearchStores/abc123" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotForce = r.URL.Query().Get("force")
		w.Write([]byte("{}"))
	}))

	if err := client.DeleteStore(context.Background(), "fileSearchStores/abc123", true); err != nil {
		t.Fatalf("DeleteStore failed: %v", err)
	}
	if gotForce != "true" {
		t.Errorf("expected force=true, got %q", gotForce)
	}
}

func TestUploadFileSendsDisplayNameOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes (v2).txt")
	if err := os.WriteFile(path, []byte("hello world"), 0644); err != nil {
		t.Fatal(err)
	}

	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/upload/v1beta/files", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Goog-Upload-Protocol") != "resumable" {
			t.Errorf("expected resumable protocol header, got %q", r.Header.Get("X-Goog-Upload-Protocol"))
		}
		if r.Header.Get("X-Goog-Upload-Command") != "start" {
			t.Errorf("expected start command, got %q", r.Header.Get("X-Goog-Upload-Command"))
		}
		if r.Header.Get("X-Goog-Upload-Header-Content-Type") != "text/plain" {
			t.Errorf("unexpected content type header %q", r.Header.Get("X-Goog-Upload-Header-Content-Type"))
		}

		var body map[string]map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode metadata: %v", err)
		}
		file := body["file"]
		if file["displayName"] != "notes (v2).txt" {
			t.Errorf("expected displayName 'notes (v2).txt', got %q", file["displayName"])
		}
		// The raw name field must never be sent; the API rejects many
		// filename formats there.
		if _, ok := file["name"]; ok {
			t.Error("metadata must not carry a name field")
		}

		w.Header().Set("X-Goog-Upload-URL", srv.URL+"/upload-session")
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/upload-session", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Goog-Upload-Command") != "upload, finalize" {
			t.Errorf("expected finalize command, got %q", r.Header.Get("X-Goog-Upload-Command"))
		}
		got, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read upload body: %v", err)
		}
		if string(got) != "hello world" {
			t.Errorf("uploaded bytes mismatch: got %q", string(got))
		}
		json.NewEncoder(w).Encode(uploadResponse{
			File: &File{Name: "files/xyz789", DisplayName: "notes (v2).txt", State: FileStateActive},
		})
	})

	srv = httptest.NewServer(mux)
	defer srv.Close()
	client := NewClient("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	file, err := client.UploadFile(context.Background(), path, "notes (v2).txt", "text/plain")
	if err != nil {
		t.Fatalf("UploadFile failed: %v", err)
	}
	if file.Name != "files/xyz789" {
		t.Errorf("unexpected remote name %q", file.Name)
	}
}

func TestImportFileCarriesChunkingConfig(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/fileSearchStores/abc123:importFile" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var req importFileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.FileName != "files/xyz789" {
			t.Errorf("expected fileName 'files/xyz789', got %q", req.FileName)
		}
		if req.ChunkingConfig == nil || req.ChunkingConfig.WhiteSpaceConfig == nil {
			t.Fatal("expected chunkingConfig.whiteSpaceConfig")
		}
		ws := req.ChunkingConfig.WhiteSpaceConfig
		if ws.MaxTokensPerChunk != 500 || ws.MaxOverlapTokens != 50 {
			t.Errorf("unexpected chunking values: %+v", ws)
		}

		json.NewEncoder(w).Encode(Operation{Name: "fileSearchStores/abc123/operations/op1"})
	}))

	op, err := client.ImportFile(context.Background(), "fileSearchStores/abc123", "files/xyz789", NewChunkingConfig(500, 50))
	if err != nil {
		t.Fatalf("ImportFile failed: %v", err)
	}
	if op.Name != "fileSearchStores/abc123/operations/op1" {
		t.Errorf("unexpected operation name %q", op.Name)
	}
	if op.Done {
		t.Error("expected operation not done")
	}
}

func TestGetOperationSurfacesFailure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Operation{
			Name:  "fileSearchStores/abc123/operations/op1",
			Done:  true,
			Error: &Status{Code: 3, Message: "unsupported file format"},
		})
	}))

	op, err := client.GetOperation(context.Background(), "fileSearchStores/abc123/operations/op1")
	if err != nil {
		t.Fatalf("GetOperation failed: %v", err)
	}
	if !op.Done {
		t.Error("expected done operation")
	}
	if op.Error == nil || op.Error.Message != "unsupported file format" {
		t.Errorf("expected operation error detail, got %+v", op.Error)
	}
}

func TestGenerateGrounded(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/gemini-2.5-pro:generateContent" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Tools) != 1 || req.Tools[0].FileSearch == nil {
			t.Fatal("expected a fileSearch tool")
		}
		names := req.Tools[0].FileSearch.FileSearchStoreNames
		if len(names) != 1 || names[0] != "fileSearchStores/abc123" {
			t.Errorf("unexpected store names %v", names)
		}
		if len(req.Contents) != 1 || req.Contents[0].Parts[0].Text != "what is the capital?" {
			t.Errorf("unexpected contents %+v", req.Contents)
		}

		json.NewEncoder(w).Encode(GroundedResponse{
			Candidates: []Candidate{{
				Content: &Content{Parts: []Part{{Text: "The capital "}, {Text: "is Paris."}}},
				GroundingMetadata: &GroundingMetadata{
					GroundingChunks: []GroundingChunk{
						{RetrievedContext: &RetrievedContext{Title: "geography.txt", URI: "files/geo"}},
					},
				},
			}},
		})
	}))

	resp, err := client.GenerateGrounded(context.Background(), GroundedRequest{
		Model:     "gemini-2.5-pro",
		Question:  "what is the capital?",
		StoreName: "fileSearchStores/abc123",
	})
	if err != nil {
		t.Fatalf("GenerateGrounded failed: %v", err)
	}
	if resp.Text() != "The capital is Paris." {
		t.Errorf("unexpected answer text %q", resp.Text())
	}
	grounding := resp.Grounding()
	if grounding == nil || len(grounding.GroundingChunks) != 1 {
		t.Fatalf("expected grounding metadata, got %+v", grounding)
	}
	if grounding.GroundingChunks[0].RetrievedContext.Title != "geography.txt" {
		t.Errorf("unexpected citation title")
	}
}

func TestGenerateGroundedOmitsGenerationConfigByDefault(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if _, ok := body["generationConfig"]; ok {
			t.Errorf("request without options must not carry generationConfig, got %s", body["generationConfig"])
		}
		json.NewEncoder(w).Encode(GroundedResponse{
			Candidates: []Candidate{{Content: &Content{Parts: []Part{{Text: "ok"}}}}},
		})
	}))

	_, err := client.GenerateGrounded(context.Background(), GroundedRequest{
		Model:     "gemini-2.5-pro",
		Question:  "anything",
		StoreName: "fileSearchStores/abc123",
	})
	if err != nil {
		t.Fatalf("GenerateGrounded failed: %v", err)
	}
}

func TestGenerateGroundedForwardsGenerationOptions(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.GenerationConfig == nil {
			t.Fatal("expected generationConfig")
		}
		if req.GenerationConfig.MaxOutputTokens != 256 {
			t.Errorf("expected maxOutputTokens 256, got %d", req.GenerationConfig.MaxOutputTokens)
		}
		if req.GenerationConfig.Temperature == nil || *req.GenerationConfig.Temperature != 0 {
			t.Errorf("expected temperature 0, got %v", req.GenerationConfig.Temperature)
		}
		json.NewEncoder(w).Encode(GroundedResponse{
			Candidates: []Candidate{{Content: &Content{Parts: []Part{{Text: "ok"}}}}},
		})
	}))

	temp := 0.0
	_, err := client.GenerateGrounded(context.Background(), GroundedRequest{
		Model:           "gemini-2.5-pro",
		Question:        "anything",
		StoreName:       "fileSearchStores/abc123",
		MaxOutputTokens: 256,
		Temperature:     &temp,
	})
	if err != nil {
		t.Fatalf("GenerateGrounded failed: %v", err)
	}
}

func TestGenerateGroundedRequiresStore(t *testing.T) {
	client := NewClient("test-key")
	_, err := client.GenerateGrounded(context.Background(), GroundedRequest{
		Model:    "gemini-2.5-pro",
		Question: "anything",
	})
	if err == nil {
		t.Fatal("expected error for missing store name")
	}
}

func TestErrorEnvelopeIsSurfaced(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(errorEnvelope{
			Error: &apiError{Code: 400, Message: "API key not valid", Status: "INVALID_ARGUMENT"},
		})
	}))

	_, err := client.CreateStore(context.Background(), "whatever")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "INVALID_ARGUMENT") || !strings.Contains(err.Error(), "API key not valid") {
		t.Errorf("error should carry API status and message, got: %v", err)
	}
}

func TestResponseTextEmptyWithoutCandidates(t *testing.T) {
	var resp GroundedResponse
	if resp.Text() != "" {
		t.Errorf("expected empty text, got %q", resp.Text())
	}
	if resp.Grounding() != nil {
		t.Error("expected nil grounding")
	}
}
