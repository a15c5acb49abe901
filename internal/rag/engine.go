// Package rag orchestrates document ingestion into a remote file search
// store and grounded queries against it. All indexing and retrieval is
// server-side; this package owns only sequencing, per-file fault isolation,
// bounded import polling, and citation extraction.
package rag

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ziadkadry99/gemrag/internal/catalog"
	"github.com/ziadkadry99/gemrag/internal/filesearch"
	"github.com/ziadkadry99/gemrag/internal/walker"
)

// SearchClient is the remote service boundary the engine depends on.
// *filesearch.Client satisfies it; tests substitute a mock.
type SearchClient interface {
	CreateStore(ctx context.Context, displayName string) (*filesearch.Store, error)
	ListStores(ctx context.Context) ([]filesearch.Store, error)
	DeleteStore(ctx context.Context, name string, force bool) error
	UploadFile(ctx context.Context, path, displayName, mimeType string) (*filesearch.File, error)
	ListFiles(ctx context.Context) ([]filesearch.File, error)
	DeleteFile(ctx context.Context, name string) error
	ImportFile(ctx context.Context, storeName, fileName string, chunking filesearch.ChunkingConfig) (*filesearch.Operation, error)
	GetOperation(ctx context.Context, name string) (*filesearch.Operation, error)
	GenerateGrounded(ctx context.Context, req filesearch.GroundedRequest) (*filesearch.GroundedResponse, error)
}

// StoreHandle references the engine's current remote store.
type StoreHandle struct {
	ID          string // Catalog record ID.
	RemoteName  string // Remote resource name, e.g. fileSearchStores/abc.
	DisplayName string
}

// Options configures an Engine.
type Options struct {
	Model          string
	Chunking       filesearch.ChunkingConfig
	PollInterval   time.Duration
	ImportTimeout  time.Duration
	MaxConcurrency int
}

// Engine owns the single current store handle and coordinates ingestion and
// querying. One engine instance per store; the handle is guarded for
// concurrent callers.
type Engine struct {
	client SearchClient
	cat    *catalog.Catalog
	opts   Options

	mu    sync.Mutex
	store *StoreHandle
}

// NewEngine creates an Engine over the given client and catalog.
func NewEngine(client SearchClient, cat *catalog.Catalog, opts Options) *Engine {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 2 * time.Second
	}
	if opts.ImportTimeout <= 0 {
		opts.ImportTimeout = 2 * time.Minute
	}
	if opts.MaxConcurrency < 1 {
		opts.MaxConcurrency = 1
	}
	return &Engine{client: client, cat: cat, opts: opts}
}

// CreateStore creates a remote file search store, records it in the catalog,
// and makes it the engine's current store.
func (e *Engine) CreateStore(ctx context.Context, displayName string) (*StoreHandle, error) {
	store, err := e.client.CreateStore(ctx, displayName)
	if err != nil {
		return nil, &StoreCreationError{DisplayName: displayName, Err: err}
	}

	rec, err := e.cat.SaveStore(ctx, store.Name, displayName)
	if err != nil {
		return nil, fmt.Errorf("recording store: %w", err)
	}

	handle := &StoreHandle{ID: rec.ID, RemoteName: rec.RemoteName, DisplayName: rec.DisplayName}
	e.mu.Lock()
	e.store = handle
	e.mu.Unlock()
	return handle, nil
}

// UseStore makes a previously created store the current one.
func (e *Engine) UseStore(ctx context.Context, remoteName string) (*StoreHandle, error) {
	rec, err := e.cat.StoreByRemoteName(ctx, remoteName)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("unknown store %s: run `gemrag ingest` to create one", remoteName)
	}
	if err := e.cat.SetCurrent(ctx, remoteName); err != nil {
		return nil, err
	}

	handle := &StoreHandle{ID: rec.ID, RemoteName: rec.RemoteName, DisplayName: rec.DisplayName}
	e.mu.Lock()
	e.store = handle
	e.mu.Unlock()
	return handle, nil
}

// CurrentStore returns the engine's current store handle, loading it from
// the catalog on first use. Returns nil when no store exists yet.
func (e *Engine) CurrentStore(ctx context.Context) (*StoreHandle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.store != nil {
		return e.store, nil
	}

	rec, err := e.cat.CurrentStore(ctx)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	e.store = &StoreHandle{ID: rec.ID, RemoteName: rec.RemoteName, DisplayName: rec.DisplayName}
	return e.store, nil
}

// UploadFile uploads one local document and returns the remote file resource.
// The remote request carries the display name, never the raw filename as a
// resource name.
func (e *Engine) UploadFile(ctx context.Context, doc walker.Document) (*filesearch.File, error) {
	file, err := e.client.UploadFile(ctx, doc.Path, doc.DisplayName, doc.MIMEType)
	if err != nil {
		return nil, &UploadError{Path: doc.Path, Err: err}
	}
	return file, nil
}

// ImportAndWait imports an uploaded file into the store and polls the
// operation at the configured interval until it reaches a terminal state,
// the timeout budget is spent (ErrImportTimeout), or ctx is cancelled.
// Polling stops immediately on the first terminal status.
func (e *Engine) ImportAndWait(ctx context.Context, store *StoreHandle, fileRemoteName string) error {
	op, err := e.client.ImportFile(ctx, store.RemoteName, fileRemoteName, e.opts.Chunking)
	if err != nil {
		return err
	}
	return e.awaitOperation(ctx, op)
}

func (e *Engine) awaitOperation(ctx context.Context, op *filesearch.Operation) error {
	if done, err := operationOutcome(op); done {
		return err
	}

	ticker := time.NewTicker(e.opts.PollInterval)
	defer ticker.Stop()
	timeout := time.NewTimer(e.opts.ImportTimeout)
	defer timeout.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timeout.C:
			return ErrImportTimeout
		case <-ticker.C:
		}

		polled, err := e.client.GetOperation(ctx, op.Name)
		if err != nil {
			return err
		}
		if done, err := operationOutcome(polled); done {
			return err
		}
	}
}

// operationOutcome reports whether the operation is terminal and, if so,
// translates its error status.
func operationOutcome(op *filesearch.Operation) (bool, error) {
	if !op.Done {
		return false, nil
	}
	if op.Error != nil {
		return true, &ImportError{Detail: op.Error.Message}
	}
	return true, nil
}

// FileOutcome is the per-file result of a batch ingestion.
type FileOutcome struct {
	Document   walker.Document
	RemoteName string
	Err        error
}

// IngestReport aggregates the outcomes of a batch ingestion.
type IngestReport struct {
	Outcomes []FileOutcome
}

// Succeeded returns the number of files that uploaded and imported cleanly.
func (r *IngestReport) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the number of files that did not complete.
func (r *IngestReport) Failed() int {
	return len(r.Outcomes) - r.Succeeded()
}

// ProgressFunc receives batch progress updates.
type ProgressFunc func(done, total int, name string)

// UploadDocuments ingests documents into the current store with per-file
// fault isolation: one file's failure never aborts the rest. Outcomes keep
// the input order. Network-bound phases overlap up to MaxConcurrency.
func (e *Engine) UploadDocuments(ctx context.Context, docs []walker.Document, onProgress ProgressFunc) (*IngestReport, error) {
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}

	store, err := e.CurrentStore(ctx)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, &SequencingError{Guidance: "no file search store exists; create one before uploading"}
	}

	report := &IngestReport{Outcomes: make([]FileOutcome, len(docs))}
	total := len(docs)

	sem := make(chan struct{}, e.opts.MaxConcurrency)
	var done int64
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i, doc := range docs {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, d walker.Document) {
			defer wg.Done()
			defer func() { <-sem }()

			outcome := e.ingestOne(ctx, store, d)
			report.Outcomes[idx] = outcome

			mu.Lock()
			done++
			current := int(done)
			mu.Unlock()
			if onProgress != nil {
				onProgress(current, total, d.DisplayName)
			}
		}(i, doc)
	}
	wg.Wait()

	return report, nil
}

// ingestOne uploads a single document, records it, imports it, and updates
// the catalog state. Every failure path is captured in the outcome.
func (e *Engine) ingestOne(ctx context.Context, store *StoreHandle, doc walker.Document) FileOutcome {
	outcome := FileOutcome{Document: doc}

	file, err := e.UploadFile(ctx, doc)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	outcome.RemoteName = file.Name

	recID, err := e.cat.RecordFile(ctx, catalog.FileRecord{
		StoreID:     store.ID,
		RemoteName:  file.Name,
		DisplayName: doc.DisplayName,
		LocalPath:   doc.Path,
		SizeBytes:   doc.Size,
	})
	if err != nil {
		outcome.Err = err
		return outcome
	}

	if err := e.ImportAndWait(ctx, store, file.Name); err != nil {
		_ = e.cat.MarkFailed(ctx, recID, err.Error())
		outcome.Err = fmt.Errorf("importing %s: %w", doc.Path, err)
		return outcome
	}

	if err := e.cat.MarkImported(ctx, recID); err != nil {
		outcome.Err = err
	}
	return outcome
}

// QueryOptions carries optional generation parameters forwarded opaquely.
// Unset fields are not sent, leaving the model's defaults in effect.
type QueryOptions struct {
	MaxOutputTokens int
	Temperature     *float64
}

// Query issues a grounded question against the current store. Sequencing is
// checked locally first: a missing store or a store with no completed
// imports yields a SequencingError before any network call.
func (e *Engine) Query(ctx context.Context, question string, opts *QueryOptions) (*Answer, error) {
	store, err := e.CurrentStore(ctx)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, &SequencingError{
			Guidance: "no file search store exists; run `gemrag ingest` to create one and index your documents",
		}
	}

	imported, err := e.cat.ImportedCount(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	if imported == 0 {
		return nil, &SequencingError{
			Guidance: fmt.Sprintf("store %s has no imported documents; run `gemrag ingest` first", store.DisplayName),
		}
	}

	req := filesearch.GroundedRequest{
		Model:     e.opts.Model,
		Question:  question,
		StoreName: store.RemoteName,
	}
	if opts != nil {
		req.MaxOutputTokens = opts.MaxOutputTokens
		req.Temperature = opts.Temperature
	}

	resp, err := e.client.GenerateGrounded(ctx, req)
	if err != nil {
		return nil, &QueryError{Err: err}
	}

	text := resp.Text()
	if text == "" {
		return nil, &QueryError{Err: fmt.Errorf("response contained no answer text")}
	}

	return &Answer{Text: text, Citations: ExtractCitations(resp)}, nil
}

// ListStores returns the remote store list.
func (e *Engine) ListStores(ctx context.Context) ([]filesearch.Store, error) {
	return e.client.ListStores(ctx)
}

// ListFiles returns the remote file list.
func (e *Engine) ListFiles(ctx context.Context) ([]filesearch.File, error) {
	return e.client.ListFiles(ctx)
}

// DeleteStore deletes a remote store (and its documents) and drops the local
// record. Clears the current handle when it pointed at the deleted store.
func (e *Engine) DeleteStore(ctx context.Context, remoteName string) error {
	if err := e.client.DeleteStore(ctx, remoteName, true); err != nil {
		return err
	}
	if err := e.cat.DeleteStore(ctx, remoteName); err != nil {
		return err
	}

	e.mu.Lock()
	if e.store != nil && e.store.RemoteName == remoteName {
		e.store = nil
	}
	e.mu.Unlock()
	return nil
}

// DeleteFiles deletes every file recorded for the current store, remotely
// and locally. Per-file failures are collected; the rest proceed.
func (e *Engine) DeleteFiles(ctx context.Context) (deleted int, errs []error, err error) {
	store, err := e.CurrentStore(ctx)
	if err != nil {
		return 0, nil, err
	}
	if store == nil {
		return 0, nil, &SequencingError{Guidance: "no file search store exists; nothing to delete"}
	}

	files, err := e.cat.FilesForStore(ctx, store.ID)
	if err != nil {
		return 0, nil, err
	}

	for _, f := range files {
		if delErr := e.client.DeleteFile(ctx, f.RemoteName); delErr != nil {
			errs = append(errs, fmt.Errorf("deleting %s: %w", f.DisplayName, delErr))
			continue
		}
		deleted++
	}

	if err := e.cat.DeleteFiles(ctx, store.ID); err != nil {
		return deleted, errs, err
	}
	return deleted, errs, nil
}
