package rag

import (
	"errors"
	"fmt"
)

// ErrNoDocuments signals that document discovery found nothing to ingest.
// Informational, not fatal.
var ErrNoDocuments = errors.New("no supported documents found")

// ErrImportTimeout signals that an import operation did not reach a terminal
// state within the polling budget. The import may still complete remotely;
// callers may retry, wait longer, or proceed.
var ErrImportTimeout = errors.New("import did not complete within the timeout")

// SequencingError reports an operation issued out of order, e.g. a query
// before any store exists. Detected locally, before any network call.
type SequencingError struct {
	Guidance string
}

func (e *SequencingError) Error() string {
	return e.Guidance
}

// StoreCreationError wraps a failure to create the remote store. Fatal to
// the current ingestion path.
type StoreCreationError struct {
	DisplayName string
	Err         error
}

func (e *StoreCreationError) Error() string {
	return fmt.Sprintf("creating store %q: %v", e.DisplayName, e.Err)
}

func (e *StoreCreationError) Unwrap() error { return e.Err }

// UploadError wraps a per-file upload failure. One file's failure never
// aborts a batch; import-phase failures surface as ImportError or
// ErrImportTimeout instead.
type UploadError struct {
	Path string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("uploading %s: %v", e.Path, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// ImportError reports a terminal import failure with the detail string the
// remote service returned.
type ImportError struct {
	Detail string
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import failed: %s", e.Detail)
}

// QueryError wraps a query failure. Recoverable: the interactive loop
// reports it and continues.
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %v", e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }
