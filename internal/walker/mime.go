package walker

import (
	"path/filepath"
	"strings"
)

// extensionToMIME maps supported document extensions to the MIME type sent
// with the upload. Files with extensions outside this map are skipped; the
// File Search API cannot index them.
var extensionToMIME = map[string]string{
	// Plain text
	".txt": "text/plain",
	// Markdown
	".md":       "text/markdown",
	".markdown": "text/markdown",
	// PDF
	".pdf": "application/pdf",
	// HTML
	".html": "text/html",
	".htm":  "text/html",
	// Structured text
	".csv":  "text/csv",
	".tsv":  "text/tab-separated-values",
	".json": "application/json",
	".xml":  "text/xml",
	".rtf":  "application/rtf",
	// Office documents
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// DetectMIME returns the MIME type for a supported document filename, or
// ("", false) when the extension is not in the allow-list.
func DetectMIME(name string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	mime, ok := extensionToMIME[ext]
	return mime, ok
}
