// Package walker discovers local documents eligible for upload to a file
// search store. Filtering is by extension allow-list plus user glob
// patterns; results are deterministic for a fixed directory snapshot.
package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultMaxFileSize is the remote upload limit (100 MB).
const DefaultMaxFileSize int64 = 100 << 20

// Document holds metadata for a single discovered document.
type Document struct {
	Path        string // Absolute path on disk.
	RelPath     string // Path relative to the root directory.
	DisplayName string // Base filename, used as the remote display name.
	MIMEType    string // MIME type sent with the upload.
	Size        int64  // File size in bytes.
}

// DiscoverConfig controls the behaviour of Discover.
type DiscoverConfig struct {
	RootDir     string   // Directory to scan.
	Include     []string // Glob patterns — only matching files are included.
	Exclude     []string // Glob patterns — matching files are excluded.
	MaxFileSize int64    // Files larger than this are skipped (0 = use default).
}

// Discover walks the directory tree rooted at config.RootDir and returns
// metadata for every supported document that passes filtering, sorted by
// relative path. A missing or empty directory yields an empty slice and nil
// error; the caller decides whether that is a no-documents condition.
func Discover(config DiscoverConfig) ([]Document, error) {
	root, err := filepath.Abs(config.RootDir)
	if err != nil {
		return nil, fmt.Errorf("walker: resolve root: %w", err)
	}

	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, nil
	}

	maxSize := config.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	var docs []Document

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Skip entries we cannot read instead of aborting.
			return nil
		}

		name := d.Name()

		if d.IsDir() {
			if path != root && shouldExcludeDir(name) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		// Skip dotfiles.
		if strings.HasPrefix(name, ".") {
			return nil
		}

		mime, ok := DetectMIME(name)
		if !ok {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}

		if !MatchesInclude(relPath, config.Include) {
			return nil
		}
		if MatchesExclude(relPath, config.Exclude) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.Size() > maxSize {
			return nil
		}

		docs = append(docs, Document{
			Path:        path,
			RelPath:     filepath.ToSlash(relPath),
			DisplayName: name,
			MIMEType:    mime,
			Size:        info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walker: walking %s: %w", root, err)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].RelPath < docs[j].RelPath })
	return docs, nil
}
