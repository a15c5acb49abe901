package walker

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func relPaths(docs []Document) []string {
	var out []string
	for _, d := range docs {
		out = append(out, d.RelPath)
	}
	return out
}

func TestDiscoverFiltersUnsupportedExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "alpha")
	writeFile(t, dir, "b.pdf", "%PDF-1.4")
	writeFile(t, dir, "c.exe", "MZ")

	docs, err := Discover(DiscoverConfig{RootDir: dir})
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	got := relPaths(docs)
	want := []string{"a.txt", "b.pdf"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("doc[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDiscoverDetectsMIMETypes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.md", "# notes")
	writeFile(t, dir, "report.pdf", "%PDF-1.4")

	docs, err := Discover(DiscoverConfig{RootDir: dir})
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 docs, got %d", len(docs))
	}
	if docs[0].MIMEType != "text/markdown" {
		t.Errorf("notes.md: got MIME %q", docs[0].MIMEType)
	}
	if docs[1].MIMEType != "application/pdf" {
		t.Errorf("report.pdf: got MIME %q", docs[1].MIMEType)
	}
	if docs[0].DisplayName != "notes.md" {
		t.Errorf("expected display name 'notes.md', got %q", docs[0].DisplayName)
	}
}

func TestDiscoverMissingDirectory(t *testing.T) {
	docs, err := Discover(DiscoverConfig{RootDir: filepath.Join(t.TempDir(), "nope")})
	if err != nil {
		t.Fatalf("missing directory should not be an error: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("expected no documents, got %d", len(docs))
	}
}

func TestDiscoverEmptyDirectory(t *testing.T) {
	docs, err := Discover(DiscoverConfig{RootDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("expected no documents, got %d", len(docs))
	}
}

func TestDiscoverIsRecursiveAndSorted(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "z.txt", "z")
	writeFile(t, dir, filepath.Join("sub", "a.md"), "a")
	writeFile(t, dir, filepath.Join("sub", "b.txt"), "b")

	docs, err := Discover(DiscoverConfig{RootDir: dir})
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	got := relPaths(docs)
	want := []string{"sub/a.md", "sub/b.txt", "z.txt"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("doc[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDiscoverSkipsHiddenAndExcluded(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".hidden.txt", "h")
	writeFile(t, dir, filepath.Join(".git", "config.txt"), "g")
	writeFile(t, dir, filepath.Join("node_modules", "pkg.md"), "p")
	writeFile(t, dir, "keep.txt", "k")

	docs, err := Discover(DiscoverConfig{RootDir: dir})
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(docs) != 1 || docs[0].RelPath != "keep.txt" {
		t.Errorf("expected only keep.txt, got %v", relPaths(docs))
	}
}

func TestDiscoverHonorsIncludeExclude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", "a")
	writeFile(t, dir, "b.txt", "b")
	writeFile(t, dir, "draft.md", "d")

	docs, err := Discover(DiscoverConfig{
		RootDir: dir,
		Include: []string{"**/*.md"},
		Exclude: []string{"draft.*"},
	})
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(docs) != 1 || docs[0].RelPath != "a.md" {
		t.Errorf("expected only a.md, got %v", relPaths(docs))
	}
}

func TestDiscoverSkipsOversizedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "small.txt", "ok")
	writeFile(t, dir, "big.txt", "this content exceeds the tiny limit")

	docs, err := Discover(DiscoverConfig{RootDir: dir, MaxFileSize: 10})
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(docs) != 1 || docs[0].RelPath != "small.txt" {
		t.Errorf("expected only small.txt, got %v", relPaths(docs))
	}
}

func TestDetectMIMEUnsupported(t *testing.T) {
	if _, ok := DetectMIME("binary.exe"); ok {
		t.Error("exe should not be supported")
	}
	if mime, ok := DetectMIME("REPORT.PDF"); !ok || mime != "application/pdf" {
		t.Errorf("extension matching should be case-insensitive, got %q %v", mime, ok)
	}
}
