package rag

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/gemrag/internal/filesearch"
)

// Citation names a source document backing part of an answer. URI may be
// empty when the grounding metadata carries only a title.
type Citation struct {
	Title string
	URI   string
}

// Answer is the result of a grounded query: free text plus the ordered
// citations extracted from the grounding metadata. Never persisted.
type Answer struct {
	Text      string
	Citations []Citation
}

// ExtractCitations pulls unique citations from a grounded response, in order
// of first appearance. Absent or partially populated grounding metadata is
// tolerated: entries without a title are omitted, and a response with no
// grounding yields an empty slice.
func ExtractCitations(resp *filesearch.GroundedResponse) []Citation {
	grounding := resp.Grounding()
	if grounding == nil {
		return nil
	}

	seen := make(map[string]bool)
	var citations []Citation
	for _, chunk := range grounding.GroundingChunks {
		rc := chunk.RetrievedContext
		if rc == nil || rc.Title == "" || seen[rc.Title] {
			continue
		}
		seen[rc.Title] = true
		citations = append(citations, Citation{Title: rc.Title, URI: rc.URI})
	}
	return citations
}

// FormatAnswer renders an answer for display: an "Answer:" block followed by
// an enumerated "Sources:" list when citations exist. Pure transform, no I/O.
func FormatAnswer(a *Answer) string {
	var b strings.Builder
	b.WriteString("Answer:\n")
	b.WriteString(strings.TrimRight(a.Text, "\n"))
	b.WriteString("\n")

	if len(a.Citations) > 0 {
		b.WriteString("\nSources:\n")
		for i, c := range a.Citations {
			if c.URI != "" {
				fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, c.Title, c.URI)
			} else {
				fmt.Fprintf(&b, "%d. %s\n", i+1, c.Title)
			}
		}
	}
	return b.String()
}
