// Package chat runs the interactive question/answer session. One question
// per iteration; sentinel input or end-of-input terminates, query failures
// are reported and the loop continues.
package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ziadkadry99/gemrag/internal/rag"
)

// PromptFunc reads one line of user input. An error (EOF, interrupt) ends
// the session.
type PromptFunc func() (string, error)

// QueryFunc answers one question.
type QueryFunc func(ctx context.Context, question string) (*rag.Answer, error)

// sentinels terminate the session.
var sentinels = map[string]bool{
	"quit": true,
	"exit": true,
	"q":    true,
}

// Loop is the interactive session: prompt, query, print, repeat.
type Loop struct {
	Prompt PromptFunc
	Query  QueryFunc
	Out    io.Writer
}

// Run drives the session until sentinel input, end-of-input, or context
// cancellation. Recoverable query errors are printed as diagnostics; the
// loop keeps going.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := l.Prompt()
		if err != nil {
			// EOF or interrupt.
			return nil
		}

		question := strings.TrimSpace(line)
		if question == "" {
			continue
		}
		if sentinels[strings.ToLower(question)] {
			return nil
		}

		answer, err := l.Query(ctx, question)
		if err != nil {
			l.printDiagnostic(err)
			continue
		}

		fmt.Fprintln(l.Out, rag.FormatAnswer(answer))
	}
}

func (l *Loop) printDiagnostic(err error) {
	var seqErr *rag.SequencingError
	if errors.As(err, &seqErr) {
		fmt.Fprintf(l.Out, "Cannot answer yet: %s\n", seqErr.Guidance)
		return
	}
	fmt.Fprintf(l.Out, "Error: %v\n", err)
}
