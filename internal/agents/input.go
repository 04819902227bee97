package agents

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/arpankumarde/neevtrace/internal/agent"
)

// NoInputBody is what a one-shot run reports when stdin ends before a
// prompt was read.
var NoInputBody = map[string]string{"error": "EOFError: No input provided."}

// ReadPrompt reads one line from r. It returns agent.ErrNoInput when r is
// exhausted before any byte arrives.
func ReadPrompt(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read prompt: %w", err)
	}
	if errors.Is(err, io.EOF) && line == "" {
		return "", agent.ErrNoInput
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Asker answers a free-form question.
type Asker interface {
	Run(ctx context.Context, prompt string) (agent.Result, error)
}

// Chat runs an interactive question loop on in/out until the user types
// quit, exit or q, or input ends. Failed questions are reported and the loop
// continues.
func Chat(ctx context.Context, a Asker, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\nEnter your question (or 'quit' to exit): ")
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return fmt.Errorf("chat: read: %w", err)
			}
			fmt.Fprintln(out, "\nGoodbye!")
			return nil
		}

		q := strings.TrimSpace(sc.Text())
		switch strings.ToLower(q) {
		case "quit", "exit", "q":
			fmt.Fprintln(out, "Goodbye!")
			return nil
		case "":
			continue
		}

		res, err := a.Run(ctx, q)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		fmt.Fprintln(out, res.Text)
	}
}
