// Package console provides interaction ports backed by a terminal or by a
// canned script.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/inferlab/inquest/internal/domain"
)

// Ensure both ports satisfy the engine boundary at compile time.
var (
	_ domain.Interactor = (*Port)(nil)
	_ domain.Interactor = (*Script)(nil)
)

// Port drives a consultation over a line-oriented terminal. Responses keep
// their interior spacing; only the line terminator is stripped, so replies
// like "John Smith" arrive whole.
type Port struct {
	in  *bufio.Reader
	out io.Writer
}

// New returns a port over stdin and stdout.
func New() *Port {
	return NewPort(os.Stdin, os.Stdout)
}

// NewPort returns a port over the given streams.
func NewPort(in io.Reader, out io.Writer) *Port {
	return &Port{in: bufio.NewReader(in), out: out}
}

func (p *Port) Ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "unknown", nil
	}
	if _, err := fmt.Fprint(p.out, prompt); err != nil {
		return "", err
	}
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if trimmed := strings.TrimRight(line, "\r\n"); trimmed != "" {
				return trimmed, nil
			}
			return "unknown", nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *Port) Tell(ctx context.Context, text string) error {
	_, err := fmt.Fprintln(p.out, text)
	return err
}

// Script replays canned answers in order, echoing the exchange, so example
// programs and demos run a full consultation without a terminal. When the
// answers run out it withdraws with "unknown".
type Script struct {
	answers []string
	out     io.Writer
}

func NewScript(out io.Writer, answers ...string) *Script {
	return &Script{answers: answers, out: out}
}

func (s *Script) Ask(ctx context.Context, prompt string) (string, error) {
	next := "unknown"
	if len(s.answers) > 0 {
		next = s.answers[0]
		s.answers = s.answers[1:]
	}
	if _, err := fmt.Fprintf(s.out, "%s%s\n", prompt, next); err != nil {
		return "", err
	}
	return next, nil
}

func (s *Script) Tell(ctx context.Context, text string) error {
	_, err := fmt.Fprintln(s.out, text)
	return err
}
