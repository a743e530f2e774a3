// Package prompt asks the user yes/no questions.
//
// Terminal sessions get an interactive promptui confirm; piped input is read
// line by line so `gwt init` can be scripted. Scripted answers stand in for
// both in tests.
package prompt

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"
)

// Prompter asks a yes/no question. The default answer is no.
type Prompter interface {
	Confirm(label string) (bool, error)
}

// New returns a Terminal prompter when in is an interactive terminal and a
// LineReader otherwise.
func New(in *os.File, out io.Writer) Prompter {
	if term.IsTerminal(int(in.Fd())) {
		return NewTerminal(in, out)
	}
	return NewLineReader(in, out)
}

// Terminal confirms with promptui.
type Terminal struct {
	in  io.ReadCloser
	out io.WriteCloser
}

// NewTerminal returns a Terminal reading from in and drawing on out.
func NewTerminal(in io.ReadCloser, out io.Writer) *Terminal {
	return &Terminal{in: in, out: &bellFilterWriter{w: out}}
}

// Confirm shows label with a [y/N] suffix. Declining, or closing the input,
// answers no. Ctrl-C is returned as promptui.ErrInterrupt.
func (t *Terminal) Confirm(label string) (bool, error) {
	p := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     t.in,
		Stdout:    t.out,
	}
	_, err := p.Run()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrAbort), errors.Is(err, promptui.ErrEOF):
		return false, nil
	default:
		return false, err
	}
}

// bellFilterWriter drops the terminal bell promptui emits on every
// keystroke it rejects.
type bellFilterWriter struct {
	w io.Writer
}

func (b *bellFilterWriter) Write(p []byte) (int, error) {
	if bytes.IndexByte(p, '\a') == -1 {
		if _, err := b.w.Write(p); err != nil {
			return 0, err
		}
		return len(p), nil
	}
	if _, err := b.w.Write(bytes.ReplaceAll(p, []byte{'\a'}, nil)); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (b *bellFilterWriter) Close() error {
	return nil
}

// LineReader asks on out and reads one answer line per question from in.
type LineReader struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLineReader returns a LineReader over in and out.
func NewLineReader(in io.Reader, out io.Writer) *LineReader {
	return &LineReader{in: bufio.NewReader(in), out: out}
}

// Confirm prints "<label> (y/N): " and accepts "y" or "yes" in any case.
// End of input answers no.
func (l *LineReader) Confirm(label string) (bool, error) {
	if _, err := fmt.Fprintf(l.out, "%s (y/N): ", label); err != nil {
		return false, err
	}

	answer, err := l.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Scripted answers from a fixed list and records every label it was asked.
// Questions beyond the list are answered no.
type Scripted struct {
	Answers []bool
	Labels  []string
}

// Confirm returns the next scripted answer.
func (s *Scripted) Confirm(label string) (bool, error) {
	s.Labels = append(s.Labels, label)
	i := len(s.Labels) - 1
	if i >= len(s.Answers) {
		return false, nil
	}
	return s.Answers[i], nil
}
