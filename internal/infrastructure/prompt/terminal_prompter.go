// Package prompt asks the user for secure option values on the terminal.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// ErrNotInteractive is returned when a value is needed but there is no
// terminal to ask on.
var ErrNotInteractive = errors.New("no terminal available for interactive prompt")

// TerminalPrompter reads secret values from the terminal with echo disabled.
type TerminalPrompter struct {
	in     *os.File
	isTerm func(fd int) bool
	ask    func(ctx context.Context, title string) (string, error)
}

// NewTerminalPrompter creates a prompter reading from stdin.
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{
		in:     os.Stdin,
		isTerm: term.IsTerminal,
		ask:    askPassword,
	}
}

// IsInteractive reports whether stdin is a terminal.
func (p *TerminalPrompter) IsInteractive() bool {
	if p.in == nil {
		return false
	}
	return p.isTerm(int(p.in.Fd()))
}

// PromptSecret asks for a value titled after the option it is for.
func (p *TerminalPrompter) PromptSecret(ctx context.Context, title string) (string, error) {
	if !p.IsInteractive() {
		return "", fmt.Errorf("%w: cannot ask for %q", ErrNotInteractive, title)
	}
	value, err := p.ask(ctx, title)
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", fmt.Errorf("prompt for %q was cancelled", title)
		}
		return "", fmt.Errorf("failed to read %q: %w", title, err)
	}
	return strings.TrimRight(value, "\r\n"), nil
}

func askPassword(ctx context.Context, title string) (string, error) {
	var value string
	input := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&value)
	if err := huh.NewForm(huh.NewGroup(input)).RunWithContext(ctx); err != nil {
		return "", err
	}
	return value, nil
}
