package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"golang.org/x/term"
)

// nonInteractiveMode tracks whether prompts should be disabled.
// Uses atomic.Bool for thread-safe access from concurrent operations.
var nonInteractiveMode atomic.Bool

// SetNonInteractive sets non-interactive mode (disables prompts).
func SetNonInteractive(v bool) {
	nonInteractiveMode.Store(v)
}

// CanPrompt returns true if interactive prompts are allowed
// (terminal is available and non-interactive mode is not set).
func CanPrompt() bool {
	return !nonInteractiveMode.Load() && IsInteractive()
}

// IsInteractive returns true if stdin is a terminal
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Prompt handles interactive prompts
type Prompt struct {
	reader *bufio.Reader
}

// NewPrompt creates a new prompt handler
func NewPrompt() *Prompt {
	return &Prompt{
		reader: bufio.NewReader(os.Stdin),
	}
}

// Confirm asks for a yes/no confirmation
func (p *Prompt) Confirm(message string, defaultYes bool) (bool, error) {
	defaultStr := "y/N"
	if defaultYes {
		defaultStr = "Y/n"
	}

	fmt.Fprintf(os.Stderr, "%s [%s]: ", message, defaultStr)

	input, err := p.reader.ReadString('\n')
	if err != nil {
		return false, err
	}

	input = strings.TrimSpace(strings.ToLower(input))

	if input == "" {
		return defaultYes, nil
	}

	return input == "y" || input == "yes", nil
}

// ConfirmDanger asks for a yes/no confirmation for destructive operations.
// Requires typing "yes" explicitly.
func (p *Prompt) ConfirmDanger(message string) (bool, error) {
	fmt.Fprintf(os.Stderr, "%s\nType 'yes' to confirm: ", message)

	input, err := p.reader.ReadString('\n')
	if err != nil {
		return false, err
	}

	return strings.TrimSpace(strings.ToLower(input)) == "yes", nil
}
