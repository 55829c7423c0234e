package cli

import (
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// errNoExplanation is returned when cancel-workflow cannot ask for one.
var errNoExplanation = errors.New("--explanation is required when stdin is not a terminal")

// promptExplanation asks for a cancellation explanation on the terminal.
func promptExplanation() (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) { //nolint:gosec // file descriptors fit in int
		return "", errNoExplanation
	}

	var explanation string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Why is the workflow being cancelled?").
				Placeholder("Duplicate request").
				Value(&explanation).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("explanation is required")
					}
					return nil
				}),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(explanation), nil
}
