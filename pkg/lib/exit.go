package lib

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Exit prints the error and exits the program with code 1.
func Exit(err error) {
	ExitWith(os.Stderr, "Error:", err)
}

// ExitWith prints err after label to w and exits with code 1. Callers pass a
// pre-styled label when the terminal supports it.
func ExitWith(w io.Writer, label string, err error) {
	Report(w, label, err)
	os.Exit(1)
}

// Report prints err after label, one line per line of the message so that
// multi-line errors stay aligned under the label. Escape sequences in a
// styled label take no columns.
func Report(w io.Writer, label string, err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(w, label, indent(err.Error(), lipgloss.Width(label)+1))
}
