package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Confirm asks a yes/no question. Without a terminal on stdin there is
// nobody to answer, so it declines and says how to skip the prompt.
func Confirm(prompt string) bool {
	return confirmTTY(StyleWarning.Render(prompt))
}

// ConfirmDanger is Confirm for destructive actions.
func ConfirmDanger(prompt string) bool {
	return confirmTTY(StyleError.Render("⚠ " + prompt))
}

func confirmTTY(prompt string) bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, prompt, Meta("(no terminal; pass --yes to proceed)"))
		return false
	}
	return ConfirmFrom(os.Stdin, os.Stdout, prompt)
}

// ConfirmFrom writes prompt to w and reads one answer line from r. Anything
// but y or yes, including EOF, is a no.
func ConfirmFrom(r io.Reader, w io.Writer, prompt string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(w)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
