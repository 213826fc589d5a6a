package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Confirm prints a yes/no prompt and reads one line from the reader.
// Anything other than "y" or "yes" (case-insensitive) declines.
func Confirm(out io.Writer, in io.Reader, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)

	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// ConfirmStdin is Confirm wired to the process's terminal.
func ConfirmStdin(prompt string) bool {
	return Confirm(os.Stdout, os.Stdin, prompt)
}
