package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// formatBold returns the string formatted as bold using pterm
func formatBold(s string) string {
	// Only apply formatting if output is a terminal
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return s
	}
	return pterm.Bold.Sprint(s)
}

// formatError returns the string formatted as a red error line
func formatError(s string) string {
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return s
	}
	return pterm.FgRed.Sprint(s)
}

// promptSaveToFile asks whether a large result set should land in a
// file instead of scrolling past on the console. Non-interactive runs
// never prompt and default to console output.
func promptSaveToFile(size uint64) bool {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return false
	}

	p := message.NewPrinter(language.English)
	fmt.Print(p.Sprintf("Warning: Large range detected (%d numbers). Would you like to save the output to a file? (y/n): ", size))

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.ToLower(strings.TrimSpace(line)) == "y"
}
