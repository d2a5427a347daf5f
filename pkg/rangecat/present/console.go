// Package present renders analysis records for the console or as RTF
// documents, and owns the output file naming policy. Rendering never
// changes analysis results; it only decides how records look and where
// they land.
package present

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mungbai/rangecat/pkg/rangecat"
	"github.com/mungbai/rangecat/pkg/rangecat/errors"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// ConsoleWriter renders one "N: L1, L2" line per record, numbers with
// thousands separators. Styling is applied only when the destination
// is a terminal and NO_COLOR is unset.
type ConsoleWriter struct {
	out     io.Writer
	printer *message.Printer
	color   bool
}

func NewConsoleWriter(out io.Writer) *ConsoleWriter {
	return &ConsoleWriter{
		out:     out,
		printer: message.NewPrinter(language.English),
		color:   colorEnabled(out),
	}
}

func (w *ConsoleWriter) Write(min, max int64, records []rangecat.Record) error {
	header := w.printer.Sprintf("Number Analysis (%d to %d)", min, max)
	if w.color {
		header = headerStyle.Render(header)
	}
	if _, err := fmt.Fprintln(w.out, header); err != nil {
		return errors.Wrap(err, errors.ErrOutputWrite, "failed to write console output")
	}
	if _, err := fmt.Fprintln(w.out); err != nil {
		return errors.Wrap(err, errors.ErrOutputWrite, "failed to write console output")
	}

	for _, record := range records {
		if _, err := fmt.Fprintln(w.out, w.formatRecord(record)); err != nil {
			return errors.Wrap(err, errors.ErrOutputWrite, "failed to write console output")
		}
	}
	return nil
}

func (w *ConsoleWriter) formatRecord(record rangecat.Record) string {
	labels := strings.Join(record.Labels, ", ")
	if w.color && labels != "" {
		labels = labelStyle.Render(labels)
	}
	return w.printer.Sprintf("%d: ", record.Number) + labels
}

func colorEnabled(out io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
