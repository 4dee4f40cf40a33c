package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"reel/internal/studio"
)

// column describes one table column. Numeric columns set right.
type column struct {
	title string
	right bool
}

func renderTable(cols []column, rows [][]string) string {
	if len(cols) == 0 {
		return ""
	}

	header := make(table.Row, len(cols))
	configs := make([]table.ColumnConfig, len(cols))
	for i, col := range cols {
		header[i] = col.title
		align := text.AlignLeft
		if col.right {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft}
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)
	for _, row := range rows {
		r := make(table.Row, len(cols))
		for i := range cols {
			r[i] = ""
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}
	return tw.Render()
}

const (
	ansiReset  = "\x1b[0m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiRed    = "\x1b[31m"
	ansiBlue   = "\x1b[34m"
)

var titler = cases.Title(language.Und)

// statusLabel renders a job status for table output, colorized when the
// destination is a terminal.
func statusLabel(status studio.JobStatus, colorize bool) string {
	label := titler.String(status.Display())
	if !colorize {
		return label
	}
	switch status {
	case studio.StatusCompleted:
		return ansiGreen + label + ansiReset
	case studio.StatusError:
		return ansiRed + label + ansiReset
	case studio.StatusCancelled:
		return ansiYellow + label + ansiReset
	case studio.StatusRunning, studio.StatusEncoding:
		return ansiBlue + label + ansiReset
	default:
		return label
	}
}

func progressLabel(job studio.Job) string {
	if job.Status.Terminal() {
		return ""
	}
	return fmt.Sprintf("%.0f%%", job.Progress)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func truncate(value string, max int) string {
	if max <= 3 || len(value) <= max {
		return value
	}
	return value[:max-3] + "..."
}

func modeLabel(mode studio.ProfileMode) string {
	return titler.String(strings.ReplaceAll(string(mode), "_", " "))
}
