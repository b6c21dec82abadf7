package collection

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatOptions contains options for formatting output
type FormatOptions struct {
	ShowDetails bool
	ShowMedia   bool
}

// ConsoleFormatter provides console output formatting for records
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// FormatRecordList formats a list of records for console display
func (f *ConsoleFormatter) FormatRecordList(records []Record, options FormatOptions) string {
	if len(records) == 0 {
		return "No items found"
	}

	var sb strings.Builder

	// Header
	sb.WriteString("\nItem")
	if len(records) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (%d):\n\n", len(records))

	for i, rec := range records {
		isLast := i == len(records)-1
		f.formatRecord(&sb, rec, isLast, options)

		if !isLast {
			sb.WriteString("\u2502\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

func (f *ConsoleFormatter) formatRecord(sb *strings.Builder, rec Record, isLast bool, options FormatOptions) {
	prefix := "\u251c"
	indent := "\u2502   "
	if isLast {
		prefix = "\u2570"
		indent = "    "
	}

	title := rec.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(sb, "%s\u2500\u2500 %s [#%d", prefix, title, rec.ID)
	if rec.Identifier != "" {
		fmt.Fprintf(sb, ", %s", rec.Identifier)
	}
	sb.WriteString("]\n")

	if options.ShowDetails {
		writeField(sb, indent, "Description", rec.Description)
		writeList(sb, indent, "Creators", rec.Creators)
		writeList(sb, indent, "Dates", rec.Dates)
		writeList(sb, indent, "Subjects", rec.Subjects)
		writeList(sb, indent, "Types", rec.Types)
		writeList(sb, indent, "Rights", rec.Rights)
	}

	if options.ShowMedia {
		if len(rec.Media) == 0 {
			fmt.Fprintf(sb, "%sMedia: none\n", indent)
		}
		for _, m := range rec.Media {
			line := m.FileName
			if m.MediaType != "" {
				line += " (" + m.MediaType
				if m.Size > 0 {
					line += ", " + humanize.Bytes(uint64(m.Size))
				}
				line += ")"
			}
			fmt.Fprintf(sb, "%sMedia: %s\n", indent, line)
		}
	}
}

func writeField(sb *strings.Builder, indent, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(sb, "%s%s: %s\n", indent, name, truncate(value, 120))
}

func writeList(sb *strings.Builder, indent, name string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s%s: %s\n", indent, name, strings.Join(values, "; "))
}

// FormatDownloadResult summarizes a download run
func (f *ConsoleFormatter) FormatDownloadResult(result DownloadResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "\nDownloaded %d of %d file", len(result.Downloaded), result.Requested)
	if result.Requested != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (%s)\n", humanize.Bytes(uint64(result.Bytes)))

	if len(result.Skipped) > 0 {
		fmt.Fprintf(&sb, "Skipped %d without a valid URL\n", len(result.Skipped))
	}
	if len(result.Failed) > 0 {
		fmt.Fprintf(&sb, "Failed %d:\n", len(result.Failed))
		for _, err := range result.Failed {
			fmt.Fprintf(&sb, "  \u2717 %v\n", err)
		}
	}

	return sb.String()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "\u2026"
}
