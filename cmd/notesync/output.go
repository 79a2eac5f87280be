package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/at-ishikawa/notesync/internal/entity"
	"github.com/fatih/color"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

type OutputFormat string

const (
	OutputTable OutputFormat = "table"
	OutputJSON  OutputFormat = "json"
	OutputYAML  OutputFormat = "yaml"
)

// Set implements pflag.Value.
func (o *OutputFormat) Set(v string) error {
	switch v {
	case string(OutputTable):
		*o = OutputTable
	case string(OutputJSON):
		*o = OutputJSON
	case string(OutputYAML):
		*o = OutputYAML
	default:
		return fmt.Errorf("invalid value %q, valid values are %q, %q or %q", v, OutputTable, OutputJSON, OutputYAML)
	}
	return nil
}

// String implements pflag.Value.
func (o *OutputFormat) String() string {
	if o == nil {
		return ""
	}
	return string(*o)
}

// Type implements pflag.Value.
func (o *OutputFormat) Type() string {
	return "OutputFormat"
}

var (
	_ pflag.Value = (*OutputFormat)(nil)
)

// writeStructured writes v as JSON or YAML. It reports false for the table
// format, which every caller renders itself.
func writeStructured(w io.Writer, format OutputFormat, v any) (bool, error) {
	switch format {
	case OutputJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(v); err != nil {
			return true, fmt.Errorf("encoder.Encode > %w", err)
		}
		return true, nil
	case OutputYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return true, fmt.Errorf("encoder.Encode > %w", err)
		}
		return true, encoder.Close()
	}
	return false, nil
}

func printNotes(w io.Writer, format OutputFormat, notes []entity.Note) error {
	if ok, err := writeStructured(w, format, notes); ok {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := color.New(color.Bold)
	if _, err := header.Fprintln(tw, "ID\tTITLE\tTAGS\tUPDATED"); err != nil {
		return err
	}
	for _, note := range notes {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			note.ID,
			truncate(note.Title, 40),
			strings.Join(note.TagList(), ","),
			formatTime(note.LastUpdated()),
		); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func printBookmarks(w io.Writer, format OutputFormat, bookmarks []entity.Bookmark) error {
	if ok, err := writeStructured(w, format, bookmarks); ok {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := color.New(color.Bold)
	if _, err := header.Fprintln(tw, "ID\tTITLE\tURL\tSTATUS\tTAGS"); err != nil {
		return err
	}
	for _, bookmark := range bookmarks {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			bookmark.ID,
			truncate(bookmark.Title, 40),
			bookmark.URL,
			statusColor(bookmark.Status).Sprint(bookmark.Status),
			strings.Join(bookmark.TagList(), ","),
		); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func statusColor(status entity.BookmarkStatus) *color.Color {
	switch status {
	case entity.BookmarkStatusUnread:
		return color.New(color.FgYellow)
	case entity.BookmarkStatusRead:
		return color.New(color.FgGreen)
	default:
		return color.New(color.Faint)
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
