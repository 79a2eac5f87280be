package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/at-ishikawa/notesync/internal/api"
	"github.com/at-ishikawa/notesync/internal/autosave"
	"github.com/at-ishikawa/notesync/internal/collection"
	"github.com/at-ishikawa/notesync/internal/config"
	"github.com/at-ishikawa/notesync/internal/entity"
	"github.com/at-ishikawa/notesync/internal/pdf"
	"github.com/at-ishikawa/notesync/internal/search"
	"github.com/at-ishikawa/notesync/internal/tui"
	"github.com/spf13/cobra"
)

func newNotesCommand() *cobra.Command {
	notesCommand := &cobra.Command{
		Use:   "notes",
		Short: "Manage notes",
	}
	outputFormat := OutputTable
	notesCommand.PersistentFlags().Var(&outputFormat, "output", "Output format. Options: table, json, yaml")

	notesCommand.AddCommand(
		newNotesListCommand(&outputFormat),
		newNotesShowCommand(&outputFormat),
		newNotesCreateCommand(),
		newNotesDeleteCommand(),
		newNotesEditCommand(),
		newNotesBrowseCommand(),
		newNotesExportCommand(),
	)
	return notesCommand
}

func newNotesResource(cfg *config.Config) (*api.Resource[entity.Note], func()) {
	client := newAPIClient(cfg)
	return api.NewNotes(client), func() {
		_ = client.Close()
	}
}

func newNotesListCommand(outputFormat *OutputFormat) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			notes, closeClient := newNotesResource(cfg)
			defer closeClient()

			items, err := notes.List(cmd.Context())
			if err != nil {
				return describe(fmt.Errorf("notes.List > %w", err), "notes")
			}
			return printNotes(cmd.OutOrStdout(), *outputFormat, search.Filter(items, query))
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "only show notes whose title, content or tags contain the query")
	return cmd
}

func newNotesShowCommand(outputFormat *OutputFormat) *cobra.Command {
	return &cobra.Command{
		Use:   "show <note id>",
		Short: "Print one note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			notes, closeClient := newNotesResource(cfg)
			defer closeClient()

			note, err := notes.Get(cmd.Context(), args[0])
			if err != nil {
				return describe(fmt.Errorf("notes.Get > %w", err), args[0])
			}
			if ok, err := writeStructured(cmd.OutOrStdout(), *outputFormat, note); ok {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), note.Markdown())
			return err
		},
	}
}

func newNotesCreateCommand() *cobra.Command {
	var title, content, tags string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			notes, closeClient := newNotesResource(cfg)
			defer closeClient()

			list := collection.NewList[entity.Note](notes, slog.Default())
			note, err := list.Create(cmd.Context(), entity.Fields{
				entity.FieldTitle:   title,
				entity.FieldContent: content,
				entity.FieldTags:    tags,
			})
			if err != nil {
				return describe(fmt.Errorf("list.Create > %w", err), "note")
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), note.ID)
			return err
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "note title")
	cmd.Flags().StringVar(&content, "content", "", "note content")
	cmd.Flags().StringVar(&tags, "tags", "", "tags separated by "+entity.TagSeparator)
	return cmd
}

func newNotesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <note id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			notes, closeClient := newNotesResource(cfg)
			defer closeClient()

			if err := notes.Delete(cmd.Context(), args[0]); err != nil {
				return describe(fmt.Errorf("notes.Delete > %w", err), args[0])
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return err
		},
	}
}

func newNotesEditCommand() *cobra.Command {
	var saveOnExit bool
	cmd := &cobra.Command{
		Use:   "edit <note id>",
		Short: "Edit a note; changes are saved as you type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			notes, closeClient := newNotesResource(cfg)
			defer closeClient()

			note, err := notes.Get(cmd.Context(), args[0])
			if err != nil {
				return describe(fmt.Errorf("notes.Get > %w", err), args[0])
			}
			_, err = editNote(cmd.Context(), cfg, note, notes, saveOnExit)
			return err
		},
	}
	cmd.Flags().BoolVar(&saveOnExit, "save-on-exit", true, "save edits that have not settled yet when the editor closes")
	return cmd
}

// editNote runs the editor over note and reports whether it was deleted.
func editNote(ctx context.Context, cfg *config.Config, note entity.Note, store autosave.Store[entity.Note], saveOnExit bool) (bool, error) {
	session := autosave.NewSession(ctx, note, store, sessionOptions(cfg)...)
	result, err := tui.RunEditor(ctx, session, tui.NoteFields)
	if err != nil {
		session.Close()
		return false, fmt.Errorf("tui.RunEditor > %w", err)
	}
	if result.Deleted {
		return true, nil
	}
	closeSession(session, saveOnExit)
	return false, nil
}

func newNotesBrowseCommand() *cobra.Command {
	var saveOnExit bool
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Search notes and edit the one you pick",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			notes, closeClient := newNotesResource(cfg)
			defer closeClient()

			list := collection.NewList[entity.Note](notes, slog.Default())
			if err := list.Load(cmd.Context()); err != nil {
				return describe(fmt.Errorf("list.Load > %w", err), "notes")
			}
			box := search.NewBox[entity.Note](cfg.Search.Delay)
			defer box.Close()

			for {
				id, err := tui.RunBrowser(box, list.Items, tui.NoteLabel)
				if err != nil {
					return fmt.Errorf("tui.RunBrowser > %w", err)
				}
				if id == "" {
					return nil
				}
				note, ok := list.Get(id)
				if !ok {
					continue
				}
				if _, err := editNote(cmd.Context(), cfg, note, list, saveOnExit); err != nil {
					return err
				}
			}
		},
	}
	cmd.Flags().BoolVar(&saveOnExit, "save-on-exit", true, "save edits that have not settled yet when the editor closes")
	return cmd
}

func newNotesExportCommand() *cobra.Command {
	var pdfPath string
	cmd := &cobra.Command{
		Use:   "export <note id>",
		Short: "Export a note as PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			notes, closeClient := newNotesResource(cfg)
			defer closeClient()

			note, err := notes.Get(cmd.Context(), args[0])
			if err != nil {
				return describe(fmt.Errorf("notes.Get > %w", err), args[0])
			}
			if pdfPath == "" {
				pdfPath = pdf.DefaultPath(".", note)
			}
			written, err := pdf.RenderNote(note, pdfPath)
			if err != nil {
				return fmt.Errorf("pdf.RenderNote > %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), written)
			return err
		},
	}
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "output PDF path (defaults to ./<note id>.pdf)")
	return cmd
}
