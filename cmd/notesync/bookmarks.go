package main

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/at-ishikawa/notesync/internal/api"
	"github.com/at-ishikawa/notesync/internal/autosave"
	"github.com/at-ishikawa/notesync/internal/collection"
	"github.com/at-ishikawa/notesync/internal/config"
	"github.com/at-ishikawa/notesync/internal/entity"
	"github.com/at-ishikawa/notesync/internal/pageinfo"
	"github.com/at-ishikawa/notesync/internal/search"
	"github.com/at-ishikawa/notesync/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type BookmarkStatusFlag entity.BookmarkStatus

// Set implements pflag.Value.
func (s *BookmarkStatusFlag) Set(v string) error {
	if !slices.Contains(entity.AllBookmarkStatuses, entity.BookmarkStatus(v)) {
		return fmt.Errorf("invalid value %q, valid values are %q, %q or %q", v,
			entity.BookmarkStatusUnread, entity.BookmarkStatusRead, entity.BookmarkStatusArchived)
	}
	*s = BookmarkStatusFlag(v)
	return nil
}

// String implements pflag.Value.
func (s *BookmarkStatusFlag) String() string {
	if s == nil {
		return ""
	}
	return string(*s)
}

// Type implements pflag.Value.
func (s *BookmarkStatusFlag) Type() string {
	return "BookmarkStatus"
}

var (
	_ pflag.Value = (*BookmarkStatusFlag)(nil)
)

func newBookmarksCommand() *cobra.Command {
	bookmarksCommand := &cobra.Command{
		Use:   "bookmarks",
		Short: "Manage bookmarks",
	}
	outputFormat := OutputTable
	bookmarksCommand.PersistentFlags().Var(&outputFormat, "output", "Output format. Options: table, json, yaml")

	bookmarksCommand.AddCommand(
		newBookmarksListCommand(&outputFormat),
		newBookmarksCreateCommand(),
		newBookmarksUpdateCommand(),
		newBookmarksDeleteCommand(),
		newBookmarksEditCommand(),
		newBookmarksBrowseCommand(),
	)
	return bookmarksCommand
}

func newBookmarksResource(cfg *config.Config) (*api.Client, *api.Resource[entity.Bookmark], func()) {
	client := newAPIClient(cfg)
	return client, api.NewBookmarks(client), func() {
		_ = client.Close()
	}
}

func newBookmarksListCommand(outputFormat *OutputFormat) *cobra.Command {
	var query string
	var status BookmarkStatusFlag
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bookmarks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			_, bookmarks, closeClient := newBookmarksResource(cfg)
			defer closeClient()

			items, err := bookmarks.List(cmd.Context())
			if err != nil {
				return describe(fmt.Errorf("bookmarks.List > %w", err), "bookmarks")
			}
			items = search.Filter(items, query)
			if status != "" {
				items = slices.DeleteFunc(items, func(b entity.Bookmark) bool {
					return b.Status != entity.BookmarkStatus(status)
				})
			}
			return printBookmarks(cmd.OutOrStdout(), *outputFormat, items)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "only show bookmarks whose title, URL or tags contain the query")
	cmd.Flags().Var(&status, "status", "only show bookmarks with this status. Options: unread, read, archived")
	return cmd
}

// pageTitle finds a title for pageURL, first through the API and then by
// reading the page itself. It returns "" when neither works.
func pageTitle(ctx context.Context, client *api.Client, fetcher *pageinfo.Fetcher, pageURL string) string {
	info, err := client.LookupPage(ctx, pageURL)
	if err != nil {
		slog.Default().Debug("page lookup failed", "url", pageURL, "error", err)
	} else if info.Title != nil && strings.TrimSpace(*info.Title) != "" {
		return strings.TrimSpace(*info.Title)
	}

	page, err := fetcher.Fetch(ctx, pageURL)
	if err != nil {
		slog.Default().Debug("page fetch failed", "url", pageURL, "error", err)
		return ""
	}
	return page.Title
}

func newBookmarksCreateCommand() *cobra.Command {
	var title, pageURL, tags string
	status := BookmarkStatusFlag(entity.BookmarkStatusUnread)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Bookmark a URL; the title is read from the page when omitted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client, bookmarks, closeClient := newBookmarksResource(cfg)
			defer closeClient()

			if title == "" {
				title = pageTitle(cmd.Context(), client, pageinfo.NewFetcher(), pageURL)
			}
			list := collection.NewList[entity.Bookmark](bookmarks, slog.Default())
			bookmark, err := list.Create(cmd.Context(), entity.Fields{
				entity.FieldTitle:  title,
				entity.FieldURL:    pageURL,
				entity.FieldTags:   tags,
				entity.FieldStatus: string(status),
			})
			if err != nil {
				return describe(fmt.Errorf("list.Create > %w", err), "bookmark")
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), bookmark.ID)
			return err
		},
	}
	cmd.Flags().StringVar(&pageURL, "url", "", "page URL")
	cmd.Flags().StringVar(&title, "title", "", "bookmark title")
	cmd.Flags().StringVar(&tags, "tags", "", "tags separated by "+entity.TagSeparator)
	cmd.Flags().Var(&status, "status", "Options: unread, read, archived")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func newBookmarksUpdateCommand() *cobra.Command {
	var title, pageURL, tags string
	var status BookmarkStatusFlag
	cmd := &cobra.Command{
		Use:   "update <bookmark id>",
		Short: "Change the fields given as flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			_, bookmarks, closeClient := newBookmarksResource(cfg)
			defer closeClient()

			bookmark, err := bookmarks.Get(cmd.Context(), args[0])
			if err != nil {
				return describe(fmt.Errorf("bookmarks.Get > %w", err), args[0])
			}

			changes := entity.Fields{}
			flags := cmd.Flags()
			if flags.Changed("title") {
				changes[entity.FieldTitle] = title
			}
			if flags.Changed("url") {
				changes[entity.FieldURL] = pageURL
			}
			if flags.Changed("tags") {
				changes[entity.FieldTags] = tags
			}
			if flags.Changed("status") {
				changes[entity.FieldStatus] = string(status)
			}
			if len(changes) == 0 {
				return fmt.Errorf("nothing to update, pass at least one of --title, --url, --tags or --status")
			}

			session := autosave.NewSession(cmd.Context(), bookmark, autosave.Store[entity.Bookmark](bookmarks), sessionOptions(cfg)...)
			defer session.Close()
			if err := applyFields(session, changes); err != nil {
				return describe(err, args[0])
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", args[0])
			return err
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "bookmark title")
	cmd.Flags().StringVar(&pageURL, "url", "", "page URL")
	cmd.Flags().StringVar(&tags, "tags", "", "tags separated by "+entity.TagSeparator)
	cmd.Flags().Var(&status, "status", "Options: unread, read, archived")
	return cmd
}

func newBookmarksDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <bookmark id>",
		Short: "Delete a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			_, bookmarks, closeClient := newBookmarksResource(cfg)
			defer closeClient()

			if err := bookmarks.Delete(cmd.Context(), args[0]); err != nil {
				return describe(fmt.Errorf("bookmarks.Delete > %w", err), args[0])
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return err
		},
	}
}

// editBookmark runs the editor over bookmark and reports whether it was deleted.
func editBookmark(ctx context.Context, cfg *config.Config, bookmark entity.Bookmark, store autosave.Store[entity.Bookmark], saveOnExit bool) (bool, error) {
	session := autosave.NewSession(ctx, bookmark, store, sessionOptions(cfg)...)
	result, err := tui.RunEditor(ctx, session, tui.BookmarkFields)
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

func newBookmarksEditCommand() *cobra.Command {
	var saveOnExit bool
	cmd := &cobra.Command{
		Use:   "edit <bookmark id>",
		Short: "Edit a bookmark; changes are saved as you type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			_, bookmarks, closeClient := newBookmarksResource(cfg)
			defer closeClient()

			bookmark, err := bookmarks.Get(cmd.Context(), args[0])
			if err != nil {
				return describe(fmt.Errorf("bookmarks.Get > %w", err), args[0])
			}
			_, err = editBookmark(cmd.Context(), cfg, bookmark, bookmarks, saveOnExit)
			return err
		},
	}
	cmd.Flags().BoolVar(&saveOnExit, "save-on-exit", true, "save edits that have not settled yet when the editor closes")
	return cmd
}

func newBookmarksBrowseCommand() *cobra.Command {
	var saveOnExit bool
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Search bookmarks and edit the one you pick",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			_, bookmarks, closeClient := newBookmarksResource(cfg)
			defer closeClient()

			list := collection.NewList[entity.Bookmark](bookmarks, slog.Default())
			if err := list.Load(cmd.Context()); err != nil {
				return describe(fmt.Errorf("list.Load > %w", err), "bookmarks")
			}
			box := search.NewBox[entity.Bookmark](cfg.Search.Delay)
			defer box.Close()

			for {
				id, err := tui.RunBrowser(box, list.Items, tui.BookmarkLabel)
				if err != nil {
					return fmt.Errorf("tui.RunBrowser > %w", err)
				}
				if id == "" {
					return nil
				}
				bookmark, ok := list.Get(id)
				if !ok {
					continue
				}
				if _, err := editBookmark(cmd.Context(), cfg, bookmark, list, saveOnExit); err != nil {
					return err
				}
			}
		},
	}
	cmd.Flags().BoolVar(&saveOnExit, "save-on-exit", true, "save edits that have not settled yet when the editor closes")
	return cmd
}
