package main

import (
	"errors"
	"fmt"

	"github.com/at-ishikawa/notesync/internal/api"
	"github.com/at-ishikawa/notesync/internal/auth"
	"github.com/at-ishikawa/notesync/internal/autosave"
	"github.com/at-ishikawa/notesync/internal/config"
	"github.com/at-ishikawa/notesync/internal/entity"
	"github.com/at-ishikawa/notesync/internal/savestatus"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// newAuthClient returns nil when no auth endpoint is configured.
func newAuthClient(cfg *config.Config) *auth.Client {
	if cfg.Auth.URL == "" {
		return nil
	}
	return auth.NewClient(cfg.Auth.URL, cfg.Auth.AnonKey)
}

func newFileProvider(cfg *config.Config) *auth.FileProvider {
	if client := newAuthClient(cfg); client != nil {
		return auth.NewFileProvider(cfg.Auth.SessionFile, client)
	}
	return auth.NewFileProvider(cfg.Auth.SessionFile, nil)
}

// newSessionProvider prefers a configured access token over the session
// saved by login.
func newSessionProvider(cfg *config.Config) auth.SessionProvider {
	if cfg.API.AccessToken != "" {
		return auth.NewStaticProvider(cfg.API.AccessToken)
	}
	return newFileProvider(cfg)
}

func newAPIClient(cfg *config.Config) *api.Client {
	return api.NewClient(cfg.API.BaseURL, newSessionProvider(cfg), cfg.API.Timeout)
}

func sessionOptions(cfg *config.Config, extra ...autosave.Option) []autosave.Option {
	opts := []autosave.Option{
		autosave.WithDelay(cfg.Autosave.Delay),
		autosave.WithPersistTimeout(cfg.Autosave.PersistTimeout),
	}
	return append(opts, extra...)
}

// applyFields sets every field of fields on session, settles them and waits
// for the resulting persist. It fails when the persist failed.
func applyFields[E entity.Entity](session *autosave.Session[E], fields entity.Fields) error {
	for _, name := range fields.Names() {
		if err := session.Set(name, fields[name]); err != nil {
			return fmt.Errorf("session.Set > %w", err)
		}
	}
	if err := session.Save(); err != nil {
		return fmt.Errorf("session.Save > %w", err)
	}
	session.Wait()
	if status := session.Status(); status.State == savestatus.StateError {
		return fmt.Errorf("%w: %s", api.ErrRequestFailed, status.LastError)
	}
	return nil
}

// describe turns the errors users commonly hit into actionable messages.
func describe(err error, id string) error {
	switch {
	case errors.Is(err, auth.ErrNoSession):
		return fmt.Errorf("not signed in, run `notesync login` or set NOTESYNC_ACCESS_TOKEN: %w", err)
	case errors.Is(err, api.ErrNotFound):
		return fmt.Errorf("%s was not found: %w", id, err)
	}
	return err
}

// closeSession settles pending edits when saveOnExit is set, then closes.
func closeSession[E entity.Entity](session *autosave.Session[E], saveOnExit bool) {
	if saveOnExit {
		_ = session.Save()
	}
	session.Wait()
	session.Close()
}
