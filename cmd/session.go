package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/lehigh-university-libraries/pagegrid/internal/api"
	"github.com/lehigh-university-libraries/pagegrid/internal/config"
	"github.com/lehigh-university-libraries/pagegrid/internal/editor"
	"github.com/lehigh-university-libraries/pagegrid/internal/modal"
	"github.com/lehigh-university-libraries/pagegrid/internal/storage"
	"github.com/lehigh-university-libraries/pagegrid/internal/terminal"
	"github.com/lehigh-university-libraries/pagegrid/internal/ui"
	"github.com/spf13/cobra"
)

// errShown is returned after a failure was already reported in a dialog.
var errShown = errors.New("operation failed")

// session wires the controllers of one command run to the terminal and the
// remembered server session.
type session struct {
	cfg       config.Config
	client    *api.Client
	store     *storage.SessionStore
	dialog    *modal.Dialog
	navigator *terminal.Navigator
	confirmer *terminal.Confirmer
	out       io.Writer
}

func openSession(cmd *cobra.Command, flags *globalFlags) (*session, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.server != "" {
		cfg.Server = flags.server
	}

	store, err := storage.New(cfg.CookieFile)
	if err != nil {
		return nil, err
	}

	client := api.NewClient(cfg.Server, cfg.Timeout)
	if err := store.Restore(client.BaseURL, client.Jar()); err != nil {
		return nil, err
	}

	out := cmd.OutOrStdout()
	slog.Debug("Session opened", "server", client.BaseURL, "cookie_file", cfg.CookieFile)

	s := &session{
		cfg:       cfg,
		client:    client,
		store:     store,
		dialog:    modal.New(terminal.NewPresenter(out)),
		confirmer: terminal.NewConfirmer(cmd.InOrStdin(), out, flags.assumeYes),
		out:       out,
	}
	s.navigator = s.newNavigator(cmd)
	return s, nil
}

func (s *session) newNavigator(cmd *cobra.Command) *terminal.Navigator {
	return terminal.NewNavigator(cmd.Context(), s.client, s.cfg.OutputDir, s.out)
}

// save remembers the server session cookie for the next command. Servers
// that keep the document in the cookie answer every change with a new one.
func (s *session) save() error {
	return s.store.Capture(s.client.BaseURL, s.client.Jar())
}

// close saves the session once a command is done with the server, whether
// or not the command succeeded.
func (s *session) close() {
	if err := s.save(); err != nil {
		slog.Error("Unable to save session", "cookie_file", s.cfg.CookieFile, "err", err)
	}
}

// editor loads the current page grid and builds an editor controller on it.
func (s *session) editor(ctx context.Context) (*editor.Controller, error) {
	body, err := s.client.Editor(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w (upload files first)", err)
	}
	defer body.Close()

	ids, err := terminal.PageIDs(body)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, errors.New("the current document has no pages (upload files first)")
	}

	return editor.New(ids, editor.Deps{
		Backend:       s.client,
		Dialog:        s.dialog,
		Navigator:     s.navigator,
		Confirmer:     s.confirmer,
		Clock:         ui.RealClock(),
		DownloadDelay: s.cfg.DownloadDelay,
	}), nil
}

// failed reports whether the last dialog shown reported a failure. The bulk
// delete summary is only shown when some pages failed.
func (s *session) failed() bool {
	st := s.dialog.State()
	return st.Visible && (st.Title == "Error" || st.Title == "Deletion Complete")
}
