package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/studychannel/studychannel/internal/client"
	"github.com/studychannel/studychannel/internal/model"
	"github.com/studychannel/studychannel/internal/render"
	"github.com/studychannel/studychannel/internal/threadview"
	"github.com/studychannel/studychannel/internal/tui"
)

type browseFlags struct {
	server      string
	thread      string
	focus       string
	fingerprint string
	name        string
	favorites   bool
}

func browseCommand() *cobra.Command {
	var flags browseFlags

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Read and reply to a thread in the terminal",
		Long:  "Without --thread, lists threads (or favorites with --favorites) and exits.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return browse(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.server, "server", "http://localhost:8080", "API base URL")
	cmd.Flags().StringVar(&flags.thread, "thread", "", "thread id to open")
	cmd.Flags().StringVar(&flags.focus, "focus", "", "comment id to focus on")
	cmd.Flags().StringVar(&flags.fingerprint, "fingerprint", "", "browser fingerprint to act as (random when empty)")
	cmd.Flags().StringVar(&flags.name, "name", "", "author name for replies")
	cmd.Flags().BoolVar(&flags.favorites, "favorites", false, "list favorite threads instead of all threads")

	return cmd
}

func browse(cmd *cobra.Command, flags browseFlags) error {
	if flags.fingerprint == "" {
		flags.fingerprint = uuid.NewString()
	}

	api := client.New(client.Config{BaseURL: flags.server})

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	if flags.thread == "" {
		return listThreads(ctx, cmd, api, flags)
	}

	thread, err := api.GetThread(ctx, flags.thread)
	if err != nil {
		return fmt.Errorf("failed to load thread: %w", err)
	}

	session := threadview.New(threadview.Config{
		ThreadID:    flags.thread,
		FocusID:     flags.focus,
		Fingerprint: flags.fingerprint,
		AuthorName:  flags.name,
	}, api, render.NewRenderer(), zap.NewNop(), nil)

	_, err = tea.NewProgram(tui.NewModel(session, thread.Title), tea.WithAltScreen()).Run()
	return err
}

func listThreads(ctx context.Context, cmd *cobra.Command, api *client.Client, flags browseFlags) error {
	var threads []model.Thread
	var err error

	if flags.favorites {
		threads, err = api.ListFavorites(ctx, flags.fingerprint)
	} else {
		threads, err = api.ListThreads(ctx)
	}
	if err != nil {
		return err
	}

	if len(threads) == 0 {
		return errors.New("no threads found")
	}

	for _, t := range threads {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s (%d)\n", t.Id, t.Title, t.CommentCount)
	}

	return nil
}
