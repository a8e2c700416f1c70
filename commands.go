// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/danielhkuo/pokepoll/auth"
	"github.com/danielhkuo/pokepoll/db"
	"github.com/danielhkuo/pokepoll/middleware"
	"github.com/danielhkuo/pokepoll/models"
	"github.com/danielhkuo/pokepoll/router"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := openApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			server := http.Server{
				Handler:           middleware.CORS(router.NewRouter(a.svc, cfg)),
				Addr:              ":" + strconv.Itoa(cfg.Port),
				ReadHeaderTimeout: 10 * time.Second,
			}

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				server.Shutdown(shutdownCtx)
			}()

			slog.Info("Listening", "port", cfg.Port)
			err = server.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Server closed", "error", err)
				return err
			}
			slog.Info("Server closed")
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if reset {
				if err := db.DropSchema(cmd.Context(), a.store.DB()); err != nil {
					return err
				}
				if err := db.CreateSchema(cmd.Context(), a.store.DB()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "schema reset")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema ready")
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "drop all tables first (destroys data)")
	return cmd
}

func pollCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poll",
		Short: "Manage polls from the command line",
	}
	cmd.AddCommand(pollCreateCmd(), pollEndCmd(), pollShowCmd(), pollListCmd())
	return cmd
}

// withApp runs fn with an opened app and an operator auth context.
func withApp(cmd *cobra.Command, fn func(a *app, ac auth.Context) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	a, err := openApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a, auth.System("cli"))
}

func pollCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <item-a> <item-b>",
		Short: "Open a poll between two items",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app, ac auth.Context) error {
				p, err := a.svc.CreatePoll(cmd.Context(), ac, args[0], args[1])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "poll %s opened\n", p.ID)
				if a.cfg.AdminKeySalt != "" {
					fmt.Fprintf(out, "admin key: %s\n", auth.GenerateAdminKey(p.ID, a.cfg.AdminKeySalt))
				}
				return nil
			})
		},
	}
}

func pollEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end <poll-id>",
		Short: "End a poll",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app, ac auth.Context) error {
				if err := a.svc.EndPoll(cmd.Context(), ac, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "poll %s finished\n", args[0])
				return nil
			})
		},
	}
}

func pollShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [poll-id]",
		Short: "Show a poll with its tallies (the open poll by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app, _ auth.Context) error {
				var sum *models.PollSummary
				if len(args) == 1 {
					s, err := a.svc.Summary(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					sum = &s
				} else {
					s, err := a.svc.OpenSummary(cmd.Context())
					if err != nil {
						return err
					}
					if s == nil {
						fmt.Fprintln(cmd.OutOrStdout(), "no poll is open")
						return nil
					}
					sum = s
				}
				printSummary(cmd, *sum)
				return nil
			})
		},
	}
}

func printSummary(cmd *cobra.Command, sum models.PollSummary) {
	out := cmd.OutOrStdout()
	status := models.StatusOpen
	if sum.Poll.Finished {
		status = models.StatusFinished
	}
	fmt.Fprintf(out, "poll %s (%s, created %s)\n", sum.Poll.ID, status, humanize.Time(sum.Poll.CreatedAt))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tVOTES\tSHARE\t")
	for _, c := range []models.Contender{sum.ItemA, sum.ItemB} {
		share := 0.0
		if sum.Total > 0 {
			share = float64(c.Votes) * 100 / float64(sum.Total)
		}
		marker := ""
		if c.Winning {
			marker = "leading"
		}
		fmt.Fprintf(w, "%s\t%s\t%.1f%%\t%s\n", c.Item.Name, humanize.Comma(int64(c.Votes)), share, marker)
	}
	w.Flush()
	fmt.Fprintf(out, "total votes: %s\n", humanize.Comma(int64(sum.Total)))
}

func pollListCmd() *cobra.Command {
	var (
		status string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List polls, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app, _ auth.Context) error {
				list, err := a.svc.ListPolls(cmd.Context(), status, limit)
				if err != nil {
					return err
				}
				if len(list) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no polls")
					return nil
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tSTATUS\tCREATED\t")
				for _, p := range list {
					st := models.StatusOpen
					if p.Finished {
						st = models.StatusFinished
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t\n", p.ID, st, humanize.Time(p.CreatedAt))
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (open or finished)")
	cmd.Flags().IntVar(&limit, "limit", 20, "max polls to show")
	return cmd
}
