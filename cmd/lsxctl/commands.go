package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"

	"lsx-portal/bootstrap"
	"lsx-portal/config"
	"lsx-portal/database"
	"lsx-portal/internal/logging"
	"lsx-portal/internal/models"
	"lsx-portal/internal/notion"
	"lsx-portal/internal/ranking"
	"lsx-portal/internal/repository"
	"lsx-portal/internal/routes"
	"lsx-portal/internal/server"
	"lsx-portal/internal/services"
)

type env struct {
	logger  *zap.Logger
	svc     routes.Services
	archive *mongo.Client
}

func (e *env) close() {
	if e.archive != nil {
		_ = e.archive.Disconnect(context.Background())
	}
	_ = e.logger.Sync()
}

// setup loads the same configuration as the server. The archive is only
// connected when withArchive is set.
func setup(ctx context.Context, withArchive bool) (*env, error) {
	cfg, err := config.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.LogLevel, "console")
	if err != nil {
		return nil, err
	}

	e := &env{logger: logger}
	deps := server.Deps{
		Store: notion.NewClient(notion.ClientConfig{
			BaseURL: cfg.NotionBaseURL,
			Token:   cfg.NotionToken,
			Version: cfg.NotionVersion,
			Timeout: cfg.NotionTimeout,
		}, logger.Named("notion")),
		Clock:  ranking.NewClock(cfg.Location()),
		Logger: logger,
	}

	if withArchive {
		if cfg.MongoURI == "" {
			return nil, services.ErrArchiveDisabled
		}
		client, db, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		if err := bootstrap.EnsureSnapshotIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		e.archive = client
		deps.Snapshots = repository.NewSnapshotRepository(db)
	}

	e.svc = server.BuildServices(cfg, deps)
	return e, nil
}

func rootCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "lsxctl",
		Short: "Inspect the LSX member ranking",
		Long: `Inspect the LSX member ranking using the portal's configuration
(.env, environment, SCHEMA_FILE and SECRETS_ARN).

Examples:
  lsxctl ranking                 # overall view
  lsxctl ranking --junior        # junior view
  lsxctl birthdays --month 4     # April birthdays
  lsxctl snapshot                # archive today's leaderboard
`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output JSON instead of a table")

	cmd.AddCommand(rankingCmd(&jsonOut), snapshotCmd(&jsonOut), birthdaysCmd(&jsonOut))
	return cmd
}

func withEnv(cmd *cobra.Command, withArchive bool, fn func(ctx context.Context, e *env) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e, err := setup(ctx, withArchive)
	if err != nil {
		return err
	}
	defer e.close()
	return fn(ctx, e)
}

func rankingCmd(jsonOut *bool) *cobra.Command {
	var (
		junior bool
		query  string
		group  string
	)
	cmd := &cobra.Command{
		Use:   "ranking",
		Short: "Print the overall or junior leaderboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd, false, func(ctx context.Context, e *env) error {
				view := services.ViewOverall
				if junior {
					view = services.ViewJunior
				}
				board, err := e.svc.Ranking.Leaderboard(ctx, view, query, group)
				if err != nil {
					return err
				}
				if *jsonOut {
					return writeJSON(cmd.OutOrStdout(), board)
				}
				if board.Partial {
					fmt.Fprintln(cmd.ErrOrStderr(), "warning: member list is incomplete, the store stopped answering mid-walk")
				}
				return printRanking(cmd.OutOrStdout(), board.Rows, junior)
			})
		},
	}
	cmd.Flags().BoolVar(&junior, "junior", false, "Show the junior view")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Filter by name substring")
	cmd.Flags().StringVar(&group, "group", "", "Filter by rank group")
	return cmd
}

func snapshotCmd(jsonOut *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Archive today's leaderboard to MongoDB",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd, true, func(ctx context.Context, e *env) error {
				snap, err := e.svc.Ranking.Archive(ctx)
				if err != nil {
					return err
				}
				if *jsonOut {
					return writeJSON(cmd.OutOrStdout(), snap)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "archived %s: %d overall, %d junior\n",
					snap.TakenOn, len(snap.Overall), len(snap.Junior))
				return nil
			})
		},
	}
}

func birthdaysCmd(jsonOut *bool) *cobra.Command {
	var (
		month    int
		upcoming int
	)
	cmd := &cobra.Command{
		Use:   "birthdays",
		Short: "List birthdays in a month or in the coming days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if month < 0 || month > 12 {
				return errors.New("--month must be between 1 and 12")
			}
			return withEnv(cmd, false, func(ctx context.Context, e *env) error {
				var items []models.Birthday
				switch {
				case upcoming > 0:
					items = e.svc.Birthdays.Upcoming(ctx, upcoming)
				default:
					m := time.Month(month)
					if m == 0 {
						m = e.svc.Clock.Today().Month()
					}
					items = e.svc.Birthdays.InMonth(ctx, m)
				}
				if *jsonOut {
					return writeJSON(cmd.OutOrStdout(), items)
				}
				return printBirthdays(cmd.OutOrStdout(), items)
			})
		},
	}
	cmd.Flags().IntVar(&month, "month", 0, "Month 1-12 (default: current month)")
	cmd.Flags().IntVar(&upcoming, "upcoming", 0, "List birthdays in the next N days instead")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func rankLabel(rank int) string {
	if rank == ranking.UnrankedSentinel {
		return "-"
	}
	return strconv.Itoa(rank)
}

func printRanking(w io.Writer, rows []ranking.Row, junior bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tNAME\tGROUP\tTITLE\tSCORE")
	for _, r := range rows {
		score := r.OverallScore
		if junior {
			score = r.JuniorScore
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%g\n", rankLabel(r.DisplayRank), r.DisplayName, r.RankGroup, r.RankTitle, score)
	}
	return tw.Flush()
}

func printBirthdays(w io.Writer, items []models.Birthday) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tNAME\tTURNING\tIN DAYS")
	for _, b := range items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", b.Date, b.DisplayName, b.TurningAge, b.DaysUntil)
	}
	return tw.Flush()
}
