package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/ryanadelino-stack/compiler-api/internal/compiler"
	"github.com/ryanadelino-stack/compiler-api/internal/history"
	"github.com/ryanadelino-stack/compiler-api/internal/identity"
)

// --------------------------------------------------------------------------
// inspect command
// --------------------------------------------------------------------------

func inspectCmd() *cobra.Command {
	var (
		asJSON    bool
		dump      bool
		dumpDepth int
	)
	cmd := &cobra.Command{
		Use:   "inspect <save>",
		Short: "Print the team fields and players of a save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, e *env) error {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("read %s: %w", args[0], err)
				}
				report, err := e.comp.Inspect(data)
				if err != nil {
					return err
				}

				if asJSON {
					enc := json.NewEncoder(e.out)
					enc.SetIndent("", "  ")
					return enc.Encode(report)
				}
				printReport(e, args[0], report)
				if dump {
					cfg := spew.ConfigState{
						Indent:                  "  ",
						MaxDepth:                dumpDepth,
						DisablePointerAddresses: true,
						DisableCapacities:       true,
						SortKeys:                true,
					}
					fmt.Fprintln(e.out, "\n=== OBJECT GRAPH ===")
					cfg.Fdump(e.out, report.Root)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	cmd.Flags().BoolVar(&dump, "dump", false, "Dump the decoded object graph")
	cmd.Flags().IntVar(&dumpDepth, "dump-depth", 6, "Maximum nesting for --dump")
	return cmd
}

func printReport(e *env, path string, r *compiler.Report) {
	fmt.Fprintf(e.out, "=== %s ===\n", path)
	fmt.Fprintf(e.out, "class: %s\n", r.Class)
	fmt.Fprintf(e.out, "id: %s  name: %s\n", r.ID, r.Name)
	fmt.Fprintf(e.out, "color1: %s  color2: %s\n", r.Color1, r.Color2)
	fmt.Fprintf(e.out, "country: %s  valid: %s  mark: %s\n", r.Country, r.Valid, r.Mark)

	if len(r.Lists) == 0 {
		fmt.Fprintln(e.out, "no player collections found")
		return
	}
	fmt.Fprintln(e.out, "\ncollections:")
	for _, l := range r.Lists {
		fmt.Fprintf(e.out, "  %s (%s) size=%d players=%d\n", l.Field, l.Kind, l.Size, l.Players)
	}
	fmt.Fprintf(e.out, "\nplayers: %d  juniors: %d\n", r.PlayerCount, r.JuniorCount)

	tw := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tNAT\tAGE\tPOS\tSIDE\tCR1\tCR2\tSIDE2")
	for _, p := range r.Players {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.Index, p.Name, p.Nationality, p.Age, p.Position, p.Side, p.Trait1, p.Trait2, p.SideCompat)
	}
	tw.Flush()
}

// --------------------------------------------------------------------------
// identity command
// --------------------------------------------------------------------------

func identityCmd() *cobra.Command {
	var store string
	cmd := &cobra.Command{
		Use:   "identity <team-url>",
		Short: "Resolve a team URL to its cache identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, e *env) error {
				team, err := identity.FromTeamURL(args[0])
				if err != nil {
					return err
				}
				c, err := identity.NewCache(e.cfg.RosterCacheDir)
				if err != nil {
					return err
				}
				if store != "" {
					doc, err := os.ReadFile(store)
					if err != nil {
						return fmt.Errorf("read %s: %w", store, err)
					}
					if err := c.Write(team, doc); err != nil {
						return err
					}
					e.log.Info("Roster cached", "team", team.String(), "path", c.Path(team))
				}

				fmt.Fprintf(e.out, "country: %s\n", team.Country)
				fmt.Fprintf(e.out, "team_id: %d\n", team.TeamID)
				fmt.Fprintf(e.out, "season: %d\n", team.Season)
				fmt.Fprintf(e.out, "slug: %s\n", team.Slug)
				fmt.Fprintf(e.out, "cache: %s\n", c.Path(team))
				fmt.Fprintf(e.out, "cached: %s\n", strconv.FormatBool(c.Exists(team)))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&store, "store", "", "Copy this roster JSON into the cache for the team")
	return cmd
}

// --------------------------------------------------------------------------
// history command
// --------------------------------------------------------------------------

func historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent compile runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, e *env) error {
				if e.cfg.HistoryDriver == "" {
					return fmt.Errorf("compile history is disabled; set HISTORY_DRIVER and HISTORY_DSN")
				}
				runs, err := e.history.List(ctx, limit)
				if err != nil {
					return err
				}
				printRuns(e, runs)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", history.DefaultLimit, "Maximum runs to list")
	return cmd
}

func printRuns(e *env, runs []history.Run) {
	tw := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tSOURCE\tTEAM\tPLAYERS\tJUNIORS\tSTATUS\tMS\tID")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\t%d\t%s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"), r.Source, r.TeamName,
			r.Players, r.Juniors, r.Status, r.Duration, r.ID)
	}
	tw.Flush()
}
