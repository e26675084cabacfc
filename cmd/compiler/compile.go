package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ryanadelino-stack/compiler-api/internal/compiler"
	"github.com/ryanadelino-stack/compiler-api/internal/history"
	"github.com/ryanadelino-stack/compiler-api/internal/identity"
	"github.com/ryanadelino-stack/compiler-api/internal/metrics"
)

// --------------------------------------------------------------------------
// compile command
// --------------------------------------------------------------------------

func compileCmd() *cobra.Command {
	var (
		in        string
		teamURL   string
		template  string
		out       string
		teamID    int
		countryID int
		quiet     bool
	)
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile one roster into a team save",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (in == "") == (teamURL == "") {
				return errors.New("exactly one of --in or --team-url is required")
			}
			return run(cmd, func(ctx context.Context, e *env) error {
				input, defaultOut, err := compileInput(e, in, teamURL)
				if err != nil {
					return err
				}
				tpl, err := readOptional(template)
				if err != nil {
					return err
				}
				if out == "" {
					out = defaultOut
				}

				runRec := history.NewRun(metrics.SourceCLI)
				start := time.Now()
				res, err := e.comp.Compile(ctx, compiler.Request{
					Input:     input,
					Template:  tpl,
					TeamID:    optionalInt(cmd, "team-id", teamID),
					CountryID: optionalInt(cmd, "country-id", countryID),
				})
				runRec.Duration = time.Since(start).Milliseconds()
				if err != nil {
					runRec.Status = metrics.Status(err)
					runRec.ErrorCode = string(compiler.CodeOf(err))
					e.record(ctx, runRec)
					return err
				}
				runRec.Status = "ok"
				runRec.TeamName = res.TeamName
				runRec.Players = len(res.Players)
				runRec.Juniors = res.Juniors
				e.record(ctx, runRec)

				if err := os.WriteFile(out, res.Data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", out, err)
				}
				if !quiet {
					printSummary(e, res)
				}
				fmt.Fprintf(e.out, "Wrote %s (%d players, %d juniors, %d bytes)\n",
					out, len(res.Players), res.Juniors, len(res.Data))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "Roster JSON file")
	cmd.Flags().StringVar(&teamURL, "team-url", "", "Team URL whose cached roster is compiled")
	cmd.Flags().StringVar(&template, "template", "", "Team save used as template")
	cmd.Flags().StringVar(&out, "out", "", "Output save (default: input name with .ban)")
	cmd.Flags().IntVar(&teamID, "team-id", 0, "Team id to write")
	cmd.Flags().IntVar(&countryID, "country-id", 0, "Team country code to write")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Skip the per-player summary")
	return cmd
}

// compileInput reads the roster from a file or from the roster cache.
func compileInput(e *env, in, teamURL string) ([]byte, string, error) {
	if in != "" {
		data, err := os.ReadFile(in)
		if err != nil {
			return nil, "", fmt.Errorf("read %s: %w", in, err)
		}
		return data, strings.TrimSuffix(in, filepath.Ext(in)) + ".ban", nil
	}

	team, err := identity.FromTeamURL(teamURL)
	if err != nil {
		return nil, "", err
	}
	c, err := identity.NewCache(e.cfg.RosterCacheDir)
	if err != nil {
		return nil, "", err
	}
	if !c.Exists(team) {
		return nil, "", fmt.Errorf("no cached roster for %s at %s", team, c.Path(team))
	}
	data, err := c.Read(team)
	if err != nil {
		return nil, "", err
	}
	e.log.Info("Using cached roster", "team", team.String(), "path", c.Path(team))
	return data, fmt.Sprintf("%s-%d.ban", team.Slug, team.Season), nil
}

func printSummary(e *env, res *compiler.Output) {
	tw := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tAGE\tPOS\tSIDE\tNAT\tTRAITS")
	for i, p := range res.Players {
		traits := p.Trait1 + "/" + p.Trait2
		if p.Fallback {
			traits += " (fallback)"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t%d\t%s\n", i+1, p.Name, p.Age, p.Position, p.Side, p.Nationality, traits)
	}
	tw.Flush()
	if res.Skipped > 0 {
		fmt.Fprintf(e.out, "Skipped %d roster entries that were not objects\n", res.Skipped)
	}
}

// --------------------------------------------------------------------------
// batch command
// --------------------------------------------------------------------------

func batchCmd() *cobra.Command {
	var (
		inDir     string
		outDir    string
		template  string
		workers   int
		teamID    int
		countryID int
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Compile every *.json roster in a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if inDir == "" {
				return errors.New("--in-dir is required")
			}
			return run(cmd, func(ctx context.Context, e *env) error {
				tpl, err := readOptional(template)
				if err != nil {
					return err
				}
				if outDir == "" {
					outDir = inDir
				}
				if !cmd.Flags().Changed("workers") {
					workers = e.cfg.BatchWorkers
				}

				result, err := e.comp.Batch(ctx, compiler.BatchOptions{
					InputDir:  inDir,
					OutputDir: outDir,
					Template:  tpl,
					TeamID:    optionalInt(cmd, "team-id", teamID),
					CountryID: optionalInt(cmd, "country-id", countryID),
					Workers:   workers,
					OnResult: func(fr compiler.FileResult) {
						r := history.NewRun(metrics.SourceBatch)
						r.TeamName = fr.TeamName
						r.Players = fr.Players
						r.Duration = fr.Duration.Milliseconds()
						r.Status = "ok"
						if !fr.Success {
							r.Status = "error"
							if fr.Code != "" {
								r.Status = string(fr.Code)
							}
							r.ErrorCode = string(fr.Code)
						}
						e.record(ctx, r)
					},
				})
				if err != nil {
					return err
				}

				for _, fr := range result.Results {
					status := "ok"
					if !fr.Success {
						status = "FAILED: " + fr.Error
					}
					fmt.Fprintf(e.out, "%s -> %s  %s\n", filepath.Base(fr.Input), filepath.Base(fr.Output), status)
				}
				fmt.Fprintln(e.out, result.Summary())
				if result.FilesFailed > 0 {
					return fmt.Errorf("%d of %d files failed", result.FilesFailed, result.FilesFound)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&inDir, "in-dir", "", "Directory of roster JSON files")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Directory for saves (default: --in-dir)")
	cmd.Flags().StringVar(&template, "template", "", "Team save used as template for every file")
	cmd.Flags().IntVar(&workers, "workers", 4, "Concurrent worker count (default: BATCH_WORKERS)")
	cmd.Flags().IntVar(&teamID, "team-id", 0, "Team id to write")
	cmd.Flags().IntVar(&countryID, "country-id", 0, "Team country code to write")
	return cmd
}
