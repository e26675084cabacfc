package compiler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// BatchOptions configures a directory compile.
type BatchOptions struct {
	InputDir  string
	OutputDir string
	Template  []byte
	TeamID    *int
	CountryID *int
	Workers   int
	// OnResult, when set, is called once per file from the worker that
	// compiled it.
	OnResult func(FileResult)
}

// FileResult is the outcome for one input file.
type FileResult struct {
	Input    string
	Output   string
	TeamName string
	Players  int
	Success  bool
	Code     Code
	Error    string
	Duration time.Duration
}

// BatchResult tracks counts and errors from a batch run.
type BatchResult struct {
	FilesFound     int
	FilesSucceeded int
	FilesFailed    int
	PlayersWritten int
	Results        []FileResult
	Errors         []string
	Duration       time.Duration
}

// Summary returns a human-readable summary of the batch.
func (r *BatchResult) Summary() string {
	return fmt.Sprintf(
		"files=%d succeeded=%d failed=%d players=%d duration=%s",
		r.FilesFound, r.FilesSucceeded, r.FilesFailed, r.PlayersWritten, r.Duration.Round(time.Millisecond),
	)
}

func (r *BatchResult) add(fr FileResult) {
	r.Results = append(r.Results, fr)
	if fr.Success {
		r.FilesSucceeded++
		r.PlayersWritten += fr.Players
		return
	}
	r.FilesFailed++
	r.Errors = append(r.Errors, fmt.Sprintf("%s: %s", filepath.Base(fr.Input), fr.Error))
}

// Batch compiles every *.json file in InputDir to <base>.ban in OutputDir.
// A failing file is reported and does not stop the others. The returned
// error covers only directory-level problems.
func (c *Compiler) Batch(ctx context.Context, opts BatchOptions) (*BatchResult, error) {
	start := time.Now()
	inputs, err := listJSON(opts.InputDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	result := &BatchResult{FilesFound: len(inputs)}
	if len(inputs) == 0 {
		c.log.Info("No roster files to compile", "dir", opts.InputDir)
		result.Duration = time.Since(start)
		return result, nil
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(inputs) {
		workers = len(inputs)
	}

	ch := make(chan string, len(inputs))
	for _, in := range inputs {
		ch <- in
	}
	close(ch)

	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for in := range ch {
				fr := c.compileFile(ctx, in, opts)
				if opts.OnResult != nil {
					opts.OnResult(fr)
				}
				mu.Lock()
				result.add(fr)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	sort.Slice(result.Results, func(i, j int) bool {
		return result.Results[i].Input < result.Results[j].Input
	})
	sort.Strings(result.Errors)
	result.Duration = time.Since(start)

	c.log.Info("Batch run complete", "summary", result.Summary())
	return result, nil
}

func (c *Compiler) compileFile(ctx context.Context, in string, opts BatchOptions) FileResult {
	start := time.Now()
	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	fr := FileResult{Input: in, Output: filepath.Join(opts.OutputDir, base+".ban")}

	fail := func(err error) FileResult {
		fr.Error = err.Error()
		fr.Code = CodeOf(err)
		fr.Duration = time.Since(start)
		c.log.Warn("Roster compile failed", "file", in, "error", err)
		return fr
	}

	data, err := os.ReadFile(in)
	if err != nil {
		return fail(err)
	}
	out, err := c.Compile(ctx, Request{
		Input:     data,
		Template:  opts.Template,
		TeamID:    opts.TeamID,
		CountryID: opts.CountryID,
	})
	if err != nil {
		return fail(err)
	}
	if err := os.WriteFile(fr.Output, out.Data, 0o644); err != nil {
		return fail(err)
	}

	fr.Success = true
	fr.TeamName = out.TeamName
	fr.Players = len(out.Players)
	fr.Duration = time.Since(start)
	return fr
}

// listJSON returns the *.json files of dir, sorted by name.
func listJSON(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input dir: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}
