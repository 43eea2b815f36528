// Command ssc-view is a terminal UI for visualizing satellite locations
// from NASA SSC Web Services.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/skysurvey/ssc-view/internal/logging"
	"github.com/skysurvey/ssc-view/internal/query"
	"github.com/skysurvey/ssc-view/internal/state"
	"github.com/skysurvey/ssc-view/internal/ui"
)

// CLI flags for headless mode
var (
	summaryMode   bool
	watchInterval time.Duration
	snapshotPath  string
)

func main() {
	apiURL := flag.String("api-url", query.DefaultAPIURL, "Backend base URL")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	observatories := flag.String("observatories", "ace,wind,goes17,goes16", "Comma-separated satellite codes (headless)")
	start := flag.String("start", "2024-01-01T00:00", "Window start, local time (headless)")
	end := flag.String("end", "2024-01-01T01:00", "Window end, local time (headless)")
	system := flag.String("system", "GSE", "Coordinate system (headless)")
	flag.BoolVar(&summaryMode, "summary", false, "Print text summary instead of TUI")
	flag.DurationVar(&watchInterval, "watch", 0, "Repeat fetch at interval (e.g., 1m)")
	flag.StringVar(&snapshotPath, "snapshot-path", "", "Export JSON snapshot to file (use - for stdout)")
	flag.Parse()

	logger := logging.New(logging.ParseLevel(*logLevel))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	client := query.NewClient(query.WithBaseURL(*apiURL))
	stateMgr := state.NewManager()

	headless := summaryMode || snapshotPath != ""
	if headless {
		params := query.Params{
			Observatories: *observatories,
			System:        *system,
		}
		var err error
		if params.Start, err = query.ParseLocalTime(*start); err != nil {
			fmt.Fprintf(os.Stderr, "Error: -start: expected %s\n", query.InputTimeLayout)
			os.Exit(2)
		}
		if params.End, err = query.ParseLocalTime(*end); err != nil {
			fmt.Fprintf(os.Stderr, "Error: -end: expected %s\n", query.InputTimeLayout)
			os.Exit(2)
		}
		runHeadless(ctx, client, stateMgr, params, logger)
		return
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "stdout is not a terminal; use -summary or -snapshot-path for headless output")
		os.Exit(1)
	}

	model := ui.New(stateMgr, client)
	p := tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// runHeadless fetches once (or on an interval with -watch) and writes the
// requested outputs without starting the TUI.
func runHeadless(ctx context.Context, client *query.Client, stateMgr *state.Manager, params query.Params, logger *logging.Logger) {
	outputOnce := func() error {
		if !stateMgr.TryBeginFetch() {
			return fmt.Errorf("fetch already in progress")
		}

		logger.Debug("fetching locations for %s", params.Observatories)
		begin := time.Now()
		result, err := client.Fetch(ctx, params)
		stateMgr.FinishFetch(params, result, time.Since(begin), err)
		if err != nil {
			return err
		}

		snap := stateMgr.Snapshot()
		export := query.ExportSnapshot(snap.Params, snap.Result, snap.LastFetch)

		if snapshotPath != "" {
			if snapshotPath == "-" {
				if err := export.WriteJSON(os.Stdout); err != nil {
					return fmt.Errorf("write JSON to stdout: %w", err)
				}
			} else {
				f, err := os.Create(snapshotPath)
				if err != nil {
					return fmt.Errorf("create snapshot file: %w", err)
				}
				defer f.Close()
				if err := export.WriteJSON(f); err != nil {
					return fmt.Errorf("write JSON to file: %w", err)
				}
			}
		}

		if summaryMode {
			export.WriteSummary(os.Stdout)
		}
		return nil
	}

	if watchInterval == 0 {
		if err := outputOnce(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := outputOnce(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fmt.Println()
			if err := outputOnce(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	}
}
