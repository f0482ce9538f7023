package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"urlinfo/internal/config"
	"urlinfo/internal/domain"
	"urlinfo/internal/ports"
	"urlinfo/internal/services/screening"
	"urlinfo/internal/workers/screenrunner"
)

type screenLine struct {
	Target     string `json:"target"`
	URL        string `json:"url,omitempty"`
	Decision   string `json:"decision"`
	Reason     string `json:"reason"`
	ThreatType string `json:"threat_type,omitempty"`
	Rejection  string `json:"rejection,omitempty"`
	Error      string `json:"error,omitempty"`
}

func newScreenCmd() *cobra.Command {
	var file string
	var workers int

	cmd := &cobra.Command{
		Use:   "screen [target...]",
		Short: "Screen targets (host[:port]/path?query) and print one JSON verdict per line",
		Long: "Screen each target through the same pipeline the HTTP service uses. " +
			"Targets come from arguments, or one per line from --file (\"-\" for stdin).",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			targets := args
			if file != "" {
				fromFile, err := readTargets(cmd.InOrStdin(), file)
				if err != nil {
					return err
				}
				targets = append(targets, fromFile...)
			}
			if len(targets) == 0 {
				return fmt.Errorf("no targets given")
			}
			if workers > 0 {
				cfg.ScreenWorkers = workers
			}
			return screenTargets(cmd.Context(), cfg, targets, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read targets from file, one per line (\"-\" for stdin)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent screeners (default: SCREEN_WORKERS)")
	return cmd
}

func screenTargets(ctx context.Context, cfg config.Config, targets []string, out io.Writer) error {
	ctx = contextOrBackground(ctx)
	logger := newLogger(cfg)
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	svc, err := screening.New(ctx, store, store, screeningOptions(cfg), nil, logger)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	for _, r := range screenrunner.Run(ctx, svc, targets, cfg.ScreenWorkers, logger) {
		if err := enc.Encode(newScreenLine(r)); err != nil {
			return err
		}
	}
	return nil
}

func newScreenLine(r ports.ScreenResult) screenLine {
	line := screenLine{Target: r.Target}
	if r.Err != nil {
		line.Decision = string(domain.Deny)
		line.Reason = r.Err.Error()
		var rej *domain.Rejection
		if errors.As(r.Err, &rej) {
			line.Rejection = string(rej.Reason)
			line.URL = rej.URL
		} else {
			line.Error = r.Err.Error()
		}
		return line
	}
	line.URL = r.Verdict.URL
	line.Decision = string(r.Verdict.Decision)
	line.Reason = r.Verdict.Reason
	line.ThreatType = r.Verdict.ThreatType()
	return line
}

func readTargets(stdin io.Reader, path string) ([]string, error) {
	in := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open targets: %w", err)
		}
		defer f.Close()
		in = f
	}
	var out []string
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, sc.Err()
}
