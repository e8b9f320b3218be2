package backfill

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MikeSquared-Agency/quill/internal/processor"
)

// Runner walks a directory of agent config files and feeds each one through
// the processing pipeline. Failures are recorded per file; one bad config
// never aborts the run.
type Runner struct {
	proc   *processor.Processor
	logger *slog.Logger
}

func NewRunner(proc *processor.Processor, logger *slog.Logger) *Runner {
	return &Runner{proc: proc, logger: logger}
}

// Summary reports what one Run accomplished.
type Summary struct {
	FilesFound     int
	FilesProcessed int
	FilesSkipped   int
	Errors         int
}

// Run processes every .yaml/.yml file under dir, resuming past the files a
// previous run already handled.
func (r *Runner) Run(ctx context.Context, dir string) (*Summary, error) {
	state, err := LoadState()
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	files, err := discoverConfigs(expandHome(dir))
	if err != nil {
		return nil, fmt.Errorf("discover configs: %w", err)
	}

	summary := &Summary{FilesFound: len(files)}
	r.logger.Info("configs discovered", "dir", dir, "files", len(files))

	var pending []string
	for _, path := range files {
		if state.IsProcessed(path) {
			summary.FilesSkipped++
			continue
		}
		pending = append(pending, path)
	}
	state.FilesRemaining = len(pending)

	for _, path := range pending {
		select {
		case <-ctx.Done():
			r.logger.Info("backfill interrupted, saving state")
			_ = state.Save()
			return summary, ctx.Err()
		default:
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			r.logger.Warn("failed to read config", "path", path, "error", err)
			state.AddError(fmt.Sprintf("read %s: %v", path, err))
			summary.Errors++
			continue
		}

		result, err := r.proc.Process(ctx, string(raw), "backfill")
		if err != nil {
			r.logger.Error("processing failed", "path", path, "error", err)
			state.AddError(fmt.Sprintf("process %s: %v", path, err))
			summary.Errors++
			continue
		}

		r.logger.Info("config backfilled",
			"path", path,
			"agents", len(result.Agents),
			"detected", result.ServiceInfo != nil,
			"reused", result.Reused,
		)

		state.MarkProcessed(path)
		state.RunsCompleted++
		state.FilesRemaining--
		summary.FilesProcessed++
		_ = state.Save()
	}

	_ = state.Save()

	r.logger.Info("backfill complete",
		"files_found", summary.FilesFound,
		"processed", summary.FilesProcessed,
		"skipped", summary.FilesSkipped,
		"errors", summary.Errors,
	)

	return summary, nil
}

func discoverConfigs(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	var files []string
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if info.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(info.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
