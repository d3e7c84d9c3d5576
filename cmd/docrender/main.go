// Command docrender reads a render job as JSON from stdin and writes the
// rendered PDF bytes to stdout. Nothing else touches stdout: progress and
// failures go to stderr via the structured logger, and the process exit
// code reports the RenderError kind that failed the job, if any.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"docrender/internal/core/domain"
	"docrender/internal/core/engine/render"
	"docrender/internal/infrastructure/logger"
	"docrender/internal/pkg/config"
	rendererrors "docrender/internal/pkg/errors"
	"docrender/internal/pkg/pool"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	log := logger.NewStructuredLogger(&cfg.Logger)
	defer log.Sync()

	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintln(os.Stderr, "docrender: failed to read stdin:", err)
		return 1
	}

	pdf, renderErr := renderJob(context.Background(), cfg, log, input)
	if renderErr != nil {
		log.Error("render job failed", "kind", renderErr.Kind, "error", renderErr.Error())
		fmt.Fprintln(os.Stderr, renderErr.Error())
		return renderErr.ExitCode()
	}

	if _, err := os.Stdout.Write(pdf); err != nil {
		fmt.Fprintln(os.Stderr, "docrender: failed to write output:", err)
		return 1
	}
	return 0
}

func renderJob(ctx context.Context, cfg *config.Config, log logger.Logger, input []byte) ([]byte, *rendererrors.RenderError) {
	job, err := domain.DecodeRenderJob(input)
	if err != nil {
		return nil, rendererrors.AsRenderError(err)
	}
	log = log.With("job_id", job.ID.String())
	log.Info("decoded render job", "entries", len(job.Entries), "title", job.Title)

	// Prefetch every font file concurrently before layout starts, so a
	// missing font fails fast rather than mid-draw on whichever entry
	// happens to reference it first.
	fontJobs, entryAliases := collectFontJobs(job)
	prefetched, err := pool.PrefetchFonts(ctx, fontJobs, cfg.Render.WorkerPoolSize, resolveFontPath, log)
	if err != nil {
		return nil, rendererrors.MissingResource("one or more fonts could not be read").WithCause(err)
	}

	doc := render.NewDocument(job.ID, job.Title)
	fonts := render.NewFontRegistry()
	// Seed the registry with the prefetched bytes so layout never blocks on
	// font file I/O.
	for _, fd := range prefetched {
		if err := fonts.Preload(fd.Path, fd.Bytes); err != nil {
			return nil, rendererrors.AsRenderError(err)
		}
	}

	for i, entry := range job.Entries {
		env := render.NewEnv(doc, fonts, entryAliases[i])
		el, err := entry.Element.Build(env)
		if err != nil {
			return nil, rendererrors.AsRenderError(fmt.Errorf("entry %d: %w", i, err))
		}
		doc.RenderEntry(el, entry.Size[0], entry.Size[1])
	}

	out, err := doc.Output()
	if err != nil {
		return nil, rendererrors.InternalError("failed to finalize PDF output").WithCause(err)
	}
	return out, nil
}

// collectFontJobs flattens every entry's font alias table into prefetch
// jobs, and returns each entry's alias table resolved to absolute paths so
// Env.Font can look fonts up without re-touching the filesystem path logic.
func collectFontJobs(job *domain.RenderJob) ([]pool.FontJob, []map[string]string) {
	var jobs []pool.FontJob
	aliases := make([]map[string]string, len(job.Entries))
	for i, entry := range job.Entries {
		resolved := make(map[string]string, len(entry.Fonts))
		for alias, path := range entry.Fonts {
			abs, err := filepath.Abs(path)
			if err != nil {
				abs = path
			}
			resolved[alias] = abs
			jobs = append(jobs, pool.FontJob{Alias: alias, Path: abs})
		}
		aliases[i] = resolved
	}
	return jobs, aliases
}

func resolveFontPath(path string) ([]byte, error) {
	return os.ReadFile(path)
}
