// Package batch drives one organize run end to end: scan, per-file pipeline
// under a worker semaphore, and the final snapshot. Fatal conditions stop
// the run before any file is touched; everything after that is per-file.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/sync/semaphore"

	"tunesort/internal/config"
	"tunesort/internal/library"
	"tunesort/internal/metadata"
	"tunesort/internal/providers"
	"tunesort/internal/shared"
	"tunesort/internal/stats"
)

// Options controls one run.
type Options struct {
	DryRun       bool
	ManifestPath string // when non-empty, the manifest snapshot is written here
	Playlists    bool   // regenerate genre and decade playlists after the run
}

// Runner wires the pipeline stages for one batch. Build one per run; the
// aggregator inside is not reusable.
type Runner struct {
	cfg       *config.Config
	resolver  *metadata.Resolver
	adapter   *providers.Adapter
	builder   *library.PathBuilder
	organizer *library.Organizer
	warnings  *shared.WarningCollector
	agg       *stats.Aggregator
	opts      Options

	mu      sync.Mutex
	claimed map[string]string // destination path -> first source that claimed it
}

// NewRunner assembles a runner. adapter may be nil when online lookups are
// disabled.
func NewRunner(cfg *config.Config, resolver *metadata.Resolver, adapter *providers.Adapter, warnings *shared.WarningCollector, opts Options) *Runner {
	return &Runner{
		cfg:       cfg,
		resolver:  resolver,
		adapter:   adapter,
		builder:   library.NewPathBuilder(cfg.OutputRoot, cfg.PathCeiling, cfg.NamingMasks),
		organizer: library.NewOrganizer(opts.DryRun, warnings),
		warnings:  warnings,
		agg:       stats.NewAggregator(),
		opts:      opts,
		claimed:   make(map[string]string),
	}
}

// Run executes the batch. The returned snapshot is complete even when ctx is
// cancelled mid-run; files already dispatched finish, undispatched files are
// simply never started.
func (r *Runner) Run(ctx context.Context) (stats.Snapshot, error) {
	files, err := library.ScanAudioFiles(r.cfg.SourceRoot)
	if err != nil {
		return stats.Snapshot{}, err
	}
	if err := library.EnsureOutputRoot(r.cfg.OutputRoot, r.opts.DryRun); err != nil {
		return stats.Snapshot{}, err
	}
	if len(files) == 0 {
		shared.ColorWarning.Println("No audio files found under source root")
		return r.agg.Snapshot(), nil
	}

	shared.ColorInfo.Printf("Found %d audio files under %s\n", len(files), r.cfg.SourceRoot)
	if r.opts.DryRun {
		shared.ColorWarning.Println("Dry run: nothing will be copied")
	}

	var bar *pb.ProgressBar
	if shared.IsTTY() {
		bar = pb.New(len(files))
		bar.SetTemplateString(`{{ string . "prefix" }} {{ bar . }} {{ percent . }} ({{ counters . }})`)
		bar.Start()
	}

	var wg sync.WaitGroup
	sem := semaphore.NewWeighted(int64(r.cfg.Parallelism))

	for _, file := range files {
		// Cooperative abort: files already dispatched run to completion.
		if ctx.Err() != nil {
			break
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)

		go func(path string) {
			defer wg.Done()
			defer sem.Release(1)

			if bar != nil {
				bar.Set("prefix", fmt.Sprintf("%-40s", shared.TruncateString(filepath.Base(path), 40)))
			}
			r.processFile(ctx, path)
			if bar != nil {
				bar.Increment()
			}
		}(file)
	}

	wg.Wait()
	if bar != nil {
		bar.Finish()
	}

	snapshot := r.agg.Snapshot()

	if r.opts.Playlists && !r.opts.DryRun {
		written, err := library.WritePlaylists(snapshot, r.cfg.OutputRoot)
		if err != nil {
			shared.ColorError.Printf("Playlist generation failed: %v\n", err)
		} else if written > 0 {
			shared.ColorInfo.Printf("Wrote %d playlists\n", written)
		}
	}

	if r.opts.ManifestPath != "" {
		if err := WriteManifest(snapshot, r.opts.ManifestPath); err != nil {
			shared.ColorError.Printf("Manifest write failed: %v\n", err)
		}
	}

	return snapshot, ctx.Err()
}

// processFile runs the full pipeline for one audio file. Every failure is
// recorded and contained; the rest of the batch never sees it.
func (r *Runner) processFile(ctx context.Context, path string) {
	bundle, err := metadata.Extract(path)
	if err != nil {
		// Degraded, not fatal: tags are empty but folder and filename
		// sources still feed the resolver.
		r.warnings.AddTagReadWarning(path, err.Error())
	}

	var overrides metadata.Overrides
	if r.adapter.Enabled() {
		hint := r.resolver.Resolve(bundle, metadata.Overrides{})
		overrides = r.adapter.Lookup(ctx, hint.Artist, hint.Album, hint.Title)
	}

	resolved := r.resolver.Resolve(bundle, overrides)

	dest, pathWarning := r.builder.BuildPath(resolved, filepath.Ext(path))
	if pathWarning != "" {
		r.warnings.AddPathLengthWarning(path, pathWarning)
	}

	// Two distinct source files can resolve to the same destination. The
	// copy still proceeds (last writer wins on disk) but the collision is
	// recorded for the second claimant. Claims are tracked in-run, so dry
	// and real runs report the same collisions.
	if first := r.claim(dest.FullPath, path); first != "" {
		r.agg.RecordError(path, "collision", fmt.Sprintf("destination %s already claimed by %s", dest.FullPath, first))
	}

	if err := r.organizer.OrganizeFile(path, dest); err != nil {
		r.agg.RecordError(path, "organize", err.Error())
		r.agg.Record(bundle, resolved, dest.FullPath, overrides, stats.OutcomeFailed)
		return
	}
	r.organizer.CopyArtwork(path, dest)

	outcome := stats.OutcomeOrganized
	if r.opts.DryRun {
		outcome = stats.OutcomePlanned
	}
	r.agg.Record(bundle, resolved, dest.FullPath, overrides, outcome)
}

// claim registers dest for path. When dest was already claimed earlier in
// this run it returns the first claimant's source path, otherwise "".
func (r *Runner) claim(dest, path string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if first, ok := r.claimed[dest]; ok {
		return first
	}
	r.claimed[dest] = path
	return ""
}

// WriteManifest serializes the snapshot's manifest and counts as indented
// JSON.
func WriteManifest(snapshot stats.Snapshot, path string) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// PrintSummary renders the end-of-run report.
func PrintSummary(snapshot stats.Snapshot, dryRun bool) {
	verb := "Organized"
	if dryRun {
		verb = "Would organize"
	}
	shared.ColorSuccess.Printf("\n%s %d files (%d corrected, %d failed)\n",
		verb, snapshot.Processed-snapshot.Failed, snapshot.Corrected, snapshot.Failed)

	if len(snapshot.Genres) > 0 {
		shared.ColorInfo.Println("\nGenres:")
		for genre, count := range snapshot.Genres {
			fmt.Printf("  %-14s %d\n", genre, count)
		}
	}

	if len(snapshot.Errors) > 0 {
		shared.ColorError.Printf("\n%d files failed:\n", len(snapshot.Errors))
		for _, e := range snapshot.Errors {
			fmt.Printf("  %s [%s]: %s\n", e.File, e.Stage, e.Message)
		}
	}
}
