package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"tunesort/internal/batch"
	"tunesort/internal/config"
	"tunesort/internal/genre"
	"tunesort/internal/library"
	"tunesort/internal/metadata"
	"tunesort/internal/providers"
	"tunesort/internal/providers/musicbrainz"
	"tunesort/internal/providers/spotify"
	"tunesort/internal/providers/subsonic"
	"tunesort/internal/shared"
)

const toolVersion = "1.0.0"

var (
	flagSource      string
	flagOutput      string
	flagParallelism int
	flagDryRun      bool
	flagNoOnline    bool
	flagNoConfirm   bool
	flagManifest    string
	flagPlaylists   bool
)

var rootCmd = &cobra.Command{
	Use:     "tunesort",
	Version: toolVersion,
	Short:   "Reorganize a music collection into a Genre/Artist/Album library.",
	Long: fmt.Sprintf(`tunesort (v%s)

Scans a messy music folder, reconciles metadata from embedded tags, folder
names, filenames, and optional online providers, and copies every track into
a clean Genre/Artist/Year - Album/NN - Title layout.

The source tree is never modified; files are copied, not moved.`, toolVersion),
}

var organizeCmd = &cobra.Command{
	Use:   "organize [source]",
	Short: "Organize a music folder into the output library.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := initConfig(args)
		runOrganize(cfg, flagDryRun)
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan [source]",
	Short: "Preview what organize would do, without touching any file.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := initConfig(args)
		runOrganize(cfg, true)
	},
}

var dupesCmd = &cobra.Command{
	Use:   "dupes [source]",
	Short: "Report byte-identical duplicate audio files.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := initConfig(args)

		files, err := library.ScanAudioFiles(cfg.SourceRoot)
		if err != nil {
			shared.ColorError.Printf("Scan failed: %v\n", err)
			os.Exit(1)
		}
		groups, err := library.FindDuplicates(files)
		if err != nil {
			shared.ColorError.Printf("Duplicate scan failed: %v\n", err)
			os.Exit(1)
		}
		if len(groups) == 0 {
			shared.ColorSuccess.Println("No duplicates found")
			return
		}
		shared.ColorWarning.Printf("Found %d duplicate groups:\n", len(groups))
		for _, g := range groups {
			fmt.Printf("\n  %s (%d bytes)\n", g.Hash[:12], g.Size)
			for _, p := range g.Paths {
				fmt.Printf("    %s\n", p)
			}
		}
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the active configuration.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := initConfig(nil)
		if err := config.SaveConfig(configFile, cfg); err != nil {
			shared.ColorError.Printf("Failed to save config: %v\n", err)
			os.Exit(1)
		}
		data, _ := os.ReadFile(configFile)
		fmt.Println(string(data))
	},
}

const configFile = "config.json"

// initConfig loads config.json, walking through first-run setup when it does
// not exist, then applies command-line overrides.
func initConfig(args []string) *config.Config {
	cfg := config.DefaultConfig()

	if !shared.FileExists(configFile) {
		shared.ColorInfo.Println("Welcome to tunesort! Let's set up your configuration.")

		cfg.SourceRoot = shared.GetUserInput("Enter the folder to organize", cfg.SourceRoot)
		cfg.OutputRoot = shared.GetUserInput(fmt.Sprintf("Enter the output library location (e.g., %s)", cfg.OutputRoot), cfg.OutputRoot)

		defaultParallelism := strconv.Itoa(cfg.Parallelism)
		parallelismStr := shared.GetUserInput(fmt.Sprintf("Enter number of parallel workers (default: %s)", defaultParallelism), defaultParallelism)
		if p, err := strconv.Atoi(parallelismStr); err == nil && p > 0 {
			cfg.Parallelism = p
		} else {
			shared.ColorWarning.Printf("Invalid parallelism value '%s', using default %d.\n", parallelismStr, cfg.Parallelism)
		}

		if err := config.SaveConfig(configFile, cfg); err != nil {
			shared.ColorError.Printf("Failed to save initial config: %v\n", err)
		} else {
			shared.ColorSuccess.Println("Configuration saved to", configFile)
		}
	} else {
		if err := config.LoadConfig(configFile, cfg); err != nil {
			shared.ColorError.Printf("Failed to load config from %s: %v\n", configFile, err)
		}
	}

	// Command-line flags override config file
	if len(args) > 0 && args[0] != "" {
		cfg.SourceRoot = args[0]
	}
	if flagSource != "" {
		cfg.SourceRoot = flagSource
	}
	if flagOutput != "" {
		cfg.OutputRoot = flagOutput
	}
	if flagParallelism > 0 {
		cfg.Parallelism = flagParallelism
	}
	cfg.Normalize()

	if cfg.SourceRoot == "" {
		shared.ColorError.Println("No source folder given: pass one as an argument or set SourceRoot in config.json")
		os.Exit(1)
	}
	return cfg
}

// buildAdapter authenticates the enabled providers in configured priority
// order. A provider that fails to authenticate is skipped with a warning so
// the run can still use the others.
func buildAdapter(cfg *config.Config, warnings *shared.WarningCollector) *providers.Adapter {
	if flagNoOnline {
		return nil
	}

	ctx := context.Background()
	var active []providers.Provider

	for _, name := range cfg.ProviderOrder {
		switch name {
		case "musicbrainz":
			if cfg.MusicBrainz.Enabled {
				active = append(active, musicbrainz.NewClient())
			}
		case "spotify":
			if cfg.Spotify.Enabled {
				client := spotify.NewClient(cfg.Spotify.ClientID, cfg.Spotify.Secret)
				if err := client.Authenticate(ctx); err != nil {
					shared.ColorWarning.Printf("Spotify disabled for this run: %v\n", err)
					continue
				}
				active = append(active, client)
			}
		case "subsonic":
			if cfg.Subsonic.Enabled {
				client := subsonic.NewClient(cfg.Subsonic.URL, cfg.Subsonic.Username, cfg.Subsonic.Password)
				if err := client.Authenticate(); err != nil {
					shared.ColorWarning.Printf("Subsonic disabled for this run: %v\n", err)
					continue
				}
				active = append(active, client)
			}
		default:
			shared.ColorWarning.Printf("Unknown provider %q in ProviderOrder, skipping\n", name)
		}
	}

	if len(active) == 0 {
		return nil
	}
	shared.ColorInfo.Printf("Online lookup enabled (%d providers)\n", len(active))
	return providers.NewAdapter(active, cfg.LookupTimeout(), cfg.LookupConcurrency, warnings)
}

func runOrganize(cfg *config.Config, dryRun bool) {
	warnings := shared.NewWarningCollector(cfg.WarningBehavior != "silent")
	classifier := genre.NewClassifier(cfg.GenreKeywords, cfg.ArtistGenres)
	resolver := metadata.NewResolver(classifier)
	adapter := buildAdapter(cfg, warnings)

	cleanupPlaylists(cfg, dryRun, warnings)

	// Ctrl-C stops dispatching new files; in-flight files run to completion.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := batch.NewRunner(cfg, resolver, adapter, warnings, batch.Options{
		DryRun:       dryRun,
		ManifestPath: flagManifest,
		Playlists:    flagPlaylists,
	})

	start := time.Now()
	snapshot, err := runner.Run(ctx)
	if err != nil && err != context.Canceled {
		shared.ColorError.Printf("%v\n", err)
		os.Exit(1)
	}
	if err == context.Canceled {
		shared.ColorWarning.Println("Interrupted: stopping after in-flight files")
	}

	batch.PrintSummary(snapshot, dryRun)
	shared.ColorInfo.Printf("Completed in %s\n", time.Since(start).Round(time.Millisecond))

	if cfg.WarningBehavior == "summary" {
		warnings.PrintSummary()
	}
}

// cleanupPlaylists offers to delete stale .m3u files from the source tree
// before organizing. Never runs in dry-run mode and always requires
// confirmation unless --no-confirm is set.
func cleanupPlaylists(cfg *config.Config, dryRun bool, warnings *shared.WarningCollector) {
	if dryRun {
		return
	}
	playlists, err := library.FindPlaylists(cfg.SourceRoot)
	if err != nil || len(playlists) == 0 {
		return
	}

	shared.ColorWarning.Printf("Found %d playlist files in the source tree; these become stale after reorganizing.\n", len(playlists))
	if !flagNoConfirm {
		if !shared.GetYesNoInput("Delete them?", "n") {
			return
		}
	}
	removed := library.RemovePlaylists(playlists, warnings)
	shared.ColorInfo.Printf("Removed %d playlists\n", removed)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSource, "source", "", "Folder to organize")
	rootCmd.PersistentFlags().StringVar(&flagOutput, "output", "", "Output library location")
	rootCmd.PersistentFlags().IntVar(&flagParallelism, "parallelism", 0, "Number of parallel workers")
	rootCmd.PersistentFlags().BoolVar(&flagNoOnline, "no-online", false, "Disable online metadata lookups")

	organizeCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Compute everything, copy nothing")
	organizeCmd.Flags().BoolVar(&flagNoConfirm, "no-confirm", false, "Skip confirmation prompts")
	organizeCmd.Flags().StringVar(&flagManifest, "manifest", "", "Write the run manifest to this JSON file")
	organizeCmd.Flags().BoolVar(&flagPlaylists, "playlists", false, "Generate genre and decade playlists in the output library")

	scanCmd.Flags().StringVar(&flagManifest, "manifest", "", "Write the run manifest to this JSON file")

	rootCmd.AddCommand(organizeCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(dupesCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	shared.InitializeColors()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
