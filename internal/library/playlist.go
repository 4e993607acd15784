package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"tunesort/internal/metadata"
	"tunesort/internal/shared"
	"tunesort/internal/stats"
)

// WritePlaylists renders .m3u playlists from a batch snapshot, grouped by
// genre and by decade, under outputRoot/Playlists. Entries reference paths
// relative to the output root so the library stays relocatable.
func WritePlaylists(snapshot stats.Snapshot, outputRoot string) (int, error) {
	playlistDir := filepath.Join(outputRoot, "Playlists")
	if err := shared.CreateDirIfNotExists(playlistDir); err != nil {
		return 0, fmt.Errorf("failed to create playlist directory: %w", err)
	}

	byGenre := make(map[string][]string)
	byDecade := make(map[string][]string)

	for _, entry := range snapshot.Manifest {
		if entry.Outcome == stats.OutcomeFailed || entry.NewPath == "" {
			continue
		}
		rel, err := filepath.Rel(outputRoot, entry.NewPath)
		if err != nil {
			rel = entry.NewPath
		}
		rel = filepath.ToSlash(rel)

		byGenre[entry.Resolved.Genre] = append(byGenre[entry.Resolved.Genre], rel)
		if d := decadeOf(entry.Resolved.Year); d != "" {
			byDecade[d] = append(byDecade[d], rel)
		}
	}

	written := 0
	for name, tracks := range byGenre {
		if err := writeM3U(filepath.Join(playlistDir, Sanitize(name)+".m3u"), tracks); err != nil {
			return written, err
		}
		written++
	}
	for name, tracks := range byDecade {
		if err := writeM3U(filepath.Join(playlistDir, name+".m3u"), tracks); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// decadeOf maps "1994" to "1990s"; the Unknown sentinel gets no decade list.
func decadeOf(year string) string {
	if year == metadata.UnknownYear || len(year) != 4 {
		return ""
	}
	return year[:3] + "0s"
}

func writeM3U(path string, tracks []string) error {
	sort.Strings(tracks)

	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	for _, t := range tracks {
		b.WriteString("../" + t + "\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write playlist %s: %w", path, err)
	}
	return nil
}
