package library

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"tunesort/internal/shared"
)

// audioExtensions is the set of file types the scanner picks up.
var audioExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".wav":  true,
	".m4a":  true,
	".aac":  true,
	".ogg":  true,
	".wma":  true,
	".ape":  true,
	".wv":   true,
}

// artworkExtensions is the set of sibling image files copied alongside tracks.
var artworkExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".gif":  true,
	".tiff": true,
}

// IsAudioFile reports whether path has a recognized audio extension.
func IsAudioFile(path string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(path))]
}

// IsArtworkFile reports whether path has a recognized image extension.
func IsArtworkFile(path string) bool {
	return artworkExtensions[strings.ToLower(filepath.Ext(path))]
}

// ScanAudioFiles walks root recursively and returns every audio file in
// sorted order, so repeated runs over the same tree process files
// identically.
func ScanAudioFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("source root not accessible: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source root %s is not a directory", root)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if IsAudioFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// FindPlaylists returns every .m3u file under root.
func FindPlaylists(root string) ([]string, error) {
	var playlists []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".m3u") {
			playlists = append(playlists, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(playlists)
	return playlists, nil
}

// RemovePlaylists deletes the given playlist files. Failures are collected
// as warnings, not errors; a stale playlist never blocks the run.
func RemovePlaylists(paths []string, collector *shared.WarningCollector) int {
	removed := 0
	for _, p := range paths {
		if err := os.Remove(p); err != nil {
			collector.AddPlaylistCleanupWarning(p, err.Error())
			continue
		}
		removed++
	}
	return removed
}

// SiblingArtwork lists artwork files in the directory containing path.
func SiblingArtwork(audioPath string) ([]string, error) {
	dir := filepath.Dir(audioPath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var artwork []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if IsArtworkFile(e.Name()) {
			artwork = append(artwork, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(artwork)
	return artwork, nil
}
