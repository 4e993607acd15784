package library

import (
	"fmt"
	"os"
	"path/filepath"

	"tunesort/internal/shared"
)

// Organizer executes the filesystem side effects for one file at a time.
// In dry-run mode every computation still happens but nothing is mutated.
type Organizer struct {
	DryRun   bool
	Warnings *shared.WarningCollector
}

// NewOrganizer returns an organizer writing through the given collector.
func NewOrganizer(dryRun bool, warnings *shared.WarningCollector) *Organizer {
	return &Organizer{DryRun: dryRun, Warnings: warnings}
}

// OrganizeFile creates the destination directory and copies the audio file,
// overwriting any existing file at the destination. Errors are returned to
// the caller for per-file isolation; they never abort the batch.
func (o *Organizer) OrganizeFile(srcPath string, dest DestinationPath) error {
	if o.DryRun {
		return nil
	}
	if err := shared.CreateDirIfNotExists(dest.FolderPath); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dest.FolderPath, err)
	}
	if err := shared.CopyFile(srcPath, dest.FullPath); err != nil {
		return fmt.Errorf("failed to copy %s: %w", srcPath, err)
	}
	return nil
}

// CopyArtwork copies sibling image files from the source directory into the
// destination folder, skipping any artwork that already exists there.
// Best-effort: individual failures become warnings and the count of copies
// actually performed is returned.
func (o *Organizer) CopyArtwork(srcAudioPath string, dest DestinationPath) int {
	artwork, err := SiblingArtwork(srcAudioPath)
	if err != nil {
		o.Warnings.AddArtworkCopyWarning(filepath.Dir(srcAudioPath), err.Error())
		return 0
	}

	copied := 0
	for _, art := range artwork {
		target := filepath.Join(dest.FolderPath, filepath.Base(art))
		if shared.FileExists(target) {
			continue
		}
		if o.DryRun {
			copied++
			continue
		}
		if err := shared.CopyFile(art, target); err != nil {
			o.Warnings.AddArtworkCopyWarning(art, err.Error())
			continue
		}
		copied++
	}
	return copied
}

// EnsureOutputRoot verifies the output root exists or can be created. This
// is a pre-batch check; failure here aborts before any file is processed.
func EnsureOutputRoot(root string, dryRun bool) error {
	if root == "" {
		return fmt.Errorf("output root not configured")
	}
	if dryRun {
		// A dry run must not create directories, but a plainly unusable
		// target (existing non-directory) is still a fatal config error.
		if info, err := os.Stat(root); err == nil && !info.IsDir() {
			return fmt.Errorf("output root %s is not a directory", root)
		}
		return nil
	}
	if err := shared.CreateDirIfNotExists(root); err != nil {
		return fmt.Errorf("output root not creatable: %w", err)
	}
	return nil
}
