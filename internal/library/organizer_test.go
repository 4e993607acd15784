package library_test

import (
	"os"
	"path/filepath"
	"testing"

	"tunesort/internal/library"
	"tunesort/internal/shared"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func destFor(t *testing.T, root string) library.DestinationPath {
	t.Helper()
	folder := filepath.Join(root, "Rock", "Nirvana", "1991 - Nevermind")
	return library.DestinationPath{
		FolderPath: folder,
		FileName:   "01 - Smells Like Teen Spirit.mp3",
		FullPath:   filepath.Join(folder, "01 - Smells Like Teen Spirit.mp3"),
	}
}

func TestOrganizeFileCopies(t *testing.T) {
	src := filepath.Join(t.TempDir(), "track.mp3")
	writeFile(t, src, "audio bytes")
	out := t.TempDir()
	dest := destFor(t, out)

	o := library.NewOrganizer(false, shared.NewWarningCollector(true))
	if err := o.OrganizeFile(src, dest); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(dest.FullPath)
	if err != nil {
		t.Fatalf("destination missing: %v", err)
	}
	if string(data) != "audio bytes" {
		t.Errorf("content mismatch: %q", data)
	}
	// the source must be untouched
	if _, err := os.Stat(src); err != nil {
		t.Errorf("source file was removed: %v", err)
	}
}

func TestOrganizeFileOverwrites(t *testing.T) {
	src := filepath.Join(t.TempDir(), "track.mp3")
	writeFile(t, src, "new content")
	out := t.TempDir()
	dest := destFor(t, out)
	writeFile(t, dest.FullPath, "old content")

	o := library.NewOrganizer(false, shared.NewWarningCollector(true))
	if err := o.OrganizeFile(src, dest); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(dest.FullPath)
	if string(data) != "new content" {
		t.Errorf("destination not overwritten: %q", data)
	}
}

func TestOrganizeFileDryRunTouchesNothing(t *testing.T) {
	src := filepath.Join(t.TempDir(), "track.mp3")
	writeFile(t, src, "audio bytes")
	out := t.TempDir()
	dest := destFor(t, out)

	o := library.NewOrganizer(true, shared.NewWarningCollector(true))
	if err := o.OrganizeFile(src, dest); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(dest.FolderPath); !os.IsNotExist(err) {
		t.Error("dry run created the destination folder")
	}
}

func TestCopyArtworkSkipsExisting(t *testing.T) {
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "track.mp3")
	writeFile(t, src, "audio")
	writeFile(t, filepath.Join(srcDir, "cover.jpg"), "new cover")
	writeFile(t, filepath.Join(srcDir, "back.png"), "back art")

	out := t.TempDir()
	dest := destFor(t, out)
	// pre-existing artwork must never be overwritten
	writeFile(t, filepath.Join(dest.FolderPath, "cover.jpg"), "original cover")

	o := library.NewOrganizer(false, shared.NewWarningCollector(true))
	copied := o.CopyArtwork(src, dest)

	if copied != 1 {
		t.Fatalf("copied = %d, want 1 (only back.png)", copied)
	}
	data, _ := os.ReadFile(filepath.Join(dest.FolderPath, "cover.jpg"))
	if string(data) != "original cover" {
		t.Error("existing artwork was overwritten")
	}
	if !shared.FileExists(filepath.Join(dest.FolderPath, "back.png")) {
		t.Error("new artwork was not copied")
	}
}

func TestEnsureOutputRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "deep", "library")
	if err := library.EnsureOutputRoot(root, false); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		t.Fatal("output root was not created")
	}

	if err := library.EnsureOutputRoot("", false); err == nil {
		t.Error("empty output root must be rejected")
	}
}

func TestEnsureOutputRootDryRun(t *testing.T) {
	root := filepath.Join(t.TempDir(), "never-created")
	if err := library.EnsureOutputRoot(root, true); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Error("dry run created the output root")
	}

	// an existing file at the root path is unusable even in dry-run
	file := filepath.Join(t.TempDir(), "occupied")
	writeFile(t, file, "x")
	if err := library.EnsureOutputRoot(file, true); err == nil {
		t.Error("non-directory output root must be rejected")
	}
}

func TestScanAudioFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b", "02 - Second.mp3"), "x")
	writeFile(t, filepath.Join(root, "a", "01 - First.FLAC"), "x")
	writeFile(t, filepath.Join(root, "a", "cover.jpg"), "x")
	writeFile(t, filepath.Join(root, "notes.txt"), "x")

	files, err := library.ScanAudioFiles(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("found %d files, want 2: %v", len(files), files)
	}
	// sorted, case-insensitive extension match
	if filepath.Base(files[0]) != "01 - First.FLAC" {
		t.Errorf("order wrong: %v", files)
	}
}

func TestScanAudioFilesMissingRoot(t *testing.T) {
	if _, err := library.ScanAudioFiles(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("missing source root must be a fatal error")
	}
}

func TestFindAndRemovePlaylists(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "mix.m3u"), "#EXTM3U")
	writeFile(t, filepath.Join(root, "sub", "old.M3U"), "#EXTM3U")
	writeFile(t, filepath.Join(root, "track.mp3"), "x")

	playlists, err := library.FindPlaylists(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(playlists) != 2 {
		t.Fatalf("found %d playlists, want 2", len(playlists))
	}

	wc := shared.NewWarningCollector(true)
	removed := library.RemovePlaylists(playlists, wc)
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	for _, p := range playlists {
		if shared.FileExists(p) {
			t.Errorf("playlist %s still exists", p)
		}
	}
}

func TestRemovePlaylistsCollectsFailures(t *testing.T) {
	wc := shared.NewWarningCollector(true)
	removed := library.RemovePlaylists([]string{filepath.Join(t.TempDir(), "ghost.m3u")}, wc)
	if removed != 0 {
		t.Fatalf("removed = %d, want 0", removed)
	}
	if !wc.HasWarnings() {
		t.Error("failed removal should be recorded as a warning")
	}
}

func TestFindDuplicates(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.mp3")
	b := filepath.Join(root, "b.mp3")
	c := filepath.Join(root, "c.mp3")
	d := filepath.Join(root, "d.mp3")
	writeFile(t, a, "same bytes")
	writeFile(t, b, "same bytes")
	writeFile(t, c, "same size!")
	writeFile(t, d, "different length")

	groups, err := library.FindDuplicates([]string{a, b, c, d})
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if len(groups[0].Paths) != 2 || groups[0].Paths[0] != a || groups[0].Paths[1] != b {
		t.Errorf("group paths = %v", groups[0].Paths)
	}
	// nothing was deleted
	for _, p := range []string{a, b, c, d} {
		if !shared.FileExists(p) {
			t.Errorf("%s was deleted", p)
		}
	}
}
