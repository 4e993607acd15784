package library

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"sort"
)

// DuplicateGroup is a set of byte-identical files.
type DuplicateGroup struct {
	Hash  string
	Size  int64
	Paths []string
}

// FindDuplicates reports groups of exact duplicates among the given files.
// Files are first bucketed by size; only same-size candidates are hashed.
// Unreadable files are skipped. Nothing is deleted.
func FindDuplicates(files []string) ([]DuplicateGroup, error) {
	bySize := make(map[int64][]string)
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			continue
		}
		bySize[info.Size()] = append(bySize[info.Size()], f)
	}

	byHash := make(map[string]*DuplicateGroup)
	for size, candidates := range bySize {
		if len(candidates) < 2 {
			continue
		}
		for _, path := range candidates {
			sum, err := hashFile(path)
			if err != nil {
				continue
			}
			g, ok := byHash[sum]
			if !ok {
				g = &DuplicateGroup{Hash: sum, Size: size}
				byHash[sum] = g
			}
			g.Paths = append(g.Paths, path)
		}
	}

	var groups []DuplicateGroup
	for _, g := range byHash {
		if len(g.Paths) < 2 {
			continue
		}
		sort.Strings(g.Paths)
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Paths[0] < groups[j].Paths[0] })
	return groups, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
