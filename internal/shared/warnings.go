package shared

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// WarningType represents different types of warnings
type WarningType int

const (
	TagReadWarning WarningType = iota
	ProviderLookupWarning
	PathLengthWarning
	ArtworkCopyWarning
	PlaylistCleanupWarning
)

// Warning represents a single warning with context
type Warning struct {
	Type    WarningType
	Message string
	Context string // File/track context
	Details string // Additional details like error message
}

// WarningCollector collects warnings during an organize run. Safe for use
// from concurrent file workers.
type WarningCollector struct {
	mu       sync.Mutex
	warnings []Warning
	enabled  bool
}

// NewWarningCollector creates a new warning collector
func NewWarningCollector(enabled bool) *WarningCollector {
	return &WarningCollector{
		warnings: make([]Warning, 0),
		enabled:  enabled,
	}
}

// AddWarning adds a warning to the collector
func (wc *WarningCollector) AddWarning(warningType WarningType, context, message, details string) {
	if !wc.enabled {
		return
	}
	wc.mu.Lock()
	defer wc.mu.Unlock()
	wc.warnings = append(wc.warnings, Warning{
		Type:    warningType,
		Message: message,
		Context: context,
		Details: details,
	})
}

// AddTagReadWarning records a failed or degraded embedded-tag read
func (wc *WarningCollector) AddTagReadWarning(path, details string) {
	wc.AddWarning(TagReadWarning, path, "Could not read embedded tags", details)
}

// AddProviderLookupWarning records a failed online metadata lookup
func (wc *WarningCollector) AddProviderLookupWarning(provider, context, details string) {
	wc.AddWarning(ProviderLookupWarning, fmt.Sprintf("%s: %s", provider, context), "Online lookup failed", details)
}

// AddPathLengthWarning records a destination path that had to be truncated
// below a readable title length
func (wc *WarningCollector) AddPathLengthWarning(path, details string) {
	wc.AddWarning(PathLengthWarning, path, "Destination path exceeds length ceiling", details)
}

// AddArtworkCopyWarning records a failed sibling artwork copy
func (wc *WarningCollector) AddArtworkCopyWarning(path, details string) {
	wc.AddWarning(ArtworkCopyWarning, path, "Could not copy artwork", details)
}

// AddPlaylistCleanupWarning records a playlist file that could not be removed
func (wc *WarningCollector) AddPlaylistCleanupWarning(path, details string) {
	wc.AddWarning(PlaylistCleanupWarning, path, "Could not remove playlist file", details)
}

// HasWarnings returns true if there are any warnings
func (wc *WarningCollector) HasWarnings() bool {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	return len(wc.warnings) > 0
}

// GetWarningCount returns the total number of warnings
func (wc *WarningCollector) GetWarningCount() int {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	return len(wc.warnings)
}

// GetWarningsByType returns warnings grouped by type
func (wc *WarningCollector) GetWarningsByType() map[WarningType][]Warning {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	grouped := make(map[WarningType][]Warning)
	for _, warning := range wc.warnings {
		grouped[warning.Type] = append(grouped[warning.Type], warning)
	}
	return grouped
}

// PrintSummary prints a formatted summary of all warnings
func (wc *WarningCollector) PrintSummary() {
	if !wc.HasWarnings() {
		return
	}

	ColorWarning.Printf("\n⚠️  Warning Summary (%d warnings):\n", len(wc.warnings))
	ColorWarning.Println(strings.Repeat("─", 50))

	grouped := wc.GetWarningsByType()

	var types []WarningType
	for warningType := range grouped {
		types = append(types, warningType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	for _, warningType := range types {
		wc.printWarningTypeSection(warningType, grouped[warningType])
	}
}

func (wc *WarningCollector) printWarningTypeSection(warningType WarningType, warnings []Warning) {
	if len(warnings) == 0 {
		return
	}

	ColorWarning.Printf("\n%s (%d):\n", wc.getWarningTypeTitle(warningType), len(warnings))

	// Group identical contexts to avoid repetition
	contextCounts := make(map[string]int)
	for _, warning := range warnings {
		contextCounts[warning.Context]++
	}

	var contexts []string
	for context := range contextCounts {
		contexts = append(contexts, context)
	}
	sort.Strings(contexts)

	for _, context := range contexts {
		count := contextCounts[context]
		if count > 1 {
			ColorWarning.Printf("  • %s (×%d)\n", context, count)
		} else {
			ColorWarning.Printf("  • %s\n", context)
		}
	}
}

func (wc *WarningCollector) getWarningTypeTitle(warningType WarningType) string {
	switch warningType {
	case TagReadWarning:
		return "Embedded Tag Read Failures"
	case ProviderLookupWarning:
		return "Online Lookup Failures"
	case PathLengthWarning:
		return "Path Length Truncations"
	case ArtworkCopyWarning:
		return "Artwork Copy Failures"
	case PlaylistCleanupWarning:
		return "Playlist Cleanup Failures"
	default:
		return "Other Warnings"
	}
}
