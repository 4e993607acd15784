// Package providers implements the online correction adapter: pluggable,
// best-effort metadata lookups that can override resolver fields before the
// cleaning pass. A provider failure is never fatal and never retried within
// the same file's resolution.
package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"tunesort/internal/metadata"
	"tunesort/internal/shared"
)

// ErrNotFound is returned by providers when no confident match exists.
var ErrNotFound = errors.New("no match found")

// Provider is one online metadata backend.
type Provider interface {
	// Name identifies the provider in config, cache keys, and warnings.
	Name() string

	// Lookup returns partial field overrides for the given identity, or
	// ErrNotFound. Implementations must respect ctx cancellation.
	Lookup(ctx context.Context, artist, album, title string) (metadata.Overrides, error)
}

type cacheEntry struct {
	overrides metadata.Overrides
	found     bool
}

// Adapter queries an ordered list of providers with a shared response cache
// and a global admission semaphore bounding concurrent outbound calls.
type Adapter struct {
	providers []Provider
	timeout   time.Duration
	sem       *semaphore.Weighted
	warnings  *shared.WarningCollector

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

// NewAdapter builds an adapter over providers in priority order. concurrency
// bounds simultaneous outbound calls across the whole batch; timeout applies
// per provider call.
func NewAdapter(providerList []Provider, timeout time.Duration, concurrency int, warnings *shared.WarningCollector) *Adapter {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Adapter{
		providers: providerList,
		timeout:   timeout,
		sem:       semaphore.NewWeighted(int64(concurrency)),
		warnings:  warnings,
		cache:     make(map[string]cacheEntry),
	}
}

// Enabled reports whether any provider is configured.
func (a *Adapter) Enabled() bool {
	return a != nil && len(a.providers) > 0
}

// Lookup consults every provider in priority order and merges results
// field-by-field: the first provider to set a field wins, later providers
// only fill what is still absent. Timeouts, errors, and empty results are
// all treated as not-found.
func (a *Adapter) Lookup(ctx context.Context, artist, album, title string) metadata.Overrides {
	var merged metadata.Overrides
	if a == nil {
		return merged
	}

	for _, p := range a.providers {
		key := cacheKey(p.Name(), artist, album, title)

		if entry, ok := a.cachedLookup(key); ok {
			if entry.found {
				merged.Merge(entry.overrides)
			}
			continue
		}

		overrides, err := a.query(ctx, p, artist, album, title)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				a.warnings.AddProviderLookupWarning(p.Name(), fmt.Sprintf("%s - %s", artist, title), err.Error())
			}
			a.storeCache(key, cacheEntry{})
			continue
		}

		a.storeCache(key, cacheEntry{overrides: overrides, found: true})
		merged.Merge(overrides)
	}

	return merged
}

func (a *Adapter) query(ctx context.Context, p Provider, artist, album, title string) (metadata.Overrides, error) {
	if err := a.sem.Acquire(ctx, 1); err != nil {
		return metadata.Overrides{}, err
	}
	defer a.sem.Release(1)

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	overrides, err := p.Lookup(callCtx, artist, album, title)
	if err != nil {
		return metadata.Overrides{}, err
	}
	if overrides.Empty() {
		return metadata.Overrides{}, ErrNotFound
	}
	return overrides, nil
}

func (a *Adapter) cachedLookup(key string) (cacheEntry, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	entry, ok := a.cache[key]
	return entry, ok
}

func (a *Adapter) storeCache(key string, entry cacheEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cache[key] = entry
}

// CacheSize returns the number of cached query tuples.
func (a *Adapter) CacheSize() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.cache)
}

// cacheKey normalizes the query tuple so case and spacing variants of the
// same identity hit the same entry.
func cacheKey(provider, artist, album, title string) string {
	normalize := func(s string) string {
		return strings.ToLower(strings.Join(strings.Fields(s), " "))
	}
	return provider + "|" + normalize(artist) + "|" + normalize(album) + "|" + normalize(title)
}
