package tool

import (
	"context"
	"fmt"
	"sort"
)

// Catalog merges one or more sources into a single identifier-to-tool mapping.
// Sources are queried in registration order and later sources win on key
// collision, so the merge is deterministic: the builtin source is registered
// first, the credential-gated extended source last.
//
// Fetch rebuilds the mapping on demand; the catalog itself holds no state
// beyond its source list, so a snapshot reflects the sources at fetch time.
type Catalog struct {
	sources []Source
}

// NewCatalog creates a catalog over the given sources, in merge order.
func NewCatalog(sources ...Source) *Catalog {
	return &Catalog{sources: sources}
}

// Fetch queries every source and merges the results last-writer-wins.
// An empty result is valid. Any source failure aborts the fetch.
func (c *Catalog) Fetch(ctx context.Context) (map[string]Tool, error) {
	merged := make(map[string]Tool)
	for _, src := range c.sources {
		tools, err := src.Tools(ctx)
		if err != nil {
			return nil, fmt.Errorf("catalog: source %q: %w", src.Name(), err)
		}
		for _, t := range tools {
			merged[t.ID] = t
		}
	}
	return merged, nil
}

// IDs returns the sorted identifiers of the current catalog snapshot.
func (c *Catalog) IDs(ctx context.Context) ([]string, error) {
	snapshot, err := c.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(snapshot))
	for id := range snapshot {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
