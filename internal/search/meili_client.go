// Package search provides the Meilisearch-backed admin branch index.
package search

import (
	"fmt"

	ms "github.com/meilisearch/meilisearch-go"
)

// ClientWrapper wraps Meilisearch client with compatible API for v1.5.x
type ClientWrapper struct {
	cli ms.ServiceManager
}

// NewClientWrapper creates new Meilisearch client wrapper
func NewClientWrapper(url, key string) *ClientWrapper {
	client := ms.New(url, ms.WithAPIKey(key))
	return &ClientWrapper{
		cli: client,
	}
}

// Index returns the raw index handle
func (c *ClientWrapper) Index(name string) ms.IndexManager {
	return c.cli.Index(name)
}

// SearchIndex performs unified search with compatible parameters for Meilisearch 1.5.x
func (c *ClientWrapper) SearchIndex(index string, q string, filter string, limit int64) (*ms.SearchResponse, error) {
	idx := c.cli.Index(index)

	// Use only compatible fields for Meilisearch 1.5.x
	req := &ms.SearchRequest{
		Limit:  limit,
		Filter: filter, // e.g., "is_active = true"
	}

	return idx.Search(q, req)
}

// FilterActive creates filter string for branch active state
func FilterActive(active bool) string {
	return fmt.Sprintf("is_active = %v", active)
}
