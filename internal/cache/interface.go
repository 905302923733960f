package cache

import (
	"github.com/quantmind-br/treefile-go/internal/domain"
)

// Ensure implementations satisfy domain.Cache
var (
	_ domain.Cache = (*BadgerCache)(nil)
	_ domain.Cache = NopCache{}
)

// Options contains cache configuration options
type Options struct {
	// Directory holds the badger files. Empty means ~/.treefile/cache.
	Directory string
	InMemory  bool
	// Logger enables badger's internal logging
	Logger bool
}
