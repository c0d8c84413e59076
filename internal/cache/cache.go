package cache

import (
	"context"

	"github.com/mkovac/erpsync/internal/domain"

	lru "github.com/hashicorp/golang-lru/v2"
)

//go:generate mockgen -source internal/cache/cache.go -destination=internal/cache/cache_mock_test.go -package=cache

type repo interface {
	GetByReference(ctx context.Context, reference string) (*domain.SyncRecord, error)
	RecentReferences(ctx context.Context, limit int) ([]string, error)
}

// Cache holds terminal sync outcomes keyed by order reference. Records are
// immutable once written, so eviction is the only way an entry leaves.
type Cache struct {
	size int
	lru  *lru.Cache[string, domain.SyncRecord]
}

func New(size int) (*Cache, error) {
	c, err := lru.New[string, domain.SyncRecord](size)
	if err != nil {
		return nil, err
	}
	return &Cache{
		size: size,
		lru:  c,
	}, nil
}

// Warm preloads the most recently synced references from the journal.
// Best-effort: a failed lookup just leaves a hole for the read path to fill.
func (c *Cache) Warm(ctx context.Context, repo repo) {
	if refs, err := repo.RecentReferences(ctx, c.size); err == nil {
		for _, ref := range refs {
			if rec, err := repo.GetByReference(ctx, ref); err == nil {
				c.Set(rec)
			}
		}
	}
}

func (c *Cache) Get(reference string) (*domain.SyncRecord, bool) {
	rec, ok := c.lru.Get(reference)
	if !ok {
		return nil, false
	}
	return &rec, true
}

func (c *Cache) Set(rec *domain.SyncRecord) {
	c.lru.Add(rec.Reference, *rec)
}
