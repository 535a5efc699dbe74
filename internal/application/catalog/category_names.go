package catalog

import (
	"context"
	"sync"

	"github.com/ecommerce/product-service/internal/domain/catalog"
	"go.uber.org/zap"
)

// CategoryNameCache stores category names by category ID. Implementations
// must be safe for concurrent use.
type CategoryNameCache interface {
	// Get returns the cached name and whether it was found
	Get(ctx context.Context, id int) (string, bool, error)
	// Set stores the name of a category
	Set(ctx context.Context, id int, name string) error
	// Invalidate drops the entry of a renamed or deleted category
	Invalidate(ctx context.Context, id int) error
}

// noopCategoryNameCache never stores anything
type noopCategoryNameCache struct{}

func (noopCategoryNameCache) Get(context.Context, int) (string, bool, error) { return "", false, nil }
func (noopCategoryNameCache) Set(context.Context, int, string) error         { return nil }
func (noopCategoryNameCache) Invalidate(context.Context, int) error          { return nil }

// nameEpoch counts invalidations of one cache. A lookup only writes back a
// name read from the repository when no invalidation happened since the read
// started, so a rename committed mid-lookup is not undone.
type nameEpoch struct {
	mu    sync.RWMutex
	value uint64
}

func (e *nameEpoch) current() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.value
}

// fill runs set unless the epoch moved past since
func (e *nameEpoch) fill(since uint64, set func()) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.value != since {
		return false
	}
	set()
	return true
}

// advance runs drop and moves the epoch forward
func (e *nameEpoch) advance(drop func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.value++
	drop()
}

// categoryNames resolves the denormalized category name of products.
// Cache faults are logged and bypassed; repository faults are returned.
type categoryNames struct {
	repo   catalog.CategoryRepository
	cache  CategoryNameCache
	epoch  *nameEpoch
	logger *zap.Logger
}

// lookup returns nil when the category does not exist
func (n *categoryNames) lookup(ctx context.Context, id int) (*string, error) {
	name, found, err := n.cache.Get(ctx, id)
	if err != nil {
		n.logger.Warn("Category name cache read failed", zap.Int("category_id", id), zap.Error(err))
	} else if found {
		return &name, nil
	}

	since := n.epoch.current()
	category, err := n.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, nil
	}

	filled := n.epoch.fill(since, func() {
		if err := n.cache.Set(ctx, id, category.Name); err != nil {
			n.logger.Warn("Category name cache write failed", zap.Int("category_id", id), zap.Error(err))
		}
	})
	if !filled {
		n.logger.Debug("Category name not cached, invalidated during lookup", zap.Int("category_id", id))
	}
	return &category.Name, nil
}

func (n *categoryNames) invalidate(ctx context.Context, id int) {
	n.epoch.advance(func() {
		if err := n.cache.Invalidate(ctx, id); err != nil {
			n.logger.Warn("Category name cache invalidation failed", zap.Int("category_id", id), zap.Error(err))
		}
	})
}

// enrich builds the responses of products, one category lookup per product
func (n *categoryNames) enrich(ctx context.Context, products []catalog.Product) ([]ProductResponse, error) {
	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		name, err := n.lookup(ctx, products[i].CategoryID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, ToProductResponse(&products[i], name))
	}
	return responses, nil
}
