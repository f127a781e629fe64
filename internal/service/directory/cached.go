package directory

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

const defaultCatalogTTL = 5 * time.Minute

type cachedProduct struct {
	product   domain.Product
	expiresAt time.Time
}

// CachedCatalog — cache-aside поверх каталога товаров.
// Одновременные промахи по одному товару схлопываются в один запрос к источнику.
type CachedCatalog struct {
	source domain.ProductCatalog
	ttl    time.Duration
	now    func() time.Time

	mu    sync.RWMutex
	items map[string]cachedProduct
	group singleflight.Group
}

// NewCachedCatalog оборачивает каталог кэшем с заданным TTL.
func NewCachedCatalog(source domain.ProductCatalog, ttl time.Duration) *CachedCatalog {
	if ttl <= 0 {
		ttl = defaultCatalogTTL
	}
	return &CachedCatalog{
		source: source,
		ttl:    ttl,
		now:    time.Now,
		items:  make(map[string]cachedProduct),
	}
}

func (c *CachedCatalog) LookupProduct(ctx context.Context, id string) (domain.Product, error) {
	if p, ok := c.get(id); ok {
		return p, nil
	}

	v, err, _ := c.group.Do(id, func() (any, error) {
		if p, ok := c.get(id); ok {
			return p, nil
		}
		p, err := c.source.LookupProduct(ctx, id)
		if err != nil {
			return domain.Product{}, err
		}
		c.set(id, p)
		return p, nil
	})
	if err != nil {
		return domain.Product{}, err
	}
	return v.(domain.Product), nil
}

func (c *CachedCatalog) get(id string) (domain.Product, bool) {
	c.mu.RLock()
	item, ok := c.items[id]
	c.mu.RUnlock()
	if !ok || !c.now().Before(item.expiresAt) {
		return domain.Product{}, false
	}
	return item.product, true
}

func (c *CachedCatalog) set(id string, p domain.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[id] = cachedProduct{product: p, expiresAt: c.now().Add(c.ttl)}
}

var _ domain.ProductCatalog = (*CachedCatalog)(nil)
