// Package directory разрешает покупателей и товары для оформления заказа.
package directory

import (
	"context"
	"strings"
	"sync"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// MemoryDirectory — in-memory справочник покупателей и товаров для локального запуска и тестов.
type MemoryDirectory struct {
	mu        sync.RWMutex
	customers map[string]domain.Customer
	products  map[string]domain.Product
}

// NewMemoryDirectory создаёт пустой справочник.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		customers: make(map[string]domain.Customer),
		products:  make(map[string]domain.Product),
	}
}

// PutCustomer добавляет или заменяет покупателя.
func (d *MemoryDirectory) PutCustomer(c domain.Customer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.customers[c.ID] = c
}

// PutProduct добавляет или заменяет товар.
func (d *MemoryDirectory) PutProduct(p domain.Product) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.products[p.ID] = p
}

func (d *MemoryDirectory) LookupCustomer(_ context.Context, id string) (domain.Customer, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	c, ok := d.customers[strings.TrimSpace(id)]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return c, nil
}

func (d *MemoryDirectory) LookupProduct(_ context.Context, id string) (domain.Product, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	p, ok := d.products[strings.TrimSpace(id)]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

var (
	_ domain.CustomerDirectory = (*MemoryDirectory)(nil)
	_ domain.ProductCatalog    = (*MemoryDirectory)(nil)
)
