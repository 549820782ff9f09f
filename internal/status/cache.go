// Package status caches the fixed set of timesheet and invoice statuses.
package status

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/atlekbai/timesheet/internal/model"
)

// Opened is the status of timesheets not yet billed.
const Opened = "opened"

// Lister loads every status row.
type Lister interface {
	List(ctx context.Context) ([]model.Status, error)
}

type Cache struct {
	mu     sync.RWMutex
	list   []model.Status
	byID   map[int64]model.Status
	byName map[string]model.Status
}

func NewCache() *Cache {
	return &Cache{
		byID:   make(map[int64]model.Status),
		byName: make(map[string]model.Status),
	}
}

// Load replaces the cached statuses with the rows returned by src.
func (c *Cache) Load(ctx context.Context, src Lister) error {
	list, err := src.List(ctx)
	if err != nil {
		return fmt.Errorf("status cache load: %w", err)
	}

	byID := make(map[int64]model.Status, len(list))
	byName := make(map[string]model.Status, len(list))
	for _, s := range list {
		byID[s.ID] = s
		byName[strings.ToLower(s.Name)] = s
	}

	c.mu.Lock()
	c.list = list
	c.byID = byID
	c.byName = byName
	c.mu.Unlock()

	return nil
}

func (c *Cache) Get(id int64) (model.Status, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.byID[id]
	return s, ok
}

// IDByName finds a status id by name, case-insensitively. It returns 0 when unknown.
func (c *Cache) IDByName(name string) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byName[strings.ToLower(name)].ID
}

// List returns the statuses ordered by id.
func (c *Cache) List() []model.Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.Status(nil), c.list...)
}

// Invoiceable returns every status an invoice may carry, i.e. all but Opened.
func (c *Cache) Invoiceable() []model.Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []model.Status
	for _, s := range c.list {
		if !strings.EqualFold(s.Name, Opened) {
			out = append(out, s)
		}
	}
	return out
}

// Len returns the number of loaded statuses.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.list)
}
