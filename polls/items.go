// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/pokepoll/models"
	"github.com/danielhkuo/pokepoll/store"
)

// Registry caches catalog items locally, keyed by name.
type Registry struct {
	store store.Store
	now   func() time.Time
}

// GetOrCreate returns the id of the item called attrs.Name, inserting it if
// needed. First write wins: an existing row is returned unchanged even when
// attrs carries different values.
func (r *Registry) GetOrCreate(ctx context.Context, attrs models.ItemAttrs) (string, error) {
	if attrs.Name == "" {
		return "", models.Errorf(models.ErrInvalidArgument, "item name is required")
	}

	id, found, err := r.lookup(ctx, attrs.Name)
	if err != nil || found {
		return id, err
	}

	item := models.Item{
		ID:           uuid.NewString(),
		Name:         attrs.Name,
		BaseExp:      attrs.BaseExp,
		Height:       attrs.Height,
		Weight:       attrs.Weight,
		SpriteImgURL: attrs.SpriteImgURL,
		CreatedAt:    r.now(),
	}
	err = r.store.InsertItem(ctx, &item)
	if err == nil {
		slog.Info("item registered", "item_id", item.ID, "name", item.Name)
		return item.ID, nil
	}
	if !errors.Is(err, store.ErrUniqueViolation) {
		return "", unavailable("insert item", err)
	}

	id, found, err = r.lookup(ctx, attrs.Name)
	if err != nil {
		return "", err
	}
	if !found {
		return "", unavailable("register item", fmt.Errorf("item %s missing after unique violation", attrs.Name))
	}
	return id, nil
}

// Get returns a stored item.
func (r *Registry) Get(ctx context.Context, id string) (models.Item, error) {
	item, err := r.store.ItemByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Item{}, models.Errorf(models.ErrNotFound, "item %s not found", id)
	}
	if err != nil {
		return models.Item{}, unavailable("get item", err)
	}
	return item, nil
}

func (r *Registry) lookup(ctx context.Context, name string) (string, bool, error) {
	item, err := r.store.ItemByName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, unavailable("lookup item", err)
	}
	return item.ID, true, nil
}
