package goadmin

import (
	"context"
	"errors"
	"fmt"

	orderingpkg "github.com/goliatone/go-reorder/pkg/ordering"
)

// MenuBuilder ensures ordering entries exist within the admin navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, menuCode string, item MenuItem) error
}

// MenuItem captures board link metadata.
type MenuItem struct {
	Label    string
	Route    string
	Icon     string
	Position int
}

// Config wires the ordering service + feature flags into an admin shell.
type Config struct {
	EnableOrdering bool
	MenuCode       string
	MenuBuilder    MenuBuilder
	Service        *orderingpkg.Service
	RoutePrefix    string
	Icon           string
}

// Admin exposes helpers for go-admin style applications.
type Admin struct {
	cfg Config
}

// New creates an Admin helper that can seed ordering menus.
func New(cfg Config) (*Admin, error) {
	if cfg.EnableOrdering && cfg.Service == nil {
		return nil, errors.New("goadmin: ordering service is required when enabled")
	}
	if cfg.MenuCode == "" {
		cfg.MenuCode = "admin.main"
	}
	if cfg.RoutePrefix == "" {
		cfg.RoutePrefix = "admin.ordering"
	}
	if cfg.Icon == "" {
		cfg.Icon = "list"
	}
	return &Admin{cfg: cfg}, nil
}

// Ordering exposes the configured service when enabled.
func (a *Admin) Ordering() *orderingpkg.Service {
	if !a.cfg.EnableOrdering {
		return nil
	}
	return a.cfg.Service
}

// MenuItems returns one board entry per registered collection.
func (a *Admin) MenuItems() []MenuItem {
	if !a.cfg.EnableOrdering {
		return nil
	}
	defs := a.cfg.Service.Collections()
	items := make([]MenuItem, 0, len(defs))
	for i, def := range defs {
		label := def.Name
		if label == "" {
			label = def.Code
		}
		items = append(items, MenuItem{
			Label:    label,
			Route:    fmt.Sprintf("%s.%s", a.cfg.RoutePrefix, def.Code),
			Icon:     a.cfg.Icon,
			Position: i + 1,
		})
	}
	return items
}

// Bootstrap seeds menu entries when ordering support is enabled.
func (a *Admin) Bootstrap(ctx context.Context) error {
	if !a.cfg.EnableOrdering || a.cfg.MenuBuilder == nil {
		return nil
	}
	var errs error
	for _, item := range a.MenuItems() {
		if err := a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, item); err != nil {
			errs = errors.Join(errs, fmt.Errorf("goadmin: menu item %s: %w", item.Route, err))
		}
	}
	return errs
}
