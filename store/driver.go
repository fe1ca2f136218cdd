package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ncobase/scanpage/config"
	"github.com/ncobase/scanpage/project"
)

// ErrClosed is returned by stores used after Close.
var ErrClosed = errors.New("store: closed")

// Driver opens a project store from configuration. Backends register
// themselves from init, following database/sql:
//
//	import _ "github.com/ncobase/scanpage/store/sqlstore"
type Driver interface {
	// Name returns the driver identifier used in configuration files.
	Name() string
	// Open returns a ready store. The caller owns it and must Close it.
	Open(ctx context.Context, cfg *config.Store) (project.Store, error)
}

var (
	drivers   = make(map[string]Driver)
	driversMu sync.RWMutex
)

// Register makes a driver available by the provided name.
//
// If Register is called twice with the same name or if driver is nil,
// it panics.
func Register(driver Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()

	if driver == nil {
		panic("store: Register driver is nil")
	}

	name := driver.Name()
	if name == "" {
		panic("store: Register driver name is empty")
	}

	if _, exists := drivers[name]; exists {
		panic(fmt.Sprintf("store: Register called twice for driver %s", name))
	}

	drivers[name] = driver
}

// GetDriver retrieves a registered driver by name.
func GetDriver(name string) (Driver, error) {
	driversMu.RLock()
	defer driversMu.RUnlock()

	driver, ok := drivers[name]
	if !ok {
		return nil, fmt.Errorf(
			"store: driver %q not registered (registered: %v)\n\n"+
				"Did you forget to import the driver package?\n"+
				"Add to your imports:\n"+
				"\timport _ \"github.com/ncobase/scanpage/store/all\"",
			name, namesLocked())
	}

	return driver, nil
}

// Open opens the store named by cfg.Driver.
func Open(ctx context.Context, cfg *config.Store) (project.Store, error) {
	if cfg == nil {
		return nil, errors.New("store: config is nil")
	}
	driver, err := GetDriver(cfg.Driver)
	if err != nil {
		return nil, err
	}
	s, err := driver.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", cfg.Driver, err)
	}
	return s, nil
}

// Drivers returns the sorted names of the registered drivers.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	return namesLocked()
}

func namesLocked() []string {
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// unregisterAll clears the registry; tests only.
func unregisterAll() {
	driversMu.Lock()
	defer driversMu.Unlock()
	drivers = make(map[string]Driver)
}
