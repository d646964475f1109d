// Package apps groups models into named apps the CLI can seed as a unit.
package apps

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrUnknownApp is returned by Lookup for unregistered names.
	ErrUnknownApp = errors.New("apps: unknown app")
	// ErrDuplicateApp is returned when two apps share a name.
	ErrDuplicateApp = errors.New("apps: duplicate app")
)

// App is a named set of gorm models.
type App struct {
	Name   string
	Models []any
}

// Registry holds apps by name, in registration order.
type Registry struct {
	apps  map[string]App
	names []string
}

// NewRegistry registers list.
func NewRegistry(list ...App) (*Registry, error) {
	r := &Registry{apps: make(map[string]App, len(list))}
	for _, app := range list {
		if err := r.Register(app); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds app.
func (r *Registry) Register(app App) error {
	if app.Name == "" {
		return fmt.Errorf("apps: empty app name")
	}
	if _, ok := r.apps[app.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateApp, app.Name)
	}
	r.apps[app.Name] = app
	r.names = append(r.names, app.Name)
	return nil
}

// Lookup returns the app called name.
func (r *Registry) Lookup(name string) (App, error) {
	app, ok := r.apps[name]
	if !ok {
		return App{}, fmt.Errorf("%w: %s", ErrUnknownApp, name)
	}
	return app, nil
}

// Names lists registered apps in registration order.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// PersistentModels returns every model of every app, the set schema
// migration manages.
func (r *Registry) PersistentModels() []any {
	var all []any
	for _, name := range r.names {
		all = append(all, r.apps[name].Models...)
	}
	return all
}
