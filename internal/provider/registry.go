package provider

import (
	"fmt"

	"github.com/waabox/pipecheck/internal/domain"
)

// DataSource pairs the plan and log providers of one backend.
type DataSource struct {
	Plans domain.PlanProvider
	Logs  domain.LogProvider
}

// Registry maps source names to DataSource implementations.
type Registry struct {
	entries []entry
}

type entry struct {
	name   string
	source DataSource
}

// NewRegistry creates an empty data-source registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register associates a source name (e.g., "bamboo") with a data source.
func (r *Registry) Register(name string, ds DataSource) {
	r.entries = append(r.entries, entry{name: name, source: ds})
}

// Resolve returns the data source registered under the given name.
// Returns an error if no matching source is registered.
func (r *Registry) Resolve(name string) (DataSource, error) {
	for _, e := range r.entries {
		if e.name == name {
			return e.source, nil
		}
	}
	return DataSource{}, fmt.Errorf("no data source registered for: %s", name)
}
