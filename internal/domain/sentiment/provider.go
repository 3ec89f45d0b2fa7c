package sentiment

import (
	"context"

	"confluence/pkg/errors"
)

// Provider supplies one source's sentiment roll-up for a symbol over a
// lookback window. Implementations are a closed set registered in a Registry;
// there is no runtime probing of provider capabilities.
//
// A provider with no data for the symbol returns (nil, nil). Errors are
// reserved for programmer mistakes, not for ordinary missing data.
type Provider interface {
	Name() string
	Provide(ctx context.Context, symbol string, hours float64) (*SourceSentiment, error)
}

// Registry is an explicit lookup table of sentiment providers
type Registry struct {
	providers map[string]Provider
	order     []string
}

// NewRegistry creates a registry from a fixed set of providers
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		if _, exists := r.providers[p.Name()]; exists {
			continue
		}
		r.providers[p.Name()] = p
		r.order = append(r.order, p.Name())
	}
	return r
}

// Get returns a provider by name
func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnknownProvider, "provider %q", name)
	}
	return p, nil
}

// Names returns registered provider names in registration order
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Collect gathers SourceSentiment from every registered provider. Providers
// returning no data or an error are skipped: a partial input set is the
// normal case, not a failure.
func (r *Registry) Collect(ctx context.Context, symbol string, hours float64) map[string]*SourceSentiment {
	sources := make(map[string]*SourceSentiment, len(r.order))
	for _, name := range r.order {
		src, err := r.providers[name].Provide(ctx, symbol, hours)
		if err != nil || src == nil {
			continue
		}
		sources[name] = src
	}
	return sources
}
