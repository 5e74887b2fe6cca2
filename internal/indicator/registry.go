package indicator

import (
	"sync"

	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
)

// Registry keeps the indicators an actor registered per bar type so they can be
// updated before the actor sees the bar.
type Registry struct {
	byBarType map[string][]Indicator
	all       []Indicator
	mu        sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byBarType: make(map[string][]Indicator),
		mu:        sync.RWMutex{},
	}
}

// RegisterForBars registers an indicator to be updated by bars of the bar type.
func (r *Registry) RegisterForBars(barType types.BarType, indicator Indicator) error {
	if indicator == nil {
		return errors.New(errors.ErrCodeInvalidParameter, "indicator cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := barType.String()
	for _, existing := range r.byBarType[key] {
		if existing == indicator {
			return errors.Newf(errors.ErrCodeInvalidParameter, "indicator %s already registered for %s", indicator.Name(), key)
		}
	}

	r.byBarType[key] = append(r.byBarType[key], indicator)

	known := false

	for _, existing := range r.all {
		if existing == indicator {
			known = true

			break
		}
	}

	if !known {
		r.all = append(r.all, indicator)
	}

	return nil
}

// HandleBar updates the indicators registered for the bar's type.
func (r *Registry) HandleBar(bar types.Bar) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, indicator := range r.byBarType[bar.BarType.String()] {
		indicator.HandleBar(bar)
	}
}

// ForBarType returns the indicators registered for the bar type.
func (r *Registry) ForBarType(barType types.BarType) []Indicator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]Indicator(nil), r.byBarType[barType.String()]...)
}

// Indicators returns every registered indicator in registration order.
func (r *Registry) Indicators() []Indicator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]Indicator(nil), r.all...)
}

// Initialized reports whether at least one indicator is registered and all are initialized.
func (r *Registry) Initialized() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.all) == 0 {
		return false
	}

	for _, indicator := range r.all {
		if !indicator.Initialized() {
			return false
		}
	}

	return true
}

// Reset resets every registered indicator, keeping the registrations.
func (r *Registry) Reset() {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, indicator := range r.all {
		indicator.Reset()
	}
}
