package indicator

import (
	"sync"

	"github.com/rxtech-lab/argo-dataprep/internal/types"
	"github.com/rxtech-lab/argo-dataprep/pkg/errors"
)

// IndicatorRegistry manages the indicators available to the feature builder.
type IndicatorRegistry interface {
	RegisterIndicator(indicator Indicator) error
	GetIndicator(name types.IndicatorType) (Indicator, error)
}

// IndicatorRegistryV1 is a mutex-guarded map of indicators keyed by name.
type IndicatorRegistryV1 struct {
	indicators map[types.IndicatorType]Indicator
	mu         sync.RWMutex
}

// NewIndicatorRegistry creates an empty indicator registry.
func NewIndicatorRegistry() IndicatorRegistry {
	return &IndicatorRegistryV1{
		indicators: make(map[types.IndicatorType]Indicator),
	}
}

// DefaultRegistry returns a registry holding freshly constructed MA, RSI and
// Bollinger Bands indicators with their default windows.
func DefaultRegistry() IndicatorRegistry {
	registry := NewIndicatorRegistry()
	for _, ind := range []Indicator{NewMA(), NewRSI(), NewBollingerBands()} {
		// names are distinct, registration cannot fail
		_ = registry.RegisterIndicator(ind)
	}

	return registry
}

func (r *IndicatorRegistryV1) RegisterIndicator(indicator Indicator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := indicator.Name()
	if _, exists := r.indicators[name]; exists {
		return errors.Newf(errors.ErrCodeIndicatorAlreadyExists, "indicator %s already registered", name)
	}

	r.indicators[name] = indicator

	return nil
}

func (r *IndicatorRegistryV1) GetIndicator(name types.IndicatorType) (Indicator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	indicator, exists := r.indicators[name]
	if !exists {
		return nil, errors.Newf(errors.ErrCodeIndicatorNotFound, "indicator %s not found", name)
	}

	return indicator, nil
}
