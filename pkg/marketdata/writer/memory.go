package writer

import (
	"slices"
	"sync"

	"github.com/rxtech-lab/argo-dataprep/internal/types"
	"github.com/rxtech-lab/argo-dataprep/pkg/errors"
)

// MemoryOutputPath is what MemoryWriter reports as its output location.
const MemoryOutputPath = "memory://"

// MemoryWriter collects bars in memory so they can be turned into a table.
type MemoryWriter struct {
	mu          sync.Mutex
	bars        []types.PriceBar
	initialized bool
	finalized   bool
}

// NewMemoryWriter creates an empty MemoryWriter.
func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{}
}

func (w *MemoryWriter) Initialize() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.bars = nil
	w.initialized = true
	w.finalized = false

	return nil
}

func (w *MemoryWriter) Write(bar types.PriceBar) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.initialized {
		return errors.New(errors.ErrCodeMarketDataWriteFailed, "writer not initialized")
	}

	w.bars = append(w.bars, bar)

	return nil
}

func (w *MemoryWriter) Finalize() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.initialized {
		return "", errors.New(errors.ErrCodeMarketDataWriteFailed, "writer not initialized")
	}

	w.finalized = true

	return MemoryOutputPath, nil
}

func (w *MemoryWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.initialized = false

	return nil
}

func (w *MemoryWriter) GetOutputPath() string { return MemoryOutputPath }

// Bars returns a copy of the bars written since the last Initialize.
func (w *MemoryWriter) Bars() []types.PriceBar {
	w.mu.Lock()
	defer w.mu.Unlock()

	return slices.Clone(w.bars)
}
