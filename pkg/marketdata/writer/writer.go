package writer

import (
	"github.com/rxtech-lab/argo-dataprep/internal/types"
)

// MarketDataWriter receives the bars a provider downloads.
type MarketDataWriter interface {
	// Initialize sets up the writer, potentially creating tables or files.
	Initialize() error
	// Write persists a single bar.
	Write(bar types.PriceBar) error
	// Finalize completes the writing process and returns where the bars went.
	Finalize() (outputPath string, err error)
	// Close releases any resources held by the writer.
	Close() error
	// GetOutputPath returns the configured output location.
	GetOutputPath() string
}
