package provider

import (
	goerrors "errors"

	"github.com/google/uuid"

	"github.com/rxtech-lab/argo-dataprep/internal/types"
	"github.com/rxtech-lab/argo-dataprep/pkg/errors"
	"github.com/rxtech-lab/argo-dataprep/pkg/marketdata/writer"
)

// emitFunc hands one bar to the writer.
type emitFunc func(bar types.PriceBar) error

// runDownload drives the writer lifecycle shared by every provider:
// initialize, stream bars from fetch, finalize and close. A download that
// produces no bars fails with ErrCodeNoDataFound.
func runDownload(w writer.MarketDataWriter, ticker string, fetch func(emit emitFunc) error) (path string, err error) {
	if w == nil {
		return "", errors.New(errors.ErrCodeMarketDataWriteFailed, "no writer configured, call ConfigWriter first")
	}

	if err := w.Initialize(); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to initialize writer", err)
	}

	defer func() {
		if cerr := w.Close(); cerr != nil {
			err = goerrors.Join(err, errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to close writer", cerr))
		}
	}()

	count := 0
	emit := func(bar types.PriceBar) error {
		if bar.ID == "" {
			bar.ID = uuid.New().String()
		}

		if bar.Symbol == "" {
			bar.Symbol = ticker
		}

		if err := w.Write(bar); err != nil {
			return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to write bar", err)
		}

		count++

		return nil
	}

	if err := fetch(emit); err != nil {
		return "", err
	}

	if count == 0 {
		return "", errors.Newf(errors.ErrCodeNoDataFound, "no data returned for %s in the requested range", ticker)
	}

	path, err = w.Finalize()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to finalize writer", err)
	}

	return path, nil
}

func notify(onProgress OnDownloadProgress, current, total float64, message string) {
	if onProgress != nil {
		onProgress(current, total, message)
	}
}
