package provider

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/polygon-io/client-go/rest/models"

	"github.com/rxtech-lab/argo-dataprep/internal/types"
	"github.com/rxtech-lab/argo-dataprep/pkg/errors"
	"github.com/rxtech-lab/argo-dataprep/pkg/marketdata/writer"
)

// csvDateLayouts are tried in order when parsing the date column.
var csvDateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"}

type csvBar struct {
	Date   string  `csv:"date"`
	Symbol string  `csv:"symbol"`
	Open   float64 `csv:"open"`
	High   float64 `csv:"high"`
	Low    float64 `csv:"low"`
	Close  float64 `csv:"close"`
	Volume float64 `csv:"volume"`
}

// CSVClient replays bars from a local CSV file with a
// date, open, high, low, close, volume header. An optional symbol column
// restricts rows to the requested ticker.
type CSVClient struct {
	path   string
	writer writer.MarketDataWriter
}

func NewCSVClient(path string) (Provider, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "csv path is required")
	}

	return &CSVClient{path: path}, nil
}

func (c *CSVClient) ConfigWriter(w writer.MarketDataWriter) {
	c.writer = w
}

// Download writes every row dated within [startDate, endDate]. multiplier
// and timespan are ignored; the file's own frequency is used.
func (c *CSVClient) Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, _ int, _ models.Timespan, onProgress OnDownloadProgress) (string, error) {
	return runDownload(c.writer, ticker, func(emit emitFunc) error {
		rows, err := c.read()
		if err != nil {
			return err
		}

		sawTicker := false
		for i, row := range rows {
			if err := ctx.Err(); err != nil {
				return errors.Wrap(errors.ErrCodeCancelled, "csv download cancelled", err)
			}

			if row.Symbol != "" && !strings.EqualFold(row.Symbol, ticker) {
				continue
			}
			sawTicker = true

			date, err := parseCSVDate(row.Date)
			if err != nil {
				return errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "row %d of %s", i+1, c.path)
			}

			if date.Before(startDate) || date.After(endDate) {
				continue
			}

			if err := emit(types.PriceBar{
				Symbol: ticker,
				Date:   date,
				Open:   row.Open,
				High:   row.High,
				Low:    row.Low,
				Close:  row.Close,
				Volume: int64(row.Volume),
			}); err != nil {
				return err
			}

			notify(onProgress, float64(i+1), float64(len(rows)), fmt.Sprintf("Reading %s", c.path))
		}

		if !sawTicker {
			return errors.Newf(errors.ErrCodeSymbolNotFound, "symbol %s not found in %s", ticker, c.path)
		}

		return nil
	})
}

func (c *CSVClient) read() ([]*csvBar, error) {
	file, err := os.Open(c.path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to open %s", c.path)
	}
	defer file.Close()

	var rows []*csvBar
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "failed to parse %s", c.path)
	}

	return rows, nil
}

func parseCSVDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range csvDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}
