package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxtech-lab/argo-dataprep/mocks"
	"github.com/rxtech-lab/argo-dataprep/pkg/chart"
	"github.com/rxtech-lab/argo-dataprep/pkg/errors"
	"github.com/rxtech-lab/argo-dataprep/pkg/sink"
	"github.com/rxtech-lab/argo-dataprep/pkg/table"
)

// writePrices saves daily bars of every symbol into one CSV.
func writePrices(t *testing.T, symbols ...string) string {
	t.Helper()

	gen := mocks.NewDataGenerator(11)

	var bars = gen.Daily(symbols[0], 40)
	for _, symbol := range symbols[1:] {
		bars = append(bars, gen.Daily(symbol, 40)...)
	}

	path := filepath.Join(t.TempDir(), "prices.csv")
	_, err := sink.NewCSVSink(path, nil).Write(context.Background(), table.FromBars(bars))
	require.NoError(t, err)

	return path
}

// loaded runs the load command synchronously.
func loaded(t *testing.T, m Model) Model {
	t.Helper()

	updated, _ := m.Update(m.Init()())

	return updated.(Model)
}

func TestNewModel(t *testing.T) {
	m := NewModel("prices.csv", "aapl")

	assert.Equal(t, StateLoading, m.state)
	assert.Equal(t, "AAPL", m.symbol)
	assert.Nil(t, m.series)
	assert.Empty(t, m.symbols)
}

func TestSingleSymbolGoesToChart(t *testing.T) {
	m := loaded(t, NewModel(writePrices(t, "^GSPC"), ""))

	assert.Equal(t, StateChart, m.state)
	assert.Equal(t, []string{"^GSPC"}, m.symbols)
	assert.Len(t, m.series.Points, 40)
	assert.Contains(t, m.View(), chart.Title("^GSPC"))
}

func TestSeveralSymbolsShowList(t *testing.T) {
	m := loaded(t, NewModel(writePrices(t, "^GSPC", "AAPL"), ""))

	assert.Equal(t, StateSymbolSelect, m.state)
	assert.Equal(t, []string{"^GSPC", "AAPL"}, m.symbols)
	assert.Contains(t, m.View(), "Select Symbol")
}

func TestPreferredSymbol(t *testing.T) {
	m := loaded(t, NewModel(writePrices(t, "^GSPC", "AAPL"), "aapl"))

	assert.Equal(t, StateChart, m.state)
	assert.Equal(t, "AAPL", m.series.Symbol)

	m = loaded(t, NewModel(writePrices(t, "^GSPC", "AAPL"), "MSFT"))
	assert.Equal(t, StateSymbolSelect, m.state)
	assert.True(t, errors.HasCode(m.err, errors.ErrCodeSymbolNotFound))
}

func TestTabCyclesSymbols(t *testing.T) {
	m := loaded(t, NewModel(writePrices(t, "^GSPC", "AAPL", "MSFT"), "^GSPC"))
	require.Equal(t, StateChart, m.state)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	assert.Equal(t, "AAPL", m.series.Symbol)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	assert.Equal(t, "MSFT", m.series.Symbol)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	assert.Equal(t, "^GSPC", m.series.Symbol)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = updated.(Model)
	assert.Equal(t, "MSFT", m.series.Symbol)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	assert.Equal(t, StateSymbolSelect, m.state)
}

func TestLoadErrors(t *testing.T) {
	m := loaded(t, NewModel(filepath.Join(t.TempDir(), "missing.csv"), ""))

	assert.Equal(t, StateLoading, m.state)
	assert.True(t, errors.HasCode(m.err, errors.ErrCodeSinkReadFailed))
	assert.Contains(t, m.View(), "Error:")
}

func TestResizeFitsChart(t *testing.T) {
	m := loaded(t, NewModel(writePrices(t, "^GSPC"), ""))

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = updated.(Model)

	opts := m.chartOptions()
	assert.Equal(t, 100, opts.Width)
	assert.Equal(t, 40-(recentRows+5), opts.Height)
}

func TestUpdateRecentRows(t *testing.T) {
	series := &chart.Series{Symbol: "^GSPC"}
	for i, price := range []float64{10, 11, 10.5, 10.5, 12, 13} {
		series.Points = append(series.Points, chart.Point{
			Date:  time.Date(2024, 1, i+1, 0, 0, 0, 0, time.UTC),
			Close: price,
		})
	}

	rows := UpdateRecentRows(NewRecentTable(), series).Rows()
	require.Len(t, rows, recentRows)
	assert.Equal(t, "2024-01-06", rows[0][0])
	assert.Equal(t, "13.00 ▲", rows[0][1])
	assert.Equal(t, "10.50", rows[2][1])
	assert.Equal(t, "11.00 ▲", rows[4][1])
}

func TestFormatPriceWithColor(t *testing.T) {
	assert.Equal(t, "10.00", FormatPriceWithColor(10, 0))
	assert.Equal(t, "10.00 ▲", FormatPriceWithColor(10, 9))
	assert.Equal(t, "10.00 ▼", FormatPriceWithColor(10, 11))
	assert.Equal(t, "10.00", FormatPriceWithColor(10, 10))
}

func TestSymbolSelectionFlow(t *testing.T) {
	m := NewModel(writePrices(t, "^GSPC", "AAPL"), "")
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 40))

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Select Symbol"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Closing Prices Over Time for ^GSPC"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyTab})

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Closing Prices Over Time for AAPL"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
}

func TestStaticChart(t *testing.T) {
	var out bytes.Buffer

	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard

	path := writePrices(t, "^GSPC", "AAPL")
	require.NoError(t, app.Run(context.Background(), []string{"visualize", "--static", "--symbol", "aapl", path}))
	assert.Contains(t, out.String(), "Closing Prices Over Time for AAPL")

	err := newApp().Run(context.Background(), []string{"visualize", "--static", filepath.Join(t.TempDir(), "none.csv")})
	assert.Error(t, err)
}
