package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rxtech-lab/argo-dataprep/internal/types"
	"github.com/rxtech-lab/argo-dataprep/pkg/chart"
	"github.com/rxtech-lab/argo-dataprep/pkg/errors"
	"github.com/rxtech-lab/argo-dataprep/pkg/sink"
	ptable "github.com/rxtech-lab/argo-dataprep/pkg/table"
)

// Application states.
const (
	StateLoading = iota
	StateSymbolSelect
	StateChart
)

// Model is the Bubble Tea model of the close price viewer.
type Model struct {
	state       int
	path        string
	symbol      string
	data        *ptable.Table
	symbols     []string
	current     int
	series      *chart.Series
	symbolList  list.Model
	recentTable table.Model
	err         error
	width       int
	height      int
}

// NewModel creates a model that plots the price file at path. A non-empty
// symbol is shown first instead of the symbol of the first row.
func NewModel(path, symbol string) Model {
	return Model{
		state:       StateLoading,
		path:        path,
		symbol:      strings.ToUpper(symbol),
		symbolList:  NewSymbolList(nil),
		recentTable: NewRecentTable(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return loadData(m.path)
}

// loadData reads the price file and lists its symbols.
func loadData(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := sink.ReadCSV(path)
		if err != nil {
			return LoadErrorMsg{Err: err}
		}

		if err := data.Require("visualize close prices", types.ColumnSymbol, types.ColumnDate, types.ColumnClose); err != nil {
			return LoadErrorMsg{Err: err}
		}

		symbols, err := chart.Symbols(data)
		if err != nil {
			return LoadErrorMsg{Err: err}
		}

		if len(symbols) == 0 {
			return LoadErrorMsg{Err: errors.Newf(errors.ErrCodeNoDataFound, "%s has no rows to plot", path)}
		}

		return DataLoadedMsg{Data: data, Symbols: symbols}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.state == StateChart && len(m.symbols) > 1 {
				m.state = StateSymbolSelect
			}

			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.symbolList.SetSize(msg.Width, msg.Height-4)
		m.recentTable.SetWidth(msg.Width)

		return m, nil

	case DataLoadedMsg:
		return m.handleLoaded(msg), nil

	case LoadErrorMsg:
		m.err = msg.Err

		return m, nil
	}

	switch m.state {
	case StateSymbolSelect:
		return m.updateSymbolSelect(msg)
	case StateChart:
		return m.updateChart(msg)
	}

	return m, nil
}

func (m Model) handleLoaded(msg DataLoadedMsg) Model {
	m.data = msg.Data
	m.symbols = msg.Symbols
	m.symbolList = NewSymbolList(msg.Symbols)
	m.symbolList.SetSize(m.width, m.height-4)

	if m.symbol != "" {
		if i := slices.Index(m.symbols, m.symbol); i >= 0 {
			return m.showSymbol(i)
		}

		m.err = errors.Newf(errors.ErrCodeSymbolNotFound, "symbol %s not found in %s", m.symbol, m.path)
	}

	if len(m.symbols) == 1 {
		return m.showSymbol(0)
	}

	m.state = StateSymbolSelect

	return m
}

// showSymbol switches the chart to the symbol at index i.
func (m Model) showSymbol(i int) Model {
	series, err := chart.FromTable(m.data, m.symbols[i])
	if err != nil {
		m.err = err

		return m
	}

	m.current = i
	m.series = series
	m.recentTable = UpdateRecentRows(m.recentTable, series)
	m.state = StateChart
	m.err = nil

	return m
}

func (m Model) updateSymbolSelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if item, ok := m.symbolList.SelectedItem().(listItem); ok {
			return m.showSymbol(slices.Index(m.symbols, item.name)), nil
		}
	}

	var cmd tea.Cmd
	m.symbolList, cmd = m.symbolList.Update(msg)

	return m, cmd
}

func (m Model) updateChart(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab":
			return m.showSymbol((m.current + 1) % len(m.symbols)), nil
		case "shift+tab":
			return m.showSymbol((m.current + len(m.symbols) - 1) % len(m.symbols)), nil
		}
	}

	return m, nil
}

// chartOptions fits the chart above the recent closes table and help line.
func (m Model) chartOptions() chart.Options {
	opts := chart.DefaultOptions()
	if m.width > 0 {
		opts.Width = m.width
	}

	if m.height > 0 {
		opts.Height = m.height - (recentRows + 5)
	}

	return opts
}

// View implements tea.Model.
func (m Model) View() string {
	var s strings.Builder

	if m.err != nil {
		s.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		s.WriteString("\n\n")
	}

	switch m.state {
	case StateLoading:
		if m.err == nil {
			s.WriteString(fmt.Sprintf("Loading %s...\n", m.path))
		}

		s.WriteString(HelpStyle.Render("q: quit"))

	case StateSymbolSelect:
		s.WriteString(m.symbolList.View())
		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("Press Enter to plot, q to quit"))

	case StateChart:
		s.WriteString(chart.Render(m.series, m.chartOptions()))
		s.WriteString("\n")
		s.WriteString(m.recentTable.View())
		s.WriteString("\n")
		s.WriteString(HelpStyle.Render(symbolHelp(m.current, len(m.symbols))))
	}

	return s.String()
}
