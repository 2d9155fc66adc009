package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/rxtech-lab/argo-dataprep/pkg/chart"
)

// recentRows is the number of latest closes listed under the chart.
const recentRows = 5

// listItem implements list.Item for the symbol list.
type listItem struct {
	name        string
	description string
}

func (i listItem) Title() string       { return i.name }
func (i listItem) Description() string { return i.description }
func (i listItem) FilterValue() string { return i.name }

// NewSymbolList creates the list shown when the file holds several symbols.
func NewSymbolList(symbols []string) list.Model {
	items := make([]list.Item, 0, len(symbols))
	for _, symbol := range symbols {
		items = append(items, listItem{name: symbol, description: chart.Title(symbol)})
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true

	l := list.New(items, delegate, 0, 0)
	l.Title = "Select Symbol"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

// NewRecentTable creates the table of the latest closes.
func NewRecentTable() table.Model {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Close", Width: 16},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(false),
		table.WithHeight(recentRows+1),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = lipgloss.NewStyle()

	t.SetStyles(s)

	return t
}

// UpdateRecentRows lists the last recentRows points of s, newest first.
func UpdateRecentRows(t table.Model, s *chart.Series) table.Model {
	rows := make([]table.Row, 0, recentRows)

	for i := len(s.Points) - 1; i >= 0 && len(rows) < recentRows; i-- {
		previous := 0.0
		if i > 0 {
			previous = s.Points[i-1].Close
		}

		rows = append(rows, table.Row{
			s.Points[i].Date.Format(time.DateOnly),
			FormatPriceWithColor(s.Points[i].Close, previous),
		})
	}

	t.SetRows(rows)

	return t
}

// symbolHelp describes the position of the shown symbol.
func symbolHelp(current, total int) string {
	if total < 2 {
		return "q: quit"
	}

	return fmt.Sprintf("q: quit | tab: next symbol (%d/%d) | esc: symbol list", current+1, total)
}
