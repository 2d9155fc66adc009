package main

import "github.com/rxtech-lab/argo-dataprep/pkg/table"

// DataLoadedMsg carries the table read from the price file.
type DataLoadedMsg struct {
	Data    *table.Table
	Symbols []string
}

// LoadErrorMsg indicates the price file could not be read or plotted.
type LoadErrorMsg struct {
	Err error
}
