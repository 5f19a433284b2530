package main

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// listing accumulates rows for one tabular report.
type listing struct {
	headers []string
	aligns  []columnAlignment
	rows    [][]string
}

func newListing(headers ...string) *listing {
	return &listing{headers: headers}
}

func (l *listing) align(aligns ...columnAlignment) *listing {
	l.aligns = aligns
	return l
}

func (l *listing) add(cells ...string) {
	l.rows = append(l.rows, cells)
}

func (l *listing) empty() bool { return len(l.rows) == 0 }

func (l *listing) render() string {
	columns := len(l.headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = l.headers[i]
	}
	tw.AppendHeader(header)

	for _, cells := range l.rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(cells) {
				r[i] = cells[i]
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(l.aligns) && l.aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func shouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// painter colours report headings and violations when writing to a terminal.
type painter struct {
	heading *color.Color
	problem *color.Color
}

func newPainter(w io.Writer) painter {
	p := painter{heading: color.New(color.Bold), problem: color.New(color.FgRed)}
	if !shouldColorize(w) {
		p.heading.DisableColor()
		p.problem.DisableColor()
	} else {
		p.heading.EnableColor()
		p.problem.EnableColor()
	}
	return p
}
