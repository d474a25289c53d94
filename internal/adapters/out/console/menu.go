package console

import (
	"fmt"
	"io"
	"strings"
)

// Menu columns: a heading followed by its items.
var Menu = [][]string{
	{"Breakfast", "Omelette", "Huevos rancheros", "Pancakes", "Toast"},
	{"Lunch", "Chicken milanesa", "Caesar salad", "Hamburger", "Enchiladas"},
	{"Dinner", "Pizza", "Pasta bolognese", "Lasagna", "Fish fillet"},
	{"Drinks", "Soda", "Orange juice", "Lemonade", "Coffee"},
	{"Oreo ice cream", "Neapolitan ice cream", "Triple chocolate ice cream", "Vanilla ice cream", "Coffee ice cream"},
}

const (
	menuColumnWidth = 28
	menuRule        = 95
)

// MenuPrinter writes the menu as a table, one column per category.
type MenuPrinter struct {
	out     io.Writer
	columns [][]string
}

// NewMenuPrinter uses Menu when columns is nil.
func NewMenuPrinter(out io.Writer, columns [][]string) MenuPrinter {
	if columns == nil {
		columns = Menu
	}
	return MenuPrinter{out: out, columns: columns}
}

// Print writes the menu framed by horizontal rules.
func (m MenuPrinter) Print() error {
	rule := strings.Repeat("-", menuRule)

	var b strings.Builder
	b.WriteString(rule + "\n")
	b.WriteString("Menu:\n")
	for row := range m.rows() {
		for _, column := range m.columns {
			cell := ""
			if row < len(column) {
				cell = column[row]
			}
			fmt.Fprintf(&b, "%*s", menuColumnWidth, cell)
		}
		b.WriteString("\n")
	}
	b.WriteString(rule + "\n")

	_, err := io.WriteString(m.out, b.String())
	return err
}

func (m MenuPrinter) rows() int {
	rows := 0
	for _, column := range m.columns {
		rows = max(rows, len(column))
	}
	return rows
}
