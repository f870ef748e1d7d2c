package dataviewer

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// List prints the registered monitor types and data sources.
func List(w io.Writer) {
	header := color.New(color.Bold)

	header.Fprintln(w, "Monitors:")
	for _, name := range Monitors() {
		fmt.Fprintf(w, "  %s\n", color.GreenString(name))
	}

	header.Fprintln(w, "Sources:")
	for _, kind := range Sources() {
		fmt.Fprintf(w, "  %s\n", color.CyanString(kind))
	}
}
