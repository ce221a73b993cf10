package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/nkongenelly/genologics/lims"
)

// PrintError writes err to w with a hint matched to the error's kind, so a
// script operator sees what to do next rather than a bare status code.
func PrintError(w io.Writer, err error) {
	header := color.New(color.FgRed, color.Bold)
	body := color.New(color.FgRed)

	switch {
	case lims.IsNotFound(err):
		header.Fprintln(w, "RESOURCE NOT FOUND")
		body.Fprintf(w, "  %v\n", err)
		fmt.Fprintln(w, "  Check the id and resource type; the record may have been removed.")
	case lims.IsEmptyResult(err):
		header.Fprintln(w, "NO MATCH")
		body.Fprintf(w, "  %v\n", err)
		fmt.Fprintln(w, "  Loosen the filters or verify the name in the LIMS.")
	case lims.IsAmbiguousResult(err):
		header.Fprintln(w, "AMBIGUOUS MATCH")
		body.Fprintf(w, "  %v\n", err)
		fmt.Fprintln(w, "  Add filters until exactly one record matches.")
	case lims.IsRemoteUpdate(err):
		header.Fprintln(w, "UPDATE REJECTED")
		body.Fprintf(w, "  %v\n", err)
	default:
		header.Fprintln(w, "ERROR")
		body.Fprintf(w, "  %v\n", err)
	}
}
