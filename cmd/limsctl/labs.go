package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/nkongenelly/genologics/internal/cli/ui"
)

func newLabsCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "labs",
		Short: "List labs",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := newSession()
			if err != nil {
				return err
			}

			filters := url.Values{}
			if name != "" {
				filters.Set("name", name)
			}
			labs, err := l.Query(cmd.Context(), "lab", filters)
			if err != nil {
				return err
			}
			fmt.Printf("%d labs\n", len(labs))

			labs, err = l.BatchFetch(cmd.Context(), labs)
			if err != nil {
				return err
			}

			tbl := ui.NewTable(os.Stdout, "ID", "NAME", "URI")
			for _, lab := range labs {
				labName, err := lab.Field(cmd.Context(), "name")
				if err != nil {
					return err
				}
				tbl.AddRow(lab.ID(), labName, lab.URI())
			}
			tbl.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "filter by lab name")
	return cmd
}
