package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/nkongenelly/genologics/internal/cli/ui"
	"github.com/nkongenelly/genologics/lims"
)

func newProjectsCmd() *cobra.Command {
	var name, openDate string

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List projects, optionally filtered by name or open date",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := newSession()
			if err != nil {
				return err
			}

			filters := url.Values{}
			if name != "" {
				filters.Set("name", name)
			}
			if openDate != "" {
				filters.Set("open-date", openDate)
			}

			projects, err := l.Query(cmd.Context(), "project", filters)
			if err != nil {
				return err
			}
			fmt.Printf("%d projects\n", len(projects))

			// Stubs are enough for the id column, but names need data: one
			// batch round-trip instead of a fetch per row.
			projects, err = l.BatchFetch(cmd.Context(), projects)
			if err != nil {
				return err
			}

			tbl := ui.NewTable(os.Stdout, "ID", "NAME", "OPENED")
			for _, p := range projects {
				pname, err := p.Field(cmd.Context(), "name")
				if err != nil {
					return err
				}
				opened, err := p.Field(cmd.Context(), "open-date")
				if err != nil {
					return err
				}
				tbl.AddRow(p.ID(), pname, opened)
			}
			tbl.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "filter by project name")
	cmd.Flags().StringVar(&openDate, "open-date", "", "filter by open date (YYYY-MM-DD)")
	return cmd
}

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Inspect or modify a single project",
	}
	cmd.AddCommand(newProjectGetCmd())
	cmd.AddCommand(newProjectSetUDFCmd())
	return cmd
}

func newProjectGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show a project's fields and UDFs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := newSession()
			if err != nil {
				return err
			}
			p := l.GetOrCreate("project", args[0])

			for _, field := range []string{"name", "open-date", "close-date"} {
				value, err := p.Field(cmd.Context(), field)
				if err != nil {
					return err
				}
				fmt.Printf("%s: %s\n", field, value)
			}

			names, err := p.UDFNames(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println("UDFs:")
			for _, name := range names {
				v, _, err := p.UDF(cmd.Context(), name)
				if err != nil {
					return err
				}
				fmt.Printf("  %s = %s\n", name, v)
			}
			return nil
		},
	}
}

func newProjectSetUDFCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "set-udf ID NAME VALUE",
		Short: "Set a UDF on a project and save it",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := newSession()
			if err != nil {
				return err
			}
			p := l.GetOrCreate("project", args[0])

			value, err := lims.ParseValue(kind, args[2])
			if err != nil {
				return err
			}
			if err := p.SetUDF(cmd.Context(), args[1], value); err != nil {
				return err
			}
			return p.Put(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&kind, "type", "String", "UDF type: String, Numeric, Date or Boolean")
	return cmd
}
