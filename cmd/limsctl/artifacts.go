package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/nkongenelly/genologics/internal/cli/ui"
)

func newArtifactsCmd() *cobra.Command {
	var sampleName, qcFlag string

	cmd := &cobra.Command{
		Use:   "artifacts",
		Short: "List artifacts by sample name or QC flag",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := newSession()
			if err != nil {
				return err
			}

			filters := url.Values{}
			if sampleName != "" {
				filters.Set("samplelimsid", sampleName)
			}
			if qcFlag != "" {
				filters.Set("qc-flag", qcFlag)
			}

			artifacts, err := l.Query(cmd.Context(), "artifact", filters)
			if err != nil {
				return err
			}
			fmt.Printf("%d artifacts\n", len(artifacts))

			// Queries return stubs; hydrate them all in one round-trip.
			artifacts, err = l.BatchFetch(cmd.Context(), artifacts)
			if err != nil {
				return err
			}

			tbl := ui.NewTable(os.Stdout, "ID", "NAME", "QC")
			for _, a := range artifacts {
				name, err := a.Field(cmd.Context(), "name")
				if err != nil {
					return err
				}
				qc, err := a.Field(cmd.Context(), "qc-flag")
				if err != nil {
					return err
				}
				tbl.AddRow(a.ID(), name, qc)
			}
			tbl.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&sampleName, "sample", "", "filter by sample LIMS id")
	cmd.Flags().StringVar(&qcFlag, "qc-flag", "", "filter by QC flag (PASSED, FAILED, UNKNOWN)")
	return cmd
}
