package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nkongenelly/genologics/lims"
)

func newSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Inspect or modify a single sample",
	}
	cmd.AddCommand(newSampleRenameCmd())
	return cmd
}

func newSampleRenameCmd() *cobra.Command {
	var udfs []string

	cmd := &cobra.Command{
		Use:   "rename ID NEW_NAME",
		Short: "Rename a sample, optionally setting UDFs in the same save",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := newSession()
			if err != nil {
				return err
			}
			s := l.GetOrCreate("sample", args[0])

			oldName, err := s.Field(cmd.Context(), "name")
			if err != nil {
				return err
			}
			if err := s.SetField(cmd.Context(), "name", args[1]); err != nil {
				return err
			}

			for _, pair := range udfs {
				name, raw, found := strings.Cut(pair, "=")
				if !found {
					return fmt.Errorf("--udf takes NAME=VALUE, got %q", pair)
				}
				if err := s.SetUDF(cmd.Context(), name, lims.StringValue(raw)); err != nil {
					return err
				}
			}

			if err := s.Put(cmd.Context()); err != nil {
				return err
			}
			fmt.Printf("renamed %s: %q -> %q\n", s.ID(), oldName, args[1])
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&udfs, "udf", nil, "set a UDF as NAME=VALUE (repeatable)")
	return cmd
}
