package main

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nkongenelly/genologics/internal/cli/config"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Interactively write a genologics.yaml config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &config.Config{TimeoutSeconds: 60}

			questions := []*survey.Question{
				{
					Name: "baseuri",
					Prompt: &survey.Input{
						Message: "API base URI:",
						Help:    "e.g. https://lims.example.com/api/v2",
					},
					Validate: survey.Required,
				},
				{
					Name:     "username",
					Prompt:   &survey.Input{Message: "API username:"},
					Validate: survey.Required,
				},
			}
			answers := struct {
				BaseURI  string `survey:"baseuri"`
				Username string `survey:"username"`
			}{}
			if err := survey.Ask(questions, &answers); err != nil {
				return err
			}
			cfg.BaseURI = answers.BaseURI
			cfg.Username = answers.Username

			if err := survey.AskOne(&survey.Password{Message: "API password:"}, &cfg.Password); err != nil {
				return err
			}

			path, err := config.Save(cfg, ".")
			if err != nil {
				return err
			}
			color.Green("Wrote %s", path)
			fmt.Println("Set GENOLOGICS_PASSWORD instead of storing the password if this file is shared.")
			return nil
		},
	}
}
