package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ormasoftchile/subcheck/pkg/submission"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "schema",
		Short:             "Print the JSON Schema every submission line is checked against",
		Args:              cobra.NoArgs,
		PersistentPreRunE: skipSetup,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := submission.RecordSchema()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}
