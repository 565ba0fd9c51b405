package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rankeval/internal/model"
)

func newModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "models",
		Short:       "List registered model names",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range model.Builtin().Names() {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
}
