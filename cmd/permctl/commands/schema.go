package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/armatrix/claude-permissions-go/internal/config"
	"github.com/armatrix/claude-permissions-go/internal/schema"
)

func newSchemaCmd() *cobra.Command {
	var properties bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of a settings document",
		RunE: func(cmd *cobra.Command, args []string) error {
			if properties {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(schema.Properties[config.Settings]())
			}

			data, err := schema.GenerateJSON[config.Settings]()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().BoolVar(&properties, "properties", false, "Print only the flattened property map")
	return cmd
}
