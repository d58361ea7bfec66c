package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/armatrix/claude-permissions-go/internal/version"
)

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of permctl",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "permctl %s %s/%s\n", version.Version, runtime.GOOS, runtime.GOARCH)
		},
	}
}
