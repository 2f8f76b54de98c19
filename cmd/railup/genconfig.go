package railup

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/railup/pkg/config"
)

func newGenConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "genconfig",
		Short: "Print a starter .railup.toml with the built-in defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := config.Generate()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
