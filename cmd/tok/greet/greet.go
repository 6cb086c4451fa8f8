package greet

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Cmd implements `tok greet`, the original placeholder command. Output is
// exactly one line and must stay stable.
var Cmd = &cobra.Command{
	Use:           "greet",
	Short:         "Say hello, tok",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(os.Stdout, "Hello, world!")
		return err
	},
}
