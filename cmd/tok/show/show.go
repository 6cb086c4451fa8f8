package show

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yngtodd/tok/internal/vocab"
)

var (
	flagFormat string
	flagTerm   string
	flagJSON   bool
)

// Cmd implements `tok show`: print the contents of a saved vocabulary.
var Cmd = &cobra.Command{
	Use:           "show <vocabulary>",
	Short:         "Print the entries of a vocabulary file",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := vocab.LoadFile(args[0], flagFormat)
		if err != nil {
			return err
		}
		if flagTerm != "" {
			id, ok := v.ID(flagTerm)
			if !ok {
				return fmt.Errorf("term not found: %s", flagTerm)
			}
			_, err := fmt.Fprintln(os.Stdout, id)
			return err
		}
		if flagJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(v.Entries())
		}
		for _, e := range v.Entries() {
			if _, err := fmt.Fprintf(os.Stdout, "  KEY: %s, VALUE: %d\n", e.Term, e.ID); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	Cmd.Flags().StringVar(&flagFormat, "format", "auto", "Vocabulary format: auto|tsv|yaml")
	Cmd.Flags().StringVar(&flagTerm, "term", "", "Print only the id of the given term")
	Cmd.Flags().BoolVar(&flagJSON, "json", false, "Print entries as JSON")
}
