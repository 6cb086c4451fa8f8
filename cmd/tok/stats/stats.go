package stats

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yngtodd/tok/internal/vocab"
)

var (
	flagFormat string
	flagJSON   bool
)

// Cmd implements `tok stats`: summary statistics of a saved vocabulary.
var Cmd = &cobra.Command{
	Use:           "stats <vocabulary>",
	Short:         "Print summary statistics of a vocabulary file",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := vocab.LoadFile(args[0], flagFormat)
		if err != nil {
			return err
		}
		// Ids are dense, so the range is implied by the size.
		minID, maxID := 0, v.Size()-1
		if v.Size() == 0 {
			minID, maxID = 0, 0
		}
		if flagJSON {
			out := map[string]any{
				"terms": v.Size(),
				"minId": minID,
				"maxId": maxID,
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}
		_, err = fmt.Fprintf(os.Stdout, "terms=%d minId=%d maxId=%d\n", v.Size(), minID, maxID)
		return err
	},
}

func init() {
	Cmd.Flags().StringVar(&flagFormat, "format", "auto", "Vocabulary format: auto|tsv|yaml")
	Cmd.Flags().BoolVar(&flagJSON, "json", false, "Print statistics as JSON")
}
