package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

//go:embed example.yml
var exampleYAML []byte

const exampleHeader = `# pslc example properties
# Expressions are YAML sequences in prefix form: [operator, operand, ...].
# Run:      pslc --file <this-file> translate
# Inspect:  pslc --file <this-file> trace handshake

`

var exampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Print an example property file covering the supported operators",
	Long: "Print a property file with one example per family of operators:\n" +
		"sequences, suffix implication, bounded next, next_event, until,\n" +
		"replication, arithmetic and CTL. Use --output to write to a file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		w := cmd.OutOrStdout()
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			defer f.Close()
			w = f
		}

		fmt.Fprint(w, exampleHeader)
		if _, err := w.Write(exampleYAML); err != nil {
			return err
		}

		if output != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "written to %s\n", output)
		}
		return nil
	},
}

func init() {
	exampleCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
}
