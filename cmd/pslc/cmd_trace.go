package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var traceCmd = &cobra.Command{
	Use:   "trace <name>",
	Short: "Show the rewrite rules applied while translating a property",
	Long: "Translate one property and browse every SERE rewrite step with the\n" +
		"term before and after it. Use --plain to print the steps instead of\n" +
		"opening the interactive view.",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeNames,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		p, err := a.ws.get(args[0])
		if err != nil {
			return err
		}
		res, err := a.ws.translate(cmd.Context(), p, a.ws.session.Options().Conv)
		if err != nil {
			return err
		}

		if plain, _ := cmd.Flags().GetBool("plain"); plain || !a.cfg.UseColor() {
			fmt.Fprint(cmd.OutOrStdout(), a.st.stepsText(p, res))
			return nil
		}
		_, err = tea.NewProgram(newTraceModel(p, res, a.st), tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
		return err
	},
}

func init() {
	traceCmd.Flags().Bool("plain", false, "print the steps instead of opening the interactive view")
}
