package main

import (
	"fmt"
	"io"

	"psl-tools/cmd/pslc/pslyaml"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all loaded properties",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		a.printProperties(cmd.OutOrStdout(), a.ws.props)
		return nil
	},
}

// printProperties prints names, fragments and source positions aligned in
// columns.
func (a *app) printProperties(w io.Writer, props []pslyaml.Property) {
	if len(props) == 0 {
		fmt.Fprintln(w, "no properties found")
		return
	}

	nameLen, fragLen := 0, 0
	for _, p := range props {
		nameLen = max(nameLen, len(p.Name))
		fragLen = max(fragLen, len(p.Fragment().String())+2)
	}

	for _, p := range props {
		name := fmt.Sprintf("%-*s", nameLen, p.Name)
		frag := fmt.Sprintf("%-*s", fragLen, "["+p.Fragment().String()+"]")
		fmt.Fprintf(w, "%s  %s  %s\n", a.st.Name.Render(name), a.st.Fragment.Render(frag), a.st.Muted.Render(p.Pos.String()))
	}
}
