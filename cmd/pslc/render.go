package main

import (
	"fmt"
	"io"
	"strings"

	"psl-tools/cmd/pslc/psl"
	"psl-tools/cmd/pslc/pslyaml"
	"psl-tools/pkg/lib"
)

// resultLine renders `name [fragment]: output`.
func (st styles) resultLine(name string, res *psl.Result) string {
	return fmt.Sprintf("%s %s %s",
		st.Name.Render(name+":"),
		st.Fragment.Render("["+res.Fragment.String()+"]"),
		st.Output.Render(psl.Print(res.Output)))
}

// stepsText renders the rewrite steps of a translation, one block per step.
func (st styles) stepsText(p pslyaml.Property, res *psl.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", st.Name.Render(p.Name), st.Muted.Render(p.Pos.String()))
	fmt.Fprintf(&b, "  input:  %s\n\n", psl.Print(res.Input))
	if len(res.Steps) == 0 {
		b.WriteString(st.Muted.Render("  no rewrites") + "\n\n")
	}
	for i, s := range res.Steps {
		fmt.Fprintf(&b, "%3d %s %s\n", i+1, st.Rule.Render(s.Rule),
			st.Muted.Render(fmt.Sprintf("(%s, iteration %d)", s.Phase, s.Iteration)))
		fmt.Fprintf(&b, "    before: %s\n", psl.Print(s.Before))
		fmt.Fprintf(&b, "    after:  %s\n", psl.Print(s.After))
	}
	if len(res.Steps) > 0 {
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "  normalized: %s\n", psl.Print(res.Normalized))
	fmt.Fprintf(&b, "  output:     %s\n", st.Output.Render(psl.Print(res.Output)))
	return b.String()
}

func (st styles) report(w io.Writer, err error) {
	lib.Report(w, st.Err.Render("Error:"), err)
}
