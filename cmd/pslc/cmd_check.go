package main

import (
	"fmt"
	"io"

	"psl-tools/cmd/pslc/boolsat"
	"psl-tools/cmd/pslc/psl"
	"psl-tools/cmd/pslc/pslyaml"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [name ...]",
	Short: "Classify properties and report whether they can be translated",
	Long: "Report the fragment of each property (propositional, ltl, ctl or mixed)\n" +
		"and whether the translator accepts it, without translating.\n\n" +
		"Propositional properties are also checked with a SAT solver: one that is\n" +
		"always true, never true, or equivalent to an earlier property is noted.",
	ValidArgsFunction: completeNames,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		props, err := a.ws.find(args)
		if err != nil {
			return err
		}
		if rejected := a.check(cmd.OutOrStdout(), props); rejected > 0 {
			return fmt.Errorf("%d of %d properties rejected", rejected, len(props))
		}
		return nil
	},
}

// check writes one verdict line per property and returns how many were
// rejected.
func (a *app) check(w io.Writer, props []pslyaml.Property) int {
	rejected := 0
	var letters []pslyaml.Property
	for _, p := range props {
		fragment := p.Fragment()
		frag := a.st.Fragment.Render("[" + fragment.String() + "]")
		if err := a.ws.session.Validate(p.Expr.Node); err != nil {
			rejected++
			fmt.Fprintf(w, "%s %s %s %v\n", a.st.Name.Render(p.Name+":"), frag, a.st.Err.Render("rejected:"), err)
			continue
		}
		verdict := a.st.OK.Render("ok")
		if fragment == psl.FragmentPropositional {
			if note := a.propositionalNote(p, letters); note != "" {
				verdict += " " + a.st.Muted.Render("("+note+")")
			}
			letters = append(letters, p)
		}
		fmt.Fprintf(w, "%s %s %s\n", a.st.Name.Render(p.Name+":"), frag, verdict)
	}
	return rejected
}

// propositionalNote reports whether p is constant or equivalent to one of
// the earlier propositional properties. Relations and arithmetic are opaque
// to the solver, so a missing note proves nothing.
func (a *app) propositionalNote(p pslyaml.Property, earlier []pslyaml.Property) string {
	var sat boolsat.Checker
	st := a.ws.session.Store()
	same := func(other *psl.Node) bool {
		eq, err := sat.Equivalent(p.Expr.Node, other)
		if err != nil {
			a.log.WithFields(logrus.Fields{"property": p.Name}).WithError(err).Debug("equivalence check skipped")
			return false
		}
		return eq
	}
	switch {
	case same(st.True()):
		return "always true"
	case same(st.False()):
		return "never true"
	}
	for _, q := range earlier {
		if same(q.Expr.Node) {
			return "same as " + q.Name
		}
	}
	return ""
}
