package main

import (
	"context"
	"errors"
	"fmt"

	"psl-tools/cmd/pslc/psl"
	"psl-tools/cmd/pslc/pslyaml"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Select a property interactively and translate it",
	Long: "Open a fuzzy finder over the loaded properties. The preview shows the\n" +
		"source expression and its translation; the selected one is printed.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		p, err := a.pick()
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil
		}
		if err != nil {
			return err
		}
		res, err := a.ws.translate(cmd.Context(), p, a.ws.session.Options().Conv)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), a.st.resultLine(p.Name, res))
		return nil
	},
}

// pick lets the user select a property with go-fuzzyfinder.
func (a *app) pick() (pslyaml.Property, error) {
	props := a.ws.props
	if len(props) == 0 {
		return pslyaml.Property{}, errors.New("no properties loaded")
	}
	conv := a.ws.session.Options().Conv
	idx, err := fuzzyfinder.Find(
		props,
		func(i int) string {
			return props[i].Name
		},
		fuzzyfinder.WithPromptString("Select property: "),
		fuzzyfinder.WithPreviewWindow(func(i, width, height int) string {
			if i < 0 {
				return ""
			}
			return a.preview(props[i], conv)
		}),
	)
	if err != nil {
		return pslyaml.Property{}, err
	}
	return props[idx], nil
}

func (a *app) preview(p pslyaml.Property, conv psl.ConvType) string {
	text := fmt.Sprintf("%s  [%s]  %s\n\n%s\n", p.Name, p.Fragment(), p.Pos, psl.Print(p.Expr.Node))
	res, err := a.ws.session.TranslateTo(context.Background(), p.Expr.Node, conv)
	if err != nil {
		return text + "\nerror: " + err.Error()
	}
	return text + "\n=> " + psl.Print(res.Output)
}
