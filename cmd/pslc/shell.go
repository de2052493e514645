package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"psl-tools/cmd/pslc/psl"
)

var errQuit = errors.New("quit")

// shellCommand is one command of the interactive shell.
type shellCommand struct {
	usage string
	help  string
	// named commands take a property name as their only argument.
	named bool
	run   func(sh *shell, w io.Writer, args []string) error
}

var shellCommands = map[string]shellCommand{
	"list": {usage: "list", help: "list loaded properties", run: func(sh *shell, w io.Writer, _ []string) error {
		sh.app.printProperties(w, sh.app.ws.props)
		return nil
	}},
	"show": {usage: "show <name>", help: "print a property, its fragment and its SMV spelling", named: true, run: (*shell).show},
	"ltl": {usage: "ltl <name>", help: "translate an FL property to SMV LTL", named: true, run: func(sh *shell, w io.Writer, args []string) error {
		return sh.translate(w, args[0], psl.PSL2SMV, psl.FragmentLTL)
	}},
	"ctl": {usage: "ctl <name>", help: "translate an OBE property to SMV CTL", named: true, run: func(sh *shell, w io.Writer, args []string) error {
		return sh.translate(w, args[0], psl.PSL2SMV, psl.FragmentCTL)
	}},
	"psl": {usage: "psl <name>", help: "translate a property keeping PSL syntax", named: true, run: func(sh *shell, w io.Writer, args []string) error {
		return sh.translate(w, args[0], psl.PSL2PSL)
	}},
	"trace": {usage: "trace <name>", help: "print the rewrite steps of a translation", named: true, run: (*shell).trace},
	"quit":  {usage: "quit", help: "leave the shell", run: func(*shell, io.Writer, []string) error { return errQuit }},
}

func init() {
	shellCommands["help"] = shellCommand{usage: "help", help: "show this help", run: (*shell).help}
}

// shell dispatches interactive command lines against a loaded workspace.
type shell struct {
	ctx context.Context
	app *app
}

// exec runs one command line. It returns errQuit when the shell should stop.
func (sh *shell) exec(w io.Writer, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name, args := fields[0], fields[1:]
	if name == "exit" {
		name = "quit"
	}
	c, ok := shellCommands[name]
	if !ok {
		return fmt.Errorf("unknown command %q, try help", name)
	}
	if c.named && len(args) != 1 {
		return fmt.Errorf("usage: %s", c.usage)
	}
	if !c.named && len(args) != 0 {
		return fmt.Errorf("usage: %s", c.usage)
	}
	return c.run(sh, w, args)
}

func (sh *shell) show(w io.Writer, args []string) error {
	p, err := sh.app.ws.get(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %s %s\n  %s\n",
		sh.app.st.Name.Render(p.Name+":"),
		sh.app.st.Fragment.Render("["+p.Fragment().String()+"]"),
		sh.app.st.Muted.Render(p.Pos.String()),
		psl.Print(p.Expr.Node))
	// Operator renaming only; SEREs and PSL-only operators have no SMV form.
	if smv, err := psl.Convert(sh.app.ws.session.Store(), p.Expr.Node, psl.PSL2SMV); err == nil {
		fmt.Fprintf(w, "  %s %s\n", sh.app.st.Muted.Render("smv:"), psl.Print(smv))
	}
	return nil
}

// translate translates a property. A fragment restricts which properties are
// accepted; propositional ones always are.
func (sh *shell) translate(w io.Writer, name string, conv psl.ConvType, only ...psl.Fragment) error {
	p, err := sh.app.ws.get(name)
	if err != nil {
		return err
	}
	if frag := p.Fragment(); len(only) > 0 && frag != only[0] && frag != psl.FragmentPropositional {
		return fmt.Errorf("%s is %s, not %s", name, frag, only[0])
	}
	res, err := sh.app.ws.translate(sh.ctx, p, conv)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, sh.app.st.resultLine(p.Name, res))
	return nil
}

func (sh *shell) trace(w io.Writer, args []string) error {
	p, err := sh.app.ws.get(args[0])
	if err != nil {
		return err
	}
	res, err := sh.app.ws.translate(sh.ctx, p, sh.app.ws.session.Options().Conv)
	if err != nil {
		return err
	}
	fmt.Fprint(w, sh.app.st.stepsText(p, res))
	return nil
}

func (sh *shell) help(w io.Writer, _ []string) error {
	names := make([]string, 0, len(shellCommands))
	for name := range shellCommands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := shellCommands[name]
		fmt.Fprintf(w, "  %-14s %s\n", c.usage, sh.app.st.Muted.Render(c.help))
	}
	return nil
}
