package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"psl-tools/cmd/pslc/boolsat"
	"psl-tools/cmd/pslc/psl"
	"psl-tools/cmd/pslc/pslyaml"

	"github.com/sirupsen/logrus"
)

// workspace is the loaded state shared by every command: one session and the
// properties of all property files.
type workspace struct {
	cfg     Config
	session *psl.Session
	props   []pslyaml.Property
	byName  map[string]int
	log     logrus.FieldLogger
}

func newWorkspace(cfg Config, log logrus.FieldLogger) (*workspace, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	opts.Logger = log
	if cfg.PruneLetters {
		opts.Letters = boolsat.Checker{}
	}
	return &workspace{
		cfg:     cfg,
		session: psl.NewSession(nil, opts),
		byName:  make(map[string]int),
		log:     log,
	}, nil
}

// load adds the properties of files to the workspace.
func (w *workspace) load(files []string) error {
	props, err := pslyaml.Load(w.session, files...)
	if err != nil {
		return err
	}
	for _, p := range props {
		if _, ok := w.byName[p.Name]; ok {
			return fmt.Errorf("property %q is already loaded", p.Name)
		}
		w.byName[p.Name] = len(w.props)
		w.props = append(w.props, p)
	}
	w.log.WithFields(logrus.Fields{"files": len(files), "properties": len(props)}).Debug("loaded")
	return nil
}

// find returns the named properties in the order given, or every property
// when names is empty.
func (w *workspace) find(names []string) ([]pslyaml.Property, error) {
	if len(names) == 0 {
		return w.props, nil
	}
	out := make([]pslyaml.Property, 0, len(names))
	for _, name := range names {
		i, ok := w.byName[name]
		if !ok {
			return nil, notFoundError(name, w.names())
		}
		out = append(out, w.props[i])
	}
	return out, nil
}

func (w *workspace) get(name string) (pslyaml.Property, error) {
	props, err := w.find([]string{name})
	if err != nil {
		return pslyaml.Property{}, err
	}
	return props[0], nil
}

// names returns the property names in load order.
func (w *workspace) names() []string {
	out := make([]string, len(w.props))
	for i, p := range w.props {
		out[i] = p.Name
	}
	return out
}

func (w *workspace) translate(ctx context.Context, p pslyaml.Property, conv psl.ConvType) (*psl.Result, error) {
	res, err := w.session.TranslateTo(ctx, p.Expr.Node, conv)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Name, err)
	}
	return res, nil
}

// notFoundError reports which property was not found and lists the valid ones.
func notFoundError(name string, available []string) error {
	sorted := append([]string(nil), available...)
	sort.Strings(sorted)
	return fmt.Errorf("property %q not found\navailable: %s", name, strings.Join(sorted, ", "))
}
