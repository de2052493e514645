package main

import (
	"os"
	"strings"

	"psl-tools/cmd/pslc/psl"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Normalize and translate PSL properties",
	Long: appName + " loads PSL properties from YAML files, removes SEREs and\n" +
		"translates them to LTL or CTL in PSL or SMV syntax.\n\n" +
		"Property files are read from <config>/properties/*.yml, $" + envProperties + "\n" +
		"and --file, in that order.",
}

var (
	flagFiles      []string
	flagDebug      bool
	flagConv       = convFlag{psl.PSL2SMV}
	flagRangedNext string
	flagPrune      bool
	flagNoColor    bool
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringArrayVarP(&flagFiles, "file", "f", nil, "property YAML file (repeatable)")
	pf.BoolVar(&flagDebug, "debug", false, "log pipeline phases to stderr")
	pf.Var(&flagConv, "conv", "output vocabulary: psl2smv or psl2psl")
	pf.StringVar(&flagRangedNext, "ranged-next", "", "ranged next unrolling: flat or distributed")
	pf.BoolVar(&flagPrune, "prune", false, "drop unsatisfiable sequence letters with the SAT checker")
	pf.BoolVar(&flagNoColor, "no-color", false, "disable styled output")
}

// convFlag is a pflag.Value restricted to the conversions a PSL input allows.
type convFlag struct{ conv psl.ConvType }

var _ pflag.Value = (*convFlag)(nil)

func (f *convFlag) String() string { return f.conv.String() }

func (f *convFlag) Type() string { return "conv" }

func (f *convFlag) Set(s string) error {
	c, err := psl.ParseConvType(strings.ToLower(s))
	if err != nil {
		return err
	}
	if c == psl.SMV2PSL {
		return errSMVInput
	}
	f.conv = c
	return nil
}

// app is what every command works with once flags and config are resolved.
type app struct {
	configDir string
	cfg       Config
	ws        *workspace
	st        styles
	log       *logrus.Logger
}

// setup resolves the config, applies flag overrides and loads every property
// file.
func setup(cmd *cobra.Command) (*app, error) {
	a, err := setupConfig(cmd)
	if err != nil {
		return nil, err
	}
	files, err := resolvePropertyFiles(a.configDir, flagFiles)
	if err != nil {
		return nil, err
	}
	if err := a.ws.load(files); err != nil {
		return nil, err
	}
	return a, nil
}

// setupConfig is setup without loading property files.
func setupConfig(cmd *cobra.Command) (*app, error) {
	dir, err := resolveConfigDir()
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig(dir)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("conv") {
		cfg.Conv = flagConv.String()
	}
	if flags.Changed("ranged-next") {
		cfg.RangedNext = flagRangedNext
	}
	if flags.Changed("prune") {
		cfg.PruneLetters = flagPrune
	}
	if flagNoColor {
		off := false
		cfg.Color = &off
	}

	log := newLogger(flagDebug)
	ws, err := newWorkspace(cfg, log)
	if err != nil {
		return nil, err
	}
	return &app{configDir: dir, cfg: cfg, ws: ws, st: newStyles(cfg.UseColor()), log: log}, nil
}

func newLogger(debug bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(logrus.WarnLevel)
	if debug {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// completeNames completes property names for commands taking them as
// arguments.
func completeNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	a, err := setup(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var out []string
	for _, name := range a.ws.names() {
		if strings.HasPrefix(name, toComplete) {
			out = append(out, name)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
