package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const configInitHeader = "# " + appName + " configuration\n" +
	"# conv:          psl2smv (SMV syntax) or psl2psl (PSL syntax)\n" +
	"# ranged_next:   flat or distributed unrolling of next_a/next_e\n" +
	"# prune_letters: drop unsatisfiable sequence letters with a SAT check\n" +
	"# max_depth:     reject properties nested deeper than this (0: default)\n" +
	"# color:         force styled output on or off\n\n"

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialise the " + appName + " config directory with starter files",
	Long: "Create the config directory with a config.yml holding the defaults and\n" +
		"properties/example.yml so the commands are immediately usable.\n\n" +
		"Existing files are only replaced after confirmation, or with --force.\n\n" +
		"The default config directory is resolved as:\n" +
		"  $" + envConfigDir + " > $XDG_CONFIG_HOME/" + appName + " > ~/.config/" + appName,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			var err error
			if dir, err = resolveConfigDir(); err != nil {
				return err
			}
		}

		propsDir := filepath.Join(dir, "properties")
		if err := os.MkdirAll(propsDir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", propsDir, err)
		}

		cfg, err := yaml.Marshal(defaultConfig())
		if err != nil {
			return err
		}
		files := []struct {
			path    string
			header  string
			content []byte
		}{
			{filepath.Join(dir, "config.yml"), configInitHeader, cfg},
			{filepath.Join(propsDir, "example.yml"), exampleHeader, exampleYAML},
		}

		allow := confirmOverwrite
		if force {
			allow = func(string) bool { return true }
		}

		w := cmd.ErrOrStderr()
		for _, f := range files {
			written, err := writeInitFile(f.path, f.header, f.content, allow)
			if err != nil {
				return err
			}
			if !written {
				fmt.Fprintf(w, "kept %s\n", f.path)
				continue
			}
			fmt.Fprintf(w, "wrote %s\n", f.path)
		}
		fmt.Fprintf(w, "\nRun `%s list` to see the example properties.\n", appName)
		return nil
	},
}

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite existing files without asking")
	configInitCmd.Flags().String("dir", "", "target config directory (default: auto-resolved)")
}

// confirmOverwrite asks on the terminal whether an existing file may be
// replaced. Any prompt failure, such as no terminal, counts as no.
func confirmOverwrite(path string) bool {
	ok := false
	err := huh.NewConfirm().
		Title(fmt.Sprintf("%s already exists. Overwrite?", path)).
		Affirmative("Overwrite").
		Negative("Keep").
		Value(&ok).
		Run()
	return err == nil && ok
}

// writeInitFile writes header and content to path. When path exists, allow
// decides whether it is replaced. It reports whether the file was written.
func writeInitFile(path, header string, content []byte, allow func(string) bool) (bool, error) {
	if _, err := os.Stat(path); err == nil && !allow(path) {
		return false, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return false, fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if header != "" {
		fmt.Fprint(f, header)
	}
	if _, err := f.Write(content); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}
