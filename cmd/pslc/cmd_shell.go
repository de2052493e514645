package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Explore properties in an interactive shell",
	Long: "Start a shell over the loaded properties with tab completion of\n" +
		"commands and property names. History is kept in <config>/history.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(a.configDir, 0o755); err != nil {
			a.log.WithError(err).Warn("history disabled")
		}

		rl, err := readline.NewEx(&readline.Config{
			Prompt:          a.st.Name.Render(appName+">") + " ",
			HistoryFile:     filepath.Join(a.configDir, "history"),
			AutoComplete:    shellCompleter(a.ws.names),
			InterruptPrompt: "^C",
			EOFPrompt:       "quit",
		})
		if err != nil {
			return err
		}
		defer rl.Close()

		sh := &shell{ctx: cmd.Context(), app: a}
		for {
			line, err := rl.Readline()
			if errors.Is(err, readline.ErrInterrupt) {
				if line == "" {
					return nil
				}
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			err = sh.exec(rl.Stdout(), line)
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				a.st.report(rl.Stderr(), err)
			}
		}
	},
}

// shellCompleter completes command names and, for commands taking one,
// property names.
func shellCompleter(names func() []string) *readline.PrefixCompleter {
	dynamic := readline.PcItemDynamic(func(string) []string { return names() })
	cmds := make([]string, 0, len(shellCommands))
	for name := range shellCommands {
		cmds = append(cmds, name)
	}
	sort.Strings(cmds)

	items := make([]readline.PrefixCompleterInterface, 0, len(cmds))
	for _, name := range cmds {
		if shellCommands[name].named {
			items = append(items, readline.PcItem(name, dynamic))
			continue
		}
		items = append(items, readline.PcItem(name))
	}
	return readline.NewPrefixCompleter(items...)
}
