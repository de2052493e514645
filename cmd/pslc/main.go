package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"psl-tools/pkg/lib"
)

func main() {
	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(traceCmd)
	rootCmd.AddCommand(pickCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(exampleCmd)
	rootCmd.AddCommand(configCmd)

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		label := newStyles(!flagNoColor && defaultConfig().UseColor()).Err.Render("Error:")
		if isFlagError(err) {
			lib.Report(os.Stderr, label, err)
			fmt.Fprintln(os.Stderr, "\nhint: run '"+appName+" <command> --help' for the accepted flags")
			os.Exit(1)
		}
		lib.ExitWith(os.Stderr, label, err)
	}
}

// isFlagError reports whether cobra rejected a flag.
func isFlagError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "unknown flag:") || strings.Contains(msg, "unknown shorthand flag:")
}
