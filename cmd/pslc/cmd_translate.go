package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"psl-tools/cmd/pslc/psl"
	"psl-tools/cmd/pslc/pslyaml"

	"github.com/shirou/gopsutil/v4/process"
	"github.com/spf13/cobra"
)

var translateCmd = &cobra.Command{
	Use:   "translate [name ...]",
	Short: "Translate properties to LTL or CTL",
	Long: "Translate the named properties, or all loaded properties when no name\n" +
		"is given. FL properties have their SEREs removed and become LTL, OBE\n" +
		"properties become CTL. Each line reads `name: [fragment] output`.\n\n" +
		"A property that fails is reported on stderr and the remaining ones are\n" +
		"still translated.",
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

		start := time.Now()
		failed := a.translateAll(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), props, a.ws.session.Options().Conv)
		if stats, _ := cmd.Flags().GetBool("stats"); stats {
			if err := a.printStats(cmd.ErrOrStderr(), props, time.Since(start)); err != nil {
				return err
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d properties failed", failed, len(props))
		}
		return nil
	},
}

func init() {
	translateCmd.Flags().Bool("stats", false, "report node count, memory and timing on stderr")
}

// translateAll writes one result line per property to out and each failure to
// errOut. It returns the number of failures.
func (a *app) translateAll(ctx context.Context, out, errOut io.Writer, props []pslyaml.Property, conv psl.ConvType) int {
	failed := 0
	for _, p := range props {
		res, err := a.ws.translate(ctx, p, conv)
		if err != nil {
			if ctx.Err() != nil {
				a.st.report(errOut, ctx.Err())
				return failed + 1
			}
			a.st.report(errOut, err)
			failed++
			continue
		}
		fmt.Fprintln(out, a.st.resultLine(p.Name, res))
	}
	return failed
}

// printStats reports the input size of props next to what the store holds
// after translating them.
func (a *app) printStats(w io.Writer, props []pslyaml.Property, elapsed time.Duration) error {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return fmt.Errorf("reading process stats: %w", err)
	}
	mem, err := proc.MemoryInfo()
	if err != nil {
		return fmt.Errorf("reading process memory: %w", err)
	}
	input := 0
	for _, p := range props {
		input += psl.Size(p.Expr.Node)
	}
	fmt.Fprintln(w, a.st.Muted.Render(fmt.Sprintf(
		"%d properties (%d input nodes) in %s, %d nodes interned, rss %.1f MiB",
		len(props), input, elapsed.Round(time.Microsecond), a.ws.session.Store().Len(), float64(mem.RSS)/(1<<20))))
	return nil
}
