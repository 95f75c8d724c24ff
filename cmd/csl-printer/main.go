// Command csl-printer is the offline half of csl: it loads the emitting
// program's own binary, rediscovers its emit-site metadata by scanning the
// binary's image, and replays a trace file produced by that program into
// one of several human-readable formats.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/csllog/csl/format"
	"github.com/csllog/csl/replay"
)

var opts replay.Options

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "csl-printer --program executable --log logfile",
	Short: "csl-printer decodes a csl binary trace back into readable output",
	Long: fmt.Sprintf(`csl-printer decodes a csl binary trace back into readable output.

It works by opening the emitting program's own compiled binary, scanning its
data section for the metadata records csl embedded at compile time, and
matching each trace entry back to the record that produced it.

Available formats: %s`, strings.Join(formatNamesWithDefault(), ", ")),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !formatSupported(opts.Format) {
			return fmt.Errorf("unknown target format %q\navailable formats: %s", opts.Format, strings.Join(formatNamesWithDefault(), ", "))
		}

		result, err := replay.Run(opts)
		if err != nil {
			return err
		}

		fmt.Printf("Wrote %s messages to file %s\n", humanize.Comma(int64(result.MessageCount)), result.Outfile)
		return nil
	},
}

func formatNamesWithDefault() []string {
	names := format.Names()
	out := make([]string, len(names))
	for i, n := range names {
		if i == 0 {
			out[i] = n + " (default)"
		} else {
			out[i] = n
		}
	}
	return out
}

func formatSupported(name string) bool {
	for _, n := range format.Names() {
		if n == name {
			return true
		}
	}
	return false
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&opts.ProgramPath, "program", "", "path to the emitting executable (required)")
	flags.StringVar(&opts.LogPath, "log", "", "path to the binary trace (required)")
	flags.StringVar(&opts.Format, "format", "string", "output format: "+strings.Join(format.Names(), ", "))
	flags.StringVar(&opts.Outfile, "outfile", "", "output file (default depends on --format)")
	flags.BoolVar(&opts.Strict, "strict", false, "reject the trace if its build id doesn't match --program")
	flags.BoolVar(&opts.Verbose, "verbose", false, "log emit-site discovery details to stderr")

	rootCmd.MarkFlagRequired("program")
	rootCmd.MarkFlagRequired("log")
}
