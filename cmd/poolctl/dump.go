package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/poolkit/host"
)

var (
	dumpEncoding string
	dumpPool     uint8
)

func init() {
	cmd := newDumpCmd()
	cmd.Flags().StringVar(&dumpEncoding, "encoding", "utf-8", "Input encoding: utf-8, windows-1252, latin1, utf-16le, utf-16be")
	cmd.Flags().Uint8Var(&dumpPool, "pool", 0, "Pool to intern into and dump")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Intern a file and print the interning table",
		Long: `The dump command interns every token of a file into one pool and prints
the table diagnostics: entry count, bucket occupancy, chain lengths, and
every interned string.

Example:
  poolctl dump main.src
  poolctl dump main.src --pool 3 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args)
		},
	}
	return cmd
}

func runDump(args []string) error {
	enc, err := lookupEncoding(dumpEncoding)
	if err != nil {
		return err
	}
	tokens, err := readTokens(args[0], enc)
	if err != nil {
		return err
	}

	rt := host.New(&host.Options{DefaultPool: dumpPool})
	defer rt.Close()

	for _, tok := range tokens {
		if _, err := rt.Intern(tok); err != nil {
			return fmt.Errorf("token %q: %w", tok, err)
		}
	}
	printVerbose("Interned %d tokens from %s\n", len(tokens), args[0])

	if jsonOut {
		return printJSON(rt.Strings.PoolStats(dumpPool))
	}
	if quiet {
		return nil
	}
	return rt.Strings.DumpPool(os.Stdout, dumpPool)
}
