package main

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"
	"golang.org/x/text/encoding"

	"github.com/joshuapare/poolkit/host"
	"github.com/joshuapare/poolkit/internal/logger"
	"github.com/joshuapare/poolkit/mempool"
	"github.com/joshuapare/poolkit/strpool"
)

var (
	internEncoding string
	internKeep     string
)

func init() {
	cmd := newInternCmd()
	cmd.Flags().StringVar(&internEncoding, "encoding", "utf-8", "Input encoding: utf-8, windows-1252, latin1, utf-16le, utf-16be")
	cmd.Flags().StringVar(&internKeep, "keep", "", "Regexp of tokens interned into the permanent pool 0")
	rootCmd.AddCommand(cmd)
}

func newInternCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "intern <file>...",
		Short: "Intern the tokens of text files",
		Long: `The intern command splits each file into whitespace-separated tokens and
interns them into a scratch pool that is released once the file is done.
Tokens matching --keep go to the permanent pool 0 instead and survive
across files.

Example:
  poolctl intern main.src util.src
  poolctl intern legacy.txt --encoding windows-1252
  poolctl intern *.asm --keep '^[A-Z]+$' --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIntern(args)
		},
	}
	return cmd
}

// FileReport summarizes the interning of one file.
type FileReport struct {
	Path   string             `json:"path"`
	Pool   uint8              `json:"pool"`
	Tokens int                `json:"tokens"`
	Unique int                `json:"unique"`
	Kept   int                `json:"kept"`
	Table  strpool.TableStats `json:"table"`
	Bytes  int                `json:"bytes"`
}

// InternReport is the full result of an intern run.
type InternReport struct {
	Files     []FileReport       `json:"files"`
	Permanent strpool.TableStats `json:"permanent"`
}

func runIntern(args []string) error {
	enc, err := lookupEncoding(internEncoding)
	if err != nil {
		return err
	}
	var keep *regexp.Regexp
	if internKeep != "" {
		if keep, err = regexp.Compile(internKeep); err != nil {
			return fmt.Errorf("invalid --keep pattern: %w", err)
		}
	}

	rt := host.New(nil)
	defer rt.Close()

	report := InternReport{}
	for _, path := range args {
		fr, err := internFile(rt, path, enc, keep)
		if err != nil {
			return err
		}
		report.Files = append(report.Files, fr)
	}
	report.Permanent = rt.Strings.PoolStats(0)

	if jsonOut {
		return printJSON(report)
	}
	for _, fr := range report.Files {
		printInfo("%s: %d tokens, %d unique, %d kept (pool %d, %s)\n",
			fr.Path, fr.Tokens, fr.Unique, fr.Kept, fr.Pool, formatBytes(int64(fr.Bytes)))
		printVerbose("  table: %d entries, %d / %d bins, max chain %d, avg chain %.2f\n",
			fr.Table.Entries, fr.Table.UsedBuckets, strpool.NumBuckets, fr.Table.MaxChain, fr.Table.AvgChain)
	}
	if keep != nil {
		printInfo("permanent pool: %d entries\n", report.Permanent.Entries)
	}
	return nil
}

// internFile interns one file inside its own scratch pool.
func internFile(rt *host.Runtime, path string, enc encoding.Encoding, keep *regexp.Regexp) (FileReport, error) {
	fr := FileReport{Path: path}

	tokens, err := readTokens(path, enc)
	if err != nil {
		return fr, err
	}

	scratch, err := rt.AcquireScratch()
	if err != nil {
		return fr, fmt.Errorf("%s: %w", path, err)
	}
	fr.Pool = scratch.Pool()
	logger.Debug("scratch pool acquired", "file", path, "pool", fr.Pool, "tokens", len(tokens))

	err = scratch.Run(func() error {
		seen := make(map[mempool.Handle]struct{}, len(tokens))
		for _, tok := range tokens {
			var h mempool.Handle
			if keep != nil && keep.MatchString(tok) {
				h = rt.Strings.InternString(0, tok)
				if h.IsNull() {
					return fmt.Errorf("token %q: %w", tok, host.ErrOutOfMemory)
				}
				fr.Kept++
			} else {
				var err error
				if h, err = rt.Intern(tok); err != nil {
					return fmt.Errorf("token %q: %w", tok, err)
				}
			}
			seen[h] = struct{}{}
		}
		fr.Tokens = len(tokens)
		fr.Unique = len(seen)
		fr.Table = rt.Strings.PoolStats(fr.Pool)
		fr.Bytes = rt.Pools.Get(fr.Pool).TotalMemory()
		return nil
	})
	if err != nil {
		logger.Error("intern failed", "file", path, "error", err)
		return fr, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("scratch pool released", "file", path, "pool", fr.Pool)
	return fr, nil
}
