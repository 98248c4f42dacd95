package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/poolkit/internal/logger"
	"github.com/joshuapare/poolkit/mempool"
)

var (
	stressBlocks    int
	stressSize      int
	stressThreshold int
	stressPoison    bool
)

func init() {
	cmd := newStressCmd()
	cmd.Flags().IntVar(&stressBlocks, "blocks", mempool.MaxBlocks+100, "Number of blocks to allocate")
	cmd.Flags().IntVar(&stressSize, "size", 64, "Size of each block in bytes")
	cmd.Flags().IntVar(&stressThreshold, "mmap-threshold", 0, "Map blocks of at least this size with mmap (0 disables)")
	cmd.Flags().BoolVar(&stressPoison, "poison", false, "Poison released block memory")
	rootCmd.AddCommand(cmd)
}

func newStressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Fill a pool to exercise growth and the block cap",
		Long: `The stress command allocates blocks into a single pool until the requested
count is reached or the pool refuses, then clears the pool in bulk and
reports what happened along the way.

Example:
  poolctl stress
  poolctl stress --blocks 1000 --size 1048576 --mmap-threshold 65536`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress()
		},
	}
	return cmd
}

// StressReport describes one stress run.
type StressReport struct {
	Requested   int       `json:"requested"`
	Allocated   int       `json:"allocated"`
	CapHit      bool      `json:"capHit"`
	Growths     []uint32  `json:"growths"`
	Peak        PoolShape `json:"peak"`
	AfterClear  PoolShape `json:"afterClear"`
	MappedPeak  int       `json:"mappedPeak,omitempty"`
	MappedAfter int       `json:"mappedAfter,omitempty"`
}

// PoolShape is the subset of pool statistics the stress report prints.
type PoolShape struct {
	BlockCount  uint32 `json:"blockCount"`
	Capacity    uint32 `json:"capacity"`
	LiveBlocks  int    `json:"liveBlocks"`
	TotalMemory int    `json:"totalMemory"`
}

func runStress() error {
	if stressSize <= 0 {
		return fmt.Errorf("--size must be positive, got %d", stressSize)
	}
	if stressBlocks < 0 {
		return fmt.Errorf("--blocks must not be negative, got %d", stressBlocks)
	}

	opts := mempool.DefaultOptions()
	opts.Poison = stressPoison
	var mm *mempool.MmapHeap
	if stressThreshold > 0 {
		if !mempool.MmapSupported() {
			logger.Warn("mmap heap not supported on this platform, using Go heap")
		}
		mm = mempool.NewMmapHeap(stressThreshold)
		opts.Heap = mm
	}
	reg := mempool.NewRegistry(opts)
	defer reg.DestroyAll()

	report := stressPool(reg, stressBlocks, stressSize)

	if jsonOut {
		return printJSON(report)
	}
	printInfo("Requested %d blocks of %s\n", report.Requested, formatBytes(int64(stressSize)))
	printInfo("  Allocated: %d\n", report.Allocated)
	if report.CapHit {
		printInfo("  Block cap reached at %d slots\n", mempool.MaxBlocks)
	}
	printInfo("  Capacity growth: %s\n", formatGrowths(report.Growths))
	printInfo("  Peak: %d slots, %d live, %s\n",
		report.Peak.BlockCount, report.Peak.LiveBlocks, formatBytes(int64(report.Peak.TotalMemory)))
	printInfo("  After clear: %d slots, capacity %d, %s\n",
		report.AfterClear.BlockCount, report.AfterClear.Capacity, formatBytes(int64(report.AfterClear.TotalMemory)))
	if mm != nil {
		printVerbose("  Mapped blocks: %d at peak, %d after clear\n", report.MappedPeak, report.MappedAfter)
	}
	return nil
}

func stressPool(reg *mempool.Registry, blocks, size int) StressReport {
	res := StressReport{Requested: blocks}
	mm, _ := reg.Heap().(*mempool.MmapHeap)

	p := reg.Get(0)
	capacity := p.Capacity()
	res.Growths = append(res.Growths, capacity)
	for i := 0; i < blocks; i++ {
		h := reg.Alloc(size, 0)
		if h.IsNull() {
			res.CapHit = p.BlockCount() == mempool.MaxBlocks
			logger.Info("allocation refused", "attempt", i, "blockCount", p.BlockCount())
			break
		}
		res.Allocated++
		if c := p.Capacity(); c != capacity {
			capacity = c
			res.Growths = append(res.Growths, c)
			logger.Debug("pool grew", "capacity", c)
		}
	}
	res.Peak = shapeOf(p.Stats())
	if mm != nil {
		res.MappedPeak = mm.Mapped()
	}

	reg.Clear(0)
	res.AfterClear = shapeOf(p.Stats())
	if mm != nil {
		res.MappedAfter = mm.Mapped()
	}
	return res
}

func shapeOf(st mempool.PoolStats) PoolShape {
	return PoolShape{
		BlockCount:  st.BlockCount,
		Capacity:    st.Capacity,
		LiveBlocks:  st.LiveBlocks,
		TotalMemory: st.TotalMemory,
	}
}

func formatGrowths(g []uint32) string {
	parts := make([]string, len(g))
	for i, c := range g {
		parts[i] = fmt.Sprintf("%d", c)
	}
	return strings.Join(parts, " -> ")
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
