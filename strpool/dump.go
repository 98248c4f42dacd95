package strpool

import (
	"bufio"
	"fmt"
	"io"

	"github.com/joshuapare/poolkit/internal/layout"
	"github.com/joshuapare/poolkit/mempool"
)

// dumpPreview is the number of bytes of each string shown by DumpPool.
const dumpPreview = 40

// TableStats describes the hash distribution of one pool's interning table.
type TableStats struct {
	Initialized bool
	Entries     int
	UsedBuckets int
	MaxChain    int
	AvgChain    float64
}

// PoolStats walks every bucket chain of pool.
func (in *Interner) PoolStats(pool uint8) TableStats {
	if !in.Initialized(pool) {
		return TableStats{}
	}
	st := TableStats{Initialized: true}
	for i := range in.tables[pool].heads {
		n := 0
		in.walk(pool, i, func(layout.Entry) { n++ })
		if n == 0 {
			continue
		}
		st.UsedBuckets++
		st.Entries += n
		st.MaxChain = max(st.MaxChain, n)
	}
	if st.UsedBuckets > 0 {
		st.AvgChain = float64(st.Entries) / float64(st.UsedBuckets)
	}
	return st
}

// DumpPool writes a human-readable report of pool's interning table to w,
// followed by every interned string in bucket order.
func (in *Interner) DumpPool(w io.Writer, pool uint8) error {
	bw := bufio.NewWriter(w)
	in.dumpPool(bw, pool)
	return bw.Flush()
}

// DumpAll writes DumpPool reports for every initialized pool.
func (in *Interner) DumpAll(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "StringPool State Summary:")
	found := false
	for i := range mempool.MaxPools {
		if in.Initialized(uint8(i)) {
			in.dumpPool(bw, uint8(i))
			found = true
		}
	}
	if !found {
		fmt.Fprintln(bw, "  No pools initialized")
	}
	return bw.Flush()
}

func (in *Interner) dumpPool(bw *bufio.Writer, pool uint8) {
	st := in.PoolStats(pool)
	if !st.Initialized {
		fmt.Fprintf(bw, "Pool %d: not initialized\n", pool)
		return
	}
	fmt.Fprintf(bw, "Pool %d: initialized\n", pool)
	fmt.Fprintf(bw, "  Total entries: %d\n", st.Entries)
	fmt.Fprintf(bw, "  Used bins: %d / %d\n", st.UsedBuckets, NumBuckets)
	fmt.Fprintf(bw, "  Max chain length: %d\n", st.MaxChain)
	fmt.Fprintf(bw, "  Average chain length: %.2f\n", st.AvgChain)
	fmt.Fprintln(bw, "  All strings:")

	n := 0
	for i := range in.tables[pool].heads {
		in.walk(pool, i, func(e layout.Entry) {
			rec, err := layout.DecodeStorage(in.reg.Bytes(e.Storage))
			if err != nil {
				return
			}
			fmt.Fprintf(bw, "    [%d] hash=0x%08x len=%d \"", n, e.Hash, rec.LenB)
			writeEscaped(bw, rec.Data, dumpPreview)
			bw.WriteString("\"\n")
			n++
		})
	}
}

func (in *Interner) walk(pool uint8, b int, fn func(layout.Entry)) {
	for ref := in.tables[pool].heads[b]; !ref.IsNull(); {
		e, err := layout.DecodeEntry(in.reg.Bytes(ref))
		if err != nil {
			return
		}
		fn(e)
		ref = e.Next
	}
}

// writeEscaped writes at most limit bytes of data with C-style escapes for
// quotes, backslashes and non-printable bytes, then "..." if truncated.
func writeEscaped(bw *bufio.Writer, data []byte, limit int) {
	for i, c := range data {
		if i >= limit {
			break
		}
		switch {
		case c == '"':
			bw.WriteString(`\"`)
		case c == '\\':
			bw.WriteString(`\\`)
		case c == '\n':
			bw.WriteString(`\n`)
		case c == '\r':
			bw.WriteString(`\r`)
		case c == '\t':
			bw.WriteString(`\t`)
		case c >= 32 && c < 127:
			bw.WriteByte(c)
		default:
			fmt.Fprintf(bw, `\x%02x`, c)
		}
	}
	if len(data) > limit {
		bw.WriteString("...")
	}
}
