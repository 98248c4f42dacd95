package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/poolkit/mempool"
)

func TestLookupEncoding(t *testing.T) {
	for _, name := range []string{"utf-8", "UTF-8", "windows-1252", "latin1", "utf-16le", "utf-16be"} {
		_, err := lookupEncoding(name)
		assert.NoError(t, err, name)
	}
	_, err := lookupEncoding("ebcdic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown encoding")
}

func TestScanTokens(t *testing.T) {
	tests := []struct {
		name     string
		encoding string
		input    []byte
		want     []string
	}{
		{
			name:     "utf-8",
			encoding: "utf-8",
			input:    []byte("  mov r1,  r2\n\tret \n"),
			want:     []string{"mov", "r1,", "r2", "ret"},
		},
		{
			name:     "windows-1252",
			encoding: "windows-1252",
			input:    []byte("caf\xe9 na\xefve \x80"),
			want:     []string{"café", "naïve", "€"},
		},
		{
			name:     "latin1",
			encoding: "latin1",
			input:    []byte("gr\xfc\xdf"),
			want:     []string{"grüß"},
		},
		{
			name:     "utf-16le",
			encoding: "utf-16le",
			input:    []byte{'h', 0, 'i', 0, ' ', 0, 'y', 0, 'o', 0},
			want:     []string{"hi", "yo"},
		},
		{
			name:     "utf-16be with BOM",
			encoding: "utf-16be",
			input:    []byte{0xFE, 0xFF, 0, 'o', 0, 'k'},
			want:     []string{"ok"},
		},
		{
			name:     "empty",
			encoding: "utf-8",
			input:    nil,
			want:     nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := lookupEncoding(tt.encoding)
			require.NoError(t, err)
			got, err := scanTokens(strings.NewReader(string(tt.input)), enc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadTokens_Missing(t *testing.T) {
	enc, _ := lookupEncoding("utf-8")
	_, err := readTokens("/nonexistent/input.src", enc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open")
}

func TestRunIntern(t *testing.T) {
	resetFlags()
	jsonOut = true
	internKeep = "^[A-Z]+$"

	a := writeInput(t, "a.src", []byte("PUSH x PUSH y add x y POP"))
	b := writeInput(t, "b.src", []byte("PUSH z z z"))

	out, err := captureOutput(t, func() error { return runIntern([]string{a, b}) })
	require.NoError(t, err)

	var report InternReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Files, 2)

	first := report.Files[0]
	assert.Equal(t, 8, first.Tokens)
	assert.Equal(t, 5, first.Unique)
	assert.Equal(t, 3, first.Kept)
	assert.Equal(t, uint8(1), first.Pool)
	// x, y, add plus the seeded empty record
	assert.Equal(t, 4, first.Table.Entries)

	second := report.Files[1]
	assert.Equal(t, 4, second.Tokens)
	assert.Equal(t, 2, second.Unique)
	assert.Equal(t, uint8(1), second.Pool, "scratch pool is reused")

	// PUSH and POP plus the seeded empty record
	assert.Equal(t, 3, report.Permanent.Entries)
}

func TestRunIntern_Text(t *testing.T) {
	resetFlags()
	path := writeInput(t, "in.src", []byte("a b a"))

	out, err := captureOutput(t, func() error { return runIntern([]string{path}) })
	require.NoError(t, err)
	assert.Contains(t, out, "3 tokens, 2 unique, 0 kept (pool 1")
	assert.NotContains(t, out, "permanent pool")

	quiet = true
	out, err = captureOutput(t, func() error { return runIntern([]string{path}) })
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRunIntern_Errors(t *testing.T) {
	resetFlags()
	path := writeInput(t, "in.src", []byte("a"))

	internEncoding = "klingon"
	require.Error(t, runIntern([]string{path}))

	resetFlags()
	internKeep = "("
	err := runIntern([]string{path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --keep pattern")
}

func TestRunDump(t *testing.T) {
	resetFlags()
	path := writeInput(t, "in.src", []byte("hello world hello \"quoted\""))

	out, err := captureOutput(t, func() error { return runDump([]string{path}) })
	require.NoError(t, err)
	assert.Contains(t, out, "Pool 0: initialized")
	assert.Contains(t, out, "  Total entries: 4\n")
	assert.Contains(t, out, `len=5 "hello"`)
	assert.Contains(t, out, `len=8 "\"quoted\""`)

	dumpPool = 9
	jsonOut = true
	out, err = captureOutput(t, func() error { return runDump([]string{path}) })
	require.NoError(t, err)
	var st map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, true, st["Initialized"])
	assert.InDelta(t, 4, st["Entries"], 0)
}

func TestStressPool_CapAndGrowth(t *testing.T) {
	reg := mempool.NewRegistry(nil)
	defer reg.DestroyAll()

	r := stressPool(reg, mempool.MaxBlocks+10, 8)
	assert.Equal(t, mempool.MaxBlocks-1, r.Allocated)
	assert.True(t, r.CapHit)
	assert.Equal(t, []uint32{256, 512, 1024, 2048, 4096, 8192, 16384, 32768, 65536}, r.Growths)
	assert.Equal(t, uint32(mempool.MaxBlocks), r.Peak.BlockCount)
	assert.Equal(t, (mempool.MaxBlocks-1)*8, r.Peak.TotalMemory)

	assert.Equal(t, uint32(1), r.AfterClear.BlockCount)
	assert.Equal(t, uint32(mempool.MaxBlocks), r.AfterClear.Capacity, "clear keeps capacity")
	assert.Zero(t, r.AfterClear.LiveBlocks)
	assert.Zero(t, r.AfterClear.TotalMemory)
}

func TestStressPool_Small(t *testing.T) {
	reg := mempool.NewRegistry(nil)
	defer reg.DestroyAll()

	r := stressPool(reg, 10, 16)
	assert.Equal(t, 10, r.Allocated)
	assert.False(t, r.CapHit)
	assert.Equal(t, []uint32{256}, r.Growths)
	assert.Equal(t, 10, r.Peak.LiveBlocks)
	assert.Zero(t, r.MappedPeak)
}

func TestRunStress(t *testing.T) {
	resetFlags()
	stressBlocks = 300
	stressSize = 2048

	out, err := captureOutput(t, func() error { return runStress() })
	require.NoError(t, err)
	assert.Contains(t, out, "Allocated: 300")
	assert.Contains(t, out, "Capacity growth: 256 -> 512")
	assert.NotContains(t, out, "Block cap reached")

	stressSize = 0
	require.Error(t, runStress())
}
