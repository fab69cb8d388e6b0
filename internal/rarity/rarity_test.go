// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rarity

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	tbl, err := Read(strings.NewReader("1000\nthe\t1000\ntool\t100\n\nblast\t10\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Len())

	assert.InDelta(t, 0, tbl.IDF("the"), 1e-9)
	assert.InDelta(t, math.Log(10), tbl.IDF("tool"), 1e-9)
	assert.InDelta(t, math.Log(1000), tbl.IDF("unseen"), 1e-9)
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "bad count", input: "many\nx\t1\n"},
		{name: "zero count", input: "0\n"},
		{name: "no tab", input: "10\nterm 3\n"},
		{name: "bad df", input: "10\nterm\tx\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestShifted(t *testing.T) {
	tbl := New(100, map[string]int{"common": 100, "half": 10})

	assert.InDelta(t, 0, tbl.Shifted("common", 0), 1e-9)
	assert.InDelta(t, 0.5, tbl.Shifted("half", 0), 1e-9)
	assert.InDelta(t, 1, tbl.Shifted("unseen", 0), 1e-9)

	// A shift lifts common terms off zero.
	assert.Greater(t, tbl.Shifted("common", 1), 0.0)
	assert.LessOrEqual(t, tbl.Shifted("unseen", 1), 1.0)
}

func TestShifted_NilAndTiny(t *testing.T) {
	var tbl *Table
	assert.Equal(t, 0.0, tbl.Shifted("x", 0))
	assert.Equal(t, 0.0, New(1, nil).Shifted("x", 0))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tool.idf")
	require.NoError(t, os.WriteFile(path, []byte("4\nseq\t2\n"), 0o644))

	tbl, err := Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, tbl.Shifted("seq", 0), 1e-9)

	_, err = Load(filepath.Join(t.TempDir(), "missing.idf"))
	assert.Error(t, err)
}
