package oracle

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/dopego/crystal"
)

func testStructure() *crystal.Structure {
	return crystal.New(crystal.Lattice{{4, 0, 0}, {0, 4, 0}, {0, 0, 4}}, []crystal.Site{
		{Species: "Ti", Frac: crystal.Vec3{0, 0, 0}},
		{Species: "O", Frac: crystal.Vec3{0.5, 0.5, 0.5}},
	})
}

func TestCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	newOracle := func(t *testing.T, script string) Oracle {
		t.Helper()
		o, err := Command("sh", "-c", script).New(context.Background())
		require.NoError(t, err)
		t.Cleanup(func() { require.NoError(t, o.Close()) })
		return o
	}

	t.Run("ParsesLastToken", func(t *testing.T) {
		o := newOracle(t, `cat >/dev/null; echo "final energy = -42.5"`)
		score, err := o.Score(context.Background(), testStructure())
		require.NoError(t, err)
		assert.Equal(t, -42.5, score)
	})

	t.Run("ReceivesStructureOnStdin", func(t *testing.T) {
		// The command counts stdin lines; the POSCAR of a 2-site cell has
		// 10 of them (comment, scale, 3 lattice, symbols, counts, mode, 2
		// coordinates).
		o := newOracle(t, `wc -l`)
		score, err := o.Score(context.Background(), testStructure())
		require.NoError(t, err)
		assert.Equal(t, 10.0, score)
	})

	t.Run("FailureIncludesStderr", func(t *testing.T) {
		o := newOracle(t, `cat >/dev/null; echo "relaxation failed" >&2; exit 1`)
		_, err := o.Score(context.Background(), testStructure())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "relaxation failed")
	})

	t.Run("EmptyOutput", func(t *testing.T) {
		o := newOracle(t, `cat >/dev/null`)
		_, err := o.Score(context.Background(), testStructure())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no output")
	})

	t.Run("NonNumericOutput", func(t *testing.T) {
		o := newOracle(t, `cat >/dev/null; echo done`)
		_, err := o.Score(context.Background(), testStructure())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot parse score")
	})
}
