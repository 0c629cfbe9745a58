package symmetry

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	s, _ := chain(2)

	t.Run("ParsesOperations", func(t *testing.T) {
		script := `cat >/dev/null; echo '{"operations": [` +
			`{"rotation": [[1,0,0],[0,1,0],[0,0,1]], "translation": [0,0,0]},` +
			`{"rotation": [[1,0,0],[0,1,0],[0,0,1]], "translation": [0.5,0,0]}]}'`

		ops, err := Command("sh", "-c", script).Operations(s, 1e-3)
		require.NoError(t, err)
		require.Len(t, ops, 2)
		assert.Equal(t, Identity().Rotation, ops[0].Rotation)
		assert.InDelta(t, 0.5, ops[1].Translation[0], 1e-12)
	})

	t.Run("PropagatesFailure", func(t *testing.T) {
		_, err := Command("sh", "-c", "cat >/dev/null; echo boom >&2; exit 3").Operations(s, 1e-3)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("RejectsInvalidJSON", func(t *testing.T) {
		_, err := Command("sh", "-c", "cat >/dev/null; echo not-json").Operations(s, 1e-3)
		require.Error(t, err)
	})

	t.Run("RejectsEmptyOperationSet", func(t *testing.T) {
		_, err := Command("sh", "-c", `cat >/dev/null; echo '{"operations": []}'`).Operations(s, 1e-3)
		require.Error(t, err)
	})
}
