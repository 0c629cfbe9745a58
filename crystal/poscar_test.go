package crystal

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const poscarDirect = `BaTiO3 test cell
1.0
  4.0 0.0 0.0
  0.0 4.0 0.0
  0.0 0.0 4.0
Ba Ti O
1 1 3
Direct
  0.0 0.0 0.0
  0.5 0.5 0.5
  0.5 0.5 0.0
  0.5 0.0 0.5
  0.0 0.5 0.5
`

func TestReadPOSCAR(t *testing.T) {
	t.Run("Direct", func(t *testing.T) {
		s, err := ReadPOSCAR(strings.NewReader(poscarDirect))
		require.NoError(t, err)

		assert.Equal(t, 5, s.NumSites())
		assert.Equal(t, map[string]int{"Ba": 1, "Ti": 1, "O": 3}, s.Composition())
		assert.InDelta(t, 4.0, s.Lattice[0][0], 1e-12)
		assert.Equal(t, "Ti", s.Sites[1].Species)
		assert.InDelta(t, 0.5, s.Sites[1].Frac[0], 1e-12)
	})

	t.Run("ScaleFactor", func(t *testing.T) {
		in := strings.Replace(poscarDirect, "1.0\n", "2.0\n", 1)
		s, err := ReadPOSCAR(strings.NewReader(in))
		require.NoError(t, err)
		assert.InDelta(t, 8.0, s.Lattice[0][0], 1e-12)
	})

	t.Run("Cartesian", func(t *testing.T) {
		in := `cartesian cell
1.0
  4.0 0.0 0.0
  0.0 4.0 0.0
  0.0 0.0 4.0
Ti
1
Cartesian
  2.0 2.0 2.0
`
		s, err := ReadPOSCAR(strings.NewReader(in))
		require.NoError(t, err)
		require.Equal(t, 1, s.NumSites())
		for i := 0; i < 3; i++ {
			assert.InDelta(t, 0.5, s.Sites[0].Frac[i], 1e-12)
		}
	})

	t.Run("SelectiveDynamics", func(t *testing.T) {
		in := `selective
1.0
  4.0 0.0 0.0
  0.0 4.0 0.0
  0.0 0.0 4.0
Ti
1
Selective dynamics
Direct
  0.25 0.25 0.25 T T F
`
		s, err := ReadPOSCAR(strings.NewReader(in))
		require.NoError(t, err)
		require.Equal(t, 1, s.NumSites())
		assert.InDelta(t, 0.25, s.Sites[0].Frac[0], 1e-12)
	})

	t.Run("RejectsVasp4", func(t *testing.T) {
		in := `vasp4 cell
1.0
  4.0 0.0 0.0
  0.0 4.0 0.0
  0.0 0.0 4.0
1 1
Direct
  0.0 0.0 0.0
  0.5 0.5 0.5
`
		_, err := ReadPOSCAR(strings.NewReader(in))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "VASP 4")
	})

	t.Run("CountMismatch", func(t *testing.T) {
		in := strings.Replace(poscarDirect, "1 1 3", "1 1", 1)
		_, err := ReadPOSCAR(strings.NewReader(in))
		require.Error(t, err)
	})

	t.Run("Truncated", func(t *testing.T) {
		in := strings.Join(strings.SplitAfter(poscarDirect, "\n")[:9], "")
		_, err := ReadPOSCAR(strings.NewReader(in))
		require.Error(t, err)
	})
}

func TestWritePOSCAR(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		orig, err := ReadPOSCAR(strings.NewReader(poscarDirect))
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, WritePOSCAR(&buf, orig, "round trip"))

		got, err := ReadPOSCAR(&buf)
		require.NoError(t, err)
		require.Equal(t, orig.NumSites(), got.NumSites())
		for i := range orig.Sites {
			assert.Equal(t, orig.Sites[i].Species, got.Sites[i].Species)
			for j := 0; j < 3; j++ {
				assert.InDelta(t, orig.Sites[i].Frac[j], got.Sites[i].Frac[j], 1e-10)
			}
		}
	})

	t.Run("HeaderGroupsRuns", func(t *testing.T) {
		s := New(Lattice{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, []Site{
			{Species: "Ba", Frac: Vec3{0, 0, 0}},
			{Species: "Ti", Frac: Vec3{0.5, 0.5, 0.5}},
			{Species: "Ti", Frac: Vec3{0.5, 0.5, 0}},
		})
		var buf bytes.Buffer
		require.NoError(t, WritePOSCAR(&buf, s, "header"))

		lines := strings.Split(buf.String(), "\n")
		assert.Equal(t, []string{"Ba", "Ti"}, strings.Fields(lines[5]))
		assert.Equal(t, []string{"1", "2"}, strings.Fields(lines[6]))
	})

	t.Run("RefusesEmpty", func(t *testing.T) {
		var buf bytes.Buffer
		err := WritePOSCAR(&buf, &Structure{}, "")
		require.Error(t, err)
	})

	t.Run("File", func(t *testing.T) {
		orig, err := ReadPOSCAR(strings.NewReader(poscarDirect))
		require.NoError(t, err)

		path := filepath.Join(t.TempDir(), "POSCAR")
		require.NoError(t, WritePOSCARFile(path, orig, "file round trip"))

		got, err := ReadPOSCARFile(path)
		require.NoError(t, err)
		assert.Equal(t, orig.Composition(), got.Composition())
	})
}
