package crystal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadPOSCAR parses a VASP 5 POSCAR from r. Both Direct and Cartesian
// coordinate blocks are accepted; cartesian coordinates are converted to
// fractional ones. A "Selective dynamics" line is tolerated, per-site flags
// are ignored. VASP 4 files (no species symbol line) are rejected.
func ReadPOSCAR(r io.Reader) (*Structure, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	next := func() (string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}
		return sc.Text(), nil
	}

	// Comment line.
	if _, err := next(); err != nil {
		return nil, fmt.Errorf("poscar: empty input: %w", err)
	}

	scaleLine, err := next()
	if err != nil {
		return nil, fmt.Errorf("poscar: missing scale factor: %w", err)
	}
	scale, err := strconv.ParseFloat(strings.TrimSpace(scaleLine), 64)
	if err != nil {
		return nil, fmt.Errorf("poscar: invalid scale factor %q: %w", strings.TrimSpace(scaleLine), err)
	}
	if scale <= 0 {
		// Negative scale means target volume in VASP; out of scope here.
		return nil, fmt.Errorf("poscar: unsupported scale factor %g", scale)
	}

	var lat Lattice
	for i := 0; i < 3; i++ {
		line, err := next()
		if err != nil {
			return nil, fmt.Errorf("poscar: missing lattice vector %d: %w", i+1, err)
		}
		v, err := parseFloats(line, 3)
		if err != nil {
			return nil, fmt.Errorf("poscar: lattice vector %d: %w", i+1, err)
		}
		for j := 0; j < 3; j++ {
			lat[i][j] = v[j] * scale
		}
	}

	symbolLine, err := next()
	if err != nil {
		return nil, fmt.Errorf("poscar: missing species line: %w", err)
	}
	symbols := strings.Fields(symbolLine)
	if len(symbols) == 0 || isAllInts(symbols) {
		return nil, fmt.Errorf("poscar: species symbol line required (VASP 4 format not supported)")
	}

	countLine, err := next()
	if err != nil {
		return nil, fmt.Errorf("poscar: missing species counts: %w", err)
	}
	countFields := strings.Fields(countLine)
	if len(countFields) != len(symbols) {
		return nil, fmt.Errorf("poscar: %d species symbols but %d counts", len(symbols), len(countFields))
	}
	counts := make([]int, len(countFields))
	total := 0
	for i, f := range countFields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("poscar: invalid species count %q", f)
		}
		counts[i] = n
		total += n
	}

	modeLine, err := next()
	if err != nil {
		return nil, fmt.Errorf("poscar: missing coordinate mode: %w", err)
	}
	if len(modeLine) > 0 && (modeLine[0] == 'S' || modeLine[0] == 's') {
		// Selective dynamics; the real mode is on the next line.
		modeLine, err = next()
		if err != nil {
			return nil, fmt.Errorf("poscar: missing coordinate mode: %w", err)
		}
	}
	cartesian := false
	switch {
	case len(modeLine) == 0:
		return nil, fmt.Errorf("poscar: empty coordinate mode line")
	case modeLine[0] == 'D' || modeLine[0] == 'd':
		cartesian = false
	case modeLine[0] == 'C' || modeLine[0] == 'c' || modeLine[0] == 'K' || modeLine[0] == 'k':
		cartesian = true
	default:
		return nil, fmt.Errorf("poscar: unrecognized coordinate mode %q", strings.TrimSpace(modeLine))
	}

	var inv Lattice
	if cartesian {
		if inv, err = lat.Inverse(); err != nil {
			return nil, fmt.Errorf("poscar: %w", err)
		}
	}

	sites := make([]Site, 0, total)
	for i, el := range symbols {
		for j := 0; j < counts[i]; j++ {
			line, err := next()
			if err != nil {
				return nil, fmt.Errorf("poscar: missing coordinates for %s site %d: %w", el, j+1, err)
			}
			v, err := parseFloats(line, 3)
			if err != nil {
				return nil, fmt.Errorf("poscar: coordinates for %s site %d: %w", el, j+1, err)
			}
			frac := Vec3{v[0], v[1], v[2]}
			if cartesian {
				// fractional = L⁻ᵀ · cartesian, with rows as lattice vectors.
				cart := Vec3{v[0] * scale, v[1] * scale, v[2] * scale}
				frac = Vec3{
					inv[0][0]*cart[0] + inv[1][0]*cart[1] + inv[2][0]*cart[2],
					inv[0][1]*cart[0] + inv[1][1]*cart[1] + inv[2][1]*cart[2],
					inv[0][2]*cart[0] + inv[1][2]*cart[1] + inv[2][2]*cart[2],
				}
			}
			sites = append(sites, Site{Species: el, Frac: frac})
		}
	}

	return &Structure{Lattice: lat, Sites: sites}, nil
}

// ReadPOSCARFile reads a POSCAR from path.
func ReadPOSCARFile(path string) (*Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadPOSCAR(f)
}

// WritePOSCAR writes s as a VASP 5 POSCAR with direct coordinates.
// Sites are emitted in their current order; consecutive runs of the same
// species form the symbol/count header, so callers should Reorder first if
// the structure interleaves species.
func WritePOSCAR(w io.Writer, s *Structure, comment string) error {
	if s.NumSites() == 0 {
		return fmt.Errorf("poscar: refusing to write empty structure")
	}
	if comment == "" {
		comment = "generated by dopego"
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, comment)
	fmt.Fprintln(bw, "1.0")
	for i := 0; i < 3; i++ {
		fmt.Fprintf(bw, "  %18.12f %18.12f %18.12f\n", s.Lattice[i][0], s.Lattice[i][1], s.Lattice[i][2])
	}

	var symbols []string
	var counts []int
	for _, site := range s.Sites {
		if n := len(symbols); n > 0 && symbols[n-1] == site.Species {
			counts[n-1]++
			continue
		}
		symbols = append(symbols, site.Species)
		counts = append(counts, 1)
	}
	for _, el := range symbols {
		fmt.Fprintf(bw, " %4s", el)
	}
	fmt.Fprintln(bw)
	for _, n := range counts {
		fmt.Fprintf(bw, " %4d", n)
	}
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "Direct")
	for _, site := range s.Sites {
		fmt.Fprintf(bw, "  %18.12f %18.12f %18.12f\n", site.Frac[0], site.Frac[1], site.Frac[2])
	}

	return bw.Flush()
}

// WritePOSCARFile writes s to path, creating or truncating it.
func WritePOSCARFile(path string, s *Structure, comment string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePOSCAR(f, s, comment); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func parseFloats(line string, n int) ([]float64, error) {
	fields := strings.Fields(line)
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q", fields[i])
		}
		out[i] = v
	}
	return out, nil
}

func isAllInts(fields []string) bool {
	for _, f := range fields {
		if _, err := strconv.Atoi(f); err != nil {
			return false
		}
	}
	return true
}
