// Package crystal provides the structure model consumed by the doping engine:
// a lattice, an ordered list of sites carrying species labels and fractional
// coordinates, and the operations the engine needs on top of it (supercell
// construction, site replacement, species accounting), plus serialization
// to and from the POSCAR crystallographic format.
package crystal

import (
	"fmt"
	"math"
	"sort"
)

// Vec3 is a 3-component vector. Coordinates held on sites are fractional
// (relative to the lattice vectors), not cartesian.
type Vec3 [3]float64

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v[0] + w[0], v[1] + w[1], v[2] + w[2]}
}

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{v[0] - w[0], v[1] - w[1], v[2] - w[2]}
}

// Wrap reduces each component into [0,1).
func (v Vec3) Wrap() Vec3 {
	var out Vec3
	for i, x := range v {
		x = math.Mod(x, 1.0)
		if x < 0 {
			x += 1.0
		}
		out[i] = x
	}
	return out
}

// Lattice is a 3x3 matrix whose rows are the lattice vectors.
type Lattice [3][3]float64

// MulVec returns m·v.
func (m Lattice) MulVec(v Vec3) Vec3 {
	var out Vec3
	for i := 0; i < 3; i++ {
		out[i] = m[i][0]*v[0] + m[i][1]*v[1] + m[i][2]*v[2]
	}
	return out
}

// Det returns the determinant of m.
func (m Lattice) Det() float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Inverse returns m⁻¹. It fails if the lattice is singular.
func (m Lattice) Inverse() (Lattice, error) {
	det := m.Det()
	if det == 0 {
		return Lattice{}, fmt.Errorf("crystal: singular lattice matrix")
	}

	inv := Lattice{
		{m[1][1]*m[2][2] - m[1][2]*m[2][1], m[0][2]*m[2][1] - m[0][1]*m[2][2], m[0][1]*m[1][2] - m[0][2]*m[1][1]},
		{m[1][2]*m[2][0] - m[1][0]*m[2][2], m[0][0]*m[2][2] - m[0][2]*m[2][0], m[0][2]*m[1][0] - m[0][0]*m[1][2]},
		{m[1][0]*m[2][1] - m[1][1]*m[2][0], m[0][1]*m[2][0] - m[0][0]*m[2][1], m[0][0]*m[1][1] - m[0][1]*m[1][0]},
	}
	for i := range inv {
		for j := range inv[i] {
			inv[i][j] /= det
		}
	}
	return inv, nil
}

// Site is one atomic position: a species label and a fractional coordinate.
type Site struct {
	Species string
	Frac    Vec3
}

// Structure is a lattice plus an ordered list of sites.
//
// The engine treats structures as immutable and copies before decorating;
// mutating methods are provided for callers that own their copy.
type Structure struct {
	Lattice Lattice
	Sites   []Site
}

// New creates a Structure from a lattice and sites. The site slice is copied.
func New(lattice Lattice, sites []Site) *Structure {
	s := &Structure{
		Lattice: lattice,
		Sites:   make([]Site, len(sites)),
	}
	copy(s.Sites, sites)
	return s
}

// Copy returns a deep copy of the structure.
func (s *Structure) Copy() *Structure {
	return New(s.Lattice, s.Sites)
}

// NumSites returns the number of sites.
func (s *Structure) NumSites() int {
	return len(s.Sites)
}

// ReplaceSpecies overwrites the species label of site i.
func (s *Structure) ReplaceSpecies(i int, species string) {
	s.Sites[i].Species = species
}

// Composition returns the count per species label.
func (s *Structure) Composition() map[string]int {
	comp := make(map[string]int)
	for _, site := range s.Sites {
		comp[site.Species]++
	}
	return comp
}

// SpeciesList returns the distinct species labels sorted alphabetically.
func (s *Structure) SpeciesList() []string {
	comp := s.Composition()
	out := make([]string, 0, len(comp))
	for el := range comp {
		out = append(out, el)
	}
	sort.Strings(out)
	return out
}

// Supercell returns a new structure replicated nx × ny × nz times along the
// lattice vectors. Sites of one original site stay contiguous, so species
// grouping is preserved.
func (s *Structure) Supercell(nx, ny, nz int) (*Structure, error) {
	if nx < 1 || ny < 1 || nz < 1 {
		return nil, fmt.Errorf("crystal: supercell factors must be >= 1, got (%d,%d,%d)", nx, ny, nz)
	}

	var lat Lattice
	n := [3]float64{float64(nx), float64(ny), float64(nz)}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			lat[i][j] = s.Lattice[i][j] * n[i]
		}
	}

	sites := make([]Site, 0, len(s.Sites)*nx*ny*nz)
	for _, site := range s.Sites {
		for i := 0; i < nx; i++ {
			for j := 0; j < ny; j++ {
				for k := 0; k < nz; k++ {
					sites = append(sites, Site{
						Species: site.Species,
						Frac: Vec3{
							(site.Frac[0] + float64(i)) / n[0],
							(site.Frac[1] + float64(j)) / n[1],
							(site.Frac[2] + float64(k)) / n[2],
						},
					})
				}
			}
		}
	}

	return &Structure{Lattice: lat, Sites: sites}, nil
}

// Reorder returns a copy whose sites are sorted for POSCAR output: first by
// the position of their species in order (unlisted species go last,
// alphabetically), then by the z, y and x fractional coordinates.
func (s *Structure) Reorder(order []string) *Structure {
	orderIndex := make(map[string]int, len(order))
	for i, el := range order {
		orderIndex[el] = i
	}

	out := s.Copy()
	sort.SliceStable(out.Sites, func(a, b int) bool {
		sa, sb := out.Sites[a], out.Sites[b]
		ia, oka := orderIndex[sa.Species]
		ib, okb := orderIndex[sb.Species]
		if !oka {
			ia = len(order)
		}
		if !okb {
			ib = len(order)
		}
		if ia != ib {
			return ia < ib
		}
		if sa.Species != sb.Species {
			return sa.Species < sb.Species
		}
		if sa.Frac[2] != sb.Frac[2] {
			return sa.Frac[2] < sb.Frac[2]
		}
		if sa.Frac[1] != sb.Frac[1] {
			return sa.Frac[1] < sb.Frac[1]
		}
		return sa.Frac[0] < sb.Frac[0]
	})
	return out
}
