// Package store persists ranked scan results to disk: one directory per
// candidate holding its POSCAR and metadata, plus a ranking CSV and a plain
// text summary, optionally bundled into a zstd-compressed archive.
//
// It is the file-writing collaborator of the engine; the engine itself
// never touches the filesystem.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	dopego "github.com/hupe1980/dopego"
	"github.com/hupe1980/dopego/crystal"
)

// Options configures a Writer.
type Options struct {
	// PoscarOrder lists species in the order they should appear in written
	// POSCAR files; unlisted species follow alphabetically.
	PoscarOrder []string

	// Archive additionally bundles all written files into a
	// zstd-compressed tar archive next to them.
	Archive bool

	// ArchiveName is the archive file name. Default: "scan_archive.tar.zst".
	ArchiveName string
}

// DefaultOptions holds the default writer options.
var DefaultOptions = Options{
	ArchiveName: "scan_archive.tar.zst",
}

// Writer persists scan results beneath a directory.
type Writer struct {
	dir  string
	opts Options
}

// NewWriter creates a Writer rooted at dir.
func NewWriter(dir string, optFns ...func(*Options)) *Writer {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.ArchiveName == "" {
		opts.ArchiveName = DefaultOptions.ArchiveName
	}
	return &Writer{dir: dir, opts: opts}
}

// candidateMeta is the JSON metadata written next to each candidate POSCAR.
type candidateMeta struct {
	Rank           int            `json:"rank"`
	Score          float64        `json:"score"`
	Signature      string         `json:"signature"`
	DiscoveryIndex int            `json:"discovery_index"`
	Labels         []uint8        `json:"labels"`
	LabelSpecies   []string       `json:"label_species"`
	SublatticeSize int            `json:"sublattice_sites"`
	HostCount      int            `json:"host_count"`
	DopantCounts   map[string]int `json:"dopant_counts"`
	RawChecked     int            `json:"raw_configs_checked"`
	Unique         int            `json:"unique_sym_configs"`
	Permutations   int            `json:"n_sym_perms"`
}

// Write persists res: candidate_NNN/{POSCAR,meta.json} per ranked
// candidate, ranking_scan.csv and scan_summary.txt at the root, and the
// optional archive.
func (w *Writer) Write(res *dopego.Result) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}

	for _, cand := range res.Candidates {
		if err := w.writeCandidate(cand, res); err != nil {
			return err
		}
	}
	if err := w.writeRanking(res); err != nil {
		return err
	}
	if err := w.writeSummary(res); err != nil {
		return err
	}

	if w.opts.Archive {
		return w.writeArchive()
	}
	return nil
}

func (w *Writer) writeCandidate(cand dopego.Candidate, res *dopego.Result) error {
	dir := filepath.Join(w.dir, candidateName(cand.Rank))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	s := cand.Structure.Reorder(w.opts.PoscarOrder)
	if err := crystal.WritePOSCARFile(filepath.Join(dir, "POSCAR"), s, cand.Signature); err != nil {
		return fmt.Errorf("store: writing POSCAR for rank %d: %w", cand.Rank, err)
	}

	meta := candidateMeta{
		Rank:           cand.Rank,
		Score:          cand.Score,
		Signature:      cand.Signature,
		DiscoveryIndex: cand.DiscoveryIndex,
		Labels:         cand.Labels,
		LabelSpecies:   res.LabelSpecies,
		SublatticeSize: res.Stats.SublatticeSize,
		HostCount:      res.Stats.HostCount,
		DopantCounts:   res.Stats.DopantCounts,
		RawChecked:     res.Stats.RawChecked,
		Unique:         res.Stats.Unique,
		Permutations:   res.Stats.Permutations,
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "meta.json"), append(data, '\n'), 0o644)
}

func (w *Writer) writeRanking(res *dopego.Result) error {
	f, err := os.Create(filepath.Join(w.dir, "ranking_scan.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"candidate", "rank", "score", "signature"}); err != nil {
		return err
	}
	for _, cand := range res.Candidates {
		rec := []string{
			candidateName(cand.Rank),
			strconv.Itoa(cand.Rank),
			strconv.FormatFloat(cand.Score, 'f', 10, 64),
			cand.Signature,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (w *Writer) writeSummary(res *dopego.Result) error {
	f, err := os.Create(filepath.Join(w.dir, "scan_summary.txt"))
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintf(f, "Sublattice sites: %d\n", res.Stats.SublatticeSize)
	fmt.Fprintf(f, "Host count: %d\n", res.Stats.HostCount)
	fmt.Fprintf(f, "Dopant counts: %v\n", res.Stats.DopantCounts)
	fmt.Fprintf(f, "Symmetry permutations: %d\n", res.Stats.Permutations)
	fmt.Fprintf(f, "Raw checked: %d\n", res.Stats.RawChecked)
	fmt.Fprintf(f, "Unique(sym): %d\n", res.Stats.Unique)
	if len(res.Failures) > 0 {
		fmt.Fprintf(f, "Scoring failures: %d\n", len(res.Failures))
	}
	fmt.Fprintln(f, "Best scores:")
	for _, cand := range res.Candidates {
		fmt.Fprintf(f, "  %s: %.10f | %s\n", candidateName(cand.Rank), cand.Score, cand.Signature)
	}
	return nil
}

func candidateName(rank int) string {
	return fmt.Sprintf("candidate_%03d", rank)
}
