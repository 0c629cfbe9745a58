// Package dopego provides a symmetry-reduced configuration scan engine for
// crystal doping studies.
//
// Given a base structure whose substitutable sublattice already carries the
// desired dopant composition, dopego enumerates every placement of those
// dopants over the sublattice, collapses placements that are equivalent
// under the lattice's space group, scores the surviving distinct
// configurations in parallel with an external oracle, and retains the K
// lowest-scoring candidates.
//
// # Quick Start
//
//	base, _ := crystal.ReadPOSCARFile("POSCAR")
//
//	eng, _ := dopego.New(base).
//	    Host("Ti").
//	    Spectators("O").
//	    TopK(15).
//	    Analyzer(symmetry.Command("python", "symops.py")).
//	    Oracle(oracle.Command("python", "score.py")).
//	    Build()
//
//	res, _ := eng.Scan(ctx)
//	for _, c := range res.Candidates {
//	    fmt.Println(c.Rank, c.Score, c.Signature)
//	}
//
// # Pipeline
//
// A scan proceeds in fixed stages:
//
//	// 1. RESOLVE — infer the enumeration sublattice and dopant counts
//	//    from the structure itself (every non-spectator site).
//	// 2. GUARD — bound the raw combinatorial estimate before any work.
//	// 3. SYMMETRY — turn the parent lattice's operations into sublattice
//	//    permutations via an external space-group analyzer.
//	// 4. ENUMERATE + REDUCE — stream all labelings, keep one
//	//    representative per symmetry class, bounded by a second ceiling.
//	// 5. SCORE — evaluate representatives on a fixed worker pool, one
//	//    lazily created oracle per worker.
//	// 6. SELECT — fold completions into a bounded top-K heap; equal
//	//    scores tie-break on discovery index, so results never depend on
//	//    completion order.
//
// # Failure Handling
//
// By default a single scoring failure aborts the whole scan. With
// ContinueOnError the engine collects per-candidate failures and emits
// whatever completed:
//
//	eng, _ := dopego.New(base). ... .ContinueOnError().Build()
//	res, _ := eng.Scan(ctx)
//	fmt.Println(len(res.Candidates), "ranked,", len(res.Failures), "failed")
//
// # Key Features
//
//   - Exact exhaustive enumeration for any number of dopant species
//   - Space-group deduplication via canonical label keys
//   - Deterministic ranking independent of worker scheduling
//   - Pluggable oracles (in-process functions or external commands)
//   - Structured logging, metrics hooks and rate limiting
package dopego
