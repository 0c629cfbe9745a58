package symmetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/hupe1980/dopego/crystal"
)

// Command returns an Analyzer that delegates space-group analysis to an
// external command (typically a thin spglib wrapper script). The parent
// structure is written to the command's stdin in POSCAR format, the
// tolerance is appended as the final argument, and the command must print a
// JSON document of the form
//
//	{"operations": [{"rotation": [[1,0,0],[0,1,0],[0,0,1]],
//	                 "translation": [0,0,0]}, ...]}
//
// on stdout. The returned operation set must include the identity.
func Command(name string, args ...string) Analyzer {
	return AnalyzerFunc(func(s *crystal.Structure, tolerance float64) ([]Operation, error) {
		var in bytes.Buffer
		if err := crystal.WritePOSCAR(&in, s, "dopego parent structure"); err != nil {
			return nil, fmt.Errorf("symmetry: encoding parent structure: %w", err)
		}

		argv := append(append([]string{}, args...), strconv.FormatFloat(tolerance, 'g', -1, 64))
		cmd := exec.CommandContext(context.Background(), name, argv...)
		cmd.Stdin = &in

		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			msg := strings.TrimSpace(stderr.String())
			if msg != "" {
				return nil, fmt.Errorf("symmetry: %s: %w (stderr: %s)", name, err, msg)
			}
			return nil, fmt.Errorf("symmetry: %s: %w", name, err)
		}

		var doc struct {
			Operations []struct {
				Rotation    [3][3]float64 `json:"rotation"`
				Translation [3]float64    `json:"translation"`
			} `json:"operations"`
		}
		if err := json.Unmarshal(stdout.Bytes(), &doc); err != nil {
			return nil, fmt.Errorf("symmetry: %s: invalid operations JSON: %w", name, err)
		}
		if len(doc.Operations) == 0 {
			return nil, fmt.Errorf("symmetry: %s returned no operations", name)
		}

		ops := make([]Operation, len(doc.Operations))
		for i, raw := range doc.Operations {
			ops[i] = Operation{
				Rotation:    raw.Rotation,
				Translation: crystal.Vec3(raw.Translation),
			}
		}
		return ops, nil
	})
}
