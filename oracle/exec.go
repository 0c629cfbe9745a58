package oracle

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/hupe1980/dopego/crystal"
)

// Command returns a Factory whose oracles score structures by running an
// external command once per evaluation. The decorated structure is written
// to the command's stdin in POSCAR format and the score is parsed from the
// last whitespace-separated token on stdout, so wrapper scripts are free to
// print diagnostics before the final number.
//
// The command is expected to be deterministic and side-effect free; one
// process is spawned per evaluation, so any heavy model loading should
// happen in a long-lived service the command talks to.
func Command(name string, args ...string) Factory {
	return FactoryFunc(func(context.Context) (Oracle, error) {
		return &cmdOracle{name: name, args: args}, nil
	})
}

type cmdOracle struct {
	name string
	args []string
}

func (c *cmdOracle) Score(ctx context.Context, s *crystal.Structure) (float64, error) {
	var in bytes.Buffer
	if err := crystal.WritePOSCAR(&in, s, "dopego candidate"); err != nil {
		return 0, fmt.Errorf("oracle: encoding structure: %w", err)
	}

	cmd := exec.CommandContext(ctx, c.name, c.args...)
	cmd.Stdin = &in

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return 0, fmt.Errorf("oracle: %s: %w (stderr: %s)", c.name, err, msg)
		}
		return 0, fmt.Errorf("oracle: %s: %w", c.name, err)
	}

	fields := strings.Fields(stdout.String())
	if len(fields) == 0 {
		return 0, fmt.Errorf("oracle: %s produced no output", c.name)
	}
	score, err := strconv.ParseFloat(fields[len(fields)-1], 64)
	if err != nil {
		return 0, fmt.Errorf("oracle: %s: cannot parse score from %q", c.name, fields[len(fields)-1])
	}
	return score, nil
}

func (c *cmdOracle) Close() error { return nil }
