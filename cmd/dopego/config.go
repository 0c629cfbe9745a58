package main

import (
	"fmt"

	"github.com/spf13/viper"

	dopego "github.com/hupe1980/dopego"
)

// config mirrors the TOML configuration file:
//
//	[structure]
//	outdir = "random_structures"
//
//	[generate]
//	poscar_order = ["Ba", "Ti", "O"]
//
//	[doping]
//	host_species = "Ti"
//
//	[scan]
//	poscar_in = "POSCAR"
//	anion_species = ["O"]
//	oracle_cmd = ["python", "score.py"]
//	symmetry_cmd = ["python", "symops.py"]
//	topk = 15
//	symprec = 1e-3
//	max_enum = 50000000
//	max_unique = 200000
//	nproc = 8
//	skip_if_done = true
//	continue_on_error = false
//	archive = false
type config struct {
	Structure struct {
		Outdir string `mapstructure:"outdir"`
	} `mapstructure:"structure"`

	Generate struct {
		PoscarOrder []string `mapstructure:"poscar_order"`
	} `mapstructure:"generate"`

	Doping struct {
		HostSpecies string `mapstructure:"host_species"`
	} `mapstructure:"doping"`

	Scan struct {
		PoscarIn        string   `mapstructure:"poscar_in"`
		AnionSpecies    []string `mapstructure:"anion_species"`
		OracleCmd       []string `mapstructure:"oracle_cmd"`
		SymmetryCmd     []string `mapstructure:"symmetry_cmd"`
		TopK            int      `mapstructure:"topk"`
		Symprec         float64  `mapstructure:"symprec"`
		MaxEnum         int64    `mapstructure:"max_enum"`
		MaxUnique       int      `mapstructure:"max_unique"`
		NProc           int      `mapstructure:"nproc"`
		SkipIfDone      bool     `mapstructure:"skip_if_done"`
		ContinueOnError bool     `mapstructure:"continue_on_error"`
		Archive         bool     `mapstructure:"archive"`
	} `mapstructure:"scan"`
}

func loadConfig(path string) (*config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	v.SetDefault("structure.outdir", "random_structures")
	v.SetDefault("scan.poscar_in", "POSCAR")
	v.SetDefault("scan.topk", dopego.DefaultTopK)
	v.SetDefault("scan.symprec", dopego.DefaultTolerance)
	v.SetDefault("scan.max_enum", dopego.DefaultMaxRaw)
	v.SetDefault("scan.max_unique", dopego.DefaultMaxUnique)
	v.SetDefault("scan.skip_if_done", true)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Doping.HostSpecies == "" {
		return nil, fmt.Errorf("config %s: doping.host_species is required", path)
	}
	if len(cfg.Scan.AnionSpecies) == 0 {
		return nil, fmt.Errorf("config %s: scan.anion_species is required", path)
	}
	if len(cfg.Scan.OracleCmd) == 0 {
		return nil, fmt.Errorf("config %s: scan.oracle_cmd is required", path)
	}

	return &cfg, nil
}
