package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	dopego "github.com/hupe1980/dopego"
	"github.com/hupe1980/dopego/crystal"
	"github.com/hupe1980/dopego/oracle"
	"github.com/hupe1980/dopego/store"
	"github.com/hupe1980/dopego/symmetry"
)

func newScanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Scan every structure folder under the configured output directory",
		RunE:  runScan,
	}
}

func runScan(cmd *cobra.Command, _ []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log := dopego.NewTextLogger(level)

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	root, err := filepath.Abs(filepath.Dir(configPath))
	if err != nil {
		return err
	}
	outdir := cfg.Structure.Outdir
	if !filepath.IsAbs(outdir) {
		outdir = filepath.Join(root, outdir)
	}

	entries, err := os.ReadDir(outdir)
	if err != nil {
		return fmt.Errorf("reading structure directory %s: %w", outdir, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scanned, skipped, failed := 0, 0, 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(outdir, entry.Name())

		poscar := filepath.Join(dir, cfg.Scan.PoscarIn)
		if _, err := os.Stat(poscar); err != nil {
			log.Debug("no input structure, skipping", "folder", entry.Name())
			continue
		}
		if cfg.Scan.SkipIfDone {
			if _, err := os.Stat(filepath.Join(dir, "ranking_scan.csv")); err == nil {
				log.Info("already scanned, skipping", "folder", entry.Name())
				skipped++
				continue
			}
		}

		if err := scanFolder(ctx, cfg, log.WithStructure(entry.Name()), dir, poscar); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			log.Error("scan failed", "folder", entry.Name(), "error", err)
			failed++
			continue
		}
		scanned++
	}

	log.Info("all folders processed", "scanned", scanned, "skipped", skipped, "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d structure folders failed", failed, scanned+failed)
	}
	return nil
}

func scanFolder(ctx context.Context, cfg *config, log *dopego.Logger, dir, poscar string) error {
	base, err := crystal.ReadPOSCARFile(poscar)
	if err != nil {
		return err
	}

	var analyzer symmetry.Analyzer = symmetry.IdentityAnalyzer{}
	if len(cfg.Scan.SymmetryCmd) > 0 {
		analyzer = symmetry.Command(cfg.Scan.SymmetryCmd[0], cfg.Scan.SymmetryCmd[1:]...)
	} else {
		log.Warn("no symmetry command configured, every raw configuration will be scored")
	}

	b := dopego.New(base).
		Host(cfg.Doping.HostSpecies).
		Spectators(cfg.Scan.AnionSpecies...).
		TopK(cfg.Scan.TopK).
		Tolerance(cfg.Scan.Symprec).
		MaxConfigs(cfg.Scan.MaxEnum).
		MaxUnique(cfg.Scan.MaxUnique).
		Analyzer(analyzer).
		Oracle(oracle.Command(cfg.Scan.OracleCmd[0], cfg.Scan.OracleCmd[1:]...)).
		Logger(log)
	if cfg.Scan.NProc > 0 {
		b = b.Workers(cfg.Scan.NProc)
	}
	if cfg.Scan.ContinueOnError {
		b = b.ContinueOnError()
	}

	eng, err := b.Build()
	if err != nil {
		return err
	}

	res, err := eng.Scan(ctx)
	if err != nil {
		return err
	}

	w := store.NewWriter(dir, func(o *store.Options) {
		o.PoscarOrder = cfg.Generate.PoscarOrder
		o.Archive = cfg.Scan.Archive
	})
	if err := w.Write(res); err != nil {
		return err
	}

	log.Info("results written",
		"candidates", len(res.Candidates),
		"unique", res.Stats.Unique,
		"elapsed", res.Stats.Elapsed,
	)
	return nil
}
