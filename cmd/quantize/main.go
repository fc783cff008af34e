// Command quantize reads a sorted-float index and writes a bin table.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/JMMackenzie/lssy"
	"github.com/JMMackenzie/lssy/internal/diag"
	"github.com/JMMackenzie/lssy/quantizer"
	"github.com/JMMackenzie/lssy/sidx"
	"github.com/JMMackenzie/lssy/version"
)

var errInvalidArgCount = errors.New("expected exactly four arguments: num_bins bintype sidx-file bins-file")

func main() {
	ctx := context.Background()

	appl := &cli.Command{
		Name:      version.Name() + "-quantize",
		Usage:     "Quantize a sorted-float index into a bin table",
		ArgsUsage: "<num_bins> <bintype> <sidx-file> <bins-file>",
		Version:   version.Version() + " (" + version.Commit() + " - " + version.Date() + ")",
		Action:    run,
	}

	if err := appl.Run(ctx, os.Args); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)

		os.Exit(1)
	}
}

func run(_ context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 4 {
		return fmt.Errorf("%w: got %d", errInvalidArgCount, cmd.NArg())
	}

	log := diag.Stderr("quantize")

	numBins, err := strconv.Atoi(cmd.Args().Get(0))
	if err != nil {
		return fmt.Errorf("%w: num_bins must be an integer: %w", lssy.ErrArgument, err)
	}

	bintype, err := strconv.Atoi(cmd.Args().Get(1))
	if err != nil {
		return fmt.Errorf("%w: bintype must be an integer: %w", lssy.ErrArgument, err)
	}

	strategy, err := quantizer.ParseStrategy(bintype)
	if err != nil {
		return err
	}

	sidxPath := cmd.Args().Get(2)
	binsPath := cmd.Args().Get(3)

	log.Info().Str("strategy", strategy.String()).Int("num_bins", numBins).Str("sidx", sidxPath).
		Msg("quantizing")

	vec, err := sidx.Load(sidxPath)
	if err != nil {
		return err
	}

	log.Info().Uint64("cols", vec.Cols).Uint64("rows", vec.Rows).Int("n", vec.N()).Msg("loaded sidx")

	table, err := quantizer.Build(strategy, numBins, vec.Values)
	if err != nil {
		return err
	}

	diagnostics := quantizer.Diagnose(table, vec.Values)
	if err := diagnostics.Report(os.Stderr); err != nil {
		return fmt.Errorf("reporting diagnostics: %w", lssy.ErrIO)
	}

	if err := table.WriteFile(binsPath); err != nil {
		return err
	}

	log.Info().Str("bins", binsPath).Uint64("total", table.Total()).Msg("wrote bins file")

	return nil
}
