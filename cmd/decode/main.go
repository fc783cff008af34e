// Command decode reconstructs representative floats from a compressed
// stream and a bin table.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/JMMackenzie/lssy/internal/diag"
	"github.com/JMMackenzie/lssy/pipeline"
	"github.com/JMMackenzie/lssy/version"
)

var errInvalidArgCount = errors.New("expected exactly three arguments: bins-file compressed-file output-file")

func main() {
	ctx := context.Background()

	appl := &cli.Command{
		Name:      version.Name() + "-decode",
		Usage:     "Reconstruct representative floats from a compressed stream",
		ArgsUsage: "<bins-file> <compressed-file> <output-file>",
		Version:   version.Version() + " (" + version.Commit() + " - " + version.Date() + ")",
		Action:    run,
	}

	if err := appl.Run(ctx, os.Args); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)

		os.Exit(1)
	}
}

func run(_ context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 3 {
		return fmt.Errorf("%w: got %d", errInvalidArgCount, cmd.NArg())
	}

	log := diag.Stderr("decode")

	binsPath := cmd.Args().Get(0)
	compressedPath := cmd.Args().Get(1)
	outputPath := cmd.Args().Get(2)

	stats, err := pipeline.DecodeFile(binsPath, compressedPath, outputPath)
	if err != nil {
		return err
	}

	log.Info().Uint64("floats", stats.Floats).Str("output", outputPath).Msg("wrote reconstructed floats")

	return nil
}
