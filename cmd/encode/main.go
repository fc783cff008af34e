// Command encode entropy-codes a float index against a bin table.
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

var errInvalidArgCount = errors.New("expected exactly three arguments: bins-file index-file compressed-file")

func main() {
	ctx := context.Background()

	appl := &cli.Command{
		Name:      version.Name() + "-encode",
		Usage:     "Entropy-code a float index against a bin table",
		ArgsUsage: "<bins-file> <index-file> <compressed-file>",
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

	log := diag.Stderr("encode")

	binsPath := cmd.Args().Get(0)
	indexPath := cmd.Args().Get(1)
	compressedPath := cmd.Args().Get(2)

	stats, err := pipeline.EncodeFile(binsPath, indexPath, compressedPath)
	if err != nil {
		return err
	}

	bitsPerFloat := 0.0
	if stats.Floats > 0 {
		bitsPerFloat = 8.0 * float64(stats.BytesOut) / float64(stats.Floats)
	}

	log.Info().
		Uint64("floats", stats.Floats).
		Uint64("bytes_out", stats.BytesOut).
		Float64("bits_per_float", bitsPerFloat).
		Msg("wrote compressed file")

	return nil
}
