package main

import (
	"fmt"

	"constellation/internal/catalog"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var validateCmd = &cobra.Command{
	Use:   "validate [catalog.yaml]",
	Short: "Check a constellation catalog file",
	Long: `Reports every structural problem in a catalog: empty or duplicate ids,
missing names, stars outside the canvas, bad edges and stars so close that
their pick radii overlap.`,
	Args: cobra.ExactArgs(1),
	RunE: validateCatalog,
}

func validateCatalog(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	cat, err := catalog.LoadFile(args[0])
	if err != nil {
		return err
	}
	if err := cat.Validate(limits(cfg)); err != nil {
		logger.Warn("catalog is invalid", zap.String("path", args[0]), zap.Error(err))
		return fmt.Errorf("%s:\n%w", args[0], err)
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d constellations OK\n", args[0], cat.Len())
	return err
}
