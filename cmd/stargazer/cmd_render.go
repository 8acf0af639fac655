package main

import (
	"fmt"
	"os"
	"strings"

	"constellation/internal/domain"
	"constellation/internal/render"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	renderOut    string
	renderHint   bool
	renderEdges  string
	renderPixels int
	renderSeed   int64
)

var renderCmd = &cobra.Command{
	Use:   "render <constellation-id>",
	Short: "Render a constellation frame to PNG",
	Example: `  stargazer render cassiopeia --out cassiopeia.png
  stargazer render orion --edges 0-1,1-2 --hint --out orion.png`,
	Args: cobra.ExactArgs(1),
	RunE: renderFrame,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Output PNG file (required)")
	renderCmd.Flags().BoolVar(&renderHint, "hint", false, "Draw the hint overlay")
	renderCmd.Flags().StringVar(&renderEdges, "edges", "", "Comma-separated edges to draw, e.g. 0-1,1-2")
	renderCmd.Flags().IntVar(&renderPixels, "pixels", render.DefaultPNGOptions().Pixels, "Image width and height")
	renderCmd.Flags().Int64Var(&renderSeed, "seed", 1, "Background star seed")
	_ = renderCmd.MarkFlagRequired("out")
}

func renderFrame(cmd *cobra.Command, args []string) error {
	cfg, svc, err := setup(cmd)
	if err != nil {
		return err
	}

	edges, err := parseEdges(renderEdges)
	if err != nil {
		return err
	}
	sess, err := svc.Replay(args[0], edges)
	if err != nil {
		return err
	}
	sess.HintVisible = renderHint

	opts := render.DefaultOptions()
	opts.Size = cfg.CanvasSize
	scene := render.Build(sess, render.NewBackground(renderSeed, cfg.BackgroundStars, cfg.CanvasSize), opts)

	if err := writePNG(renderOut, scene, renderPixels); err != nil {
		return err
	}

	matched, total := sess.Progress()
	logger.Info("rendered frame",
		zap.String("constellation", sess.Constellation.ID),
		zap.String("out", renderOut),
		zap.Int("matched", matched),
		zap.Int("total", total),
		zap.Bool("completed", sess.Completed))
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/%d lines -> %s\n", sess.Constellation.ID, matched, total, renderOut)
	return err
}

// parseEdges parses "0-1,1-2". An empty string yields no edges.
func parseEdges(s string) ([]domain.Edge, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	edges := make([]domain.Edge, 0, len(parts))
	for _, part := range parts {
		e, err := domain.ParseEdge(part)
		if err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, nil
}

func writePNG(path string, scene render.Scene, pixels int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	opts := render.DefaultPNGOptions()
	opts.Pixels = pixels
	if err := render.EncodePNG(f, scene, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
