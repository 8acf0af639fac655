package main

import (
	"fmt"
	"os"
	"path/filepath"

	"constellation/internal/app"
	"constellation/internal/i18n"
	"constellation/internal/render"
	"constellation/internal/solver"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	demoLevel  string
	demoSeed   int64
	demoFrames string
)

var demoCmd = &cobra.Command{
	Use:   "demo [constellation-id]",
	Short: "Watch the solver trace a constellation",
	Long: `Runs an automatic player against a constellation and prints every click.

Levels:
  path      clicks the lines in catalog order
  shuffled  random order and direction
  sloppy    shuffled, plus misses and repeated clicks the puzzle ignores

With --frames, a PNG is written after every click.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().StringVar(&demoLevel, "level", string(solver.LevelPath), "Solver level: path, shuffled or sloppy")
	demoCmd.Flags().Int64Var(&demoSeed, "seed", 1, "Seed for randomized levels")
	demoCmd.Flags().StringVar(&demoFrames, "frames", "", "Directory to write one PNG per click")
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, svc, err := setup(cmd)
	if err != nil {
		return err
	}
	lang := language(cfg)

	id := app.DefaultConstellationID
	if len(args) > 0 {
		id = args[0]
	}
	sess, _, err := svc.SelectConstellation(id)
	if err != nil {
		return err
	}

	agent, err := solver.NewAgent("demo", solver.Level(demoLevel), demoSeed)
	if err != nil {
		return err
	}

	if demoFrames != "" {
		if err := os.MkdirAll(demoFrames, 0o755); err != nil {
			return fmt.Errorf("failed to create frames directory: %w", err)
		}
	}
	bg := render.NewBackground(demoSeed, cfg.BackgroundStars, cfg.CanvasSize)
	opts := render.DefaultOptions()
	opts.Size = cfg.CanvasSize

	out := cmd.OutOrStdout()
	var frameErr error
	frame := 0
	clicks, err := agent.Solve(svc, sess, func(step solver.Step) {
		frame++
		fmt.Fprintf(out, "%3d  click (%6.1f, %6.1f)%s\n", frame, step.Click.X, step.Click.Y, describe(step.Events))
		if demoFrames == "" || frameErr != nil {
			return
		}
		path := filepath.Join(demoFrames, fmt.Sprintf("frame-%03d.png", frame))
		frameErr = writePNG(path, render.Build(sess, bg, opts), render.DefaultPNGOptions().Pixels)
	})
	if err != nil {
		return err
	}
	if frameErr != nil {
		return frameErr
	}

	logger.Info("demo finished",
		zap.String("constellation", id),
		zap.String("level", demoLevel),
		zap.Int("clicks", clicks))
	_, err = fmt.Fprintln(out, i18n.T(lang, i18n.KeyCompleted, sess.Constellation.Name(lang)))
	return err
}

// describe summarises the events of one click.
func describe(events []app.Event) string {
	s := ""
	for _, ev := range events {
		switch p := ev.Payload.(type) {
		case app.EdgeAddedPayload:
			s += fmt.Sprintf("  line %s (%d/%d)", p.Edge, p.Matched, p.Total)
		case app.PuzzleCompletedPayload:
			s += "  ✦"
		case app.SelectionChangedPayload:
			if p.Selection.Active {
				s += fmt.Sprintf("  star %d", p.Selection.Index)
			} else {
				s += "  -"
			}
		}
	}
	return s
}
