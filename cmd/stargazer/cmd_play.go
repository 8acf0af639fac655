package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"constellation/internal/tui"

	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play [constellation-id]",
	Short: "Play a constellation with the mouse",
	Long: `Opens the interactive board. Click a star, then another, to connect them.

Keys:
  h      show/hide the hint
  r      reset the current constellation
  tab/n  next constellation
  l      switch language (en/es)
  q      quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, svc, err := setup(cmd)
	if err != nil {
		return err
	}

	id := ""
	if len(args) > 0 {
		id = args[0]
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return tui.Run(ctx, tui.Options{
		Service:         svc,
		ConstellationID: id,
		Language:        language(cfg),
		BackgroundStars: cfg.BackgroundStars,
		Seed:            time.Now().UnixNano(),
		CanvasSize:      cfg.CanvasSize,
		Logger:          logger,
	})
}
