// Package cli implements the visionguide command line tool, the operator-side
// way to run a hand-eye correction by hand: load a calibration file, type in
// the measured deviation, and get the target pose to feed the robot's move
// command.
package cli

import (
	"github.com/edaniels/golog"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// NewApp returns the visionguide CLI app.
func NewApp(logger golog.Logger) *cli.App {
	return &cli.App{
		Name:            "visionguide",
		Usage:           "compute vision-guided robot pose corrections",
		HideHelpCommand: true,
		Metadata:        map[string]interface{}{},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("debug") {
				logger = golog.NewDebugLogger("cli")
			} else if logger == nil {
				logger = zap.NewNop().Sugar()
			}
			c.App.Metadata["logger"] = logger
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "correct",
				Usage:     "compute the corrected flange pose for a measured camera-plane deviation",
				ArgsUsage: " ",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "calibration",
						Aliases: []string{"c"},
						Usage:   "load the hand-eye calibration from JSON `FILE`",
					},
					&cli.BoolFlag{
						Name:  "identity",
						Usage: "use an identity hand-eye transform (bench testing only)",
					},
					&cli.StringFlag{
						Name:     "pose",
						Usage:    "current flange pose as `X,Y,Z,ROLL,PITCH,YAW`",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "deviation",
						Usage:    "measured deviation as `DX,DY,DTHETA` (mm, mm, deg)",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "degrees",
						Usage: "pose angles are in degrees rather than radians",
					},
					&cli.StringFlag{
						Name:  "vertical-axis",
						Value: "z",
						Usage: "base-frame axis clamped to the input height (x, y or z)",
					},
				},
				Action: CorrectAction,
			},
		},
	}
}

func appLogger(c *cli.Context) golog.Logger {
	if logger, ok := c.App.Metadata["logger"].(golog.Logger); ok {
		return logger
	}
	return zap.NewNop().Sugar()
}
