package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bft-labs/motionpanel/internal/adapters/journal"
	"github.com/bft-labs/motionpanel/internal/app"
	"github.com/bft-labs/motionpanel/internal/ports"
)

// oneShot opens a panel, probes the board, runs action and reports failure
// through errFailed.
func (c *cli) oneShot(cmd *cobra.Command, action func(ctx context.Context, p *panel) app.Outcome) error {
	p := c.openPanel(cmd)
	defer p.Close()
	ctx := cmd.Context()

	p.out.render(p.controller.Connect(ctx))
	if p.out.render(action(ctx, p)) {
		return errFailed
	}
	return nil
}

func newProbeCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Open the channel and send the T1 probe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.openPanel(cmd)
			defer p.Close()

			p.out.render(p.controller.Connect(cmd.Context()))
			if !p.controller.Session().Connected() {
				return errFailed
			}
			return nil
		},
	}
}

func newSendCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "send <command>",
		Short: "Send a raw command, e.g. X100 or S180",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			return c.oneShot(cmd, func(ctx context.Context, p *panel) app.Outcome {
				return p.controller.SendManual(ctx, text)
			})
		},
	}
}

func newMoveCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "move <x|y|z|e> <steps>",
		Short:   "Move one axis by a signed number of steps",
		Example: "  motionpanel move x 250\n  motionpanel move e -- -40",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.oneShot(cmd, func(ctx context.Context, p *panel) app.Outcome {
				return p.controller.Move(ctx, args[0], args[1])
			})
		},
	}
}

func newServoCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:       "servo <on|off>",
		Short:     "Move the servo to 180 (on) or 0 (off) degrees",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.oneShot(cmd, func(ctx context.Context, p *panel) app.Outcome {
				if args[0] == "on" {
					return p.controller.ServoOn(ctx)
				}
				return p.controller.ServoOff(ctx)
			})
		},
	}
}

func newCrossCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "cross",
		Short: "Run the preset cross motion (C1)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.oneShot(cmd, func(ctx context.Context, p *panel) app.Outcome {
				return p.controller.Cross(ctx)
			})
		},
	}
}

func newTestCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Send T1 over the open channel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.oneShot(cmd, func(ctx context.Context, p *panel) app.Outcome {
				return p.controller.Test(ctx)
			})
		},
	}
}

func newCoordCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "coord <Vx Dx Vy Dy Va Da Vz Dz>",
		Short: "Send a coordinated move of 8 values",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			return c.oneShot(cmd, func(ctx context.Context, p *panel) app.Outcome {
				return p.controller.SendCoordinated(ctx, text)
			})
		},
	}
}

func newCurveCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:       "curve <MT|MR>",
		Short:     "Send a curve row from the workbook",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"MT", "MR"},
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.openPanel(cmd)
			defer p.Close()
			ctx := cmd.Context()

			if !p.loadConfiguredWorkbook(ctx) {
				return errFailed
			}
			p.out.render(p.controller.Connect(ctx))
			if p.out.render(p.controller.SendCurve(ctx, args[0])) {
				return errFailed
			}
			return nil
		},
	}
}

func newShowCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the curve rows found in the workbook without sending",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.openPanel(cmd)
			defer p.Close()

			if !p.loadConfiguredWorkbook(cmd.Context()) {
				return errFailed
			}
			if p.out.render(p.controller.ShowCurves()) {
				return errFailed
			}
			return nil
		},
	}
}

func newHistoryCommand(c *cli) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent command exchanges from the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := journal.Open(c.cfg.JournalPath)
			if err != nil {
				return err
			}
			defer j.Close()
			return printHistory(cmd.Context(), cmd.OutOrStdout(), j, limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of exchanges to show")
	return cmd
}

func printHistory(ctx context.Context, w io.Writer, j ports.Journal, limit int) error {
	exchanges, err := j.Recent(ctx, limit)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tTARGET\tCOMMAND\tREPLY")
	for i := len(exchanges) - 1; i >= 0; i-- {
		ex := exchanges[i]
		reply := ex.Reply
		switch {
		case ex.Error != "":
			reply = "error: " + ex.Error
		case !ex.Replied:
			reply = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", ex.At.Local().Format("2006-01-02 15:04:05"), ex.Target, strconv.Quote(ex.Command), reply)
	}
	return tw.Flush()
}
