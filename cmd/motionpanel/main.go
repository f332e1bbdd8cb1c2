package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	logAdapter "github.com/bft-labs/motionpanel/internal/adapters/log"
	"github.com/bft-labs/motionpanel/internal/cliconfig"
)

const helpDescription = `
Drive a motion-control board from the terminal.

Commands go out as short ASCII datagrams (or lines on a serial port) and the
board's single reply, if any, is printed. Curves MT and MR are read from a
workbook (row 18 and 19, columns C to J) and sent as one 8-value command.
Configure via file ($HOME/.motionpanel/config.toml), MOTIONPANEL_* env, or flags.
`

var exampleUsage = strings.TrimSpace(`
  motionpanel probe --host 192.168.4.1
  motionpanel move x -- -250
  motionpanel coord 50 100 50 100 30 90 50 100
  motionpanel curve MT --workbook curves.xlsx
  motionpanel shell --workbook curves.xlsx
`)

// errFailed marks a command whose outcome was already reported to the operator.
var errFailed = errors.New("command failed")

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cli carries the resolved configuration and logger into subcommands.
type cli struct {
	cfg     cliconfig.Config
	cfgPath string
	log     zerolog.Logger
}

func main() {
	c := &cli{cfg: cliconfig.DefaultConfig()}
	c.log, _ = logAdapter.NewConsoleLogger(os.Stderr, c.cfg.LogLevel)

	root := newRootCommand(c)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errFailed) {
			c.log.Error().Err(err).Msg("motionpanel")
		}
		os.Exit(1)
	}
}

func newRootCommand(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "motionpanel",
		Short:         "Operator panel for a UDP/serial motion-control board",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.resolve(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&c.cfgPath, "config", "", "path to config file (default: $HOME/.motionpanel/config.toml)")
	f.StringVar(&c.cfg.Host, "host", c.cfg.Host, "board address")
	f.IntVar(&c.cfg.Port, "port", c.cfg.Port, "board UDP port")
	f.DurationVar(&c.cfg.Timeout, "timeout", c.cfg.Timeout, "how long to wait for a reply")
	f.StringVar(&c.cfg.Transport, "transport", c.cfg.Transport, "udp or serial")
	f.StringVar(&c.cfg.SerialPort, "serial-port", c.cfg.SerialPort, "serial device for the serial transport")
	f.IntVar(&c.cfg.BaudRate, "baud", c.cfg.BaudRate, "serial baud rate")
	f.StringVar(&c.cfg.Workbook, "workbook", c.cfg.Workbook, "curve workbook (.xlsx or .csv)")
	f.StringVar(&c.cfg.Sheet, "sheet", c.cfg.Sheet, "worksheet name (default: first sheet)")
	f.BoolVar(&c.cfg.Watch, "watch", c.cfg.Watch, "reload the workbook when it changes (shell only)")
	f.StringVar(&c.cfg.StateDir, "state-dir", c.cfg.StateDir, "directory for panel.json and the journal (default: $HOME/.motionpanel)")
	f.StringVar(&c.cfg.JournalPath, "journal", c.cfg.JournalPath, "sqlite command journal (default: <state-dir>/journal.db)")
	f.BoolVar(&c.cfg.NoJournal, "no-journal", c.cfg.NoJournal, "do not record exchanges")
	f.StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "trace, debug, info, warn, error or disabled")

	root.AddCommand(
		newProbeCommand(c),
		newSendCommand(c),
		newMoveCommand(c),
		newServoCommand(c),
		newCrossCommand(c),
		newTestCommand(c),
		newCoordCommand(c),
		newCurveCommand(c),
		newShowCommand(c),
		newHistoryCommand(c),
		newShellCommand(c),
	)
	return root
}

// resolve layers config file, MOTIONPANEL_* env and flags, then validates.
func (c *cli) resolve(cmd *cobra.Command) error {
	cfgFile := c.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&c.cfg, fc, changed); err != nil {
			return err
		}
	}

	if err := cliconfig.ApplyEnvConfig(&c.cfg, changed); err != nil {
		return err
	}

	if err := c.cfg.Validate(); err != nil {
		return err
	}

	logger, err := logAdapter.NewConsoleLogger(os.Stderr, c.cfg.LogLevel)
	if err != nil {
		return err
	}
	c.log = logger
	c.log.Debug().Interface("config", c.cfg).Msg("configuration")
	return nil
}

func (c *cli) openPanel(cmd *cobra.Command) *panel {
	return openPanel(c.cfg, logAdapter.NewZerologAdapterWithLogger(c.log), cmd.OutOrStdout())
}
