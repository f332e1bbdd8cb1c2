package main

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/bft-labs/motionpanel/internal/adapters/fs"
	"github.com/bft-labs/motionpanel/internal/app"
	"github.com/bft-labs/motionpanel/internal/ports"
)

const shellHelp = `commands:
  connect                 reopen the channel and probe with T1
  send <text>             send a raw command
  move <x|y|z|e> <steps>  relative single-axis move
  servo <on|off>          servo to 180 / 0 degrees
  cross                   preset cross motion (C1)
  test                    send T1 without reconnecting
  coord <8 values>        coordinated move: Vx Dx Vy Dy Va Da Vz Dz
  load <file>             load a curve workbook (.xlsx or .csv)
  curve <MT|MR>           send a curve row from the workbook
  show                    print the curve rows without sending
  status                  connection and workbook status
  history [n]             recent exchanges from the journal
  help                    this text
  quit                    leave the panel
`

func newShellCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive panel: connect once, then send commands line by line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.openPanel(cmd)
			defer p.Close()
			return runShell(cmd.Context(), p, cmd.InOrStdin())
		},
	}
}

// shell is the interactive host of one Controller.
type shell struct {
	p       *panel
	watcher *fs.WorkbookWatcher
}

func runShell(ctx context.Context, p *panel, in io.Reader) error {
	sh := &shell{p: p}
	if p.cfg.Watch {
		sh.watcher = fs.NewWorkbookWatcher(p.logger, 0, func(ctx context.Context, path string) {
			p.out.render(p.controller.ReloadWorkbook(ctx))
		})
		defer sh.watcher.Stop()
	}

	sh.start(ctx)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		p.out.printf("> ")
		select {
		case <-ctx.Done():
			p.out.printf("\n")
			return nil
		case line, ok := <-lines:
			if !ok {
				p.out.printf("\n")
				return nil
			}
			if !sh.execute(ctx, line) {
				return nil
			}
		}
	}
}

// start restores or loads the workbook and auto-connects.
func (sh *shell) start(ctx context.Context) {
	p := sh.p
	if p.cfg.Workbook != "" {
		p.out.render(p.controller.LoadWorkbook(ctx, p.cfg.Workbook))
	} else {
		p.out.render(p.controller.Restore(ctx))
	}
	sh.watch(ctx)
	p.out.render(p.controller.Connect(ctx))
}

func (sh *shell) watch(ctx context.Context) {
	path := sh.p.controller.Workbook()
	if sh.watcher == nil || path == "" {
		return
	}
	if err := sh.watcher.Watch(ctx, path); err != nil {
		sh.p.logger.Warn("cannot watch workbook", ports.String("path", path), ports.Err(err))
	}
}

// execute runs one shell line and reports whether the shell should continue.
func (sh *shell) execute(ctx context.Context, line string) bool {
	word, rest := splitCommand(line)
	p := sh.p
	ctl := p.controller

	var o app.Outcome
	switch strings.ToLower(word) {
	case "":
		return true
	case "quit", "exit", "q":
		return false
	case "help", "?":
		p.out.printf("%s", shellHelp)
		return true
	case "connect":
		o = ctl.Connect(ctx)
	case "send":
		o = ctl.SendManual(ctx, rest)
	case "move":
		args := strings.Fields(rest)
		if len(args) != 2 {
			p.out.alert("usage: move <x|y|z|e> <steps>")
			return true
		}
		o = ctl.Move(ctx, args[0], args[1])
	case "x", "y", "z", "e":
		o = ctl.Move(ctx, word, strings.TrimSpace(rest))
	case "servo":
		switch strings.ToLower(strings.TrimSpace(rest)) {
		case "on":
			o = ctl.ServoOn(ctx)
		case "off":
			o = ctl.ServoOff(ctx)
		default:
			p.out.alert("usage: servo <on|off>")
			return true
		}
	case "cross":
		o = ctl.Cross(ctx)
	case "test":
		o = ctl.Test(ctx)
	case "coord":
		o = ctl.SendCoordinated(ctx, rest)
	case "load":
		path := strings.TrimSpace(rest)
		if path == "" {
			p.out.alert("usage: load <file>")
			return true
		}
		o = ctl.LoadWorkbook(ctx, path)
		if !o.Failed() {
			defer sh.watch(ctx)
		}
	case "curve":
		o = ctl.SendCurve(ctx, strings.TrimSpace(rest))
	case "mt", "mr":
		o = ctl.SendCurve(ctx, word)
	case "show":
		o = ctl.ShowCurves()
	case "status":
		o = ctl.Status()
	case "history":
		sh.history(ctx, rest)
		return true
	default:
		p.out.alert("unknown command " + strconv.Quote(word) + "; type help")
		return true
	}
	p.out.render(o)
	return true
}

func (sh *shell) history(ctx context.Context, arg string) {
	p := sh.p
	if p.journal == nil {
		p.out.alert("command journal is disabled")
		return
	}
	limit := 20
	if s := strings.TrimSpace(arg); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			p.out.alert("usage: history [n]")
			return
		}
		limit = n
	}
	var buf bytes.Buffer
	if err := printHistory(ctx, &buf, p.journal, limit); err != nil {
		p.out.alert(err.Error())
		return
	}
	p.out.printf("%s", buf.String())
}

// splitCommand separates the first word from the untouched remainder so
// tabs and commas in coordinated input reach the tokenizer.
func splitCommand(line string) (string, string) {
	line = strings.TrimSpace(line)
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i:])
}
