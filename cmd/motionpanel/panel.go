package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/bft-labs/motionpanel/internal/adapters/fs"
	"github.com/bft-labs/motionpanel/internal/adapters/journal"
	"github.com/bft-labs/motionpanel/internal/adapters/serialport"
	"github.com/bft-labs/motionpanel/internal/adapters/udp"
	"github.com/bft-labs/motionpanel/internal/adapters/workbook"
	"github.com/bft-labs/motionpanel/internal/app"
	"github.com/bft-labs/motionpanel/internal/cliconfig"
	"github.com/bft-labs/motionpanel/internal/ports"
)

// panel wires the adapters selected by cfg around one Controller.
type panel struct {
	cfg        cliconfig.Config
	logger     ports.Logger
	controller *app.Controller
	journal    *journal.SQLiteJournal
	out        *printer
}

func newDialer(cfg cliconfig.Config) ports.Dialer {
	if cfg.Transport == cliconfig.TransportSerial {
		return serialport.NewDialer(cfg.SerialPort, cfg.BaudRate)
	}
	return udp.NewDialer(cfg.Host, cfg.Port)
}

func openPanel(cfg cliconfig.Config, logger ports.Logger, out io.Writer) *panel {
	p := &panel{cfg: cfg, logger: logger, out: newPrinter(out)}

	sessionOpts := []app.SessionOption{app.WithReplyTimeout(cfg.Timeout)}
	if !cfg.NoJournal {
		j, err := journal.Open(cfg.JournalPath)
		if err != nil {
			logger.Warn("command journal unavailable", ports.String("path", cfg.JournalPath), ports.Err(err))
		} else {
			p.journal = j
			sessionOpts = append(sessionOpts, app.WithJournal(j))
		}
	}

	session := app.NewSession(newDialer(cfg), logger, sessionOpts...)
	p.controller = app.NewController(session, workbook.NewLoader(cfg.Sheet), logger,
		app.WithStateRepository(fs.NewStateFileRepository(cfg.StateDir)),
	)
	return p
}

// loadConfiguredWorkbook loads the workbook named in the config, if any.
func (p *panel) loadConfiguredWorkbook(ctx context.Context) bool {
	if p.cfg.Workbook == "" {
		p.out.alert("no workbook given; use --workbook or set workbook in the config file")
		return false
	}
	return !p.out.render(p.controller.LoadWorkbook(ctx, p.cfg.Workbook))
}

func (p *panel) Close() {
	if err := p.controller.Close(); err != nil {
		p.logger.Warn("close channel", ports.Err(err))
	}
	if p.journal != nil {
		if err := p.journal.Close(); err != nil {
			p.logger.Warn("close journal", ports.Err(err))
		}
	}
}

// printer serializes operator output between the shell and the watcher.
type printer struct {
	mu sync.Mutex
	w  io.Writer
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w}
}

// render prints every notification and reports whether the outcome failed.
func (p *printer) render(o app.Outcome) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, n := range o.Notifications {
		fmt.Fprintln(p.w, n.String())
	}
	return o.Failed()
}

func (p *printer) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, format, args...)
}

func (p *printer) alert(msg string) {
	p.printf("error: %s\n", msg)
}
