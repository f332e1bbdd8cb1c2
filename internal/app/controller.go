package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bft-labs/motionpanel/internal/domain"
	"github.com/bft-labs/motionpanel/internal/ports"
)

// Outcome carries the notifications produced by one handler call.
type Outcome struct {
	Notifications []domain.Notification
}

// Failed reports whether the handler raised an error alert.
func (o Outcome) Failed() bool {
	for _, n := range o.Notifications {
		if n.Kind == domain.NotifyAlert && n.Severity == domain.SeverityError {
			return true
		}
	}
	return false
}

// ControllerOption configures optional behavior of a Controller.
type ControllerOption func(*Controller)

// WithStateRepository remembers the workbook and connection status in repo.
func WithStateRepository(repo ports.StateRepository) ControllerOption {
	return func(c *Controller) {
		c.stateRepo = repo
	}
}

// WithClock overrides time.Now for notification timestamps.
func WithClock(now func() time.Time) ControllerOption {
	return func(c *Controller) {
		c.now = now
	}
}

// Controller turns operator actions into commands. Every handler catches its
// own errors and reports them as notifications; none return an error.
type Controller struct {
	session   *Session
	loader    ports.GridLoader
	stateRepo ports.StateRepository
	logger    ports.Logger
	now       func() time.Time

	mu       sync.RWMutex
	grid     ports.Grid
	workbook string
}

// NewController creates a Controller driving session. loader may be nil when
// no workbook support is needed.
func NewController(session *Session, loader ports.GridLoader, logger ports.Logger, opts ...ControllerOption) *Controller {
	c := &Controller{
		session: session,
		loader:  loader,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the controlled session.
func (c *Controller) Session() *Session { return c.session }

// Workbook returns the path of the loaded workbook, if any.
func (c *Controller) Workbook() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.workbook
}

// SetGrid installs an already loaded grid.
func (c *Controller) SetGrid(path string, grid ports.Grid) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.grid = grid
	c.workbook = path
}

func (c *Controller) currentGrid() ports.Grid {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.grid
}

// Connect (re)opens the channel and probes the firmware.
func (c *Controller) Connect(ctx context.Context) Outcome {
	var n notes
	res := c.session.Connect(ctx)
	switch {
	case res.Err != nil:
		n.log(c.now(), "connection error: %v", res.Err)
		n.status(c.now(), false, res.Err.Error())
	case !res.Connected:
		n.log(c.now(), "channel open but no response from firmware at %s", c.session.Target())
		n.status(c.now(), false, res.Message)
	default:
		n.log(c.now(), "connected, reply: %s", res.Reply)
		n.status(c.now(), true, res.Reply)
	}
	c.saveState(ctx)
	return n.outcome()
}

// Status reports the session state without any I/O.
func (c *Controller) Status() Outcome {
	var n notes
	s := c.session
	n.log(c.now(), "target %s, state %s", s.Target(), s.State())
	if wb := c.Workbook(); wb != "" {
		n.log(c.now(), "workbook %s", wb)
	} else {
		n.log(c.now(), "no workbook loaded")
	}
	n.status(c.now(), s.Connected(), s.State().String())
	return n.outcome()
}

// SendManual sends operator-typed text as-is. Blank input is ignored.
func (c *Controller) SendManual(ctx context.Context, text string) Outcome {
	if strings.TrimSpace(text) == "" {
		return Outcome{}
	}
	cmd, err := domain.Raw(text)
	if err != nil {
		return c.reject(err, domain.SeverityError)
	}
	return c.send(ctx, cmd)
}

// Move sends a single-axis relative move.
func (c *Controller) Move(ctx context.Context, axis, steps string) Outcome {
	a, err := domain.ParseAxis(axis)
	if err != nil {
		return c.reject(err, domain.SeverityError)
	}
	cmd, err := domain.AxisMove(a, steps)
	if err != nil {
		return c.reject(fmt.Errorf("enter a valid integer: %w", err), domain.SeverityError)
	}
	return c.send(ctx, cmd)
}

// ServoOn sends the servo-on command.
func (c *Controller) ServoOn(ctx context.Context) Outcome { return c.send(ctx, domain.ServoOn) }

// ServoOff sends the servo-off command.
func (c *Controller) ServoOff(ctx context.Context) Outcome { return c.send(ctx, domain.ServoOff) }

// Cross sends the preset cross motion.
func (c *Controller) Cross(ctx context.Context) Outcome { return c.send(ctx, domain.Cross) }

// Test sends the probe over the existing channel without reconnecting.
func (c *Controller) Test(ctx context.Context) Outcome { return c.send(ctx, domain.Probe) }

// SendCoordinated validates and sends an 8-parameter coordinated move.
func (c *Controller) SendCoordinated(ctx context.Context, text string) Outcome {
	if strings.TrimSpace(text) == "" {
		return c.reject(fmt.Errorf("%w: enter %d parameters", domain.ErrMalformedCommand, domain.CoordinatedParams), domain.SeverityWarning)
	}
	cmd, err := domain.Coordinated(text)
	if err != nil {
		return c.reject(err, domain.SeverityError)
	}
	var n notes
	n.log(c.now(), "sending coordinated move: %s", cmd)
	n.merge(c.send(ctx, cmd))
	return n.outcome()
}

// SendCurve extracts the named curve from the loaded workbook and sends it.
// Nothing is sent unless all 8 fields are valid.
func (c *Controller) SendCurve(ctx context.Context, name string) Outcome {
	curve, err := domain.LookupCurve(name)
	if err != nil {
		return c.reject(err, domain.SeverityError)
	}
	cmd, err := CurveCommand(c.currentGrid(), curve)
	if err != nil {
		return c.reject(err, domain.SeverityError)
	}
	var n notes
	n.log(c.now(), "sending curve %s (%s): %s", curve.Name, strings.Join(domain.CurveFields[:], " "), cmd)
	n.merge(c.send(ctx, cmd))
	return n.outcome()
}

// ShowCurves reports the values and command of every named curve.
func (c *Controller) ShowCurves() Outcome {
	grid := c.currentGrid()
	if grid == nil {
		return c.reject(domain.ErrNoDataLoaded, domain.SeverityError)
	}
	var n notes
	for _, p := range PreviewCurves(grid) {
		if p.Err != nil {
			n.log(c.now(), "%s (row %d): %v", p.Curve.Name, p.Curve.Row+1, p.Err)
			continue
		}
		n.log(c.now(), "%s (row %d): %s", p.Curve.Name, p.Curve.Row+1, p.Command)
	}
	return n.outcome()
}

// LoadWorkbook loads path and makes it the curve source.
func (c *Controller) LoadWorkbook(ctx context.Context, path string) Outcome {
	if c.loader == nil {
		return c.reject(fmt.Errorf("%w: workbook support disabled", domain.ErrNoDataLoaded), domain.SeverityError)
	}
	grid, err := c.loader.Load(ctx, path)
	if err != nil {
		return c.reject(fmt.Errorf("read workbook: %w", err), domain.SeverityError)
	}
	c.SetGrid(path, grid)
	c.logger.Info("workbook loaded", ports.String("path", path))
	c.saveState(ctx)

	var n notes
	n.log(c.now(), "workbook loaded: %s", path)
	return n.outcome()
}

// ReloadWorkbook reloads the current workbook, e.g. after it changed on disk.
// The previous grid stays in place if the reload fails.
func (c *Controller) ReloadWorkbook(ctx context.Context) Outcome {
	path := c.Workbook()
	if path == "" {
		return Outcome{}
	}
	return c.LoadWorkbook(ctx, path)
}

// Restore reloads the workbook remembered by the state repository.
func (c *Controller) Restore(ctx context.Context) Outcome {
	if c.stateRepo == nil {
		return Outcome{}
	}
	st, err := c.stateRepo.Load(ctx)
	if err != nil {
		c.logger.Warn("load panel state", ports.Err(err))
		return Outcome{}
	}
	if st.Workbook == "" {
		return Outcome{}
	}
	return c.LoadWorkbook(ctx, st.Workbook)
}

// Close releases the session channel.
func (c *Controller) Close() error {
	return c.session.Close()
}

func (c *Controller) send(ctx context.Context, cmd domain.Command) Outcome {
	var n notes
	reply, err := c.session.SendCommand(ctx, cmd)
	switch {
	case errors.Is(err, domain.ErrNotInitialized):
		n.log(c.now(), "channel not created, cannot send %s", cmd)
		n.alert(c.now(), domain.SeverityError, "channel not created; connect first")
	case err != nil:
		n.log(c.now(), "communication error sending %s: %v", cmd, err)
		n.alert(c.now(), domain.SeverityError, fmt.Sprintf("communication error: %v", err))
	case !reply.Received:
		n.log(c.now(), "sent: %s (no reply within %s)", cmd, c.session.Timeout())
	default:
		n.log(c.now(), "sent: %s, reply: %s", cmd, reply.Text)
	}
	return n.outcome()
}

func (c *Controller) reject(err error, sev domain.Severity) Outcome {
	var n notes
	c.logger.Warn("input rejected", ports.Err(err))
	n.log(c.now(), "rejected: %v", err)
	n.alert(c.now(), sev, err.Error())
	return n.outcome()
}

func (c *Controller) saveState(ctx context.Context) {
	if c.stateRepo == nil {
		return
	}
	st := ports.PanelState{
		Workbook:  c.Workbook(),
		Target:    c.session.Target(),
		Connected: c.session.Connected(),
		UpdatedAt: c.now().UTC(),
	}
	if err := c.stateRepo.Save(ctx, st); err != nil {
		c.logger.Warn("save panel state", ports.Err(err))
	}
}

type notes []domain.Notification

func (n *notes) log(at time.Time, format string, args ...interface{}) {
	*n = append(*n, domain.LogLine(at, fmt.Sprintf(format, args...)))
}

func (n *notes) status(at time.Time, connected bool, msg string) {
	*n = append(*n, domain.StatusChange(at, connected, msg))
}

func (n *notes) alert(at time.Time, sev domain.Severity, msg string) {
	*n = append(*n, domain.Alert(at, sev, msg))
}

func (n *notes) merge(o Outcome) {
	*n = append(*n, o.Notifications...)
}

func (n notes) outcome() Outcome {
	return Outcome{Notifications: n}
}
