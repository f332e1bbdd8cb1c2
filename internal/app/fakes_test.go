package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bft-labs/motionpanel/internal/domain"
	"github.com/bft-labs/motionpanel/internal/ports"
)

// mockLogger implements ports.Logger for testing.
type mockLogger struct{}

func (mockLogger) Debug(msg string, fields ...ports.Field) {}
func (mockLogger) Info(msg string, fields ...ports.Field)  {}
func (mockLogger) Warn(msg string, fields ...ports.Field)  {}
func (mockLogger) Error(msg string, fields ...ports.Field) {}

// fakeChannel records sends and plays back queued replies.
type fakeChannel struct {
	mu        sync.Mutex
	sent      []string
	replies   []string
	sendErr   error
	recvErr   error
	closed    int
	recvCalls int
}

func (f *fakeChannel) Send(ctx context.Context, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, string(payload))
	return nil
}

func (f *fakeChannel) Receive(ctx context.Context, deadline time.Time) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recvCalls++
	if f.recvErr != nil {
		return nil, f.recvErr
	}
	if len(f.replies) == 0 {
		return nil, domain.ErrNoReply
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return []byte(r), nil
}

func (f *fakeChannel) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeChannel) Sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.sent...)
}

// fakeDialer hands out channels in order.
type fakeDialer struct {
	channels []*fakeChannel
	err      error
	dials    int
}

func newFakeDialer(channels ...*fakeChannel) *fakeDialer {
	return &fakeDialer{channels: channels}
}

func (d *fakeDialer) Dial(ctx context.Context) (ports.Channel, error) {
	d.dials++
	if d.err != nil {
		return nil, d.err
	}
	if len(d.channels) == 0 {
		return nil, errors.New("no channel available")
	}
	ch := d.channels[0]
	if len(d.channels) > 1 {
		d.channels = d.channels[1:]
	}
	return ch, nil
}

func (d *fakeDialer) Target() string { return "192.168.4.1:8888" }

// mapGrid is a sparse in-memory grid.
type mapGrid map[[2]int]domain.Cell

func (g mapGrid) Cell(row, col int) domain.Cell {
	return g[[2]int{row, col}]
}

func curveGrid(row int, values ...string) mapGrid {
	g := mapGrid{}
	for i, v := range values {
		g[[2]int{row, domain.CurveFirstCol + i}] = domain.CellFromString(v)
	}
	return g
}

// memJournal keeps exchanges in memory.
type memJournal struct {
	mu        sync.Mutex
	exchanges []ports.Exchange
	err       error
}

func (j *memJournal) Record(ctx context.Context, ex ports.Exchange) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return j.err
	}
	j.exchanges = append(j.exchanges, ex)
	return nil
}

func (j *memJournal) Recent(ctx context.Context, limit int) ([]ports.Exchange, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]ports.Exchange{}, j.exchanges...), nil
}

// memStateRepo keeps panel state in memory.
type memStateRepo struct {
	state ports.PanelState
	saves int
}

func (r *memStateRepo) Load(ctx context.Context) (ports.PanelState, error) {
	return r.state, nil
}

func (r *memStateRepo) Save(ctx context.Context, st ports.PanelState) error {
	r.state = st
	r.saves++
	return nil
}

// fakeLoader serves grids by path.
type fakeLoader struct {
	grids map[string]ports.Grid
	loads int
}

func (l *fakeLoader) Load(ctx context.Context, path string) (ports.Grid, error) {
	l.loads++
	g, ok := l.grids[path]
	if !ok {
		return nil, errors.New("open " + path + ": no such file or directory")
	}
	return g, nil
}
