// internal/poller/poller.go
package poller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tamzrod/modbus-instrument/internal/device"
	"github.com/tamzrod/modbus-instrument/internal/errdefs"
	"github.com/tamzrod/modbus-instrument/internal/logging"
)

// DefaultInterval is the poll period when Config.Interval is zero.
const DefaultInterval = 10 * time.Millisecond

// ErrRunning is returned by Start on a running poller.
var ErrRunning = errors.New("poller: acquisition already running")

// State of the acquisition state machine.
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	Interval  time.Duration
	Scheduler Scheduler
	Sink      Sink

	// OnError, if set, receives the transport error of a failed tick.
	// Like Sink.Send it runs inside the tick and must not call Stop.
	OnError func(error)
}

// Poller reads, converts and emits one frame per tick until a session
// limit trips or Stop is called.
type Poller struct {
	dev   *device.Instance
	cfg   Config
	log   *logging.Logger
	clock func() time.Time

	// tick serializes Poll against Start/Stop; a tick in flight always
	// completes before Stop takes effect.
	tick sync.Mutex

	mu     sync.Mutex
	state  State
	gen    uint64 // bumped by every Start
	ctx    context.Context
	cancel func()
}

// New creates an idle poller for one instance.
func New(dev *device.Instance, cfg Config) (*Poller, error) {
	if dev == nil {
		return nil, fmt.Errorf("poller: instance required: %w", errdefs.ErrArgument)
	}
	if cfg.Sink == nil {
		return nil, fmt.Errorf("poller: sink required: %w", errdefs.ErrArgument)
	}
	if cfg.Interval < 0 {
		return nil, fmt.Errorf("poller: interval must be >= 0: %w", errdefs.ErrArgument)
	}
	if cfg.Interval == 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = TickerScheduler{}
	}
	return &Poller{
		dev:   dev,
		cfg:   cfg,
		log:   dev.Logger().With("component", "poller"),
		clock: time.Now,
		state: Idle,
	}, nil
}

// State returns the current state.
func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Start resets the session counters, emits the stream header and
// registers the periodic tick. The tick is registered outside the tick
// lock, so a scheduler may run fn before Every returns.
func (p *Poller) Start(ctx context.Context) error {
	gen, err := p.begin(ctx)
	if err != nil {
		return err
	}

	cancel := p.cfg.Scheduler.Every(p.cfg.Interval, p.Poll)

	p.mu.Lock()
	if p.state != Running || p.gen != gen {
		// stopped while registering; that stop had nothing to cancel
		p.mu.Unlock()
		cancel()
		return nil
	}
	p.cancel = cancel
	p.mu.Unlock()
	return nil
}

func (p *Poller) begin(ctx context.Context) (uint64, error) {
	p.tick.Lock()
	defer p.tick.Unlock()

	p.mu.Lock()
	if p.state == Running {
		p.mu.Unlock()
		return 0, ErrRunning
	}
	p.state = Running
	p.ctx = ctx
	p.gen++
	gen := p.gen
	p.mu.Unlock()

	p.dev.Limits().AcquisitionStart()
	p.send(Packet{Type: PacketHeader})
	p.log.Info("acquisition started", "interval", p.cfg.Interval)
	return gen, nil
}

// Stop deregisters the tick and emits the stream end. Stopping an idle
// poller is a no-op.
func (p *Poller) Stop() error {
	p.tick.Lock()
	defer p.tick.Unlock()
	p.stop()
	return nil
}

func (p *Poller) stop() {
	p.mu.Lock()
	if p.state != Running {
		p.mu.Unlock()
		return
	}
	p.state = Idle
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.send(Packet{Type: PacketEnd})
	p.log.Info("acquisition stopped", "samples", p.dev.Limits().SamplesRead())
}

// Poll runs one tick: read, convert, emit, then the limit check.
// A read error skips emission but keeps the poller running.
func (p *Poller) Poll() {
	p.tick.Lock()
	defer p.tick.Unlock()

	p.mu.Lock()
	running, ctx := p.state == Running, p.ctx
	p.mu.Unlock()
	if !running {
		return
	}

	s, err := readSample(ctx, p.dev)
	if err != nil {
		p.log.Warn("poll failed", "error", err)
		if p.cfg.OnError != nil {
			p.cfg.OnError(err)
		}
	} else {
		p.log.Debug("sample",
			"V", s.Voltage, "I", s.Current, "P", s.Power,
			"C", s.Capacity, "E", s.Energy,
			"T1", s.TempInternal, "T2", s.TempExternal)
		p.emit(s)
		p.dev.Limits().UpdateSamplesRead(1)
	}

	if p.dev.Limits().Check() {
		p.stop()
	}
}

// emit sends one frame in fixed channel order: V, I, P, E, T1, T2.
func (p *Poller) emit(s Sample) {
	prof := p.dev.Profile()

	p.send(Packet{Type: PacketFrameBegin})
	p.sendAnalog(device.ChanVoltage, QuantityVoltage, UnitVolt, prof.Voltage.DisplayDigits, s.Voltage)
	p.sendAnalog(device.ChanCurrent, QuantityCurrent, UnitAmpere, prof.Current.DisplayDigits, s.Current)
	p.sendAnalog(device.ChanPower, QuantityPower, UnitWatt, prof.Power.DisplayDigits, s.Power)
	p.sendAnalog(device.ChanEnergy, QuantityEnergy, UnitWattHour, 3, s.Energy)
	p.sendAnalog(device.ChanTemp1, QuantityTemperature, UnitCelsius, 0, s.TempInternal)
	p.sendAnalog(device.ChanTemp2, QuantityTemperature, UnitCelsius, 0, s.TempExternal)
	p.send(Packet{Type: PacketFrameEnd})
}

func (p *Poller) sendAnalog(name string, q Quantity, u Unit, digits int, v float64) {
	ch, ok := p.dev.Channel(name)
	if !ok || !ch.Enabled {
		return
	}
	p.send(Packet{
		Type:   PacketAnalog,
		Analog: &Analog{Channel: ch, Quantity: q, Unit: u, Digits: digits, Value: v},
	})
}

func (p *Poller) send(pkt Packet) {
	pkt.Device = p.dev
	pkt.At = p.clock()
	if err := p.cfg.Sink.Send(pkt); err != nil {
		p.log.Error("sink failed", "packet", pkt.Type.String(), "error", err)
	}
}
