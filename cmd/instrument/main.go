// cmd/instrument/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/tamzrod/modbus-instrument/internal/config"
	"github.com/tamzrod/modbus-instrument/internal/device"
	"github.com/tamzrod/modbus-instrument/internal/driver"
	"github.com/tamzrod/modbus-instrument/internal/logging"
	"github.com/tamzrod/modbus-instrument/internal/poller"
	"github.com/tamzrod/modbus-instrument/internal/profile"
	"github.com/tamzrod/modbus-instrument/internal/publisher"
	"github.com/tamzrod/modbus-instrument/internal/sink"
	"github.com/tamzrod/modbus-instrument/internal/transport"
	tmodbus "github.com/tamzrod/modbus-instrument/internal/transport/modbus"
	"github.com/tamzrod/modbus-instrument/internal/writer"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: instrument <config.yaml> | instrument models")
	}

	if os.Args[1] == "models" {
		for _, p := range profile.All() {
			fmt.Printf("%s\t%d\tV<=%g\tI<=%g\tP<=%g\n", p.Name, p.Code, p.Voltage.Max, p.Current.Max, p.Power.Max)
		}
		return
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(os.Args[1])
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	lg := logging.New(cfg.Logging, version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Error("instrument failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, lg *logging.Logger) error {
	drv := driver.New(
		transport.SerialDiscoverer{},
		tmodbus.Dialer{Logger: lg.StdLogger()},
		lg,
	)

	// --------------------
	// Scan + open
	// --------------------

	insts, err := drv.Scan(ctx, scanOptions(cfg.Scan))
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	if len(insts) == 0 {
		return errors.New("no supported instrument found")
	}
	defer func() {
		if err := drv.Clear(insts); err != nil {
			lg.Warn("close failed", "error", err)
		}
	}()

	inst := insts[0]
	if len(insts) > 1 {
		lg.Warn("several instruments found, using the first", "count", len(insts), "conn", inst.Descriptor())
	}

	if err := drv.Open(ctx, inst); err != nil {
		return fmt.Errorf("open %s: %w", inst.Descriptor(), err)
	}

	id := inst.Identity()
	lg.Info("instrument ready",
		"vendor", id.Vendor, "model", id.Model,
		"firmware", id.Firmware, "serial", id.Serial,
		"conn", inst.Descriptor())

	if opts, err := drv.ConfigList(driver.KeyDeviceOptions, inst, nil); err == nil {
		lg.Debug("device options", "keys", opts.String())
	}

	if err := applySetup(ctx, drv, inst, cfg, lg); err != nil {
		return err
	}

	// --------------------
	// Sinks
	// --------------------

	ended := make(chan struct{})
	var endOnce sync.Once
	sinks := sink.Multi{
		sink.NewLogSink(lg),
		poller.SinkFunc(func(p poller.Packet) error {
			if p.Type == poller.PacketEnd {
				endOnce.Do(func() { close(ended) })
			}
			return nil
		}),
	}

	var onError func(error)

	if cfg.MQTT != nil {
		pub, err := publisher.Connect(*cfg.MQTT, inst, lg)
		if err != nil {
			return err
		}
		defer pub.Close()
		sinks = append(sinks, pub)
	}

	var mirror *writer.Mirror
	if cfg.Mirror != nil {
		m, closeMirror, err := writer.Build(*cfg.Mirror, lg)
		if err != nil {
			return fmt.Errorf("mirror: %w", err)
		}
		defer closeMirror()
		mirror = m
		sinks = append(sinks, mirror)
		onError = mirror.ReportError
	}

	// --------------------
	// Acquisition
	// --------------------

	pcfg := poller.BuildConfig(cfg.Acquisition, sinks, poller.TickerScheduler{}, onError)
	if err := drv.AcquisitionStart(ctx, inst, pcfg); err != nil {
		return fmt.Errorf("acquisition start: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	if mirror != nil {
		g.Go(func() error {
			mirror.Run(gctx)
			return nil
		})
	}

	g.Go(func() error {
		select {
		case <-gctx.Done():
			lg.Info("shutdown requested")
		case <-ended:
		}
		err := drv.AcquisitionStop(inst)
		cancel()
		return err
	})

	return g.Wait()
}

// scanOptions passes only the fields the user set, so driver defaults
// fill the rest.
func scanOptions(sc config.ScanConfig) transport.Options {
	var opts transport.Options
	if sc.Conn != "" {
		opts = append(opts, transport.Option{Key: transport.KeyConn, Value: sc.Conn})
	}
	if sc.SerialComm != "" {
		opts = append(opts, transport.Option{Key: transport.KeySerialComm, Value: sc.SerialComm})
	}
	if sc.ModbusAddr != 0 {
		opts = append(opts, transport.Option{Key: transport.KeyModbusAddr, Value: strconv.Itoa(int(sc.ModbusAddr))})
	}
	if sc.TimeoutMs > 0 {
		opts = append(opts, transport.Option{Key: transport.KeyTimeout, Value: strconv.Itoa(sc.TimeoutMs)})
	}
	return opts
}

// applySetup writes the setup section and the session limits through the
// configuration interface. Output enable goes last.
func applySetup(ctx context.Context, drv *driver.Driver, inst *device.Instance, cfg *config.Config, lg *logging.Logger) error {
	type step struct {
		key driver.Key
		v   driver.Value
	}
	var steps []step

	if a := cfg.Acquisition; a.LimitSamples > 0 {
		steps = append(steps, step{driver.KeyLimitSamples, driver.Uint64Value(a.LimitSamples)})
	}
	if a := cfg.Acquisition; a.LimitMsec > 0 {
		steps = append(steps, step{driver.KeyLimitMsec, driver.Uint64Value(a.LimitMsec)})
	}

	s := cfg.Setup
	for _, f := range []struct {
		key driver.Key
		v   *float64
	}{
		{driver.KeyOVPThreshold, s.OVPThreshold},
		{driver.KeyOCPThreshold, s.OCPThreshold},
		{driver.KeyVoltageTarget, s.VoltageTarget},
		{driver.KeyCurrentLimit, s.CurrentLimit},
	} {
		if f.v != nil {
			steps = append(steps, step{f.key, driver.FloatValue(*f.v)})
		}
	}
	if s.Enabled != nil {
		steps = append(steps, step{driver.KeyEnabled, driver.BoolValue(*s.Enabled)})
	}

	for _, st := range steps {
		if err := drv.ConfigSet(ctx, st.key, st.v, inst, nil); err != nil {
			return fmt.Errorf("setup %s: %w", st.key, err)
		}
		if driver.Capabilities(st.key)&driver.CapGet == 0 {
			continue
		}
		got, err := drv.ConfigGet(ctx, st.key, inst, nil)
		if err != nil {
			return fmt.Errorf("setup %s readback: %w", st.key, err)
		}
		lg.Info("setup applied", "key", st.key.String(), "value", got.String())
	}
	return nil
}
