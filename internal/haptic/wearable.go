// Package haptic drives a Bluetooth LE vibration wearable as the haptic
// primitive.
package haptic

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"tinygo.org/x/bluetooth"

	"seeker.klederson.com/internal/config"
	"seeker.klederson.com/internal/log"
	"seeker.klederson.com/internal/platform"
)

var (
	// PatternService is exposed by seeker motor firmware. Its pattern
	// characteristic takes a whole on/off pattern per write.
	PatternService = mustParseUUID("5eec0001-8b1d-4c4e-9a63-2f0d6c1e7a10")
	patternChar    = mustParseUUID("5eec0002-8b1d-4c4e-9a63-2f0d6c1e7a10")

	// ImmediateAlertService is the standard Find Me alert, supported by most
	// fitness bands and trackers.
	ImmediateAlertService = bluetooth.New16BitUUID(0x1802)
	alertLevelChar        = bluetooth.New16BitUUID(0x2A06)
)

func mustParseUUID(s string) bluetooth.UUID {
	u, err := bluetooth.ParseUUID(s)
	if err != nil {
		panic(err)
	}
	return u
}

// characteristic is the write side of a GATT characteristic.
type characteristic interface {
	WriteWithoutResponse(p []byte) (int, error)
}

// Options select the wearable to connect to.
type Options struct {
	// Device is a MAC address or a case-insensitive name fragment. Empty
	// accepts the first device advertising a supported service.
	Device  string
	Timeout time.Duration
}

// Wearable is a connected vibration device.
type Wearable struct {
	mu     sync.Mutex
	wmu    sync.Mutex
	name   string
	device *bluetooth.Device
	motor  characteristic
	direct bool // motor takes whole patterns
	cancel context.CancelFunc
	closed bool
	wg     sync.WaitGroup
	sleep  func(ctx context.Context, d time.Duration) bool
	logger *slog.Logger
}

// Connect enables the default adapter, scans for a matching wearable and
// attaches to its motor. Any failure is reported as ErrUnsupported so the
// caller can fall back to a still channel.
func Connect(ctx context.Context, opts Options) (*Wearable, error) {
	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return nil, fmt.Errorf("haptic: %w: enable adapter: %v (try running with sudo or setcap cap_net_admin+ep)", platform.ErrUnsupported, err)
	}

	if opts.Timeout <= 0 {
		opts.Timeout = config.HapticScanTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	found, err := scan(ctx, adapter, opts.Device)
	if err != nil {
		return nil, err
	}

	dev, err := adapter.Connect(found.address, bluetooth.ConnectionParams{})
	if err != nil {
		return nil, fmt.Errorf("haptic: %w: connect %s: %v", platform.ErrUnsupported, found.name, err)
	}

	motor, direct, err := discoverMotor(dev)
	if err != nil {
		_ = dev.Disconnect()
		return nil, fmt.Errorf("haptic: %w: %s: %v", platform.ErrUnsupported, found.name, err)
	}

	w := newWearable(found.name, motor, direct)
	w.device = &dev
	w.logger.Info("wearable connected", "address", found.address.String(), "pattern", direct)
	return w, nil
}

func newWearable(name string, motor characteristic, direct bool) *Wearable {
	return &Wearable{
		name:   name,
		motor:  motor,
		direct: direct,
		sleep:  sleepCtx,
		logger: log.With("component", "haptic", "device", name),
	}
}

type candidate struct {
	address bluetooth.Address
	name    string
}

func scan(ctx context.Context, adapter *bluetooth.Adapter, want string) (candidate, error) {
	found := make(chan candidate, 1)

	go func() {
		_ = adapter.Scan(func(a *bluetooth.Adapter, result bluetooth.ScanResult) {
			var ids []uint16
			for _, m := range result.ManufacturerData() {
				ids = append(ids, m.CompanyID)
			}
			mac := result.Address.String()
			name := label(result.LocalName(), mac, ids)
			advertises := result.HasServiceUUID(PatternService) || result.HasServiceUUID(ImmediateAlertService)
			if !matches(want, mac, name, advertises) {
				return
			}
			select {
			case found <- candidate{address: result.Address, name: name}:
				_ = a.StopScan()
			default:
			}
		})
	}()

	select {
	case c := <-found:
		return c, nil
	case <-ctx.Done():
		_ = adapter.StopScan()
		return candidate{}, fmt.Errorf("haptic: %w: no wearable found: %v", platform.ErrUnsupported, ctx.Err())
	}
}

// discoverMotor prefers the pattern characteristic and falls back to the
// Alert Level characteristic.
func discoverMotor(dev bluetooth.Device) (characteristic, bool, error) {
	if c, err := findChar(dev, PatternService, patternChar); err == nil {
		return c, true, nil
	}
	c, err := findChar(dev, ImmediateAlertService, alertLevelChar)
	if err != nil {
		return nil, false, fmt.Errorf("no motor characteristic: %w", err)
	}
	return c, false, nil
}

func findChar(dev bluetooth.Device, service, char bluetooth.UUID) (characteristic, error) {
	svcs, err := dev.DiscoverServices([]bluetooth.UUID{service})
	if err != nil {
		return nil, err
	}
	if len(svcs) == 0 {
		return nil, fmt.Errorf("service %s missing", service.String())
	}
	chars, err := svcs[0].DiscoverCharacteristics([]bluetooth.UUID{char})
	if err != nil {
		return nil, err
	}
	if len(chars) == 0 {
		return nil, fmt.Errorf("characteristic %s missing", char.String())
	}
	c := chars[0]
	return &c, nil
}

// label names a device by its local name, or by vendor plus the last two
// address octets when it advertises none.
func label(localName, mac string, companyIDs []uint16) string {
	if localName != "" {
		return localName
	}
	for _, id := range companyIDs {
		if vendor := LookupVendor(id); vendor != "" && len(mac) >= 17 {
			return vendor + " " + mac[12:]
		}
	}
	return mac
}

func matches(want, mac, name string, advertises bool) bool {
	want = strings.TrimSpace(want)
	if want == "" {
		return advertises
	}
	if len(want) == 17 && strings.Count(want, ":") == 5 {
		return strings.EqualFold(want, mac)
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(want))
}

// Name returns the device label.
func (w *Wearable) Name() string {
	return w.name
}

// Pulse vibrates once for d.
func (w *Wearable) Pulse(d time.Duration) error {
	return w.PulsePattern([]time.Duration{d})
}

// PulsePattern plays alternating on/off durations. A pattern already playing
// on an Alert Level device is cut short.
func (w *Wearable) PulsePattern(pattern []time.Duration) error {
	if len(pattern) == 0 {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return platform.Wrap(config.ChannelHaptic.String(), w.name, platform.ErrUnsupported)
	}

	if w.direct {
		w.wmu.Lock()
		_, err := w.motor.WriteWithoutResponse(Encode(pattern))
		w.wmu.Unlock()
		return platform.Wrap(config.ChannelHaptic.String(), w.name, err)
	}

	if w.cancel != nil {
		w.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.wg.Add(1)
	go w.play(ctx, alertPlan(pattern))
	return nil
}

func (w *Wearable) play(ctx context.Context, plan []step) {
	defer w.wg.Done()
	for _, s := range plan {
		if !w.write(ctx, s.level) {
			return
		}
		if s.hold > 0 && !w.sleep(ctx, s.hold) {
			return
		}
	}
}

func (w *Wearable) write(ctx context.Context, level byte) bool {
	w.wmu.Lock()
	defer w.wmu.Unlock()
	if ctx.Err() != nil {
		return false
	}
	if _, err := w.motor.WriteWithoutResponse([]byte{level}); err != nil {
		w.logger.Warn("alert write failed", "error", err)
		return false
	}
	return true
}

// Wait blocks until any playing pattern finishes.
func (w *Wearable) Wait() {
	w.wg.Wait()
}

// Close stops the motor and disconnects.
func (w *Wearable) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.cancel != nil {
		w.cancel()
	}
	w.mu.Unlock()

	w.wg.Wait()
	if !w.direct {
		w.wmu.Lock()
		_, _ = w.motor.WriteWithoutResponse([]byte{alertOff})
		w.wmu.Unlock()
	}
	if w.device != nil {
		return w.device.Disconnect()
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
