package light

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/saaga0h/celestial-platform/internal/celestial"
)

// CommandRecorder observes every issued command for storage. Recording is
// best-effort and must never fail a tick.
type CommandRecorder interface {
	RecordCommand(ctx context.Context, state LightState, reason string)
}

// Cycle is the orchestrating update loop: it reads the override state and
// the celestial position, computes the target light state and diffs it
// against the last sent state before issuing a command.
type Cycle struct {
	provider          celestial.Provider
	sink              CommandSink
	overrides         *OverrideMachine
	lights            []string
	horizonDeg        float64
	maxMoonBrightness int
	recorders         []CommandRecorder
	logger            *slog.Logger

	// tickMu serializes ticks so the periodic loop and dimmer-triggered
	// immediate updates cannot reorder outbound commands
	tickMu sync.Mutex

	// stateMu guards the caches below
	stateMu  sync.Mutex
	lastSent *LightState
	lastAuto *LightState
}

// NewCycle creates an update cycle for one light group
func NewCycle(
	provider celestial.Provider,
	sink CommandSink,
	overrides *OverrideMachine,
	lights []string,
	horizonDeg float64,
	maxMoonBrightness int,
	logger *slog.Logger,
) *Cycle {
	return &Cycle{
		provider:          provider,
		sink:              sink,
		overrides:         overrides,
		lights:            lights,
		horizonDeg:        horizonDeg,
		maxMoonBrightness: maxMoonBrightness,
		logger:            logger,
	}
}

// AddRecorder registers a command recorder. Must be called before Tick.
func (c *Cycle) AddRecorder(r CommandRecorder) {
	c.recorders = append(c.recorders, r)
}

// Tick runs one update: resolve the active control mode, compute the target
// state, suppress it if unchanged, otherwise send it. At most one outbound
// command per tick; no error escalates past a log line.
func (c *Cycle) Tick(ctx context.Context, now time.Time) {
	c.tickMu.Lock()
	defer c.tickMu.Unlock()

	snap := c.overrides.Snapshot()

	var target LightState
	var reason string

	switch {
	case snap.Active && snap.Mode == ModeManual:
		base, ok := c.frozenAuto(now)
		if !ok {
			c.logger.Warn("Celestial position unavailable, skipping tick", "mode", snap.Mode)
			return
		}
		target = base.WithBrightness(snap.ManualBrightness)
		reason = "manual_override"

	case snap.Mode == ModeForcedOff:
		target = Off()
		reason = "forced_off"

	default:
		reading, err := c.provider.Reading(now)
		if err != nil {
			// Position unavailable is fatal to this tick only
			c.logger.Warn("Celestial position unavailable, skipping tick", "error", err)
			return
		}

		// Sun mapping wins at exactly the threshold
		if reading.SunElevationDeg >= c.horizonDeg {
			target = SunTarget(reading.SunElevationDeg)
			reason = "sun"
		} else {
			target = MoonTarget(reading.MoonAltitudeDeg, reading.MoonPhaseFraction, c.maxMoonBrightness)
			reason = "moon"
		}

		c.stateMu.Lock()
		auto := target
		c.lastAuto = &auto
		c.stateMu.Unlock()
	}

	c.stateMu.Lock()
	if c.lastSent != nil && target.Equal(*c.lastSent) {
		c.stateMu.Unlock()
		c.logger.Debug("Target unchanged, suppressing command", "reason", reason)
		return
	}
	// The cache is updated regardless of whether the sink accepts the
	// command; a failed send is not retried by the cycle.
	sent := target
	c.lastSent = &sent
	c.stateMu.Unlock()

	if err := c.sink.SendLightState(ctx, c.lights, target); err != nil {
		c.logger.Error("Failed to send light state",
			"reason", reason,
			"mode", target.Mode,
			"error", err)
	} else {
		c.logger.Info("Light state sent",
			"reason", reason,
			"mode", target.Mode,
			"color_temp", target.ColorTemp,
			"brightness", target.Brightness)
	}

	for _, r := range c.recorders {
		r.RecordCommand(ctx, target, reason)
	}
}

// frozenAuto returns the automatic target captured before the override. If
// the override activated before any automatic target existed, one is
// computed once from the current celestial position and frozen.
func (c *Cycle) frozenAuto(now time.Time) (LightState, bool) {
	c.stateMu.Lock()
	if c.lastAuto != nil {
		base := *c.lastAuto
		c.stateMu.Unlock()
		return base, true
	}
	c.stateMu.Unlock()

	reading, err := c.provider.Reading(now)
	if err != nil {
		return LightState{}, false
	}

	var target LightState
	if reading.SunElevationDeg >= c.horizonDeg {
		target = SunTarget(reading.SunElevationDeg)
	} else {
		target = MoonTarget(reading.MoonAltitudeDeg, reading.MoonPhaseFraction, c.maxMoonBrightness)
	}

	c.stateMu.Lock()
	auto := target
	c.lastAuto = &auto
	c.stateMu.Unlock()

	return target, true
}

// LastSent returns a copy of the most recently issued light state
func (c *Cycle) LastSent() (LightState, bool) {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	if c.lastSent == nil {
		return LightState{}, false
	}
	return *c.lastSent, true
}

// CurrentBrightness reports the brightness currently applied to the group,
// used to seed the manual level when an override activates. Defaults to
// full brightness before anything has been sent.
func (c *Cycle) CurrentBrightness() int {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	if c.lastSent == nil {
		return 100
	}
	return c.lastSent.Brightness
}
