package light

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/saaga0h/celestial-platform/internal/celestial"
	"github.com/saaga0h/celestial-platform/pkg/config"
	"github.com/saaga0h/celestial-platform/pkg/mqtt"
	"github.com/saaga0h/celestial-platform/pkg/postgres"
	"github.com/saaga0h/celestial-platform/pkg/redis"
)

// Agent wires the celestial lighting core together: the override machine,
// the update cycle, the dimmer event handler and the recording collaborators.
type Agent struct {
	mqtt   mqtt.Client
	redis  redis.Client
	pg     postgres.Client // nil when the journal is disabled
	cfg    *config.Config
	logger *slog.Logger

	machine *OverrideMachine
	cycle   *Cycle
	handler *DimmerHandler
	journal *Journal

	ticker   *time.Ticker
	stopChan chan struct{}
}

// NewAgent creates a celestial lighting agent. pgClient may be nil when the
// journal is not configured.
func NewAgent(
	mqttClient mqtt.Client,
	redisClient redis.Client,
	pgClient postgres.Client,
	provider celestial.Provider,
	cfg *config.Config,
	logger *slog.Logger,
) *Agent {
	sink := NewMQTTSink(mqttClient, cfg.LightGroup, cfg.ServiceName, logger)
	machine := NewOverrideMachine(cfg.RotateActivatesManual)
	cycle := NewCycle(provider, sink, machine, cfg.Lights, cfg.SunHorizonDeg, cfg.MaxMoonBrightness, logger)
	cycle.AddRecorder(NewHistory(redisClient, cfg.LightGroup, cfg.HistorySize, logger))

	var journal *Journal
	if pgClient != nil {
		journal = NewJournal(pgClient, cfg.LightGroup, logger)
		cycle.AddRecorder(journal)
	}

	handler := NewDimmerHandler(cfg.DimmerDeviceID, cfg.RotateStepPct, machine, cycle, logger)

	a := &Agent{
		mqtt:     mqttClient,
		redis:    redisClient,
		pg:       pgClient,
		cfg:      cfg,
		logger:   logger,
		machine:  machine,
		cycle:    cycle,
		handler:  handler,
		journal:  journal,
		stopChan: make(chan struct{}),
	}

	// Confirmation flash + journal entry on every mode change
	machine.OnModeChange(func(entered OverrideMode) {
		ctx := context.Background()
		if err := sink.Flash(ctx, cfg.Lights, entered); err != nil {
			logger.Error("Failed to send mode flash", "mode", entered, "error", err)
		}
		if a.journal != nil {
			a.journal.RecordTransition(ctx, entered, machine.Snapshot())
		}
	})

	return a
}

// Start starts the agent and begins processing. Blocks until ctx is done.
func (a *Agent) Start(ctx context.Context) error {
	a.logger.Info("Starting celestial lighting agent",
		"service_name", a.cfg.ServiceName,
		"light_group", a.cfg.LightGroup,
		"light_count", len(a.cfg.Lights),
		"update_interval_sec", a.cfg.UpdateIntervalSec,
		"sun_horizon_deg", a.cfg.SunHorizonDeg,
		"journal_enabled", a.pg != nil)

	// Connect to MQTT broker
	if err := a.mqtt.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to MQTT: %w", err)
	}

	// Verify Redis connection
	if err := a.redis.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}

	// Connect the journal if configured
	if a.pg != nil {
		if err := a.pg.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to Postgres: %w", err)
		}
		if err := a.journal.Bootstrap(ctx); err != nil {
			return fmt.Errorf("failed to bootstrap journal: %w", err)
		}
	}

	// Subscribe to dimmer events if a dimmer is configured
	if a.cfg.DimmerDeviceID != "" {
		if err := a.mqtt.Subscribe(mqtt.TopicRawDimmer, 0, a.handleDimmerMessage); err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", mqtt.TopicRawDimmer, err)
		}
		a.logger.Info("Listening for dimmer events",
			"topic", mqtt.TopicRawDimmer,
			"device_id", a.cfg.DimmerDeviceID)
	}

	// First update immediately, then the periodic loop
	a.cycle.Tick(ctx, time.Now())
	a.startUpdateLoop()

	a.logger.Info("Celestial lighting agent started and ready")

	// Block until context is cancelled
	<-ctx.Done()
	a.logger.Info("Celestial lighting agent stopping")

	return nil
}

// Stop gracefully stops the agent
func (a *Agent) Stop() error {
	a.logger.Info("Stopping celestial lighting agent")

	if a.ticker != nil {
		a.ticker.Stop()
	}
	close(a.stopChan)

	a.mqtt.Disconnect()

	if a.pg != nil {
		if err := a.pg.Disconnect(); err != nil {
			a.logger.Error("Error closing Postgres connection", "error", err)
		}
	}

	if err := a.redis.Close(); err != nil {
		a.logger.Error("Error closing Redis connection", "error", err)
		return err
	}

	a.logger.Info("Celestial lighting agent stopped")
	return nil
}

// startUpdateLoop starts the periodic update cycle
func (a *Agent) startUpdateLoop() {
	interval := time.Duration(a.cfg.UpdateIntervalSec) * time.Second
	a.ticker = time.NewTicker(interval)

	go func() {
		a.logger.Info("Starting update loop", "interval_sec", a.cfg.UpdateIntervalSec)
		for {
			select {
			case <-a.ticker.C:
				a.cycle.Tick(context.Background(), time.Now())
			case <-a.stopChan:
				return
			}
		}
	}()
}

// handleDimmerMessage handles incoming raw dimmer event messages
func (a *Agent) handleDimmerMessage(msg mqtt.Message) {
	event, err := ParseDimmerEvent(msg.Payload())
	if err != nil {
		a.logger.Debug("Dropping malformed dimmer event",
			"topic", msg.Topic(),
			"error", err)
		return
	}
	if event == nil {
		// Action this agent does not react to
		return
	}

	a.handler.Handle(context.Background(), *event)
}

// OverrideSnapshot returns the current override state (for inspection)
func (a *Agent) OverrideSnapshot() OverrideState {
	return a.machine.Snapshot()
}
