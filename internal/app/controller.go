package app

import (
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/runnerr0/snufulufugus/internal/agent"
	"github.com/runnerr0/snufulufugus/internal/config"
	"github.com/runnerr0/snufulufugus/internal/history"
	"github.com/runnerr0/snufulufugus/internal/persona"
	"github.com/runnerr0/snufulufugus/internal/schedule"
	"github.com/runnerr0/snufulufugus/internal/storage"
	"github.com/runnerr0/snufulufugus/internal/telemetry"
)

// SpoofingStatus reports whether the spoofing layer has settled after a
// persona or target change.
type SpoofingStatus string

const (
	SpoofingInitializing SpoofingStatus = "initializing"
	SpoofingActive       SpoofingStatus = "active"
)

// Querier runs analysis prompts. *agent.Client satisfies it.
type Querier interface {
	Query(ctx context.Context, prompt string, cfg agent.Config) string
}

// Options carries the collaborators a Controller needs beyond config and
// storage. Zero fields get production defaults.
type Options struct {
	Scheduler schedule.Scheduler
	Rand      *rand.Rand
	Agent     Querier
	Broker    *telemetry.Broker
	Logger    *zap.Logger
	Now       func() time.Time
}

// Controller owns all application state. Every public method and every
// timer callback takes mu, so state changes happen one at a time.
type Controller struct {
	mu sync.Mutex

	cfg    *config.Config
	kv     storage.KV
	sched  schedule.Scheduler
	rng    *rand.Rand
	agent  Querier
	broker *telemetry.Broker
	logger *zap.Logger
	now    func() time.Time

	personas   []persona.Persona
	personaGen *persona.Generator
	active     persona.Persona
	target     string
	generator  *telemetry.Generator
	history    *history.History

	// visitedTarget is the target last logged as a visit for the active
	// persona; Start skips the visit when it is still current.
	visitedTarget string

	started    bool
	generation uint64
	spoofing   SpoofingStatus
	tick       schedule.Handle
	initTimer  schedule.Handle
	timerSeq   int
	pending    map[int]schedule.Handle

	toggles   Toggles
	installed bool
	agentCfg  agent.Config
	report    string
	media     MediaAnalysis
	archives  []Archive

	sentryPackets []SentryPacket
	sentryStatus  string
	replaySeq     int
}

// New builds a Controller from persisted state. Stored values that are
// missing or malformed fall back to defaults; New only fails on invalid
// arguments.
func New(ctx context.Context, cfg *config.Config, kv storage.KV, opts Options) (*Controller, error) {
	if cfg == nil || kv == nil {
		return nil, fmt.Errorf("controller requires config and storage")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = schedule.NewReal()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Broker == nil {
		opts.Broker = telemetry.NewBroker(opts.Logger)
	}
	if opts.Agent == nil {
		opts.Agent = agent.NewClient(cfg.Agent, opts.Logger)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	c := &Controller{
		cfg:        cfg,
		kv:         kv,
		sched:      opts.Scheduler,
		rng:        opts.Rand,
		agent:      opts.Agent,
		broker:     opts.Broker,
		logger:     opts.Logger.Named("controller"),
		now:        opts.Now,
		personaGen: persona.NewGenerator(opts.Rand),
		spoofing:   SpoofingInitializing,
		pending:    make(map[int]schedule.Handle),
		toggles:    defaultToggles(cfg.Engine.DefaultVPNRegion),
		archives:   defaultArchives(),

		sentryPackets: defaultSentryPackets(),
		sentryStatus:  SentryIdle,
	}

	c.generator = telemetry.NewGenerator(opts.Rand, telemetry.Options{
		Origins:            cfg.Engine.TrackerOrigins,
		TargetOriginChance: cfg.Engine.TargetOriginChance,
		Sink:               c.broker.Publish,
		Now:                opts.Now,
	})
	c.history = history.Load(ctx, kv, opts.Logger)
	c.load(ctx)

	return c, nil
}

func (c *Controller) load(ctx context.Context) {
	c.personas = persona.Defaults()
	var generated []persona.Persona
	if storage.LoadJSON(ctx, c.kv, storage.KeyGeneratedPersonas, &generated, c.logger) {
		for _, p := range generated {
			if p.ID == "" {
				continue
			}
			p.IsGenerated = true
			c.personas = append(c.personas, p)
		}
	}

	c.active = c.personas[0]
	if id, ok := c.readString(ctx, storage.KeyActivePersona); ok {
		if p, found := persona.Find(c.personas, id); found {
			c.active = p
		} else {
			c.logger.Warn("stored active persona no longer exists, using default", zap.String("persona_id", id))
		}
	}

	c.target = c.cfg.Engine.DefaultTargetURL
	if target, ok := c.readString(ctx, storage.KeyTargetURL); ok && target != "" {
		c.target = target
	}

	var agentCfg agent.Config
	if storage.LoadJSON(ctx, c.kv, storage.KeyAgentConfig, &agentCfg, c.logger) && agentCfg.Validate() == nil {
		c.agentCfg = agentCfg
	} else {
		c.agentCfg = agent.DefaultConfig(c.cfg.Agent)
	}

	installed, _ := c.readString(ctx, storage.KeyInstalled)
	c.installed = installed == "true"

	c.generator.SetPersona(c.active)
	host, _ := telemetry.TargetHostname(c.target)
	c.generator.SetTargetHost(host)
}

func (c *Controller) readString(ctx context.Context, key string) (string, bool) {
	v, ok, err := c.kv.Get(ctx, key)
	if err != nil {
		c.logger.Warn("could not read stored value", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return v, ok
}

func (c *Controller) writeString(ctx context.Context, key, value string) {
	if err := c.kv.Set(ctx, key, value); err != nil {
		c.logger.Warn("could not persist value", zap.String("key", key), zap.Error(err))
	}
}

func (c *Controller) logActivity(ctx context.Context, personaID string, entry history.Entry) {
	if err := c.history.Log(ctx, personaID, entry); err != nil {
		c.logger.Warn("could not persist activity", zap.String("persona_id", personaID), zap.Error(err))
	}
}

// Start begins generating events for the active persona and target.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return
	}
	c.started = true
	c.logger.Info("engine started",
		zap.String("persona_id", c.active.ID),
		zap.String("target", c.target),
		zap.Duration("tick", c.cfg.Engine.TickInterval()))
	c.restartEffect(ctx, c.target != c.visitedTarget)
}

// Stop cancels every timer. No events are generated and no pending crawl,
// analysis or challenge replay completes after Stop returns.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.started = false
	c.generation++
	c.cancelEffect()
	for id, h := range c.pending {
		h.Cancel()
		delete(c.pending, id)
	}
	c.replaySeq++
	c.sentryStatus = SentryIdle
	c.logger.Info("engine stopped")
}

func (c *Controller) cancelEffect() {
	if c.tick != nil {
		c.tick.Cancel()
		c.tick = nil
	}
	if c.initTimer != nil {
		c.initTimer.Cancel()
		c.initTimer = nil
	}
}

// restartEffect replaces the tick and init timers. Callers hold mu and have
// checked c.started.
func (c *Controller) restartEffect(ctx context.Context, logVisit bool) {
	c.cancelEffect()
	c.generation++
	gen := c.generation

	c.spoofing = SpoofingInitializing
	c.initTimer = c.sched.After(c.cfg.Engine.SpoofInitDelay(), func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen != c.generation {
			return
		}
		c.spoofing = SpoofingActive
	})
	c.tick = c.sched.Every(c.cfg.Engine.TickInterval(), func() {
		c.onTick(gen)
	})

	if logVisit {
		c.logVisit(ctx)
	}
}

func (c *Controller) onTick(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation || !c.started {
		return
	}

	ev := c.generator.Tick()
	c.logActivity(context.Background(), c.active.ID, history.Intercept(ev.Timestamp, ev.Query, ev.Origin))
}

// Activate makes the persona with the given id active and records the
// activation in its history.
func (c *Controller) Activate(ctx context.Context, id string) (persona.Persona, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := persona.Find(c.personas, id)
	if !ok {
		return persona.Persona{}, fmt.Errorf("activate %q: %w", id, ErrPersonaNotFound)
	}

	c.active = p
	c.visitedTarget = ""
	c.generator.SetPersona(p)
	c.writeString(ctx, storage.KeyActivePersona, p.ID)
	c.logActivity(ctx, p.ID, history.Activation(c.now()))
	c.logger.Info("persona activated", zap.String("persona_id", p.ID), zap.String("name", p.Name))

	if c.started {
		c.restartEffect(ctx, false)
	}
	return p, nil
}

func validateTarget(target string) error {
	if strings.HasPrefix(target, telemetry.LocalArchiveScheme) {
		if _, ok := telemetry.TargetHostname(target); !ok {
			return fmt.Errorf("%w: %q", ErrInvalidURL, target)
		}
		return nil
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, target)
	}
	return nil
}

// Navigate changes the browsing target and logs a visit for the active
// persona.
func (c *Controller) Navigate(ctx context.Context, target string) error {
	target = strings.TrimSpace(target)
	if err := validateTarget(target); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.navigateLocked(ctx, target)
	return nil
}

func (c *Controller) navigateLocked(ctx context.Context, target string) {
	c.target = target
	host, _ := telemetry.TargetHostname(target)
	c.generator.SetTargetHost(host)
	c.writeString(ctx, storage.KeyTargetURL, target)
	c.logger.Info("navigated", zap.String("target", target), zap.String("persona_id", c.active.ID))

	if c.started {
		c.restartEffect(ctx, true)
		return
	}
	c.logVisit(ctx)
}

func (c *Controller) logVisit(ctx context.Context) {
	c.logActivity(ctx, c.active.ID, history.Visit(c.now(), c.target))
	c.visitedTarget = c.target
}

// GeneratePersona creates a random persona, adds it to the roster and
// persists the generated roster.
func (c *Controller) GeneratePersona(ctx context.Context) (persona.Persona, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.personaGen.Generate()
	next := append(append([]persona.Persona(nil), c.personas...), p)

	var generated []persona.Persona
	for _, q := range next {
		if q.IsGenerated {
			generated = append(generated, q)
		}
	}
	if err := storage.SaveJSON(ctx, c.kv, storage.KeyGeneratedPersonas, generated); err != nil {
		return persona.Persona{}, fmt.Errorf("save generated personas: %w", err)
	}

	c.personas = next
	c.logger.Info("persona generated", zap.String("persona_id", p.ID), zap.String("platform", p.Platform))
	return p, nil
}

// Personas returns the roster: curated defaults first, then generated
// personas in creation order.
func (c *Controller) Personas() []persona.Persona {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]persona.Persona(nil), c.personas...)
}

// ActivePersona returns the active persona.
func (c *Controller) ActivePersona() persona.Persona {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Target returns the current browsing target.
func (c *Controller) Target() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// Events returns the buffered events, newest first.
func (c *Controller) Events() []telemetry.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generator.Events()
}

// ClearEvents empties the event buffer. History is untouched.
func (c *Controller) ClearEvents() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generator.Reset()
}

// Score computes the privacy score over the current buffer.
func (c *Controller) Score() telemetry.Scorecard {
	return telemetry.Score(c.Events())
}

// Broker returns the live event broker.
func (c *Controller) Broker() *telemetry.Broker {
	return c.broker
}

// History returns a persona's activity log, newest first.
func (c *Controller) History(personaID string) []history.Entry {
	return c.history.Get(personaID)
}

// RecentActivations returns the newest activations across all personas.
func (c *Controller) RecentActivations(n int) []history.PersonaActivation {
	return c.history.RecentActivations(n)
}

// Status is a point-in-time view of the controller.
type Status struct {
	Started       bool                `json:"started"`
	Spoofing      SpoofingStatus      `json:"spoofing"`
	ActivePersona string              `json:"activePersona"`
	PersonaName   string              `json:"personaName"`
	Target        string              `json:"target"`
	TargetHost    string              `json:"targetHost"`
	Installed     bool                `json:"installed"`
	Personas      int                 `json:"personas"`
	Toggles       Toggles             `json:"toggles"`
	Score         telemetry.Scorecard `json:"score"`
	Breakdown     telemetry.Breakdown `json:"breakdown"`
	SentryStatus  string              `json:"sentryStatus"`
}

// Status returns the current state summary.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	host, _ := telemetry.TargetHostname(c.target)
	events := c.generator.Events()
	return Status{
		Started:       c.started,
		Spoofing:      c.spoofing,
		ActivePersona: c.active.ID,
		PersonaName:   c.active.Name,
		Target:        c.target,
		TargetHost:    host,
		Installed:     c.installed,
		Personas:      len(c.personas),
		Toggles:       c.toggles,
		Score:         telemetry.Score(events),
		Breakdown:     telemetry.BreakdownOf(events),
		SentryStatus:  c.sentryStatus,
	}
}

// Installed reports whether first-run setup has completed.
func (c *Controller) Installed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.installed
}

// CompleteInstall records that first-run setup has completed.
func (c *Controller) CompleteInstall(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.kv.Set(ctx, storage.KeyInstalled, "true"); err != nil {
		return fmt.Errorf("save install flag: %w", err)
	}
	c.installed = true
	return nil
}

// schedulePending runs fn after d unless Stop is called first.
func (c *Controller) schedulePending(d time.Duration, fn func()) {
	c.timerSeq++
	id := c.timerSeq
	c.pending[id] = c.sched.After(d, func() {
		c.mu.Lock()
		_, live := c.pending[id]
		delete(c.pending, id)
		c.mu.Unlock()
		if live {
			fn()
		}
	})
}
