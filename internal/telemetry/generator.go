package telemetry

import (
	"math/rand"
	"time"

	"github.com/runnerr0/snufulufugus/internal/persona"
)

// BufferSize caps the number of events a Generator retains.
const BufferSize = 100

// Event is one simulated interception of a fingerprinting query.
type Event struct {
	ID           int64     `json:"id"`
	Origin       string    `json:"origin"`
	Query        string    `json:"query"`
	Risk         Risk      `json:"risk"`
	SpoofedValue string    `json:"spoofedValue"`
	Timestamp    time.Time `json:"timestamp"`
}

// Options configures a Generator.
type Options struct {
	// Origins are the tracker domains a query can come from.
	Origins []string
	// TargetOriginChance is the probability that a query is attributed to
	// the browsing target instead of a tracker.
	TargetOriginChance float64
	// Sink, when set, receives every generated event.
	Sink func(Event)
	Now  func() time.Time
}

// Generator produces simulated interception events against the active
// persona and keeps the newest BufferSize of them. It is not safe for
// concurrent use.
type Generator struct {
	rng    *rand.Rand
	opts   Options
	lastID int64
	events []Event

	persona    persona.Persona
	targetHost string
}

// NewGenerator returns a Generator drawing from rng.
func NewGenerator(rng *rand.Rand, opts Options) *Generator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Generator{rng: rng, opts: opts}
}

// SetPersona changes the persona whose attributes are reported.
func (g *Generator) SetPersona(p persona.Persona) {
	g.persona = p
}

// SetTargetHost sets the hostname of the page being browsed. An empty host
// disables target-attributed origins.
func (g *Generator) SetTargetHost(host string) {
	g.targetHost = host
}

func (g *Generator) nextID(now time.Time) int64 {
	id := now.UnixMicro()
	if id <= g.lastID {
		id = g.lastID + 1
	}
	g.lastID = id
	return id
}

func (g *Generator) origin() string {
	if g.targetHost != "" && g.rng.Float64() < g.opts.TargetOriginChance {
		return g.targetHost
	}
	if len(g.opts.Origins) == 0 {
		return g.targetHost
	}
	return g.opts.Origins[g.rng.Intn(len(g.opts.Origins))]
}

// Tick samples one query and one origin, records the resulting event at the
// front of the buffer and returns it.
func (g *Generator) Tick() Event {
	d := Catalog[g.rng.Intn(len(Catalog))]
	origin := g.origin()
	now := g.opts.Now()

	ev := Event{
		ID:           g.nextID(now),
		Origin:       origin,
		Query:        d.Query,
		Risk:         d.Risk,
		SpoofedValue: SpoofedValue(g.rng, d, &g.persona),
		Timestamp:    now.UTC(),
	}
	g.push(ev)

	if g.opts.Sink != nil {
		g.opts.Sink(ev)
	}
	return ev
}

func (g *Generator) push(ev Event) {
	n := len(g.events) + 1
	if n > BufferSize {
		n = BufferSize
	}
	next := make([]Event, n)
	next[0] = ev
	copy(next[1:], g.events)
	g.events = next
}

// Events returns the buffered events, newest first. The returned slice is
// never modified by later ticks.
func (g *Generator) Events() []Event {
	return g.events
}

// Reset discards buffered events.
func (g *Generator) Reset() {
	g.events = nil
}
