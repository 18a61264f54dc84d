package history

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/runnerr0/snufulufugus/internal/storage"
)

// MaxEntries caps each persona's log.
const MaxEntries = 100

// DefaultRecent is how many activations RecentActivations returns when asked
// for a non-positive count.
const DefaultRecent = 10

// EntryType classifies an activity log entry.
type EntryType string

const (
	TypeActivation EntryType = "activation"
	TypeVisit      EntryType = "visit"
	TypeIntercept  EntryType = "intercept"
)

// Entry is one line of a persona's activity log.
type Entry struct {
	Type      EntryType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details"`
}

func Activation(at time.Time) Entry {
	return Entry{Type: TypeActivation, Timestamp: at.UTC(), Details: "Persona activated for browsing session."}
}

func Visit(at time.Time, url string) Entry {
	return Entry{Type: TypeVisit, Timestamp: at.UTC(), Details: "Visited URL: " + url}
}

func Intercept(at time.Time, query, origin string) Entry {
	return Entry{Type: TypeIntercept, Timestamp: at.UTC(), Details: fmt.Sprintf(`Intercepted query "%s" from %s.`, query, origin)}
}

// PersonaActivation is an activation entry tagged with its persona.
type PersonaActivation struct {
	PersonaID string `json:"personaId"`
	Entry
}

// History is the per-persona activity log. Every Log call persists the whole
// map under storage.KeyPersonaHistory.
type History struct {
	mu      sync.Mutex
	kv      storage.KV
	logger  *zap.Logger
	entries map[string][]Entry
}

// Load reads the persisted history. A missing or malformed value yields an
// empty history; a persona whose value is not a list of entries is dropped.
// Load never fails.
func Load(ctx context.Context, kv storage.KV, logger *zap.Logger) *History {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &History{kv: kv, logger: logger, entries: make(map[string][]Entry)}

	var raw map[string]json.RawMessage
	if !storage.LoadJSON(ctx, kv, storage.KeyPersonaHistory, &raw, logger) {
		return h
	}

	for id, msg := range raw {
		var list []Entry
		if err := json.Unmarshal(msg, &list); err != nil || list == nil {
			logger.Warn("dropping malformed persona history",
				zap.String("persona_id", id), zap.Error(err))
			continue
		}
		if len(list) > MaxEntries {
			list = list[:MaxEntries]
		}
		h.entries[id] = list
	}
	return h
}

// Log prepends entry to the persona's log, trims it to MaxEntries and
// persists the whole history. The in-memory log is updated even when the
// write fails.
func (h *History) Log(ctx context.Context, personaID string, entry Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	prev := h.entries[personaID]
	n := len(prev) + 1
	if n > MaxEntries {
		n = MaxEntries
	}
	next := make([]Entry, n)
	next[0] = entry
	copy(next[1:], prev)
	h.entries[personaID] = next

	if err := storage.SaveJSON(ctx, h.kv, storage.KeyPersonaHistory, h.entries); err != nil {
		return fmt.Errorf("persist persona history: %w", err)
	}
	return nil
}

// Get returns a copy of the persona's log, newest first.
func (h *History) Get(personaID string) []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Entry, len(h.entries[personaID]))
	copy(out, h.entries[personaID])
	return out
}

// Filter returns the entries of the given type, preserving order.
func Filter(entries []Entry, t EntryType) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// RecentActivations returns up to n activation entries across all personas,
// newest first.
func (h *History) RecentActivations(n int) []PersonaActivation {
	if n <= 0 {
		n = DefaultRecent
	}

	h.mu.Lock()
	var all []PersonaActivation
	for id, entries := range h.entries {
		for _, e := range entries {
			if e.Type == TypeActivation {
				all = append(all, PersonaActivation{PersonaID: id, Entry: e})
			}
		}
	}
	h.mu.Unlock()

	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].Timestamp.Equal(all[j].Timestamp) {
			return all[i].Timestamp.After(all[j].Timestamp)
		}
		return all[i].PersonaID < all[j].PersonaID
	})
	if len(all) > n {
		all = all[:n]
	}
	return all
}

// Personas returns the ids that have at least one entry, sorted.
func (h *History) Personas() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	ids := make([]string, 0, len(h.entries))
	for id, entries := range h.entries {
		if len(entries) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
