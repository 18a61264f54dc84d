package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/runnerr0/snufulufugus/internal/agent"
	"github.com/runnerr0/snufulufugus/internal/app"
	"github.com/runnerr0/snufulufugus/internal/config"
	"github.com/runnerr0/snufulufugus/internal/history"
	"github.com/runnerr0/snufulufugus/internal/persona"
	"github.com/runnerr0/snufulufugus/internal/telemetry"
)

// App exposes a Controller over HTTP.
type App struct {
	cfg    *config.Config
	ctrl   *app.Controller
	logger *zap.Logger
}

func NewApp(cfg *config.Config, ctrl *app.Controller, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{cfg: cfg, ctrl: ctrl, logger: logger.Named("api")}
}

func (a *App) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(a.limitBody)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { writeText(w, http.StatusOK, "ok\n") })

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", a.status)
		r.Post("/install", a.completeInstall)

		r.Get("/personas", a.listPersonas)
		r.Get("/personas/export.csv", a.exportPersonas)
		r.Post("/personas/generate", a.generatePersona)
		r.Post("/personas/{id}/activate", a.activatePersona)
		r.Get("/personas/{id}/history", a.personaHistory)
		r.Get("/activations", a.recentActivations)

		r.Post("/navigate", a.navigate)
		r.Get("/events", a.listEvents)
		r.Delete("/events", a.clearEvents)
		r.Get("/events/stream", a.streamEvents)
		r.Get("/events/{id}", a.eventDetail)
		r.Get("/score", a.score)

		r.Put("/toggles/{name}", a.setToggle)
		r.Put("/vpn", a.setVPNRegion)
		r.Put("/referer-policy", a.setRefererPolicy)

		r.Post("/agent/query", a.queryAgent)
		r.Get("/agent/config", a.getAgentConfig)
		r.Put("/agent/config", a.saveAgentConfig)

		r.Get("/archives", a.listArchives)
		r.Post("/archives", a.createArchive)
		r.Delete("/archives/{id}", a.deleteArchive)
		r.Post("/archives/{id}/scrape", a.scrapeArchive)
		r.Post("/archives/{id}/analyze", a.analyzeMedia)
		r.Get("/media-analysis", a.mediaAnalysis)

		r.Get("/sentry/packets", a.listSentryPackets)
		r.Post("/sentry/packets/{id}/replay", a.replaySentryPacket)
	})

	return r
}

func (a *App) limitBody(next http.Handler) http.Handler {
	limit := int64(a.cfg.Server.MaxRequestSize)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if limit > 0 && r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
		}
		next.ServeHTTP(w, r)
	})
}

func (a *App) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.ctrl.Status())
}

func (a *App) completeInstall(w http.ResponseWriter, r *http.Request) {
	if err := a.ctrl.CompleteInstall(r.Context()); err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"installed": true})
}

func (a *App) listPersonas(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"active":   a.ctrl.ActivePersona().ID,
		"personas": a.ctrl.Personas(),
	})
}

func (a *App) exportPersonas(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", persona.CSVFilename))
	w.WriteHeader(http.StatusOK)
	if err := persona.WriteCSV(w, a.ctrl.Personas()); err != nil {
		a.logger.Warn("csv export interrupted", zap.Error(err))
	}
}

func (a *App) generatePersona(w http.ResponseWriter, r *http.Request) {
	p, err := a.ctrl.GeneratePersona(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (a *App) activatePersona(w http.ResponseWriter, r *http.Request) {
	p, err := a.ctrl.Activate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *App) personaHistory(w http.ResponseWriter, r *http.Request) {
	entries := a.ctrl.History(chi.URLParam(r, "id"))
	if t := r.URL.Query().Get("type"); t != "" {
		entries = history.Filter(entries, history.EntryType(t))
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (a *App) recentActivations(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit", history.DefaultRecent)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}
	acts := a.ctrl.RecentActivations(limit)
	if acts == nil {
		acts = []history.PersonaActivation{}
	}
	writeJSON(w, http.StatusOK, acts)
}

func (a *App) navigate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := a.ctrl.Navigate(r.Context(), req.URL); err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"target": a.ctrl.Target()})
}

func (a *App) listEvents(w http.ResponseWriter, r *http.Request) {
	events := a.ctrl.Events()
	if r.URL.Query().Get("relevant") == "true" {
		host, _ := telemetry.TargetHostname(a.ctrl.Target())
		events = telemetry.RelevantTo(events, host)
	}
	if events == nil {
		events = []telemetry.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (a *App) clearEvents(w http.ResponseWriter, r *http.Request) {
	a.ctrl.ClearEvents()
	w.WriteHeader(http.StatusNoContent)
}

// eventDetail returns one buffered event with a description of its origin
// and the persona attribute it exposed.
func (a *App) eventDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid event id"})
		return
	}
	for _, ev := range a.ctrl.Events() {
		if ev.ID != id {
			continue
		}
		// attribute names the persona field a keyed query read; empty for
		// canned values.
		attribute := ""
		if d, ok := telemetry.Lookup(ev.Query); ok && d.Keyed() {
			attribute = d.Attr.String()
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"event":       ev,
			"description": telemetry.TrackerDescription(ev.Origin),
			"attribute":   attribute,
		})
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"error": "event not in buffer"})
}

func (a *App) score(w http.ResponseWriter, r *http.Request) {
	events := a.ctrl.Events()
	writeJSON(w, http.StatusOK, map[string]any{
		"scorecard": telemetry.Score(events),
		"breakdown": telemetry.BreakdownOf(events),
	})
}

func (a *App) setToggle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := a.ctrl.SetToggle(app.Toggle(chi.URLParam(r, "name")), req.Enabled); err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a.ctrl.Toggles())
}

func (a *App) setVPNRegion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Region string `json:"region"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := a.ctrl.SetVPNRegion(req.Region); err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a.ctrl.Toggles())
}

func (a *App) setRefererPolicy(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Policy string `json:"policy"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := a.ctrl.SetRefererPolicy(req.Policy); err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a.ctrl.Toggles())
}

func (a *App) queryAgent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "prompt is required"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"report": a.ctrl.AskAgent(r.Context(), req.Prompt)})
}

func (a *App) getAgentConfig(w http.ResponseWriter, r *http.Request) {
	cfg := a.ctrl.AgentConfig()
	if cfg.APIKey != "" {
		cfg.APIKey = "********"
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (a *App) saveAgentConfig(w http.ResponseWriter, r *http.Request) {
	var cfg agent.Config
	if !decode(w, r, &cfg) {
		return
	}
	if err := a.ctrl.SaveAgentConfig(r.Context(), cfg); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) listArchives(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.ctrl.Archives())
}

func (a *App) createArchive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if !decode(w, r, &req) {
		return
	}
	archive, err := a.ctrl.CreateArchive(req.URL)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, archive)
}

func (a *App) deleteArchive(w http.ResponseWriter, r *http.Request) {
	if err := a.ctrl.DeleteArchive(chi.URLParam(r, "id")); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) scrapeArchive(w http.ResponseWriter, r *http.Request) {
	target, err := a.ctrl.ScrapeArchive(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"target": target})
}

func (a *App) analyzeMedia(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Asset string `json:"asset"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := a.ctrl.AnalyzeMedia(chi.URLParam(r, "id"), req.Asset); err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, a.ctrl.MediaAnalysis())
}

func (a *App) mediaAnalysis(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.ctrl.MediaAnalysis())
}

func (a *App) listSentryPackets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.ctrl.SentryPackets())
}

func (a *App) replaySentryPacket(w http.ResponseWriter, r *http.Request) {
	pkt, err := a.ctrl.ReplayPacket(chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"packet": pkt, "sentryStatus": a.ctrl.SentryStatus()})
}

// writeError maps controller errors onto status codes.
func (a *App) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, app.ErrPersonaNotFound), errors.Is(err, app.ErrArchiveNotFound), errors.Is(err, app.ErrAssetNotFound),
		errors.Is(err, app.ErrPacketNotFound):
		status = http.StatusNotFound
	case errors.Is(err, app.ErrInvalidURL), errors.Is(err, app.ErrUnknownVPNRegion),
		errors.Is(err, app.ErrUnknownToggle), errors.Is(err, app.ErrRefererPolicy):
		status = http.StatusBadRequest
	case errors.Is(err, app.ErrVPNLockedByTor):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		a.logger.Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]any{"error": "request body too large"})
			return false
		}
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json"})
		return false
	}
	return true
}

func intQuery(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, s string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(s))
}
