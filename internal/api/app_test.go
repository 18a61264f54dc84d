package api

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/snufulufugus/internal/agent"
	"github.com/runnerr0/snufulufugus/internal/app"
	"github.com/runnerr0/snufulufugus/internal/config"
	"github.com/runnerr0/snufulufugus/internal/history"
	"github.com/runnerr0/snufulufugus/internal/persona"
	"github.com/runnerr0/snufulufugus/internal/schedule"
	"github.com/runnerr0/snufulufugus/internal/storage"
	"github.com/runnerr0/snufulufugus/internal/telemetry"
)

type echoAgent struct{}

func (echoAgent) Query(_ context.Context, prompt string, _ agent.Config) string {
	return "report: " + prompt
}

type testEnv struct {
	srv   *httptest.Server
	ctrl  *app.Controller
	clock *schedule.Manual
	cfg   *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	kv, err := storage.OpenSQLite(":memory:", "memory")
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	cfg := config.DefaultConfig()
	clock := schedule.NewManual()
	ctrl, err := app.New(context.Background(), cfg, kv, app.Options{
		Scheduler: clock,
		Rand:      rand.New(rand.NewSource(5)),
		Agent:     echoAgent{},
	})
	require.NoError(t, err)
	t.Cleanup(ctrl.Stop)

	srv := httptest.NewServer(NewApp(cfg, ctrl, nil).Router())
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, ctrl: ctrl, clock: clock, cfg: cfg}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.srv.URL+path, &buf)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStatusReportsDefaults(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/api/v1/status", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var st app.Status
	decodeBody(t, resp, &st)
	assert.Equal(t, "p1", st.ActivePersona)
	assert.Equal(t, "en.wikipedia.org", st.TargetHost)
	assert.False(t, st.Started)
}

func TestListPersonas(t *testing.T) {
	env := newTestEnv(t)
	var body struct {
		Active   string            `json:"active"`
		Personas []persona.Persona `json:"personas"`
	}
	decodeBody(t, env.do(t, http.MethodGet, "/api/v1/personas", nil), &body)
	assert.Equal(t, "p1", body.Active)
	assert.Len(t, body.Personas, 4)
}

func TestExportPersonasCSV(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/api/v1/personas/export.csv", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="snufulufugus_personas.csv"`, resp.Header.Get("Content-Disposition"))

	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "id,name,team,"))
	assert.False(t, strings.HasSuffix(out, "\n"))
	for _, p := range env.ctrl.Personas() {
		assert.Contains(t, out, "\n"+p.ID+",")
	}
}

func TestGeneratePersona(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/v1/personas/generate", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var p persona.Persona
	decodeBody(t, resp, &p)
	assert.True(t, strings.HasPrefix(p.ID, "gen-"))
	assert.True(t, p.IsGenerated)
	assert.Len(t, env.ctrl.Personas(), 5)
}

func TestActivatePersona(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/v1/personas/p2/activate", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "p2", env.ctrl.ActivePersona().ID)

	var entries []history.Entry
	decodeBody(t, env.do(t, http.MethodGet, "/api/v1/personas/p2/history?type=activation", nil), &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, history.TypeActivation, entries[0].Type)

	var acts []history.PersonaActivation
	decodeBody(t, env.do(t, http.MethodGet, "/api/v1/activations?limit=5", nil), &acts)
	require.Len(t, acts, 1)
	assert.Equal(t, "p2", acts[0].PersonaID)
}

func TestActivateUnknownPersonaIs404(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/v1/personas/nope/activate", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "p1", env.ctrl.ActivePersona().ID)
}

func TestHistoryForUnknownPersonaIsEmptyList(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/api/v1/personas/ghost/history", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var entries []history.Entry
	decodeBody(t, resp, &entries)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestActivationsRejectsBadLimit(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/api/v1/activations?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestNavigate(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/v1/navigate", map[string]string{"url": "https://example.org/a"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "https://example.org/a", env.ctrl.Target())

	resp = env.do(t, http.MethodPost, "/api/v1/navigate", map[string]string{"url": "not a url"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "https://example.org/a", env.ctrl.Target())
}

func TestInvalidJSONIs400(t *testing.T) {
	env := newTestEnv(t)
	req, err := http.NewRequest(http.MethodPost, env.srv.URL+"/api/v1/navigate", strings.NewReader("{"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOversizedBodyIs413(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.Server.MaxRequestSize = 16
	srv := httptest.NewServer(NewApp(env.cfg, env.ctrl, nil).Router())
	defer srv.Close()

	body := `{"prompt":"` + strings.Repeat("a", 64) + `"}`
	resp, err := http.Post(srv.URL+"/api/v1/agent/query", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestEventsAndScore(t *testing.T) {
	env := newTestEnv(t)
	env.ctrl.Start(context.Background())
	env.clock.Advance(5 * env.cfg.Engine.TickInterval())

	var events []telemetry.Event
	decodeBody(t, env.do(t, http.MethodGet, "/api/v1/events", nil), &events)
	assert.Len(t, events, 5)

	var score struct {
		Scorecard telemetry.Scorecard `json:"scorecard"`
		Breakdown telemetry.Breakdown `json:"breakdown"`
	}
	decodeBody(t, env.do(t, http.MethodGet, "/api/v1/score", nil), &score)
	assert.Equal(t, 5, score.Breakdown.Total)
	assert.Equal(t, telemetry.Score(events), score.Scorecard)
}

func TestEventDetailAndClear(t *testing.T) {
	env := newTestEnv(t)
	env.ctrl.Start(context.Background())
	env.clock.Advance(env.cfg.Engine.TickInterval())
	events := env.ctrl.Events()
	require.Len(t, events, 1)

	var detail struct {
		Event       telemetry.Event `json:"event"`
		Description string          `json:"description"`
		Attribute   string          `json:"attribute"`
	}
	resp := env.do(t, http.MethodGet, "/api/v1/events/"+strconv.FormatInt(events[0].ID, 10), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &detail)
	assert.Equal(t, events[0].ID, detail.Event.ID)
	assert.Equal(t, telemetry.TrackerDescription(events[0].Origin), detail.Description)
	d, ok := telemetry.Lookup(events[0].Query)
	require.True(t, ok)
	if d.Keyed() {
		assert.Equal(t, d.Attr.String(), detail.Attribute)
	} else {
		assert.Empty(t, detail.Attribute)
	}

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/v1/events/1", nil).StatusCode)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/v1/events/abc", nil).StatusCode)

	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/api/v1/events", nil).StatusCode)
	assert.Empty(t, env.ctrl.Events())
	assert.NotEmpty(t, history.Filter(env.ctrl.History("p1"), history.TypeIntercept))
}

func TestEventsEmptyIsList(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/api/v1/events?relevant=true", nil)
	var events []telemetry.Event
	decodeBody(t, resp, &events)
	assert.NotNil(t, events)
}

func TestToggles(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPut, "/api/v1/toggles/tor", map[string]bool{"enabled": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tg app.Toggles
	decodeBody(t, resp, &tg)
	assert.True(t, tg.TorMode)

	resp = env.do(t, http.MethodPut, "/api/v1/vpn", map[string]string{"region": "US-East"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = env.do(t, http.MethodPut, "/api/v1/toggles/warp-drive", map[string]bool{"enabled": true})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPut, "/api/v1/referer-policy", map[string]string{"policy": "leaky"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAgentQuery(t *testing.T) {
	env := newTestEnv(t)

	var body map[string]string
	resp := env.do(t, http.MethodPost, "/api/v1/agent/query", map[string]string{"prompt": "hello"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &body)
	assert.Equal(t, "report: hello", body["report"])

	resp = env.do(t, http.MethodPost, "/api/v1/agent/query", map[string]string{"prompt": "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAgentConfigMasksKey(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPut, "/api/v1/agent/config", agent.Config{
		Provider: agent.ProviderCustom,
		Endpoint: "https://llm.example/v1/chat/completions",
		APIKey:   "secret",
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	var cfg agent.Config
	decodeBody(t, env.do(t, http.MethodGet, "/api/v1/agent/config", nil), &cfg)
	assert.Equal(t, agent.ProviderCustom, cfg.Provider)
	assert.Equal(t, "********", cfg.APIKey)
	assert.Equal(t, "secret", env.ctrl.AgentConfig().APIKey)

	resp = env.do(t, http.MethodPut, "/api/v1/agent/config", agent.Config{Provider: "other"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestArchiveLifecycle(t *testing.T) {
	env := newTestEnv(t)

	var archives []app.Archive
	decodeBody(t, env.do(t, http.MethodGet, "/api/v1/archives", nil), &archives)
	require.Len(t, archives, 2)

	resp := env.do(t, http.MethodPost, "/api/v1/archives", map[string]string{"url": "https://news.example.com"})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	var created app.Archive
	decodeBody(t, resp, &created)
	assert.Equal(t, "pa3", created.ID)
	assert.Equal(t, app.ArchiveCrawling, created.Status)

	env.clock.Advance(env.cfg.Archive.CrawlDelay())
	decodeBody(t, env.do(t, http.MethodGet, "/api/v1/archives", nil), &archives)
	require.Len(t, archives, 3)
	assert.Equal(t, "pa3", archives[0].ID)
	assert.Equal(t, app.ArchiveCompleted, archives[0].Status)

	var scraped map[string]string
	resp = env.do(t, http.MethodPost, "/api/v1/archives/pa1/scrape", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &scraped)
	assert.Equal(t, telemetry.LocalArchiveScheme+"internal.corp.net", scraped["target"])

	resp = env.do(t, http.MethodDelete, "/api/v1/archives/pa3", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = env.do(t, http.MethodDelete, "/api/v1/archives/pa3", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSentryReplay(t *testing.T) {
	env := newTestEnv(t)

	var packets []app.SentryPacket
	decodeBody(t, env.do(t, http.MethodGet, "/api/v1/sentry/packets", nil), &packets)
	require.Len(t, packets, 3)
	assert.Equal(t, "sp2", packets[1].ID)

	resp := env.do(t, http.MethodPost, "/api/v1/sentry/packets/sp2/replay", nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	var replay struct {
		Packet       app.SentryPacket `json:"packet"`
		SentryStatus string           `json:"sentryStatus"`
	}
	decodeBody(t, resp, &replay)
	assert.Equal(t, "example.com", replay.Packet.Domain)
	assert.Equal(t, "Matching VPN to EU-Central...", replay.SentryStatus)

	env.clock.Advance(3500 * time.Millisecond)
	var st app.Status
	decodeBody(t, env.do(t, http.MethodGet, "/api/v1/status", nil), &st)
	assert.Equal(t, app.SentrySuccess, st.SentryStatus)

	resp = env.do(t, http.MethodPost, "/api/v1/sentry/packets/sp7/replay", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAnalyzeMedia(t *testing.T) {
	env := newTestEnv(t)
	archive := env.ctrl.Archives()[0]
	require.NotEmpty(t, archive.MediaAssets)
	asset := archive.MediaAssets[0]

	resp := env.do(t, http.MethodPost, "/api/v1/archives/"+archive.ID+"/analyze", map[string]string{"asset": asset.Name})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	var ma app.MediaAnalysis
	decodeBody(t, resp, &ma)
	assert.True(t, ma.Analyzing)

	env.clock.Advance(env.cfg.Archive.AnalysisDelay())
	decodeBody(t, env.do(t, http.MethodGet, "/api/v1/media-analysis", nil), &ma)
	assert.False(t, ma.Analyzing)
	assert.Contains(t, ma.Report, "report: ")

	resp = env.do(t, http.MethodPost, "/api/v1/archives/"+archive.ID+"/analyze", map[string]string{"asset": "missing.mp4"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEventStream(t *testing.T) {
	env := newTestEnv(t)
	env.ctrl.Start(context.Background())

	wsURL := "ws" + strings.TrimPrefix(env.srv.URL, "http") + "/api/v1/events/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return env.ctrl.Broker().Subscribers() == 1 },
		2*time.Second, 10*time.Millisecond)

	env.clock.Advance(2 * env.cfg.Engine.TickInterval())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var first, second telemetry.Event
	require.NoError(t, conn.ReadJSON(&first))
	require.NoError(t, conn.ReadJSON(&second))
	assert.Less(t, first.ID, second.ID)

	events := env.ctrl.Events()
	require.Len(t, events, 2)
	assert.ElementsMatch(t, []int64{first.ID, second.ID}, []int64{events[0].ID, events[1].ID})

	conn.Close()
	require.Eventually(t, func() bool { return env.ctrl.Broker().Subscribers() == 0 },
		2*time.Second, 10*time.Millisecond)
}

func TestEventStreamRequiresUpgrade(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/api/v1/events/stream", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
