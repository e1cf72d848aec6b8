package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/football-elo/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/football-elo/internal/platform/id"
	"github.com/riskibarqy/football-elo/internal/platform/logging"
	"github.com/riskibarqy/football-elo/internal/usecase"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	store := memory.NewStore(memory.SeedPlayers(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	players := memory.NewPlayerRepository(store)
	matches := memory.NewMatchRepository(store)
	logger := logging.NewNop()

	handler := NewHandler(
		usecase.NewPlayerService(players, id.NewNanoIDGenerator("pl_"), logger),
		usecase.NewMatchService(players, matches, id.NewNanoIDGenerator("m_"), logger),
		usecase.NewStatsService(players, matches),
		logger,
	)
	return NewRouter(handler, logger, RouterOptions{SwaggerEnabled: true})
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func TestHandler_AddAndListPlayers(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/players", `{"name":"  Alexia "}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[playerDTO](t, rec)
	assert.Equal(t, "Alexia", created.Name)
	assert.Equal(t, 1200, created.Elo)
	assert.True(t, strings.HasPrefix(created.ID, "pl_"))
	assert.NotNil(t, created.History)

	rec = do(t, router, http.MethodGet, "/api/players", "")
	require.Equal(t, http.StatusOK, rec.Code)
	items := decodeBody[[]playerDTO](t, rec)
	assert.Len(t, items, 7)

	rec = do(t, router, http.MethodGet, "/api/players/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decodeBody[playerDTO](t, rec).ID)
}

func TestHandler_AddPlayer_Rejected(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "blank name", body: `{"name":"   "}`},
		{name: "missing name", body: `{}`},
		{name: "unknown field", body: `{"name":"A","elo":2000}`},
		{name: "malformed", body: `{"name":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/api/players", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestHandler_RecordMatch(t *testing.T) {
	router := newTestRouter(t)

	body := `{"team1Players":["demo-keeper","demo-back"],"team2Players":["demo-mid","demo-wing"],"team1Score":2,"team2Score":1,"name":"Tuesday five-a-side"}`
	rec := do(t, router, http.MethodPost, "/api/matches", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	recorded := decodeBody[matchDTO](t, rec)
	assert.NotEmpty(t, recorded.ID)
	assert.Equal(t, "Tuesday five-a-side", recorded.Name)
	assert.Equal(t, []string{"demo-keeper", "demo-back"}, recorded.Team1Players)
	assert.Equal(t, []string{"demo-mid", "demo-wing"}, recorded.Team2Players)
	assert.Equal(t, 2, recorded.Team1Score)
	assert.InDelta(t, 16.0, recorded.Team1EloChange, 1e-9)
	assert.InDelta(t, -16.0, recorded.Team2EloChange, 1e-9)

	var raw map[string]any
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &raw))
	assert.NotContains(t, raw, "match", "recorded match must be the top-level body")

	rec = do(t, router, http.MethodGet, "/api/players/demo-keeper/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	history := decodeBody[[]historyEntryDTO](t, rec)
	require.Len(t, history, 1)
	assert.Equal(t, 1200, history[0].OldElo)
	assert.Equal(t, 1216, history[0].NewElo)
	assert.Equal(t, 16, history[0].Change)
	assert.Equal(t, recorded.ID, history[0].MatchID)

	rec = do(t, router, http.MethodGet, "/api/matches/"+recorded.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/matches", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]matchDTO](t, rec), 1)

	rec = do(t, router, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeBody[statsDTO](t, rec)
	assert.Equal(t, 6, stats.Players)
	assert.Equal(t, 1, stats.Matches)
	assert.Equal(t, 3, stats.TotalGoals)
	require.NotNil(t, stats.TopPlayer)
	assert.Equal(t, 1216, stats.TopPlayer.Elo)
}

func TestHandler_RecordMatch_Invalid(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{
			name: "overlapping rosters",
			body: `{"team1Players":["demo-keeper"],"team2Players":["demo-keeper"],"team1Score":1,"team2Score":0}`,
			want: http.StatusBadRequest,
		},
		{
			name: "unknown player",
			body: `{"team1Players":["demo-keeper"],"team2Players":["ghost"],"team1Score":1,"team2Score":0}`,
			want: http.StatusBadRequest,
		},
		{
			name: "negative score",
			body: `{"team1Players":["demo-keeper"],"team2Players":["demo-back"],"team1Score":-1,"team2Score":0}`,
			want: http.StatusBadRequest,
		},
		{
			name: "empty roster",
			body: `{"team1Players":[],"team2Players":["demo-back"],"team1Score":1,"team2Score":0}`,
			want: http.StatusBadRequest,
		},
		{
			name: "missing score",
			body: `{"team1Players":["demo-keeper"],"team2Players":["demo-back"],"team1Score":1}`,
			want: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/api/matches", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}

	rec := do(t, router, http.MethodGet, "/api/matches", "")
	assert.Empty(t, decodeBody[[]matchDTO](t, rec))
}

func TestHandler_NotFoundAndBadLimit(t *testing.T) {
	router := newTestRouter(t)

	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/api/players/nobody", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/api/matches/nothing", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, "/api/players/demo-back/history?limit=abc", "").Code)
}

func TestHandler_MostActiveRouteWinsOverPlayerID(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/players/active?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decodeBody[[]playerDTO](t, rec), 2)
}

func TestHandler_SystemRoutes(t *testing.T) {
	router := newTestRouter(t)

	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/healthz", "").Code)

	rec := do(t, router, http.MethodGet, "/openapi.yaml", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Football Elo API")
}

func TestHandler_StatsWithoutServiceIsUnavailable(t *testing.T) {
	logger := logging.NewNop()
	handler := NewHandler(nil, nil, nil, logger)
	router := NewRouter(handler, logger, RouterOptions{})

	rec := do(t, router, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code, rec.Body.String())
}
