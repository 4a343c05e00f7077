package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	apirest "github.com/emberquest/server/api/rest"
	"github.com/emberquest/server/cache"
	"github.com/emberquest/server/config"
	"github.com/emberquest/server/game/quest"
	"github.com/emberquest/server/game/ranking"
	"github.com/emberquest/server/game/reward"
	"github.com/emberquest/server/game/stats"
	"github.com/emberquest/server/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TestServer wraps a real HTTP server with the whole progress engine wired
// together the way main.go wires it.
type TestServer struct {
	DB      *gorm.DB
	Cache   cache.Cache
	Ledger  *stats.Ledger
	Quests  *quest.Service
	Ranking *ranking.Service
	Server  *httptest.Server
	URL     string
}

// NewTestServer mirrors the dependency wiring in main.go, minus the
// scheduler and webhook (both exercised in their own packages).
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupTestDB(t)
	c := testutil.SetupTestCache(t)
	logger := zap.NewNop()

	cfg := &config.Config{}
	cfg.Server.AdminKey = "integration-admin-key"
	cfg.Game.StartingGold = 100
	cfg.Game.RankingSize = 50
	cfg.Security.JWTSecret = "integration-test-secret"
	cfg.Security.JWTTTLH = 72 * time.Hour
	cfg.Security.RateLimitRPS = 1000
	cfg.Security.RateLimitBurst = 2000

	ledger := stats.NewLedger(db, logger)
	dispatcher := reward.NewDispatcher(db, ledger, logger)
	questSvc := quest.NewService(db, dispatcher, logger)
	questSvc.SetStatsRecorder(ledger)
	ledger.SetSink(questSvc)
	dispatcher.SetLevelSink(questSvc)
	rankingSvc := ranking.New(db, c, cfg.Game.RankingSize, logger)

	handler := apirest.NewHandler(db, cfg, c, questSvc, ledger, rankingSvc, nil, logger)
	srv := httptest.NewServer(apirest.NewRouter(handler, logger))

	return &TestServer{
		DB:      db,
		Cache:   c,
		Ledger:  ledger,
		Quests:  questSvc,
		Ranking: rankingSvc,
		Server:  srv,
		URL:     srv.URL,
	}
}

func (ts *TestServer) Close() {
	ts.Server.Close()
}

var uniqueCounter atomic.Int64

// UniqueID returns a short unique identifier for usernames and names.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s%d", prefix, uniqueCounter.Add(1))
}

// Login authenticates (auto-registering on first call) and returns the
// token and character ID.
func (ts *TestServer) Login(t *testing.T, username, password string) (string, int64) {
	t.Helper()
	resp := ts.PostJSON(t, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Token     string `json:"token"`
		Character struct {
			ID int64 `json:"id"`
		} `json:"character"`
	}
	ReadJSON(t, resp, &result)
	require.NotEmpty(t, result.Token)
	return result.Token, result.Character.ID
}

// Get performs an authenticated GET.
func (ts *TestServer) Get(t *testing.T, path, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

// PostJSON performs an authenticated POST with a JSON body.
func (ts *TestServer) PostJSON(t *testing.T, path string, body interface{}, token string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(http.MethodPost, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

// ReadJSON decodes a response body and closes it.
func ReadJSON(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
