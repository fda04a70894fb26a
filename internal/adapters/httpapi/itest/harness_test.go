package itest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Overland-East-Bay/household-fpl-api/internal/adapters/httpapi"
	memclock "github.com/Overland-East-Bay/household-fpl-api/internal/adapters/memory/clock"
	memhouseholdstore "github.com/Overland-East-Bay/household-fpl-api/internal/adapters/memory/householdstore"
	memidempotency "github.com/Overland-East-Bay/household-fpl-api/internal/adapters/memory/idempotency"
	pghouseholdstore "github.com/Overland-East-Bay/household-fpl-api/internal/adapters/postgres/householdstore"
	pgidempotency "github.com/Overland-East-Bay/household-fpl-api/internal/adapters/postgres/idempotency"
	postgres_testutil "github.com/Overland-East-Bay/household-fpl-api/internal/adapters/postgres/testutil"
	redishouseholdstore "github.com/Overland-East-Bay/household-fpl-api/internal/adapters/redis/householdstore"
	"github.com/Overland-East-Bay/household-fpl-api/internal/adapters/sqlite"
	sqlitehouseholdstore "github.com/Overland-East-Bay/household-fpl-api/internal/adapters/sqlite/householdstore"
	"github.com/Overland-East-Bay/household-fpl-api/internal/app/households"
	"github.com/Overland-East-Bay/household-fpl-api/internal/domain"
	householdstoreport "github.com/Overland-East-Bay/household-fpl-api/internal/ports/out/householdstore"
	idempotencyport "github.com/Overland-East-Bay/household-fpl-api/internal/ports/out/idempotency"
)

type backend string

const (
	backendMemory   backend = "memory"
	backendSQLite   backend = "sqlite"
	backendRedis    backend = "redis"
	backendPostgres backend = "postgres"
)

func backendsFromEnv(t *testing.T) []backend {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "", "memory":
		return []backend{backendMemory}
	case "sqlite":
		return []backend{backendSQLite}
	case "redis":
		return []backend{backendRedis}
	case "postgres":
		return []backend{backendPostgres}
	case "all":
		return []backend{backendMemory, backendSQLite, backendRedis, backendPostgres}
	default:
		t.Fatalf("unknown ITEST_BACKEND value (expected memory|sqlite|redis|postgres|all)")
		return nil
	}
}

type testServer struct {
	baseURL string
	client  *http.Client
}

func newTestServer(t *testing.T, b backend) *testServer {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	var (
		store     householdstoreport.Store
		idemStore idempotencyport.Store
	)

	switch b {
	case backendPostgres:
		pool := postgres_testutil.OpenMigratedPool(t)
		store = pghouseholdstore.NewStore(pool)
		idemStore = pgidempotency.NewStore(pool)
	case backendRedis:
		// REDIS_ADDR targets a real server; otherwise an in-process one stands in.
		addr := os.Getenv("REDIS_ADDR")
		if addr == "" {
			addr = miniredis.RunT(t).Addr()
		}
		client := goredis.NewClient(&goredis.Options{Addr: addr})
		t.Cleanup(func() { _ = client.Close() })
		store = redishouseholdstore.NewStore(client, "itest:")
		idemStore = memidempotency.NewStore()
	case backendSQLite:
		db, err := sqlite.Open(":memory:")
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		t.Cleanup(func() { _ = db.Close() })
		store = sqlitehouseholdstore.NewStore(db)
		idemStore = memidempotency.NewStore()
	case backendMemory:
		store = memhouseholdstore.NewStore()
		idemStore = memidempotency.NewStore()
	default:
		t.Fatalf("unknown backend: %s", b)
	}

	svc := households.NewService(store, domain.DefaultGuidelines())
	api := httpapi.NewServer(svc, idemStore, clk)
	handler := httpapi.NewRouterWithOptions(api, httpapi.RouterOptions{})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		baseURL: srv.URL,
		client:  srv.Client(),
	}
}

func (s *testServer) url(path string) string {
	if strings.HasPrefix(path, "/") {
		return s.baseURL + path
	}
	return s.baseURL + "/" + path
}

// do sends body verbatim; household payloads are exercised as raw JSON text.
func (s *testServer) do(t *testing.T, method string, path string, body string, header map[string]string) (int, []byte, http.Header) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, s.url(path), r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out, resp.Header
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func mustUnmarshal[T any](t *testing.T, b []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v\nbody=%s", err, string(b))
	}
	return out
}

func requireErrorCode(t *testing.T, status int, body []byte, wantStatus int, wantCode string) {
	t.Helper()
	if status != wantStatus {
		t.Fatalf("status=%d want=%d body=%s", status, wantStatus, string(body))
	}
	got := mustUnmarshal[errorResponse](t, body)
	if got.Error.Code != wantCode {
		t.Fatalf("error.code=%q want=%q body=%s", got.Error.Code, wantCode, string(body))
	}
}

// requireSameJSON compares documents semantically so key order and number formatting do not matter.
func requireSameJSON(t *testing.T, got []byte, want string) {
	t.Helper()
	g := mustUnmarshal[any](t, got)
	w := mustUnmarshal[any](t, []byte(want))
	gb, _ := json.Marshal(g)
	wb, _ := json.Marshal(w)
	if !bytes.Equal(gb, wb) {
		t.Fatalf("json=%s want=%s", gb, wb)
	}
}
