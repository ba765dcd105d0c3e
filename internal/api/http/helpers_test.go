package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apihttp "github.com/spec-kit/report-tracker/internal/api/http"
	"github.com/spec-kit/report-tracker/internal/api/http/handlers"
	"github.com/spec-kit/report-tracker/internal/auth"
	"github.com/spec-kit/report-tracker/internal/domain"
	"github.com/spec-kit/report-tracker/internal/events"
	"github.com/spec-kit/report-tracker/internal/observability"
	"github.com/spec-kit/report-tracker/internal/repository/memory"
	"github.com/spec-kit/report-tracker/internal/service"
)

type boardStub struct{}

func (boardStub) FetchListStats(context.Context) ([]domain.TrelloListStat, error) {
	return []domain.TrelloListStat{{List: "Todo", Cards: 3}, {List: "Done", Cards: 7}}, nil
}

type countryStub struct{}

func (countryStub) Country(_ context.Context, ip string) string {
	if ip == "203.0.113.7" {
		return "Chile"
	}
	return domain.UnknownCountry
}

type testServer struct {
	app   *fiber.App
	users *memory.UserRepository
}

func newTestServer(t *testing.T, limiter fiber.Handler) *testServer {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	tokens, err := auth.NewTokenManager("test-secret")
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	users := memory.NewUserRepository()
	history := memory.NewReportHistoryRepository()
	reports := memory.NewReportRepository(history)
	dispatcher := events.NewInMemoryDispatcher()
	service.NewAuditService(dispatcher, logger, metrics).RegisterHandlers()

	authService := service.NewAuthService(users, tokens, 4)
	reportService := service.NewReportService(service.ReportDependencies{
		ReportRepo:  reports,
		HistoryRepo: history,
		UserRepo:    users,
		Dispatcher:  dispatcher,
	})

	app := apihttp.NewApp(apihttp.ServerConfig{Name: "test", Logger: logger, Metrics: metrics})
	apihttp.RegisterRoutes(app, apihttp.RouteConfig{
		Health:         handlers.NewHealthHandler("test", "dev", nil),
		Users:          handlers.NewUsersHandler(authService),
		Reports:        handlers.NewReportsHandler(reportService),
		Moderation:     handlers.NewModerationHandler(reportService),
		Admin:          handlers.NewAdminHandler(service.NewAdminService(users, dispatcher)),
		Trello:         handlers.NewTrelloHandler(service.NewTrelloService(boardStub{}, memory.NewSnapshotRepository(), time.Second, logger)),
		Visitors:       handlers.NewVisitorsHandler(service.NewVisitorService(countryStub{}, memory.NewVisitorRepository())),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
		AuthLimiter:    limiter,
		Metrics:        metrics,
	})
	return &testServer{app: app, users: users}
}

type response struct {
	status int
	body   []byte
	header nethttp.Header
}

func (r response) decode(t *testing.T, out any) {
	t.Helper()
	if err := json.Unmarshal(r.body, out); err != nil {
		t.Fatalf("decode %s: %v", string(r.body), err)
	}
}

func (r response) errorCode(t *testing.T) string {
	t.Helper()
	var env struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	r.decode(t, &env)
	return env.Error.Code
}

func (s *testServer) do(t *testing.T, method, path, token string, body any, headers ...string) response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return response{status: resp.StatusCode, body: raw, header: resp.Header}
}

// signup registers an account, optionally promotes it, and logs in.
func (s *testServer) signup(t *testing.T, username string, role domain.Role) (string, string) {
	t.Helper()
	res := s.do(t, "POST", "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@x.com",
		"password": "pw",
	})
	if res.status != fiber.StatusCreated {
		t.Fatalf("register %s: %d %s", username, res.status, res.body)
	}
	var created struct {
		ID string `json:"id"`
	}
	res.decode(t, &created)
	if role != domain.RoleUser {
		if err := s.users.UpdateRole(context.Background(), created.ID, role); err != nil {
			t.Fatalf("UpdateRole: %v", err)
		}
	}
	return created.ID, s.login(t, username+"@x.com", "pw")
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	res := s.do(t, "POST", "/api/v1/auth/login", "", map[string]string{"email": email, "password": password})
	if res.status != fiber.StatusOK {
		t.Fatalf("login %s: %d %s", email, res.status, res.body)
	}
	var out struct {
		Token string `json:"token"`
	}
	res.decode(t, &out)
	return out.Token
}

func (s *testServer) createReport(t *testing.T, token, title string) string {
	t.Helper()
	res := s.do(t, "POST", "/api/v1/reports", token, map[string]string{
		"title":       title,
		"description": "details",
		"type":        "bug",
	})
	if res.status != fiber.StatusCreated {
		t.Fatalf("create %s: %d %s", title, res.status, res.body)
	}
	var out struct {
		ID string `json:"id"`
	}
	res.decode(t, &out)
	return out.ID
}

// tamper flips one character inside the token signature.
func tamper(token string) string {
	i := len(token) - 10
	replacement := byte('A')
	if token[i] == 'A' {
		replacement = 'B'
	}
	return token[:i] + string(replacement) + token[i+1:]
}
