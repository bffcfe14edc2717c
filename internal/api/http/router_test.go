package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shoenig/test/must"
	"go.uber.org/zap"

	"github.com/spec-kit/maml-online/internal/api/http/handlers"
	"github.com/spec-kit/maml-online/internal/auth"
	"github.com/spec-kit/maml-online/internal/events"
	"github.com/spec-kit/maml-online/internal/observability"
	"github.com/spec-kit/maml-online/internal/persistence"
	"github.com/spec-kit/maml-online/internal/service"
	"github.com/spec-kit/maml-online/internal/session"
)

func newTestApp(t *testing.T) (*fiber.App, *session.Store) {
	t.Helper()

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	store := session.NewStore()
	cookies := auth.NewCookieFactory(false)

	registrations := service.NewRegistrationService(service.RegistrationDependencies{
		Registry:   store,
		Dispatcher: events.NewInMemoryDispatcher(),
		Logger:     logger,
	})

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, time.Second, auth.NewGuard(store, cookies, logger, metrics))
	RegisterRoutes(app, RouteConfig{
		Health:       handlers.NewHealthHandler("maml-online", "test", &persistence.Postgres{}, &persistence.Redis{}),
		Metrics:      handlers.NewMetricsHandler(metrics, store),
		Registration: handlers.NewRegistrationHandler(registrations, cookies),
		Session:      handlers.NewSessionHandler(store, cookies),
	})
	return app, store
}

type result struct {
	resp *http.Response
	body map[string]any
}

func call(t *testing.T, app *fiber.App, method, path, cookie, payload string) result {
	t.Helper()

	var body io.Reader
	if payload != "" {
		body = strings.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	resp, err := app.Test(req)
	must.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	must.NoError(t, err)
	out := result{resp: resp}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		must.NoError(t, json.Unmarshal(raw, &out.body))
	}
	return out
}

func identityCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatal("no identity cookie in response")
	return nil
}

func field(m map[string]any, path ...string) any {
	var cur any = m
	for _, p := range path {
		next, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = next[p]
	}
	return cur
}

func TestParticipantFlow(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)

	reg := call(t, app, http.MethodPost, "/register/participant", "", `{"name":"Ada","school":"Tech High","grade":11}`)
	must.Eq(t, http.StatusCreated, reg.resp.StatusCode)
	cookie := identityCookie(t, reg.resp)
	must.StrHasPrefix(t, "P", cookie.Value)
	must.True(t, cookie.HttpOnly)
	must.Eq(t, "/", cookie.Path)

	welcome := call(t, app, http.MethodGet, "/welcome", "id="+cookie.Value, "")
	must.Eq(t, http.StatusOK, welcome.resp.StatusCode)
	must.Eq(t, "participant", field(welcome.body, "data", "role"))
	must.Eq(t, "Ada", field(welcome.body, "data", "participant", "name"))

	who := call(t, app, http.MethodGet, "/whoami", "id="+cookie.Value, "")
	must.Eq(t, any("participant"), field(who.body, "data", "role"))
	must.MapNotContainsKey(t, field(who.body, "data").(map[string]any), "token")
	must.MapNotContainsKey(t, field(welcome.body, "data", "participant").(map[string]any), "id")
	must.MapNotContainsKey(t, field(reg.body, "data", "participant").(map[string]any), "id")

	login := call(t, app, http.MethodGet, "/login", "id="+cookie.Value, "")
	must.Eq(t, http.StatusSeeOther, login.resp.StatusCode)
	must.Eq(t, "/welcome", login.resp.Header.Get("Location"))
}

func TestAdminFlow(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)

	call(t, app, http.MethodPost, "/register/participant", "", `{"name":"Grace","school":"Tech High","grade":12}`)
	call(t, app, http.MethodPost, "/register/participant", "", `{"name":"Alan","school":"Other High","grade":10}`)

	reg := call(t, app, http.MethodPost, "/register/admin", "", `{"school":"Tech High"}`)
	must.Eq(t, http.StatusCreated, reg.resp.StatusCode)
	cookie := identityCookie(t, reg.resp)
	must.StrHasPrefix(t, "A", cookie.Value)

	welcome := call(t, app, http.MethodGet, "/welcome", "id="+cookie.Value, "")
	must.Eq(t, http.StatusOK, welcome.resp.StatusCode)
	must.Eq(t, "admin", field(welcome.body, "data", "role"))
	participants, ok := field(welcome.body, "data", "participants").([]any)
	must.True(t, ok)
	must.Len(t, 1, participants)
	must.Eq(t, any("Grace"), participants[0].(map[string]any)["name"])
}

func TestAdminViewHidesParticipantTokens(t *testing.T) {
	t.Parallel()

	app, store := newTestApp(t)

	reg := call(t, app, http.MethodPost, "/register/participant", "", `{"name":"Ada","school":"Tech High","grade":11}`)
	participantCookie := identityCookie(t, reg.resp)
	ada := store.ParticipantsBySchool("Tech High")[0]
	digits := ada.ID.String()

	admin := call(t, app, http.MethodPost, "/register/admin", "", `{"school":"Tech High"}`)
	adminCookie := identityCookie(t, admin.resp)

	welcome := call(t, app, http.MethodGet, "/welcome", "id="+adminCookie.Value, "")
	must.Eq(t, http.StatusOK, welcome.resp.StatusCode)

	participants := field(welcome.body, "data", "participants").([]any)
	must.Len(t, 1, participants)
	must.MapNotContainsKey(t, participants[0].(map[string]any), "id")

	raw, err := json.Marshal(welcome.body)
	must.NoError(t, err)
	must.StrNotContains(t, string(raw), digits)
	must.StrNotContains(t, string(raw), participantCookie.Value)
}

func TestUnmatchedRoutesShareErrorCounter(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)

	for _, path := range []string{"/nope/1", "/nope/2", "/nope/3", "/another"} {
		res := call(t, app, http.MethodGet, path, "", "")
		must.Eq(t, http.StatusNotFound, res.resp.StatusCode)
	}

	metrics := call(t, app, http.MethodGet, "/metrics", "", "")
	errs, ok := field(metrics.body, "http", "errors").(map[string]any)
	must.True(t, ok)
	must.MapLen(t, 1, errs)
	must.Eq(t, any(4.0), errs[unmatchedRoute+"|GET|NOT_FOUND"])
}

func TestBadCookie(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)

	res := call(t, app, http.MethodGet, "/welcome", "id=X999", "")
	must.Eq(t, http.StatusUnauthorized, res.resp.StatusCode)
	must.Eq(t, "UNAUTHORIZED", field(res.body, "error", "code"))
	cookie := identityCookie(t, res.resp)
	must.Eq(t, "", cookie.Value)
	must.True(t, cookie.Expires.Before(time.Now()))

	res = call(t, app, http.MethodGet, "/login", "id=P12345", "")
	must.Eq(t, http.StatusOK, res.resp.StatusCode)
	must.Eq(t, false, field(res.body, "data", "authenticated"))
	must.Eq(t, "", identityCookie(t, res.resp).Value)
}

func TestNoCookie(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)

	res := call(t, app, http.MethodGet, "/welcome", "", "")
	must.Eq(t, http.StatusUnauthorized, res.resp.StatusCode)
	must.SliceEmpty(t, res.resp.Cookies())
}

func TestLogout(t *testing.T) {
	t.Parallel()

	app, store := newTestApp(t)

	reg := call(t, app, http.MethodPost, "/register/admin", "", `{"school":"Tech High"}`)
	cookie := identityCookie(t, reg.resp)

	out := call(t, app, http.MethodPost, "/logout", "id="+cookie.Value, "")
	must.Eq(t, http.StatusNoContent, out.resp.StatusCode)
	must.Eq(t, "", identityCookie(t, out.resp).Value)

	_, admins := store.Counts()
	must.Eq(t, 1, admins)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	app, store := newTestApp(t)

	res := call(t, app, http.MethodPost, "/register/participant", "", `{"name":"","school":"Tech High","grade":11}`)
	must.Eq(t, http.StatusBadRequest, res.resp.StatusCode)
	must.Eq(t, "VALIDATION_FAILED", field(res.body, "error", "code"))
	must.Eq(t, "required", field(res.body, "error", "details", "name"))

	res = call(t, app, http.MethodPost, "/register/participant", "", `{"name":"Ada","school":"Tech High","grade":300}`)
	must.Eq(t, http.StatusBadRequest, res.resp.StatusCode)

	participants, _ := store.Counts()
	must.Eq(t, 0, participants)
}

func TestHealthAndMetrics(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)

	ready := call(t, app, http.MethodGet, "/health/ready", "", "")
	must.Eq(t, http.StatusOK, ready.resp.StatusCode)
	must.Eq(t, "disabled", field(ready.body, "dependencies", "postgres"))
	must.Eq(t, "disabled", field(ready.body, "dependencies", "redis"))

	call(t, app, http.MethodPost, "/register/admin", "", `{"school":"Tech High"}`)
	metrics := call(t, app, http.MethodGet, "/metrics", "", "")
	must.Eq(t, 1.0, field(metrics.body, "store", "admins"))
	must.Eq(t, 0.0, field(metrics.body, "store", "participants"))
}
