package httpserver_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpserver "travel_planner/internal/adapters/http_server"
	"travel_planner/internal/adapters/session"
	"travel_planner/internal/app"
	"travel_planner/internal/storage/memory"
)

const (
	adminEmail = "admin@travelea.local"
	adminPass  = "secret"
)

type harness struct {
	ts       *httptest.Server
	store    *memory.Store
	profiles *app.ProfileService
}

func newHarness(t *testing.T, limiter *httpserver.LoginLimiter) *harness {
	t.Helper()
	st := memory.New()
	countries := app.NewCountryService(nil, nil, time.Minute)
	dests := app.NewDestinationService(st, countries, nil, time.Minute)
	undo := app.NewUndoService(st, dests, time.Hour)
	profiles := app.NewProfileService(st, countries)
	_, err := profiles.EnsureGlobalAdmin(context.Background(), adminEmail, adminPass)
	require.NoError(t, err)

	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{
		Auth:         app.NewAuthService(st),
		Profiles:     profiles,
		Destinations: dests,
		Changes:      app.NewChangeService(st, dests),
		Trips:        app.NewTripService(st, dests),
		Artists:      app.NewArtistService(st, countries),
		Hunts:        app.NewHuntService(st),
		Undo:         undo,
		Admin:        app.NewAdminService(st, undo, dests),
		Sessions:     session.NewManager("test-secret", time.Hour),
		Limiter:      limiter,
	})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return &harness{ts: ts, store: st, profiles: profiles}
}

func newClient(t *testing.T) *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

type reply struct {
	Flash *struct{ Kind, Message string }
	Data  json.RawMessage
}

func decode(t *testing.T, resp *http.Response) reply {
	t.Helper()
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, "url %s", resp.Request.URL)
	var out reply
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (h *harness) post(t *testing.T, c *http.Client, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := c.PostForm(h.ts.URL+path, form)
	require.NoError(t, err)
	return resp
}

func (h *harness) get(t *testing.T, c *http.Client, path string) *http.Response {
	t.Helper()
	resp, err := c.Get(h.ts.URL + path)
	require.NoError(t, err)
	return resp
}

func (h *harness) login(t *testing.T, email, password string) *http.Client {
	t.Helper()
	c := newClient(t)
	resp := h.post(t, c, "/login", url.Values{"email": {email}, "password": {password}})
	resp.Body.Close()
	require.Equal(t, "/profile", resp.Request.URL.Path)
	return c
}

func signupForm(email string) url.Values {
	return url.Values{
		"firstName": {"Aroha"}, "lastName": {"Ngata"}, "email": {email}, "password": {"pw"},
		"birthDate": {"1992-07-14"}, "gender": {"Female"}, "nationalities": {"New Zealand"},
		"travellerTypes": {"1,3"},
	}
}

func (h *harness) signup(t *testing.T, email string) (*http.Client, int64) {
	t.Helper()
	c := newClient(t)
	out := decode(t, h.post(t, c, "/signup", signupForm(email)))
	require.NotNil(t, out.Flash)
	require.Equal(t, "success", out.Flash.Kind)
	p, err := h.store.GetProfileByEmail(context.Background(), email)
	require.NoError(t, err)
	return c, p.ID
}

func TestHealthz(t *testing.T) {
	h := newHarness(t, nil)
	resp := h.get(t, http.DefaultClient, "/healthz")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSignupThenCreateAndListDestinations(t *testing.T) {
	h := newHarness(t, nil)
	c, _ := h.signup(t, "aroha@example.com")

	out := decode(t, h.post(t, c, "/destinations", url.Values{
		"name": {"Cathedral Cove"}, "type": {"Beach"}, "country": {"New Zealand"},
		"latitude": {"-36.83"}, "longitude": {"175.79"},
	}))
	require.NotNil(t, out.Flash)
	assert.Equal(t, "Destination created.", out.Flash.Message)

	var dests []struct{ ID int64; Name string }
	require.NoError(t, json.Unmarshal(out.Data, &dests))
	require.Len(t, dests, 1)
	assert.Equal(t, "Cathedral Cove", dests[0].Name)

	// the flash is shown once
	again := decode(t, h.get(t, c, "/destinations"))
	assert.Nil(t, again.Flash)
}

func TestValidationErrorComesBackAsFlash(t *testing.T) {
	h := newHarness(t, nil)
	c, _ := h.signup(t, "aroha@example.com")

	out := decode(t, h.post(t, c, "/destinations", url.Values{
		"name": {"Nowhere"}, "type": {"Park"}, "country": {"New Zealand"}, "latitude": {"100"},
	}))
	require.NotNil(t, out.Flash)
	assert.Equal(t, "error", out.Flash.Kind)
	assert.Contains(t, out.Flash.Message, "latitude")
}

func TestMalformedInputIsProblem(t *testing.T) {
	h := newHarness(t, nil)
	c, _ := h.signup(t, "aroha@example.com")

	resp := h.post(t, c, "/destinations/abc/delete", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))

	bad := h.post(t, c, "/destinations", url.Values{"name": {"X"}, "latitude": {"north"}})
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

func TestRoutesRequireSessionAndRole(t *testing.T) {
	h := newHarness(t, nil)

	anon := h.get(t, newClient(t), "/trips")
	anon.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, anon.StatusCode)

	user, _ := h.signup(t, "aroha@example.com")
	forbidden := h.get(t, user, "/admin")
	forbidden.Body.Close()
	assert.Equal(t, http.StatusForbidden, forbidden.StatusCode)

	admin := h.login(t, adminEmail, adminPass)
	out := decode(t, h.get(t, admin, "/admin"))
	var d struct{ Profiles []json.RawMessage }
	require.NoError(t, json.Unmarshal(out.Data, &d))
	assert.Len(t, d.Profiles, 2)

	// logging out drops the session
	decode(t, h.post(t, user, "/logout", nil))
	after := h.get(t, user, "/profile")
	after.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, after.StatusCode)
}

func TestLoginFailureAndThrottle(t *testing.T) {
	h := newHarness(t, httpserver.NewLoginLimiter(0.001, 2))
	c := newClient(t)
	c.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

	form := url.Values{"email": {adminEmail}, "password": {"wrong"}}
	for i := 0; i < 2; i++ {
		resp := h.post(t, c, "/login", form)
		resp.Body.Close()
		require.Equal(t, http.StatusSeeOther, resp.StatusCode, "attempt %d", i)
	}
	resp := h.post(t, c, "/login", form)
	resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))
}

func TestLoginWrongPasswordFlashes(t *testing.T) {
	h := newHarness(t, nil)
	out := decode(t, h.post(t, newClient(t), "/login", url.Values{"email": {adminEmail}, "password": {"nope"}}))
	require.NotNil(t, out.Flash)
	assert.Equal(t, "Incorrect email or password.", out.Flash.Message)
}

func TestAdminDeleteThenUndo(t *testing.T) {
	h := newHarness(t, nil)
	_, userID := h.signup(t, "aroha@example.com")
	admin := h.login(t, adminEmail, adminPass)

	out := decode(t, h.post(t, admin, fmt.Sprintf("/admin/profiles/%d/delete", userID), nil))
	assert.Equal(t, "Profile deleted.", out.Flash.Message)
	p, _ := h.store.GetProfile(context.Background(), userID)
	assert.True(t, p.SoftDeleted)

	out = decode(t, h.post(t, admin, "/admin/undo", nil))
	assert.Equal(t, "Restored profile.", out.Flash.Message)
	p, _ = h.store.GetProfile(context.Background(), userID)
	assert.False(t, p.SoftDeleted)

	out = decode(t, h.post(t, admin, "/admin/undo", nil))
	assert.Equal(t, "info", out.Flash.Kind)
	assert.Equal(t, "Nothing to undo", out.Flash.Message)
}

func TestGrantAdminTwiceFlashes(t *testing.T) {
	h := newHarness(t, nil)
	_, userID := h.signup(t, "aroha@example.com")
	admin := h.login(t, adminEmail, adminPass)
	path := fmt.Sprintf("/admin/profiles/%d/admin", userID)

	decode(t, h.post(t, admin, path, nil))
	out := decode(t, h.post(t, admin, path, nil))
	require.NotNil(t, out.Flash)
	assert.Equal(t, "User already has this role.", out.Flash.Message)
}

func TestTagChangeRequestAccepted(t *testing.T) {
	h := newHarness(t, nil)
	user, _ := h.signup(t, "aroha@example.com")
	decode(t, h.post(t, user, "/destinations", url.Values{
		"name": {"Tongariro"}, "type": {"Park"}, "country": {"New Zealand"}, "isPublic": {"on"},
	}))
	pub, err := h.store.ListPublicDestinations(context.Background())
	require.NoError(t, err)
	require.Len(t, pub, 1)
	destPath := fmt.Sprintf("/destinations/%d", pub[0].ID)

	out := decode(t, h.post(t, user, destPath+"/requests", url.Values{"travellerTypes": {"2"}}))
	assert.Equal(t, "success", out.Flash.Kind)

	changes, err := h.store.ListPendingChanges(context.Background())
	require.NoError(t, err)
	require.Len(t, changes, 1)

	admin := h.login(t, adminEmail, adminPass)
	decode(t, h.post(t, admin, fmt.Sprintf("/admin/changes/%d/accept", changes[0].ID), nil))

	var got struct{ TravellerTypes []struct{ ID int64 } }
	require.NoError(t, json.Unmarshal(decode(t, h.get(t, user, destPath)).Data, &got))
	require.Len(t, got.TravellerTypes, 1)
	assert.Equal(t, int64(2), got.TravellerTypes[0].ID)

	edit := url.Values{
		"name": {"Tongariro"}, "type": {"Park"}, "country": {"New Zealand"},
		"district": {"Ruapehu"}, "isPublic": {"on"},
	}
	out = decode(t, h.post(t, admin, fmt.Sprintf("/admin/destinations/%d", pub[0].ID), edit))
	assert.Equal(t, "Destination updated.", out.Flash.Message)

	got.TravellerTypes = nil
	require.NoError(t, json.Unmarshal(decode(t, h.get(t, user, destPath)).Data, &got))
	require.Len(t, got.TravellerTypes, 1, "an edit without travellerTypes keeps the accepted tag")

	edit.Set("travellerTypes", "")
	decode(t, h.post(t, admin, fmt.Sprintf("/admin/destinations/%d", pub[0].ID), edit))
	got.TravellerTypes = nil
	require.NoError(t, json.Unmarshal(decode(t, h.get(t, user, destPath)).Data, &got))
	assert.Empty(t, got.TravellerTypes)
}

func TestExportWorkbook(t *testing.T) {
	h := newHarness(t, nil)
	admin := h.login(t, adminEmail, adminPass)
	resp := h.get(t, admin, "/admin/export.xlsx")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "travelea.xlsx")
}
