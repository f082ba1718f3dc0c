package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/akozlov/activityhub/internal/server/auth"
	"github.com/akozlov/activityhub/internal/server/config"
	"github.com/akozlov/activityhub/internal/server/models"
	"github.com/akozlov/activityhub/internal/server/repositories/repomanager"
	"github.com/akozlov/activityhub/internal/server/services"
)

// testSchema mirrors the production migration, trimmed to what sqlite
// understands. The repositories use portable SQL so the same code runs
// against both engines.
const testSchema = `
CREATE TABLE organizers (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	name TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	avatar TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE activities (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	topic TEXT NOT NULL,
	age_group TEXT NOT NULL,
	date TEXT NOT NULL,
	start_time TEXT NOT NULL,
	join_link TEXT NOT NULL,
	organizer_id TEXT NOT NULL REFERENCES organizers (id),
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE revoked_tokens (
	jti TEXT PRIMARY KEY,
	revoked_at TIMESTAMP NOT NULL
);
`

type testEnv struct {
	server *Server
	db     *sql.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sql.Open("sqlite", "file:"+t.TempDir()+"/api.db")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = string(testSecret)

	manager := repomanager.NewPostgresRepositoryManager()
	organizersRepo := manager.Organizers(db)
	activitiesRepo := manager.Activities(db)
	revokedRepo := manager.RevokedTokens(db)

	issuer := auth.NewIssuer([]byte(cfg.SecretKey),
		cfg.AccessTokenValidityDuration, cfg.RefreshTokenValidityDuration)

	server := NewServer(cfg, discardLogger(), issuer,
		services.NewOrganizerService(organizersRepo, revokedRepo, issuer),
		services.NewActivityService(activitiesRepo),
		revokedRepo,
	)

	return &testEnv{server: server, db: db}
}

func (e *testEnv) seedOrganizer(t *testing.T, username, password string) *models.Organizer {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	organizer, err := repomanager.NewPostgresRepositoryManager().Organizers(e.db).
		Create(context.Background(), &models.Organizer{Username: username, PasswordHash: hash})
	if err != nil {
		t.Fatalf("seed organizer: %v", err)
	}
	return organizer
}

// do performs a JSON request against the routed engine and decodes the
// response body into a generic map.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var payload *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		payload = bytes.NewBuffer(raw)
	} else {
		payload = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Body.Len() > 0 && rec.Body.Bytes()[0] == '{' {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("unmarshal response %q: %v", rec.Body.String(), err)
		}
	}
	return rec.Code, out
}

func (e *testEnv) doList(t *testing.T, path, token string) (int, []map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)

	var out []map[string]any
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("unmarshal list %q: %v", rec.Body.String(), err)
		}
	}
	return rec.Code, out
}

func (e *testEnv) login(t *testing.T, username, password string) (access, refresh string) {
	t.Helper()
	code, body := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	if code != http.StatusOK {
		t.Fatalf("login: want 200, got %d (%v)", code, body)
	}
	access, _ = body["access_token"].(string)
	refresh, _ = body["refresh_token"].(string)
	if access == "" || refresh == "" {
		t.Fatalf("login: missing tokens in %v", body)
	}
	return access, refresh
}

func futureActivity(title, topic string) map[string]string {
	return map[string]string{
		"title":      title,
		"topic":      topic,
		"age_group":  "8-10",
		"date":       time.Now().AddDate(1, 0, 0).Format("2006-01-02"),
		"start_time": "17:00",
		"join_link":  "https://meet.google.com/abc-defg-hij",
	}
}

func TestLogin_BadRequests(t *testing.T) {
	env := newTestEnv(t)
	env.seedOrganizer(t, "alice", "pass123")

	code, _ := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "alice"})
	if code != http.StatusBadRequest {
		t.Fatalf("missing password: want 400, got %d", code)
	}

	code, _ = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "alice", "password": "wrong"})
	if code != http.StatusUnauthorized {
		t.Fatalf("wrong password: want 401, got %d", code)
	}

	code, _ = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "ghost", "password": "pass123"})
	if code != http.StatusUnauthorized {
		t.Fatalf("unknown user: want 401, got %d", code)
	}
}

func TestLogout_RevokesAccessToken(t *testing.T) {
	env := newTestEnv(t)
	env.seedOrganizer(t, "alice", "pass123")
	access, _ := env.login(t, "alice", "pass123")

	code, _ := env.do(t, http.MethodGet, "/api/organizers/me", access, nil)
	if code != http.StatusOK {
		t.Fatalf("profile before logout: want 200, got %d", code)
	}

	code, _ = env.do(t, http.MethodPost, "/api/auth/logout", access, nil)
	if code != http.StatusOK {
		t.Fatalf("logout: want 200, got %d", code)
	}

	code, body := env.do(t, http.MethodGet, "/api/organizers/me", access, nil)
	if code != http.StatusUnauthorized {
		t.Fatalf("profile after logout: want 401, got %d", code)
	}
	if body["error"] != reasonTokenRevoked {
		t.Fatalf("want %q, got %v", reasonTokenRevoked, body["error"])
	}
}

func TestRefresh_Flow(t *testing.T) {
	env := newTestEnv(t)
	env.seedOrganizer(t, "alice", "pass123")
	access, refresh := env.login(t, "alice", "pass123")

	// refresh endpoint takes the refresh token only
	code, body := env.do(t, http.MethodPost, "/api/auth/refresh", access, nil)
	if code != http.StatusUnauthorized || body["error"] != reasonWrongTokenType {
		t.Fatalf("refresh with access token: want 401 %s, got %d %v", reasonWrongTokenType, code, body)
	}

	code, body = env.do(t, http.MethodPost, "/api/auth/refresh", refresh, nil)
	if code != http.StatusOK {
		t.Fatalf("refresh: want 200, got %d (%v)", code, body)
	}
	newAccess, _ := body["access_token"].(string)
	if newAccess == "" {
		t.Fatalf("refresh: missing access_token in %v", body)
	}

	code, _ = env.do(t, http.MethodGet, "/api/organizers/me", newAccess, nil)
	if code != http.StatusOK {
		t.Fatalf("refreshed access token rejected: %d", code)
	}

	// revoking the refresh token ends the session
	code, _ = env.do(t, http.MethodPost, "/api/auth/logout", refresh, nil)
	if code != http.StatusOK {
		t.Fatalf("logout with refresh token: want 200, got %d", code)
	}
	code, body = env.do(t, http.MethodPost, "/api/auth/refresh", refresh, nil)
	if code != http.StatusUnauthorized || body["error"] != reasonTokenRevoked {
		t.Fatalf("refresh after logout: want 401 %s, got %d %v", reasonTokenRevoked, code, body)
	}
}

func TestActivities_PublicListingAndFilters(t *testing.T) {
	env := newTestEnv(t)
	env.seedOrganizer(t, "alice", "pass123")
	access, _ := env.login(t, "alice", "pass123")

	for _, in := range []map[string]string{
		futureActivity("Chess club", "Chess"),
		futureActivity("Art hour", "Art"),
	} {
		code, body := env.do(t, http.MethodPost, "/api/activities", access, in)
		if code != http.StatusCreated {
			t.Fatalf("create: want 201, got %d (%v)", code, body)
		}
	}

	code, all := env.doList(t, "/api/activities", "")
	if code != http.StatusOK || len(all) != 2 {
		t.Fatalf("public listing: want 200 with 2 items, got %d with %d", code, len(all))
	}
	if all[0]["organizer_username"] != "alice" {
		t.Fatalf("expected organizer_username in listing, got %v", all[0])
	}

	code, filtered := env.doList(t, "/api/activities?topic=Chess", "")
	if code != http.StatusOK || len(filtered) != 1 || filtered[0]["title"] != "Chess club" {
		t.Fatalf("topic filter: got %d items %v", len(filtered), filtered)
	}

	code, none := env.doList(t, "/api/activities?age_group=11-13", "")
	if code != http.StatusOK || len(none) != 0 {
		t.Fatalf("age filter: want empty result, got %v", none)
	}
}

func TestActivities_CreateRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodPost, "/api/activities", "", futureActivity("Chess club", "Chess"))
	if code != http.StatusUnauthorized || body["error"] != reasonMissingToken {
		t.Fatalf("want 401 %s, got %d %v", reasonMissingToken, code, body)
	}
}

func TestActivities_OwnershipEnforced(t *testing.T) {
	env := newTestEnv(t)
	env.seedOrganizer(t, "alice", "pass123")
	env.seedOrganizer(t, "bob", "pass456")

	aliceAccess, _ := env.login(t, "alice", "pass123")
	bobAccess, _ := env.login(t, "bob", "pass456")

	code, created := env.do(t, http.MethodPost, "/api/activities", aliceAccess, futureActivity("Chess club", "Chess"))
	if code != http.StatusCreated {
		t.Fatalf("create: want 201, got %d (%v)", code, created)
	}
	id, _ := created["id"].(string)
	if id == "" {
		t.Fatalf("create: missing id in %v", created)
	}

	update := futureActivity("Hijacked", "Chess")
	code, _ = env.do(t, http.MethodPut, "/api/activities/"+id, bobAccess, update)
	if code != http.StatusForbidden {
		t.Fatalf("foreign update: want 403, got %d", code)
	}
	code, _ = env.do(t, http.MethodDelete, "/api/activities/"+id, bobAccess, nil)
	if code != http.StatusForbidden {
		t.Fatalf("foreign delete: want 403, got %d", code)
	}

	// the row is untouched
	_, all := env.doList(t, "/api/activities", "")
	if len(all) != 1 || all[0]["title"] != "Chess club" {
		t.Fatalf("activity must be unchanged after forbidden mutations, got %v", all)
	}

	// the owner can still mutate and remove it
	update["title"] = "Chess club v2"
	code, _ = env.do(t, http.MethodPut, "/api/activities/"+id, aliceAccess, update)
	if code != http.StatusOK {
		t.Fatalf("owner update: want 200, got %d", code)
	}
	code, _ = env.do(t, http.MethodDelete, "/api/activities/"+id, aliceAccess, nil)
	if code != http.StatusOK {
		t.Fatalf("owner delete: want 200, got %d", code)
	}

	code, _ = env.do(t, http.MethodDelete, "/api/activities/"+id, aliceAccess, nil)
	if code != http.StatusNotFound {
		t.Fatalf("delete of a removed activity: want 404, got %d", code)
	}
}

func TestProfile_UpdateAndPasswordChange(t *testing.T) {
	env := newTestEnv(t)
	env.seedOrganizer(t, "alice", "old-pass")
	access, _ := env.login(t, "alice", "old-pass")

	code, body := env.do(t, http.MethodPut, "/api/organizers/me", access, map[string]string{
		"name":     "Alice B",
		"password": "new-pass",
	})
	if code != http.StatusOK {
		t.Fatalf("profile update: want 200, got %d (%v)", code, body)
	}
	if body["name"] != "Alice B" {
		t.Fatalf("expected updated name, got %v", body)
	}
	if _, exposed := body["password_hash"]; exposed {
		t.Fatalf("verifier must never appear in responses: %v", body)
	}

	code, _ = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "alice", "password": "old-pass"})
	if code != http.StatusUnauthorized {
		t.Fatalf("old password must stop working, got %d", code)
	}
	env.login(t, "alice", "new-pass")
}
