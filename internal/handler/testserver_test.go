package handler_test

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	_ "github.com/mattn/go-sqlite3"

	"github.com/iliyamo/todo-list-api/internal/config"
	"github.com/iliyamo/todo-list-api/internal/handler"
	"github.com/iliyamo/todo-list-api/internal/middleware"
	"github.com/iliyamo/todo-list-api/internal/repository"
	"github.com/iliyamo/todo-list-api/internal/router"
	"github.com/iliyamo/todo-list-api/internal/validation"
)

// newTestServer wires the full HTTP stack (routes, token auth, validator)
// over an in-memory SQLite database, mirroring the production wiring in
// cmd/server minus Redis and RabbitMQ.
func newTestServer(t *testing.T, name string) *echo.Echo {
	t.Helper()
	db, err := sql.Open("sqlite3", "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	schema := []string{
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE auth_tokens (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL UNIQUE,
			token_hash TEXT NOT NULL UNIQUE,
			expires_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE todos (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			due_date DATE,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}

	cfg := config.Config{Env: "test", TokenTTLHours: 24, BcryptCost: 4}
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	todos := repository.NewTodoRepo(db)

	e := echo.New()
	e.Validator = validation.New()
	e.Pre(echomw.RemoveTrailingSlash())

	auth := middleware.TokenAuth(tokens)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), nil) // pass-through without redis

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), auth)
	router.RegisterTodos(e, handler.NewTodoHandler(todos, nil), auth, cache)
	return e
}

// doJSON performs a request against the in-process server. token, when
// non-empty, is sent as `Authorization: Token <value>`.
func doJSON(t *testing.T, e *echo.Echo, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals a JSON response body into a generic map.
func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	out := map[string]any{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

// registerAndLogin creates an account and returns its token and user id.
func registerAndLogin(t *testing.T, e *echo.Echo, username, password, email string) (string, uint64) {
	t.Helper()
	rec := doJSON(t, e, http.MethodPost, "/register", "",
		`{"username":"`+username+`","password":"`+password+`","email":"`+email+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", username, rec.Code, rec.Body.String())
	}
	rec = doJSON(t, e, http.MethodPost, "/login", "",
		`{"username":"`+username+`","password":"`+password+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", username, rec.Code, rec.Body.String())
	}
	resp := decode(t, rec)
	token, _ := resp["token"].(string)
	uid, _ := resp["user_id"].(float64)
	if token == "" || uid == 0 {
		t.Fatalf("login %s: incomplete response %v", username, resp)
	}
	return token, uint64(uid)
}
