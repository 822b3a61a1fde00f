package handler_test

import (
	"net/http"
	"testing"
)

func TestRegister(t *testing.T) {
	e := newTestServer(t, "authregister")

	rec := doJSON(t, e, http.MethodPost, "/register", "",
		`{"username":"user","password":"mypassword","email":"user@gmail.com"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status %d body %s", rec.Code, rec.Body.String())
	}
	resp := decode(t, rec)
	if resp["username"] != "user" || resp["email"] != "user@gmail.com" {
		t.Fatalf("unexpected register response: %v", resp)
	}
	if _, leaked := resp["password"]; leaked {
		t.Fatalf("password echoed in register response: %v", resp)
	}

	// Same username again fails; a distinct one succeeds.
	rec = doJSON(t, e, http.MethodPost, "/register", "",
		`{"username":"user","password":"other","email":"other@gmail.com"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register: status %d", rec.Code)
	}
	rec = doJSON(t, e, http.MethodPost, "/register", "",
		`{"username":"user2","password":"other","email":"other@gmail.com"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("distinct register: status %d body %s", rec.Code, rec.Body.String())
	}
}

func TestRegisterValidation(t *testing.T) {
	e := newTestServer(t, "authvalidation")

	for name, body := range map[string]string{
		"missing username": `{"password":"pw","email":"a@b.com"}`,
		"missing password": `{"username":"u","email":"a@b.com"}`,
		"bad email":        `{"username":"u","password":"pw","email":"not-an-email"}`,
	} {
		rec := doJSON(t, e, http.MethodPost, "/register", "", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", name, rec.Code)
		}
	}
}

func TestLogin(t *testing.T) {
	e := newTestServer(t, "authlogin")
	doJSON(t, e, http.MethodPost, "/register", "",
		`{"username":"UserIrish","password":"@IrishPassword","email":"userirish@gmail.com"}`)

	rec := doJSON(t, e, http.MethodPost, "/login", "",
		`{"username":"UserIrish","password":"@IrishPassword"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status %d body %s", rec.Code, rec.Body.String())
	}
	resp := decode(t, rec)
	if resp["token"] == "" || resp["user_id"] == nil {
		t.Fatalf("incomplete login response: %v", resp)
	}

	rec = doJSON(t, e, http.MethodPost, "/login", "",
		`{"username":"UserIrish","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: status %d", rec.Code)
	}
	rec = doJSON(t, e, http.MethodPost, "/login", "",
		`{"username":"nobody","password":"whatever"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unknown user: status %d", rec.Code)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	e := newTestServer(t, "authlogout")
	token, uid := registerAndLogin(t, e, "carol", "pw123456", "carol@example.com")

	rec := doJSON(t, e, http.MethodGet, "/me", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("me before logout: status %d", rec.Code)
	}
	if resp := decode(t, rec); uint64(resp["id"].(float64)) != uid {
		t.Fatalf("me returned wrong user: %v", resp)
	}

	rec = doJSON(t, e, http.MethodPost, "/logout", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: status %d body %s", rec.Code, rec.Body.String())
	}

	// The revoked token never resolves again.
	rec = doJSON(t, e, http.MethodGet, "/me", token, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout: status %d", rec.Code)
	}
	rec = doJSON(t, e, http.MethodPost, "/logout", token, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("second logout with dead token: status %d", rec.Code)
	}
}

func TestReloginReplacesToken(t *testing.T) {
	e := newTestServer(t, "authrelogin")
	first, _ := registerAndLogin(t, e, "dave", "pw123456", "dave@example.com")

	rec := doJSON(t, e, http.MethodPost, "/login", "",
		`{"username":"dave","password":"pw123456"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("re-login: status %d", rec.Code)
	}
	second := decode(t, rec)["token"].(string)
	if second == first {
		t.Fatalf("re-login returned the same token")
	}

	if rec := doJSON(t, e, http.MethodGet, "/me", first, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("old token still resolves after re-login: status %d", rec.Code)
	}
	if rec := doJSON(t, e, http.MethodGet, "/me", second, ""); rec.Code != http.StatusOK {
		t.Fatalf("new token rejected: status %d", rec.Code)
	}
}
