package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"
)

func newTestChain(store sessions.Store) (http.Handler, *bool) {
	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	})
	return RequireAuth(store)(next), &reached
}

func TestRequireAuth_RedirectsWithoutLogin(t *testing.T) {
	store := sessions.NewCookieStore([]byte("test-key"))
	chain, reached := newTestChain(store)

	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/home", nil))

	require.False(t, *reached)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireAuth_PublicPathsPass(t *testing.T) {
	store := sessions.NewCookieStore([]byte("test-key"))

	for _, path := range []string{"/login", "/register", "/static/style.css"} {
		chain, reached := newTestChain(store)

		rec := httptest.NewRecorder()
		chain.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		require.True(t, *reached, "путь %s должен быть открыт без входа", path)
	}
}

func TestRequireAuth_PassesWithLogin(t *testing.T) {
	store := sessions.NewCookieStore([]byte("test-key"))
	chain, reached := newTestChain(store)

	// готовим cookie с login-контекстом
	seed := httptest.NewRequest(http.MethodGet, "/", nil)
	seedRec := httptest.NewRecorder()
	session, err := store.Get(seed, "app-session")
	require.NoError(t, err)
	session.Values["user_id"] = 7
	require.NoError(t, session.Save(seed, seedRec))

	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	req.Header.Set("Cookie", seedRec.Header().Get("Set-Cookie"))

	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)

	require.True(t, *reached)
}
