package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocked/stocked/internal/core/domain"
	logicv1 "github.com/stocked/stocked/internal/logic/v1"
	webv1 "github.com/stocked/stocked/internal/web/v1"
)

// memStore is an in-memory domain.Store for exercising the full HTTP
// surface without a database.
type memStore struct {
	users    map[int]*domain.UserRow
	sessions map[uuid.UUID]*domain.SessionRow
	stocks   map[int32]*domain.StockRow
	nextID   int
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[int]*domain.UserRow),
		sessions: make(map[uuid.UUID]*domain.SessionRow),
		stocks:   make(map[int32]*domain.StockRow),
		nextID:   1,
	}
}

func (s *memStore) Users() domain.UserRepository       { return (*memUsers)(s) }
func (s *memStore) Sessions() domain.SessionRepository { return (*memSessions)(s) }
func (s *memStore) Stocks() domain.StockRepository     { return (*memStocks)(s) }

func (s *memStore) WithTx(_ context.Context, fn func(domain.Store) error) error {
	return fn(s)
}

type memUsers memStore

func (r *memUsers) GetByID(_ context.Context, id int) (*domain.UserRow, error) {
	return r.users[id], nil
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*domain.UserRow, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUsers) EmailExists(ctx context.Context, email string) (bool, error) {
	u, err := r.GetByEmail(ctx, email)
	return u != nil, err
}

func (r *memUsers) CreateWithAccount(_ context.Context, email, passwordHash string) (*domain.UserRow, error) {
	for _, u := range r.users {
		if u.Email == email {
			return nil, domain.ErrEmailTaken
		}
	}
	u := &domain.UserRow{
		ID:           r.nextID,
		AccountID:    r.nextID,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	r.users[u.ID] = u
	r.nextID++
	return u, nil
}

type memSessions memStore

func (r *memSessions) Create(_ context.Context, id uuid.UUID, userID int, expiresAt time.Time) error {
	r.sessions[id] = &domain.SessionRow{ID: id, UserID: userID, CreatedAt: time.Now(), ExpiresAt: expiresAt}
	return nil
}

func (r *memSessions) Get(_ context.Context, id uuid.UUID) (*domain.SessionRow, error) {
	return r.sessions[id], nil
}

func (r *memSessions) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.sessions, id)
	return nil
}

type memStocks memStore

func (r *memStocks) List(_ context.Context) ([]domain.StockRow, error) {
	out := make([]domain.StockRow, 0, len(r.stocks))
	for _, s := range r.stocks {
		out = append(out, *s)
	}
	return out, nil
}

func (r *memStocks) Get(_ context.Context, id int32) (*domain.StockRow, error) {
	return r.stocks[id], nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *memStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newMemStore()
	auth := logicv1.NewAuthService(store, logicv1.NewArgon2idHasher())
	stocks := logicv1.NewStockService(store)
	handler := webv1.NewHandler(auth, stocks, true)

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"))
	return router, store
}

func doJSON(router *gin.Engine, method, path, body, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: webv1.SessionCookieName, Value: cookie})
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// sessionCookie extracts the SSID cookie from a response, failing the test
// when it is absent.
func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == webv1.SessionCookieName {
			return c
		}
	}
	t.Fatal("response carries no session cookie")
	return nil
}

func TestRegisterEndpoint(t *testing.T) {
	t.Run("creates user and sets session cookie", func(t *testing.T) {
		router, _ := newTestRouter(t)

		w := doJSON(router, http.MethodPost, "/api/v1/auth/register",
			`{"email":"user@example.com","password":"Password1!"}`, "")
		require.Equal(t, http.StatusCreated, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "user@example.com", body["email"])
		assert.Contains(t, body, "balance")
		assert.Contains(t, body, "delta")
		assert.NotContains(t, body, "password_hash")
		assert.NotContains(t, body, "account_id")

		cookie := sessionCookie(t, w)
		assert.NotEmpty(t, cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.True(t, cookie.Secure)
		assert.Equal(t, "/", cookie.Path)
		assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
		assert.Equal(t, int(logicv1.SessionTTL.Seconds()), cookie.MaxAge)

		_, err := uuid.Parse(cookie.Value)
		assert.NoError(t, err, "session token must be a UUID")
	})

	t.Run("lowercases the email before storing", func(t *testing.T) {
		router, store := newTestRouter(t)

		w := doJSON(router, http.MethodPost, "/api/v1/auth/register",
			`{"email":"User@EXAMPLE.com","password":"Password1!"}`, "")
		require.Equal(t, http.StatusCreated, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "user@example.com", body["email"])
		assert.Equal(t, "user@example.com", store.users[1].Email)
	})

	t.Run("duplicate email yields 409 envelope", func(t *testing.T) {
		router, _ := newTestRouter(t)

		doJSON(router, http.MethodPost, "/api/v1/auth/register",
			`{"email":"user@example.com","password":"Password1!"}`, "")
		w := doJSON(router, http.MethodPost, "/api/v1/auth/register",
			`{"email":"user@example.com","password":"Password1!"}`, "")

		require.Equal(t, http.StatusConflict, w.Code)
		assert.JSONEq(t, `{"message":"Email already in use","status":409}`, w.Body.String())
	})

	t.Run("weak password yields 400 without details", func(t *testing.T) {
		router, store := newTestRouter(t)

		w := doJSON(router, http.MethodPost, "/api/v1/auth/register",
			`{"email":"user@example.com","password":"weakpass"}`, "")

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"message":"Password does not meet the requirements","status":400}`, w.Body.String())
		assert.Empty(t, store.users)
	})

	t.Run("malformed body yields 400", func(t *testing.T) {
		router, _ := newTestRouter(t)

		w := doJSON(router, http.MethodPost, "/api/v1/auth/register", `{"email":`, "")
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"message":"Invalid request","status":400}`, w.Body.String())
	})

	t.Run("rejected while already authenticated", func(t *testing.T) {
		router, _ := newTestRouter(t)

		first := doJSON(router, http.MethodPost, "/api/v1/auth/register",
			`{"email":"user@example.com","password":"Password1!"}`, "")
		token := sessionCookie(t, first).Value

		w := doJSON(router, http.MethodPost, "/api/v1/auth/register",
			`{"email":"other@example.com","password":"Password1!"}`, token)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"message":"Already authenticated","status":400}`, w.Body.String())
	})
}

func TestLoginEndpoint(t *testing.T) {
	registerBody := `{"email":"user@example.com","password":"Password1!"}`

	t.Run("issues a fresh session for valid credentials", func(t *testing.T) {
		router, store := newTestRouter(t)
		doJSON(router, http.MethodPost, "/api/v1/auth/register", registerBody, "")

		w := doJSON(router, http.MethodPost, "/api/v1/auth/login", registerBody, "")
		require.Equal(t, http.StatusOK, w.Code)

		cookie := sessionCookie(t, w)
		assert.True(t, cookie.HttpOnly)
		assert.Len(t, store.sessions, 2, "login issues a session distinct from the registration one")
	})

	t.Run("wrong password yields the generic 401", func(t *testing.T) {
		router, _ := newTestRouter(t)
		doJSON(router, http.MethodPost, "/api/v1/auth/register", registerBody, "")

		w := doJSON(router, http.MethodPost, "/api/v1/auth/login",
			`{"email":"user@example.com","password":"Wrong1!pass"}`, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"message":"Invalid email or password","status":401}`, w.Body.String())
	})

	t.Run("unknown email yields the same 401", func(t *testing.T) {
		router, _ := newTestRouter(t)

		w := doJSON(router, http.MethodPost, "/api/v1/auth/login",
			`{"email":"nobody@example.com","password":"Password1!"}`, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"message":"Invalid email or password","status":401}`, w.Body.String())
	})
}

func TestSessionEndpoint(t *testing.T) {
	t.Run("round trip after register", func(t *testing.T) {
		router, _ := newTestRouter(t)

		reg := doJSON(router, http.MethodPost, "/api/v1/auth/register",
			`{"email":"user@example.com","password":"Password1!"}`, "")
		token := sessionCookie(t, reg).Value

		w := doJSON(router, http.MethodGet, "/api/v1/auth/session", "", token)
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "user@example.com", body["email"])
		assert.NotContains(t, body, "password_hash")
	})

	t.Run("missing cookie yields 401", func(t *testing.T) {
		router, _ := newTestRouter(t)

		w := doJSON(router, http.MethodGet, "/api/v1/auth/session", "", "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"message":"Missing session cookie","status":401}`, w.Body.String())
	})

	t.Run("garbage token yields 401", func(t *testing.T) {
		router, _ := newTestRouter(t)

		w := doJSON(router, http.MethodGet, "/api/v1/auth/session", "", "not-a-uuid")
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"message":"Invalid session token","status":401}`, w.Body.String())
	})

	t.Run("unknown token yields 401", func(t *testing.T) {
		router, _ := newTestRouter(t)

		w := doJSON(router, http.MethodGet, "/api/v1/auth/session", "", uuid.NewString())
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"message":"Session not found","status":401}`, w.Body.String())
	})
}

func TestLogoutEndpoint(t *testing.T) {
	t.Run("deletes the session and clears the cookie", func(t *testing.T) {
		router, store := newTestRouter(t)

		reg := doJSON(router, http.MethodPost, "/api/v1/auth/register",
			`{"email":"user@example.com","password":"Password1!"}`, "")
		token := sessionCookie(t, reg).Value

		w := doJSON(router, http.MethodPost, "/api/v1/auth/logout", "", token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
		assert.Empty(t, store.sessions)

		cleared := sessionCookie(t, w)
		assert.Empty(t, cleared.Value)
		assert.Less(t, cleared.MaxAge, 0)
	})

	t.Run("any resolution failure collapses to 400", func(t *testing.T) {
		router, _ := newTestRouter(t)

		for name, token := range map[string]string{
			"no cookie":     "",
			"garbage token": "not-a-uuid",
			"unknown token": uuid.NewString(),
		} {
			t.Run(name, func(t *testing.T) {
				w := doJSON(router, http.MethodPost, "/api/v1/auth/logout", "", token)
				require.Equal(t, http.StatusBadRequest, w.Code)
				assert.JSONEq(t, `{"message":"Invalid request","status":400}`, w.Body.String())
			})
		}
	})
}

func TestStocksEndpoints(t *testing.T) {
	seed := func(store *memStore) {
		store.stocks[1] = &domain.StockRow{ID: 1, Abbreviation: "ACME", Company: "Acme Corp", Price: 13.37}
	}

	t.Run("list", func(t *testing.T) {
		router, store := newTestRouter(t)
		seed(store)

		w := doJSON(router, http.MethodGet, "/api/v1/stocks", "", "")
		require.Equal(t, http.StatusOK, w.Code)

		var body []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body, 1)
		assert.Equal(t, "ACME", body[0]["abbreviation"])
	})

	t.Run("get", func(t *testing.T) {
		router, store := newTestRouter(t)
		seed(store)

		w := doJSON(router, http.MethodGet, "/api/v1/stocks/1", "", "")
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Acme Corp", body["company"])
	})

	t.Run("unknown id yields 404", func(t *testing.T) {
		router, _ := newTestRouter(t)

		w := doJSON(router, http.MethodGet, "/api/v1/stocks/42", "", "")
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"message":"Not found","status":404}`, w.Body.String())
	})

	t.Run("non-numeric id yields 400", func(t *testing.T) {
		router, _ := newTestRouter(t)

		w := doJSON(router, http.MethodGet, "/api/v1/stocks/acme", "", "")
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"message":"Invalid request","status":400}`, w.Body.String())
	})
}
