package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"espacios-api/internal/token"

	"github.com/go-redis/redismock/v9"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runAuth(t *testing.T, tokens *token.Manager, denylist *token.Denylist, header string) (error, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/reservas", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	err := RequireAuth(tokens, denylist)(next)(c)
	return err, c
}

func newAuthFixture() (*token.Manager, redismock.ClientMock, *token.Denylist) {
	rdb, mock := redismock.NewClientMock()
	return token.NewManager("test-secret", time.Hour), mock, token.NewDenylist(rdb)
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	tokens, _, denylist := newAuthFixture()

	err, _ := runAuth(t, tokens, denylist, "")

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireAuth_NotBearer(t *testing.T) {
	tokens, _, denylist := newAuthFixture()

	err, _ := runAuth(t, tokens, denylist, "Basic deadbeef")

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireAuth_BadToken(t *testing.T) {
	tokens, _, denylist := newAuthFixture()

	err, _ := runAuth(t, tokens, denylist, "Bearer no.es.un.token")

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireAuth_RevokedToken(t *testing.T) {
	tokens, mock, denylist := newAuthFixture()

	signed, claims, err := tokens.Issue(7)
	require.NoError(t, err)
	mock.ExpectExists("token:denylist:" + claims.ID).SetVal(1)

	outErr, _ := runAuth(t, tokens, denylist, "Bearer "+signed)

	he, ok := outErr.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireAuth_SetsSubject(t *testing.T) {
	tokens, mock, denylist := newAuthFixture()

	signed, claims, err := tokens.Issue(7)
	require.NoError(t, err)
	mock.ExpectExists("token:denylist:" + claims.ID).SetVal(0)

	outErr, c := runAuth(t, tokens, denylist, "Bearer "+signed)

	assert.NoError(t, outErr)
	assert.Equal(t, uint(7), UserID(c))
	require.NotNil(t, TokenClaims(c))
	assert.Equal(t, claims.ID, TokenClaims(c).ID)
}
