package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/caskblog/internal/blogservice"
	"github.com/sushihentaime/caskblog/internal/common"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "pint-of-bitter"

func strptr(s string) *string {
	return &s
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *Config {
	return &Config{
		Environment:    "testing",
		Version:        "test",
		TrustedOrigins: []string{"http://example.com"},
	}
}

func newApplicationWith(t *testing.T, db blogservice.Querier) *application {
	t.Helper()

	secret, err := blogservice.NewUploadSecretWithCost(testPassword, bcrypt.MinCost)
	require.NoError(t, err)

	logger := discardLogger()

	return &application{
		config:      testConfig(),
		logger:      logger,
		blogService: blogservice.NewBlogService(db, nil, nil, secret, logger),
	}
}

// newTestApplication starts a migrated postgres container for the duration of the test.
func newTestApplication(t *testing.T) (*application, *sql.DB) {
	db := common.TestDB("file://../migrations", t)
	return newApplicationWith(t, common.NewDBFromHandle(db)), db
}

// brokenDB fails every statement the way an unreachable server does.
type brokenDB struct{}

func (brokenDB) Query(ctx context.Context, query string, args []any, scan func(*sql.Rows) error) error {
	return &common.DatabaseError{Err: sql.ErrConnDone}
}

func (brokenDB) Ping(ctx context.Context) error {
	return &common.DatabaseError{Err: sql.ErrConnDone}
}

type testResponse struct {
	status int
	header http.Header
	body   map[string]any
}

func doRequest(t *testing.T, h http.Handler, method, target string, body any) testResponse {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		js, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(js)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	res := testResponse{status: rr.Code, header: rr.Header()}
	if rr.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res.body), rr.Body.String())
	}

	return res
}

func countBlogs(t *testing.T, db *sql.DB) int {
	t.Helper()

	var n int
	require.NoError(t, db.QueryRow("SELECT count(*) FROM app.blogs").Scan(&n))
	return n
}
