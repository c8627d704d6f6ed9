package cli

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloghouse/tatame/internal/auth"
	"github.com/bloghouse/tatame/internal/config"
	"github.com/bloghouse/tatame/internal/errors"
)

func loginTestApp(t *testing.T, url string) (*app, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.API.URL = url
	return &app{cfg: cfg, tokens: auth.NewFileTokenSource(dir)}, dir
}

func TestVerifyAndStore_RejectedTokenNotPersisted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	a, dir := loginTestApp(t, srv.URL)

	err := verifyAndStore(context.Background(), a, "bad-token")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrAuth))

	_, statErr := os.Stat(filepath.Join(dir, "token"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestVerifyAndStore_AcceptedTokenPersisted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer good-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"success":true,"data":[]}`)
	}))
	defer srv.Close()

	a, dir := loginTestApp(t, srv.URL)

	require.NoError(t, verifyAndStore(context.Background(), a, "  good-token \n"))

	data, err := os.ReadFile(filepath.Join(dir, "token"))
	require.NoError(t, err)
	assert.Equal(t, "good-token\n", string(data))
}
