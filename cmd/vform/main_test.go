package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const definition = `
method: post
fields:
  - name: email
    rules: required|email
`

func endpoint(t *testing.T) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Post("/signup", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "Welcome " + body["email"]})
	})
	r.Post("/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func writeDefinition(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "form.yaml")
	require.NoError(t, os.WriteFile(path, []byte(definition), 0o600))
	return path
}

func TestRun(t *testing.T) {
	t.Setenv("VFORM_LOG_LEVEL", "error")
	srv := endpoint(t)
	def := writeDefinition(t)

	t.Run("valid submission", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := run(context.Background(), []string{
			"-form", def, "-action", srv.URL + "/signup", "-set", "email=a@b.com",
		}, &stdout, &stderr)
		require.Equal(t, exitOK, code, stderr.String())

		var res result
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &res))
		assert.Equal(t, "succeeded", string(res.Status))
		assert.Equal(t, http.StatusOK, res.HTTPStatus)
		assert.Equal(t, "Welcome a@b.com", res.Message)
	})

	t.Run("validation failure", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := run(context.Background(), []string{
			"-form", def, "-action", srv.URL + "/signup", "-set", "email=a@b",
		}, &stdout, &stderr)
		require.Equal(t, exitInvalid, code)

		var res result
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &res))
		assert.Equal(t, map[string][]string{"email": {"Email value is invalid."}}, res.Errors)
	})

	t.Run("endpoint failure", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := run(context.Background(), []string{
			"-form", def, "-action", srv.URL + "/broken", "-set", "email=a@b.com",
		}, &stdout, &stderr)
		require.Equal(t, exitFailure, code)

		var res result
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &res))
		assert.Equal(t, http.StatusServiceUnavailable, res.HTTPStatus)
		assert.Contains(t, res.Error, "503")
	})

	t.Run("metrics file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vform.prom")
		var stdout, stderr bytes.Buffer
		code := run(context.Background(), []string{
			"-form", def, "-action", srv.URL + "/signup", "-set", "email=a@b.com", "-metrics-file", path,
		}, &stdout, &stderr)
		require.Equal(t, exitOK, code, stderr.String())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `vform_submissions_total{outcome="succeeded"} 1`)
	})

	t.Run("missing definition", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := run(context.Background(), []string{"-form", filepath.Join(t.TempDir(), "nope.yaml")}, &stdout, &stderr)
		assert.Equal(t, exitFailure, code)
		assert.Empty(t, stdout.String())
	})

	t.Run("bad set flag", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := run(context.Background(), []string{"-set", "novalue"}, &stdout, &stderr)
		assert.Equal(t, exitFailure, code)
	})
}

func TestPrintable(t *testing.T) {
	v := printable(map[any]any{1: []any{map[any]any{"a": "b"}}})
	assert.Equal(t, map[string]any{"1": []any{map[string]any{"a": "b"}}}, v)
}
