package config_test

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/vform/pkg/aggregator"
	"github.com/dmitrymomot/vform/pkg/config"
	"github.com/dmitrymomot/vform/pkg/form"
	"github.com/dmitrymomot/vform/pkg/transport"
)

const signupYAML = `
action: /signup
method: put
headers:
  X-Form: signup
timeout: 1500
credentials: "true"
emulate_json: false
response_format: msgpack
templates:
  required: Please fill in this field.
fields:
  - name: email
    rules: required|email
    value: a@b.com
  - name: name
    rules: required
values:
  source: cli
`

func TestParseDefinition(t *testing.T) {
	d, err := config.ParseDefinition(strings.NewReader(signupYAML))
	require.NoError(t, err)

	cfg, err := d.FormConfig()
	require.NoError(t, err)
	assert.Equal(t, "/signup", cfg.Action)
	assert.Equal(t, "put", cfg.Method)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout)
	assert.Equal(t, form.Bool(true), cfg.Credentials)
	assert.Equal(t, form.Bool(false), cfg.EmulateJSON)
	assert.False(t, cfg.EmulateHTTP.IsSet())
	assert.Equal(t, form.FormatMsgPack, cfg.ResponseFormat)
	assert.Equal(t, aggregator.Templates{"required": "Please fill in this field."}, cfg.ErrorTemplates)
	assert.Equal(t, map[string]string{"X-Form": "signup"}, cfg.Headers)

	t.Run("apply registers fields and values", func(t *testing.T) {
		ctl, err := form.New(cfg, transport.Func(nil))
		require.NoError(t, err)
		defer ctl.Close()

		require.NoError(t, d.Apply(ctl))
		assert.Equal(t, []string{"email", "name"}, ctl.Fields())
		assert.Equal(t, form.Payload{"email": "a@b.com", "source": "cli"}, ctl.Payload())
	})

	t.Run("request options follow the definition", func(t *testing.T) {
		opts := form.RequestOptions(cfg, form.Payload{"email": "a@b.com"})
		assert.Equal(t, http.MethodPut, opts.Method)
		assert.NotNil(t, opts.Body)
	})
}

func TestParseDefinition_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "unnamed field", yaml: "fields:\n  - rules: required\n"},
		{name: "duplicate field", yaml: "fields:\n  - name: a\n  - name: a\n"},
		{name: "negative timeout", yaml: "timeout: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.ParseDefinition(strings.NewReader(tt.yaml))
			assert.ErrorIs(t, err, config.ErrInvalidDefinition)
		})
	}

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := config.ParseDefinition(strings.NewReader("fields: [\n"))
		assert.ErrorIs(t, err, config.ErrReadDefinition)
	})

	t.Run("bad toggle and format", func(t *testing.T) {
		d, err := config.ParseDefinition(strings.NewReader("credentials: 1\n"))
		require.NoError(t, err)
		_, err = d.FormConfig()
		assert.ErrorIs(t, err, form.ErrInvalidToggle)

		d, err = config.ParseDefinition(strings.NewReader("response_format: xml\n"))
		require.NoError(t, err)
		_, err = d.FormConfig()
		assert.ErrorIs(t, err, config.ErrInvalidDefinition)
	})

	t.Run("empty document", func(t *testing.T) {
		d, err := config.ParseDefinition(strings.NewReader(""))
		require.NoError(t, err)
		cfg, err := d.FormConfig()
		require.NoError(t, err)
		assert.Equal(t, form.FormatJSON, cfg.ResponseFormat)
	})
}

func TestLoadDefinition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form.yaml")
	require.NoError(t, os.WriteFile(path, []byte(signupYAML), 0o600))

	d, err := config.LoadDefinition(path)
	require.NoError(t, err)
	assert.Len(t, d.Fields, 2)

	_, err = config.LoadDefinition(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, config.ErrReadDefinition)
}
