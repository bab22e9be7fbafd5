// Package config loads process settings from the environment and form
// definitions from YAML.
//
// Load parses environment variables into any struct with env tags using
// caarlos0/env, after loading an optional .env file with godotenv.
// LoadSettings applies it to Settings with the VFORM_ prefix:
//
//	VFORM_ENV            development | production
//	VFORM_LOG_LEVEL      debug | info | warn | error
//	VFORM_LOG_FORMAT     json | text (defaults by environment)
//	VFORM_BASE_URL       resolves relative form actions
//	VFORM_USER_AGENT
//	VFORM_HTTP_TIMEOUT   Go duration, e.g. 30s
//	VFORM_MAX_BODY_SIZE  bytes
//	VFORM_METRICS_ADDR   host:port serving /metrics while the command runs
//	VFORM_METRICS_FILE   file written with the metrics on exit
//
// A Definition describes a single form: where it is submitted, its
// transport options, message templates, and the fields with their rule
// specifications. FormConfig turns it into a form.Config and Apply registers
// its fields on a controller.
package config
