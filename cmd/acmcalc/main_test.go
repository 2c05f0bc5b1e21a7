package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/acm-engine/acm"
	"github.com/warp/acm-engine/eligibility"
	"github.com/warp/acm-engine/factory"
)

// =============================================================================
// CONFIGURATION
// =============================================================================

func TestLoadConfig_Defaults(t *testing.T) {
	c, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, 8080, c.Port)
	assert.Equal(t, "acm.db", c.DB)
	assert.Equal(t, "info", c.LogLevel)
	assert.True(t, c.Monitor.Enabled)
	assert.Equal(t, 7*24*time.Hour, c.Monitor.Interval)
	assert.Nil(t, c.SMTP.Alerter())

	docs := c.Monitor.Documents()
	require.Len(t, docs, 2)
	assert.Equal(t, "acm_guide", docs[0].Key)
	assert.Contains(t, docs[1].URL, "ACM-Table")
}

func TestLoadConfig_Precedence(t *testing.T) {
	// GIVEN: A config file, environment variables and a changed flag
	// WHEN: Loading the configuration
	// THEN: Flags beat env, env beats the file, the file beats defaults

	dir := t.TempDir()
	file := filepath.Join(dir, "acmcalc.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
port: 7000
db: from-file.db
log_level: DEBUG
monitor:
  interval: 24h
  guide_url: https://example.com/guide.pdf
smtp:
  host: smtp.example.com
  user: alerts@example.com
  notify: [ops@example.com]
`), 0o600))

	t.Setenv("ACM_DB", "from-env.db")
	t.Setenv("ACM_SMTP_PASS", "pw")
	t.Setenv("ACM_MONITOR_ENABLED", "false")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 8080, "")
	require.NoError(t, flags.Parse([]string{"--port", "9090"}))

	c, err := LoadConfig(file, flags)
	require.NoError(t, err)

	assert.Equal(t, 9090, c.Port)
	assert.Equal(t, "from-env.db", c.DB)
	assert.Equal(t, "debug", c.LogLevel)
	assert.False(t, c.Monitor.Enabled)
	assert.Equal(t, 24*time.Hour, c.Monitor.Interval)
	assert.Equal(t, "https://example.com/guide.pdf", c.Monitor.Documents()[0].URL)
	assert.NotNil(t, c.SMTP.Alerter())
	assert.Equal(t, []string{"ops@example.com"}, c.SMTP.Notify)
}

func TestLoadConfig_NoMonitorFlag(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Bool("no-monitor", false, "")
	require.NoError(t, flags.Parse([]string{"--no-monitor"}))

	c, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.False(t, c.Monitor.Enabled)
}

func TestLoadConfig_Rejected(t *testing.T) {
	t.Setenv("ACM_LOG_LEVEL", "loud")
	_, err := LoadConfig("", nil)
	assert.Error(t, err)
}

// =============================================================================
// CALCULATE
// =============================================================================

const eventYAML = `
scheme: hcc
programme_variant: inhouse
trainer_type: external
course_category: general_non_technical
days: 1
host:
  label: Acme Sdn Bhd
  pax: 10
`

func TestReadEvent_YAMLWithDefaults(t *testing.T) {
	in, err := readEvent(strings.NewReader(eventYAML), []string{"-"}, "")
	require.NoError(t, err)

	assert.Equal(t, acm.SchemeHCC, in.Scheme)
	assert.Equal(t, "Acme Sdn Bhd", in.Host.Label)
	assert.Equal(t, 10, in.Host.Pax)
	assert.Equal(t, 1, in.NumberOfTrainers)
	assert.Equal(t, acm.VenueEmployerPremises, in.Venue)
}

func TestReadEvent_Sources(t *testing.T) {
	in, err := readEvent(nil, nil, "slb-joint")
	require.NoError(t, err)
	assert.Equal(t, acm.SchemeSLB, in.Scheme)

	_, err = readEvent(nil, []string{"event.yaml"}, "slb-joint")
	assert.Error(t, err)

	_, err = readEvent(nil, nil, "")
	assert.Error(t, err)

	_, err = readEvent(nil, nil, "missing")
	assert.Error(t, err)

	_, err = readEvent(strings.NewReader("scheme: [unclosed"), []string{"-"}, "")
	assert.Error(t, err)
}

func TestRenderText(t *testing.T) {
	// GIVEN: The basic in-house event against the baseline configuration
	// WHEN: Rendering the result as text
	// THEN: The worksheet lists every item, the total and the edition

	in, err := readEvent(strings.NewReader(eventYAML), []string{"-"}, "")
	require.NoError(t, err)
	res, err := eligibility.Calculate(factory.MustBaseline(), in)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, renderText(&out, in, res))
	text := out.String()

	assert.Contains(t, text, "ACM Table November 2025 / ACM Guide September 2025")
	assert.Contains(t, text, "HCC")
	assert.Contains(t, text, "RM10,500.00")
	assert.Contains(t, text, "RM11,600.00")
	assert.Contains(t, text, "Warnings:")
	assert.Contains(t, text, "Grant submission checklist:")
}
