package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigShowMasksSecrets(t *testing.T) {
	env := newCmdEnv(t)
	env.save(t)

	require.NoError(t, env.run("config", "show"))

	out := env.out.String()
	assert.Contains(t, out, "spreadsheet_id: sheet-123")
	assert.Contains(t, out, "********")
	assert.NotContains(t, out, "testpass")
	assert.NotContains(t, out, "service_account")
}

func TestConfigValidate(t *testing.T) {
	env := newCmdEnv(t)
	env.save(t)

	require.NoError(t, env.run("config", "validate"))
	out := env.out.String()
	assert.Contains(t, out, "ingest: ok")
	assert.Contains(t, out, "report: ok")
	assert.Contains(t, out, "export-tabs: ok")
}

func TestConfigValidateReportsMissingFields(t *testing.T) {
	env := newCmdEnv(t)
	env.cfg.Snowflake.Account = ""
	env.save(t)

	err := env.run("config", "validate", "export-tabs", "report")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "report")
	assert.NotContains(t, err.Error(), "export-tabs")

	out := env.out.String()
	assert.Contains(t, out, "export-tabs: ok")
	assert.Contains(t, out, "snowflake.account is required")
}

func TestConfigValidateRejectsUnknownStage(t *testing.T) {
	env := newCmdEnv(t)
	env.save(t)

	err := env.run("config", "validate", "deploy")
	assert.Error(t, err)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "", mask(""))
	assert.Equal(t, "********", mask("secret"))
}
