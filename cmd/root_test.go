package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Ever-fnf/imc/internal/config"
	"github.com/Ever-fnf/imc/internal/sheets"
	"github.com/Ever-fnf/imc/internal/testutil"
	"github.com/Ever-fnf/imc/pkg/models"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

// fakeSecrets is an in-memory keyring.
type fakeSecrets map[string]string

func (f fakeSecrets) Get(service, user string) (string, error) {
	if v, ok := f[service+"/"+user]; ok {
		return v, nil
	}
	return "", keyring.ErrNotFound
}

func (f fakeSecrets) Set(service, user, password string) error {
	f[service+"/"+user] = password
	return nil
}

// cmdEnv is one isolated command run: config file, fakes and captured output.
type cmdEnv struct {
	dir     string
	cfgPath string
	cfg     *models.Config
	source  *testutil.MockSheets
	store   *testutil.MockStore
	secrets fakeSecrets
	out     *bytes.Buffer
	errOut  *bytes.Buffer
}

func newCmdEnv(t *testing.T) *cmdEnv {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv(config.ConfigEnvVar, "")

	cfg := testutil.TestConfig()
	cfg.Report.Output = filepath.Join(dir, "data.json")
	cfg.Metrics.Textfile = filepath.Join(dir, "imc.prom")
	for i := range cfg.Sheets.ExportTabs {
		cfg.Sheets.ExportTabs[i].Output = filepath.Join(dir, cfg.Sheets.ExportTabs[i].Output)
	}

	env := &cmdEnv{
		dir:     dir,
		cfgPath: filepath.Join(dir, "config.yaml"),
		cfg:     cfg,
		source:  testutil.NewMockSheets(),
		store:   testutil.NewMockStore(),
		secrets: fakeSecrets{},
		out:     &bytes.Buffer{},
		errOut:  &bytes.Buffer{},
	}

	origSource, origWarehouse, origSecrets := newSource, newWarehouse, secretStore
	newSource = func(ctx context.Context, cfg models.Sheets, log *logrus.Entry) (sheets.Source, error) {
		return env.source, nil
	}
	newWarehouse = func(ctx context.Context, cfg models.Snowflake, log *logrus.Entry) (warehouse, error) {
		return env.store, nil
	}
	secretStore = env.secrets
	t.Cleanup(func() {
		newSource, newWarehouse, secretStore = origSource, origWarehouse, origSecrets
		resetFlags(rootCmd)
	})
	resetFlags(rootCmd)
	return env
}

// save writes env.cfg to the config file.
func (e *cmdEnv) save(t *testing.T) {
	t.Helper()
	require.NoError(t, config.Save(e.cfg, e.cfgPath))
}

// run executes the root command with --config pointing at the env file.
func (e *cmdEnv) run(args ...string) error {
	e.out.Reset()
	e.errOut.Reset()
	rootCmd.SetOut(e.out)
	rootCmd.SetErr(e.errOut)
	rootCmd.SetArgs(append(args, "--config", e.cfgPath))
	return rootCmd.Execute()
}

func (e *cmdEnv) metricsText(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(e.cfg.Metrics.Textfile)
	require.NoError(t, err)
	return string(data)
}

// resetFlags restores every flag to its default; cobra keeps parsed values
// between Execute calls on the same command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func TestRootCommandHelp(t *testing.T) {
	env := newCmdEnv(t)
	rootCmd.SetOut(env.out)
	rootCmd.SetArgs([]string{"--help"})

	require.NoError(t, rootCmd.Execute())

	output := env.out.String()
	assert.Contains(t, output, "Sync promotion plans between Google Sheets and Snowflake")
	for _, name := range []string{"ingest", "report", "export-tabs", "setup", "config", "version"} {
		assert.Contains(t, output, name)
	}
}

func TestInvalidCommand(t *testing.T) {
	env := newCmdEnv(t)
	rootCmd.SetOut(env.out)
	rootCmd.SetErr(env.errOut)
	rootCmd.SetArgs([]string{"invalid-command"})

	err := rootCmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestVersionCommand(t *testing.T) {
	env := newCmdEnv(t)
	env.save(t)

	require.NoError(t, env.run("version"))
	assert.Contains(t, env.out.String(), "imc version dev")
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("IMC_TEST_ENV_FILE=from-dotenv\n"), 0600))
	t.Setenv("IMC_TEST_ENV_FILE", "")
	os.Unsetenv("IMC_TEST_ENV_FILE")

	loadEnvFile()
	assert.Equal(t, "from-dotenv", os.Getenv("IMC_TEST_ENV_FILE"))
}
