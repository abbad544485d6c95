package cmd

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot_Version(t *testing.T) {
	for _, flag := range []string{"--version", "-V"} {
		out, err := execute(t, flag)
		require.NoError(t, err, flag)
		assert.Contains(t, out, "version:", flag)
		assert.Contains(t, out, "build:", flag)
		assert.NotContains(t, out, "avharvest version", flag)
	}
}

func TestRoot_Subcommands(t *testing.T) {
	cmd := getRootCmd()

	for _, name := range []string{"create", "update", "diff", "extract"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
}

func TestRoot_UnknownCommand(t *testing.T) {
	_, err := execute(t, "populate")
	assert.Error(t, err)
}

func TestUpdate_Help(t *testing.T) {
	out, err := execute(t, "update", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "harvest.stale_days")
	assert.Contains(t, out, "videos_new")
}

func TestExtract_Args(t *testing.T) {
	tests := []struct {
		msg  string
		args []string
	}{
		{"no url", []string{"extract"}},
		{"two urls", []string{"extract", "http://a/watch-a-1", "http://a/watch-a-2"}},
	}

	for _, v := range tests {
		_, err := execute(t, v.args...)
		assert.Error(t, err, v.msg)
	}
}

func TestInitEnvVars(t *testing.T) {
	t.Setenv("AVHARVEST_HARVEST_STALE_DAYS", "5")
	t.Setenv("AVHARVEST_DATABASE_DRIVER", "postgres")
	t.Setenv("AVHARVEST_HARVEST_REQUESTS_PER_SECOND", "0.5")

	v := viper.New()
	initEnvVars(v)

	assert.Equal(t, 5, v.GetInt("harvest.stale_days"))
	assert.Equal(t, "postgres", v.GetString("database.driver"))
	assert.InDelta(t, 0.5, v.GetFloat64("harvest.requests_per_second"), 1e-9)
	// database, harvest and log settings of config.yaml
	assert.Len(t, envKeys, 22)
}
