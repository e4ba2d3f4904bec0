package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	names := make([]string, 0, len(cmd.Commands()))
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "bootstrap")

	f := cmd.PersistentFlags().Lookup("env-file")
	require.NotNil(t, f)
	assert.Equal(t, ".env", f.DefValue)
}

func TestLoadConfig_RequiresSecret(t *testing.T) {
	envFile = t.TempDir() + "/missing.env"
	t.Setenv("JWT_SECRET", "")

	_, _, err := loadConfig()
	assert.Error(t, err)
}
