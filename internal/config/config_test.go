package config

import (
	"flag"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PAYMENTS_SOURCE", "SQLITE_PATH", "TIME_ZONE"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, SourceMemory, cfg.Source)
	assert.Equal(t, "payments.db", cfg.SQLitePath)
	assert.Equal(t, "UTC", cfg.TimeZone)
}

func TestLoadEnvAndFlags(t *testing.T) {
	t.Setenv("PAYMENTS_SOURCE", SourceSQLite)
	t.Setenv("SQLITE_PATH", "/tmp/env.db")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := Load(fs, []string{"-sqlite", "/tmp/flag.db"})
	require.NoError(t, err)

	assert.Equal(t, SourceSQLite, cfg.Source)
	assert.Equal(t, "/tmp/flag.db", cfg.SQLitePath)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Source: SourceMemory, TimeZone: "UTC"}, false},
		{"postgres without url", Config{Source: SourcePostgres, TimeZone: "UTC"}, true},
		{"postgres with url", Config{Source: SourcePostgres, DatabaseURL: "postgres://x", TimeZone: "UTC"}, false},
		{"unknown source", Config{Source: "mongo", TimeZone: "UTC"}, true},
		{"bad time zone", Config{Source: SourceMemory, TimeZone: "Mars/Olympus"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
