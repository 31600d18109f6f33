package config

import (
	"maps"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

type configTestTable struct {
	name        string
	setFields   configFields
	errContains string
}

type configFields map[string]interface{}

var validAppConfig = configFields{
	"id":                "test",
	"interval":          5,
	"local.path":        "/tmp/catalog.db",
	"postgres.address":  "localhost",
	"postgres.port":     5432,
	"postgres.username": "u",
	"postgres.password": "p",
	"postgres.db_name":  "d",
}

func deleteFromMap(m configFields, keys ...string) configFields {
	clonedMap := maps.Clone(m)
	for _, key := range keys {
		delete(clonedMap, key)
	}

	return clonedMap
}

func updateAndReturnMap(m configFields, key string, value interface{}) configFields {
	clonedMap := maps.Clone(m)
	clonedMap[key] = value
	return clonedMap
}

func TestConfigLoadFromYAML(t *testing.T) {
	viper.Reset()
	viper.SetConfigFile(filepath.Join("testdata", "config.yaml"))
	viper.SetConfigType("yaml")
	require.NoError(t, viper.ReadInConfig())

	cfg, err := NewConfig()

	require.NoError(t, err)

	require.Equal(t, "test", cfg.ID)
	require.Equal(t, 5, cfg.Interval)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "/tmp/launchpad-sync/catalog.db", cfg.Local.Path)

	require.Equal(t, "localhost", cfg.Postgres.Address)
	require.Equal(t, 5432, cfg.Postgres.Port)
	require.Equal(t, "postgres", cfg.Postgres.Username)
	require.Equal(t, "launchpad", cfg.Postgres.DBName)
	require.Equal(t, "disable", cfg.Postgres.SSLMode)
	require.Equal(t, 10, cfg.Postgres.MaxConnections)
}

func TestConfigDefaults(t *testing.T) {
	viper.Reset()
	for k, v := range validAppConfig {
		viper.Set(k, v)
	}

	cfg, err := NewConfig()

	require.NoError(t, err)
	require.Equal(t, "disable", cfg.Postgres.SSLMode)
	require.Equal(t, defaultMaxConnections, cfg.Postgres.MaxConnections)
}

func TestConfigurationValidation(t *testing.T) {
	t.Run("returns config without error when config is valid", func(t *testing.T) {
		viper.Reset()
		viper.SetConfigFile(filepath.Join("testdata", "config.yaml"))
		viper.SetConfigType("yaml")
		require.NoError(t, viper.ReadInConfig())

		cfg, err := NewConfig()
		require.NoError(t, err)
		require.NotNil(t, cfg)
	})

	t.Run("returns error when no config loaded", func(t *testing.T) {
		viper.Reset()
		viper.SetConfigType("yaml")

		_, err := NewConfig()
		require.Error(t, err)
		require.Contains(t, err.Error(), "is required")
	})

	t.Run("it fails on all required fields if any is missing", func(t *testing.T) {
		tests := []configTestTable{
			{
				name:        "missing id",
				setFields:   deleteFromMap(validAppConfig, "id"),
				errContains: "Config.ID is required",
			},
			{
				name:        "missing interval",
				setFields:   deleteFromMap(validAppConfig, "interval"),
				errContains: "Config.Interval is required",
			},
			{
				name:        "interval not int",
				setFields:   updateAndReturnMap(validAppConfig, "interval", "a"),
				errContains: "cannot parse 'interval' as int",
			},
			{
				name:        "negative interval",
				setFields:   updateAndReturnMap(validAppConfig, "interval", -1),
				errContains: "Config.Interval must be greater than 0",
			},
			{
				name:        "missing local.path",
				setFields:   deleteFromMap(validAppConfig, "local.path"),
				errContains: "Config.Local.Path is required",
			},
			{
				name:        "missing postgres.address",
				setFields:   deleteFromMap(validAppConfig, "postgres.address"),
				errContains: "Config.Postgres.Address is required",
			},
			{
				name:        "invalid postgres.address",
				setFields:   updateAndReturnMap(validAppConfig, "postgres.address", "sfg://a"),
				errContains: "Config.Postgres.Address must be a valid hostname or IP address",
			},
			{
				name:        "missing postgres.port",
				setFields:   deleteFromMap(validAppConfig, "postgres.port"),
				errContains: "Config.Postgres.Port is required",
			},
			{
				name:        "invalid postgres.port greater than 65536",
				setFields:   updateAndReturnMap(validAppConfig, "postgres.port", 70000),
				errContains: "Config.Postgres.Port must be less than 65536",
			},
			{
				name:        "invalid postgres.port less than 0",
				setFields:   updateAndReturnMap(validAppConfig, "postgres.port", -1),
				errContains: "Config.Postgres.Port must be greater than 0",
			},
			{
				name:        "invalid postgres.port",
				setFields:   updateAndReturnMap(validAppConfig, "postgres.port", "a"),
				errContains: "cannot parse 'postgres.port' as int",
			},
			{
				name:        "missing postgres.username",
				setFields:   deleteFromMap(validAppConfig, "postgres.username"),
				errContains: "Config.Postgres.Username is required",
			},
			{
				name:        "missing postgres.password",
				setFields:   deleteFromMap(validAppConfig, "postgres.password"),
				errContains: "Config.Postgres.Password is required",
			},
			{
				name:        "missing postgres.db_name",
				setFields:   deleteFromMap(validAppConfig, "postgres.db_name"),
				errContains: "Config.Postgres.DBName is required",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				viper.Reset()
				for k, v := range tt.setFields {
					viper.Set(k, v)
				}

				_, err := NewConfig()

				require.Error(t, err)
				require.Contains(t, err.Error(), tt.errContains)
			})
		}
	})
}
