package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestDatabaseFlags(t *testing.T) {
	flags := databaseFlags()

	t.Run("db is required", func(t *testing.T) {
		var dbFlag *cli.StringFlag
		for _, flag := range flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "db" {
				dbFlag = f
				break
			}
		}
		require.NotNil(t, dbFlag)
		assert.True(t, dbFlag.Required)
	})

	t.Run("embedding-host has default value", func(t *testing.T) {
		var hostFlag *cli.StringFlag
		for _, flag := range flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "embedding-host" {
				hostFlag = f
				break
			}
		}
		require.NotNil(t, hostFlag)
		assert.Equal(t, "http://localhost:11434/v1", hostFlag.Value)
	})

	t.Run("embedding-model is required with no default", func(t *testing.T) {
		var modelFlag *cli.StringFlag
		for _, flag := range flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "embedding-model" {
				modelFlag = f
				break
			}
		}
		require.NotNil(t, modelFlag)
		assert.True(t, modelFlag.Required)
		assert.Empty(t, modelFlag.Value)
	})
}

func TestSetupLogger(t *testing.T) {
	runSetup := func(t *testing.T, level string) error {
		t.Helper()
		app := &cli.App{
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "log-level", Value: "info"},
			},
			Before: setupLogger,
			Action: func(*cli.Context) error { return nil },
		}
		args := []string{"vidsem"}
		if level != "" {
			args = append(args, "--log-level", level)
		}
		return app.Run(args)
	}

	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	t.Run("accepts valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "WARN"} {
			assert.NoError(t, runSetup(t, level), "level %q", level)
		}
	})

	t.Run("defaults to info", func(t *testing.T) {
		assert.NoError(t, runSetup(t, ""))
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		err := runSetup(t, "verbose")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}
