package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestSetupLogger(t *testing.T) {
	t.Run("valid levels", func(t *testing.T) {
		original := slog.Default()
		defer slog.SetDefault(original)

		for _, level := range []string{"debug", "info", "warn", "error", "INFO"} {
			app := &cli.App{
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "log-level", Value: level},
				},
				Before: setupLogger,
				Action: func(c *cli.Context) error { return nil },
			}
			err := app.Run([]string{"searchboxd"})
			assert.NoError(t, err, "level %q", level)
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		app := &cli.App{
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "log-level", Value: "loud"},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error { return nil },
		}
		err := app.Run([]string{"searchboxd"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestServiceFlags(t *testing.T) {
	flags := serviceFlags()

	var fixture *cli.StringFlag
	var snapshotPath *cli.StringFlag
	for _, flag := range flags {
		if f, ok := flag.(*cli.StringFlag); ok {
			switch f.Name {
			case "fixture":
				fixture = f
			case "snapshot-path":
				snapshotPath = f
			}
		}
	}

	require.NotNil(t, fixture)
	assert.True(t, fixture.Required)

	require.NotNil(t, snapshotPath)
	assert.Equal(t, "./snapshot_db", snapshotPath.Value)
}
