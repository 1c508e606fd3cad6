package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/firecast/cmd/firecast/commands"
	"go.trai.ch/firecast/internal/app"
	"go.trai.ch/firecast/internal/build"
)

type mockApp struct {
	jsonOutput, debug bool
	resolveFunc       func(ctx context.Context, opts app.ResolveOptions) error
	playFunc          func(ctx context.Context, opts app.PlayOptions) error
	serveFunc         func(ctx context.Context, opts app.ServeOptions) error
}

func (m *mockApp) ConfigureLogging(jsonOutput, debug bool) {
	m.jsonOutput, m.debug = jsonOutput, debug
}

func (m *mockApp) Resolve(ctx context.Context, opts app.ResolveOptions) error {
	if m.resolveFunc != nil {
		return m.resolveFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Play(ctx context.Context, opts app.PlayOptions) error {
	if m.playFunc != nil {
		return m.playFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Serve(ctx context.Context, opts app.ServeOptions) error {
	if m.serveFunc != nil {
		return m.serveFunc(ctx, opts)
	}
	return nil
}

func TestCommands_Resolve(t *testing.T) {
	t.Run("wires args and flags", func(t *testing.T) {
		var captured app.ResolveOptions
		mock := &mockApp{
			resolveFunc: func(_ context.Context, opts app.ResolveOptions) error {
				captured = opts
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"resolve", "Maricopa", "AZ", "--geometry", "maricopa.geojson", "-s", "out.png", "--debug"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, app.ResolveOptions{
			Region:       "Maricopa",
			Code:         "AZ",
			GeometryPath: "maricopa.geojson",
			SnapshotPath: "out.png",
		}, captured)
		assert.True(t, mock.debug)
		assert.False(t, mock.jsonOutput)
	})

	t.Run("requires geometry", func(t *testing.T) {
		cli := commands.New(&mockApp{
			resolveFunc: func(context.Context, app.ResolveOptions) error {
				panic("should not be called")
			},
		})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
		cli.SetArgs([]string{"resolve", "Maricopa", "AZ"})

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "geometry")
	})

	t.Run("returns app error", func(t *testing.T) {
		cli := commands.New(&mockApp{
			resolveFunc: func(context.Context, app.ResolveOptions) error {
				return errors.New("simulated error")
			},
		})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
		cli.SetArgs([]string{"resolve", "Maricopa", "AZ", "-g", "m.geojson"})

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})
}

func TestCommands_Play(t *testing.T) {
	var captured app.PlayOptions
	mock := &mockApp{
		playFunc: func(_ context.Context, opts app.PlayOptions) error {
			captured = opts
			return nil
		},
	}

	cli := commands.New(mock)
	cli.SetArgs([]string{"play", "wildfire_output", "--interval", "500ms", "--cap", "10", "--opacity", "0.6", "--json"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, app.PlayOptions{
		BaseDir:  "wildfire_output",
		Interval: 500 * time.Millisecond,
		FrameCap: 10,
		Opacity:  0.6,
	}, captured)
	assert.True(t, mock.jsonOutput)
}

func TestCommands_Serve(t *testing.T) {
	var captured app.ServeOptions
	mock := &mockApp{
		serveFunc: func(_ context.Context, opts app.ServeOptions) error {
			captured = opts
			return nil
		},
	}

	cli := commands.New(mock)
	cli.SetArgs([]string{"serve", "--addr", ":6000"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, ":6000", captured.Addr)
}

func TestCommands_Version(t *testing.T) {
	cli := commands.New(&mockApp{})

	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"version"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, buf.String(), "firecast version "+build.Version)
}
