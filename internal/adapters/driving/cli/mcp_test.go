package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPServeCmd_Flags(t *testing.T) {
	port := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, port)
	assert.Equal(t, "p", port.Shorthand)
	assert.Equal(t, "0", port.DefValue)

	httpFlag := mcpServeCmd.Flags().Lookup("http")
	require.NotNil(t, httpFlag)
	assert.Equal(t, "false", httpFlag.DefValue)
}

func TestMCPServeCmd_Help(t *testing.T) {
	out, err := execute(t, "mcp", "serve", "--help")

	require.NoError(t, err)
	assert.Contains(t, out, "next_pair")
	assert.Contains(t, out, "alignpro://nodes/{nodeId}")
}

func TestMCPServe_NegativePort(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "mcp", "serve", "--port", "-1")
	assert.EqualError(t, err, "port must not be negative")
}

func TestMCPServe_MissingServices(t *testing.T) {
	SetServices(Services{})

	_, err := execute(t, "mcp", "serve")
	assert.ErrorContains(t, err, "validating ports")
}

type fakeWatcher struct {
	changed []string
}

func (w *fakeWatcher) Watch(ctx context.Context, onChange func(name string)) error {
	for _, name := range w.changed {
		onChange(name)
	}
	<-ctx.Done()
	return nil
}

func TestWatchArtifacts(t *testing.T) {
	notified := make(chan string, 2)
	SetMCPConfig(&MCPConfig{
		Watcher:       &fakeWatcher{changed: []string{"baseline", "v2"}},
		OnModelChange: func(name string) { notified <- name },
	})
	t.Cleanup(func() { SetMCPConfig(nil) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watchArtifacts(ctx)

	for _, want := range []string{"baseline", "v2"} {
		select {
		case got := <-notified:
			assert.Equal(t, want, got)
		case <-time.After(time.Second):
			t.Fatalf("no change reported for %s", want)
		}
	}
}

func TestWatchArtifacts_NotConfigured(t *testing.T) {
	SetMCPConfig(nil)
	assert.NotPanics(t, func() { watchArtifacts(context.Background()) })

	SetMCPConfig(&MCPConfig{Watcher: &fakeWatcher{}})
	t.Cleanup(func() { SetMCPConfig(nil) })
	assert.NotPanics(t, func() { watchArtifacts(context.Background()) })
}
