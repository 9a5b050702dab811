package handlers

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/syntho/stackdeploy/internal/config"
	"github.com/syntho/stackdeploy/internal/runner"
	testutil "github.com/syntho/stackdeploy/internal/testing"
)

// setup swaps the factory variables for the duration of the test.
// Tests using it must not run in parallel.
func setup(t *testing.T) (config.Settings, *testutil.FakeRunner) {
	t.Helper()
	origExec := newExecutor
	origLog := logOutput
	origTTY := isInteractiveTTY
	origRunID := newRunID
	t.Cleanup(func() {
		newExecutor = origExec
		logOutput = origLog
		isInteractiveTTY = origTTY
		newRunID = origRunID
	})

	fake := testutil.NewFakeRunner()
	newExecutor = func(string) runner.Executor { return fake }
	logOutput = io.Discard
	isInteractiveTTY = func() bool { return false }
	newRunID = func() string { return "run-1" }

	return config.Settings{ScriptsDir: t.TempDir(), LogLevel: "debug"}, fake
}

func startDefault(t *testing.T, settings config.Settings) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := Start(context.Background(), settings, StartOptions{Stack: testutil.NewStackBuilder().Build()}, &out)
	return out.String(), err
}
