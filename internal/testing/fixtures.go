package testing

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/syntho/stackdeploy/internal/config"
	"github.com/syntho/stackdeploy/internal/metrics"
	"github.com/syntho/stackdeploy/internal/provisioning"
	"github.com/syntho/stackdeploy/internal/state"
)

// FixedTime is the clock used by fixtures.
var FixedTime = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

// Fixture bundles a provisioning context rooted in a temporary scripts directory.
type Fixture struct {
	ScriptsDir string
	Layout     provisioning.Layout
	Store      *state.Store
	Runner     *FakeRunner
	Observer   *MockObserver
	Metrics    *metrics.Recorder
	Ctx        *provisioning.Context
	Stack      config.StackConfig
}

// NewFixture creates a fixture with a fake runner where every step succeeds.
func NewFixture(t testing.TB) *Fixture {
	t.Helper()
	return NewFixtureIn(t, t.TempDir())
}

// NewFixtureIn creates a fixture rooted at scriptsDir.
func NewFixtureIn(t testing.TB, scriptsDir string) *Fixture {
	t.Helper()
	layout := provisioning.NewLayout(scriptsDir)
	store := state.NewStore(layout.DeploymentsDir(), zerolog.Nop())
	fake := NewFakeRunner()
	observer := NewMockObserver()
	recorder := metrics.NewRecorder("")

	ctx := provisioning.NewContext(TestContext(t), layout, store, fake, observer, recorder)
	ctx.Now = func() time.Time { return FixedTime }

	return &Fixture{
		ScriptsDir: scriptsDir,
		Layout:     layout,
		Store:      store,
		Runner:     fake,
		Observer:   observer,
		Metrics:    recorder,
		Ctx:        ctx,
		Stack:      NewStackBuilder().Build(),
	}
}

// LoadState reads the state file, failing the test on error.
func (f *Fixture) LoadState(t testing.TB) *state.File {
	t.Helper()
	file, err := f.Store.Load()
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	return file
}

// SeedDeployment writes a record and its working directory, as a previous run would have left them.
func (f *Fixture) SeedDeployment(t testing.TB, rec state.Record) {
	t.Helper()
	if err := os.MkdirAll(f.Layout.WorkDir(rec.ID), 0o750); err != nil {
		t.Fatalf("create work dir: %v", err)
	}
	err := f.Store.Update(func(file *state.File) error {
		file.Upsert(rec)
		return file.SetActive(rec.ID)
	})
	if err != nil {
		t.Fatalf("seed state: %v", err)
	}
}

// StateBytes returns the raw state file content, or nil when absent.
func (f *Fixture) StateBytes(t testing.TB) []byte {
	t.Helper()
	data, err := os.ReadFile(f.Store.Path())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read state file: %v", err)
	}
	return data
}

// WorkDirExists reports whether the deployment's working directory exists.
func (f *Fixture) WorkDirExists(id string) bool {
	info, err := os.Stat(f.Layout.WorkDir(id))
	return err == nil && info.IsDir()
}

// WriteScript creates an executable shell script in dir.
func WriteScript(t testing.TB, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil { // #nosec G306
		t.Fatalf("write script %s: %v", name, err)
	}
	return path
}
