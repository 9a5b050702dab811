package testing

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/syntho/stackdeploy/internal/provisioning"
	"github.com/syntho/stackdeploy/internal/runner"
)

// Call records one FakeRunner invocation.
type Call struct {
	Step    string
	WorkDir string
	Capture bool
}

// FakeRunner is a mock implementation of runner.Executor.
// Steps without a scripted outcome succeed with empty output.
type FakeRunner struct {
	mock.Mock
}

// NewFakeRunner creates a runner where every step succeeds.
func NewFakeRunner() *FakeRunner {
	f := &FakeRunner{}
	f.On("Run", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(runner.Result{Succeeded: true})
	return f
}

// expect returns the expectation for step, creating it ahead of the catch-all.
func (f *FakeRunner) expect(step string) *mock.Call {
	for _, c := range f.ExpectedCalls {
		if c.Method == "Run" && len(c.Arguments) > 1 && c.Arguments[1] == step {
			return c
		}
	}

	c := f.On("Run", mock.Anything, step, mock.Anything, mock.Anything).
		Return(runner.Result{Succeeded: true})
	last := len(f.ExpectedCalls) - 1
	f.ExpectedCalls = append([]*mock.Call{c}, f.ExpectedCalls[:last]...)
	return c
}

// Fail makes step exit with the given code.
func (f *FakeRunner) Fail(step string, exitCode int) *FakeRunner {
	f.expect(step).ReturnArguments = mock.Arguments{runner.Result{Succeeded: false, ExitCode: exitCode}}
	return f
}

// Output makes step succeed with the given output.
func (f *FakeRunner) Output(step, output string) *FakeRunner {
	f.expect(step).ReturnArguments = mock.Arguments{runner.Result{Succeeded: true, Output: output}}
	return f
}

// OnRun registers a hook executed with the working directory when step runs.
func (f *FakeRunner) OnRun(step string, fn func(workDir string)) *FakeRunner {
	f.expect(step).Run(func(args mock.Arguments) {
		fn(args.String(2))
	})
	return f
}

// Run implements runner.Executor.
func (f *FakeRunner) Run(ctx context.Context, step, workDir string, capture bool) runner.Result {
	args := f.Called(ctx, step, workDir, capture)
	return args.Get(0).(runner.Result)
}

// Calls returns all recorded invocations.
func (f *FakeRunner) Calls() []Call {
	out := make([]Call, 0, len(f.Mock.Calls))
	for _, c := range f.Mock.Calls {
		out = append(out, Call{
			Step:    c.Arguments.String(1),
			WorkDir: c.Arguments.String(2),
			Capture: c.Arguments.Bool(3),
		})
	}
	return out
}

// Steps returns the names of the invoked steps in order.
func (f *FakeRunner) Steps() []string {
	calls := f.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Step
	}
	return out
}

// Reset forgets recorded calls but keeps scripted outcomes.
func (f *FakeRunner) Reset() {
	f.Mock.Calls = nil
}

// MockObserver is an Observer that records events and messages.
type MockObserver struct {
	mu       *sync.Mutex
	events   *[]provisioning.Event
	messages *[]string
	fields   map[string]string
}

// NewMockObserver creates an empty recording observer.
func NewMockObserver() *MockObserver {
	return &MockObserver{
		mu:       &sync.Mutex{},
		events:   &[]provisioning.Event{},
		messages: &[]string{},
		fields:   make(map[string]string),
	}
}

// Printf implements provisioning.Observer.
func (m *MockObserver) Printf(format string, _ ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*m.messages = append(*m.messages, format)
}

// Event implements provisioning.Observer.
func (m *MockObserver) Event(event provisioning.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*m.events = append(*m.events, event)
}

// WithFields implements provisioning.Observer. Children share the parent's recordings.
func (m *MockObserver) WithFields(fields map[string]string) provisioning.Observer {
	merged := make(map[string]string, len(m.fields)+len(fields))
	for k, v := range m.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &MockObserver{mu: m.mu, events: m.events, messages: m.messages, fields: merged}
}

// Events returns the recorded events.
func (m *MockObserver) Events() []provisioning.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]provisioning.Event, len(*m.events))
	copy(out, *m.events)
	return out
}

// EventsOfType returns the recorded events of type t.
func (m *MockObserver) EventsOfType(t provisioning.EventType) []provisioning.Event {
	var out []provisioning.Event
	for _, e := range m.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
