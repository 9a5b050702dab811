// Package testing provides test utilities, builders, and fixtures for unit and integration tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - StackBuilder: Fluent builder for creating stack configurations
//   - Fixture: A scripts directory, state store and provisioning context on a temp dir
//   - FakeRunner: Scripted step outcomes with call recording
//   - MockObserver: Observer that records events
//
// Usage:
//
//	fx := testing.NewFixture(t)
//	fx.Runner.Fail(provisioning.ScriptPreRequirements, 1)
//	res, err := orchestration.NewDeployer().Start(fx.Ctx, fx.Stack)
package testing
