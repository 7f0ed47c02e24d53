// Package testing provides test utilities, builders, and fixtures shared by
// the wizard, creator, HTTP and CLI tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - DraftBuilder: Fluent builder for property drafts, valid by default
//   - Photo fixtures of a chosen size
//   - MockCreator and MockPublisher: testify mocks for the creation boundary
//
// Usage:
//
//	d := testing.NewDraftBuilder().
//	    WithName("Loft").
//	    WithBaseRate(95).
//	    Build()
//
//	c := testing.NewMockCreator().Succeeds("p-1")
package testing
