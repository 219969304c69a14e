// Package mocks provides centralized mock implementations for testing.
//
// Usage:
//
//	gen := &mocks.MockGenerator{
//	    GenerateFn: func(ctx context.Context, prompt string) (string, error) {
//	        return `{"authorityPost":"A","relatablePost":"B"}`, nil
//	    },
//	}
//
// When adding a new mock to this package, name the file after the interface
// being mocked and give the mock a function field per interface method.
package mocks
