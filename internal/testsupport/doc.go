// Package testsupport builds throwaway configurations for tests: a stub
// provider, temp staging and cache locations, and optional fake binaries on
// PATH.
package testsupport
