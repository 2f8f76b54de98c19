// Package filesystem provides concrete implementations of the types.FS
// interface: one backed by the OS filesystem for production use, and
// one backed by afero for tests that need an in-memory tree.
package filesystem
