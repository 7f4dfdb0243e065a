// Package deps reports whether the external binaries subspeak shells out to
// are installed.
package deps
