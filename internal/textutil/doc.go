// Package textutil provides small text helpers for terminal output: cue text
// truncation and whitespace folding for tables, plus a generic conditional.
package textutil
