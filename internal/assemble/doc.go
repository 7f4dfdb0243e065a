// Package assemble concatenates speech and silence segments into the output
// file.
//
// Two strategies produce byte-identical output. Direct writes append to the
// destination as segments arrive. Staged writes go to a temporary file in
// the staging directory that is copied into place on Commit, so a failed run
// never leaves a partial destination behind. Either way the destination is
// guarded by an advisory lock on "<output>.lock" for the lifetime of the sink.
package assemble
