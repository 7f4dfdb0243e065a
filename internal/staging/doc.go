// Package staging manages the files subspeak leaves in paths.staging_dir:
// staged output from the assembler and buffers handed to ffprobe. A run that
// is killed before it can clean up leaves these behind; CleanStale reclaims
// them once they are older than a cutoff.
package staging
