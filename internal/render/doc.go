// Package render produces the pipeline's output artifacts: the
// single-record PDF report, its JSON metadata companion, and the bulk
// CSV export.
//
// All renders are pure functions of their input: the same submission
// always yields byte-identical artifacts. Timestamps appear in filenames
// only, never in artifact content.
package render
