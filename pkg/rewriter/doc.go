// Package rewriter applies registered rewrite rules to the files named
// by match records. It honors dry-run (zero mutation), safe mode
// (unsafe rewrites suppressed), and a hard list of protected paths,
// and carries the flag-gated whole-file transformations: Gemfile
// version-pin updates and framework-default initializer relocation.
//
// Rewriting is textual. Substitutions apply to every non-overlapping
// occurrence in a file, and a file is reported as changed only when
// its final content differs from what was read.
package rewriter
