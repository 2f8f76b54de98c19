// Package upgrade ties the scanner and rewriter together behind the
// two entry points embedding hosts use: Analyze, which reports matches
// without touching anything, and Upgrade, which additionally applies
// rewrites when not in dry-run mode.
package upgrade
