// Package rules declares the built-in detection and rewrite rules, the
// fallback substitution table, and the loader for YAML rule packs that
// external callers contribute as extensions.
package rules
