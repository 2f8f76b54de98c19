// Package registry provides the rule storage for scanning and
// rewriting: a generic name-keyed Registry, the RuleSet holding
// ordered detection rules and pattern-source-keyed rewrite rules, and
// named extension bundles that merge into a rule set at run time.
//
// Rule sets are explicit objects passed into scan and rewrite calls so
// tests can build isolated instances instead of mutating shared
// process state.
package registry
