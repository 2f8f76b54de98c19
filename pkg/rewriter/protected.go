package rewriter

import "strings"

// Protected paths are never rewritten, regardless of matches. They are
// either auto-generated (schema, migration history) or owned by
// external tooling (vendored code, dependency caches). This is a hard
// exclusion, not a configurable default.
var protectedFiles = []string{
	"db/schema.rb",
	"db/structure.sql",
}

var protectedDirs = []string{
	"db/migrate",
	"vendor",
	"node_modules",
	".bundle",
	"tmp",
}

// IsProtected reports whether the given slash-separated relative path
// is under a protected location.
func IsProtected(rel string) bool {
	for _, f := range protectedFiles {
		if rel == f {
			return true
		}
	}
	for _, d := range protectedDirs {
		if rel == d || strings.HasPrefix(rel, d+"/") {
			return true
		}
	}
	return false
}
