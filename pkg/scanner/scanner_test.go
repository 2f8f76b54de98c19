// Test Type: Unit Test
// Description: Tests tree scanning, glob semantics, version gating, and per-file error recovery

package scanner_test

import (
	"regexp"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/railup/pkg/filesystem"
	"github.com/arthur-debert/railup/pkg/registry"
	"github.com/arthur-debert/railup/pkg/rules"
	"github.com/arthur-debert/railup/pkg/scanner"
	"github.com/arthur-debert/railup/pkg/types"
)

func setupTree(t *testing.T, files map[string]string) types.FS {
	t.Helper()
	mem := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(mem, "app-root/"+name, []byte(content), 0644))
	}
	return filesystem.NewAferoFS(mem)
}

func TestScan_BuiltinRules(t *testing.T) {
	fsys := setupTree(t, map[string]string{
		"app/models/user.rb":      "def touch_it\n  self.updated_at = Time.now\nend\n",
		"app/models/account.rb":   "account.update_attributes(name: name)\n",
		"app/controllers/home.rb": "# nothing deprecated here\n",
	})

	s := scanner.New(rules.NewBuiltinRuleSet(), fsys)
	records, err := s.Scan("app-root", "")
	require.NoError(t, err)

	require.Len(t, records, 2)
	byFile := map[string]types.MatchRecord{}
	for _, r := range records {
		byFile[r.File] = r
	}

	timeRec := byFile["app/models/user.rb"]
	assert.Equal(t, rules.SrcTimeNow, timeRec.PatternSource)
	assert.Contains(t, timeRec.Message, "Time.current")

	updateRec := byFile["app/models/account.rb"]
	assert.Equal(t, rules.SrcUpdateAttributes, updateRec.PatternSource)
}

func TestScan_RuleOrder(t *testing.T) {
	// One file firing two rules yields records in rule declaration order
	fsys := setupTree(t, map[string]string{
		"app/models/user.rb": "Time.now\nuser.update_attributes(a: 1)\n",
	})

	s := scanner.New(rules.NewBuiltinRuleSet(), fsys)
	records, err := s.Scan("app-root", "")
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, rules.SrcTimeNow, records[0].PatternSource)
	assert.Equal(t, rules.SrcUpdateAttributes, records[1].PatternSource)
}

func TestScan_GlobSemantics(t *testing.T) {
	t.Run("doublestar_crosses_directories", func(t *testing.T) {
		fsys := setupTree(t, map[string]string{
			"app/models/deep/nested/user.rb": "Time.now",
			"config/routes.rb":               "Time.now",
		})
		s := scanner.New(rules.NewBuiltinRuleSet(), fsys)
		records, err := s.Scan("app-root", "")
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("single_star_does_not_cross_separator", func(t *testing.T) {
		rs := registry.NewRuleSet()
		addDetection(rs, `Time\.now`, "time", "app/*.rb")
		fsys := setupTree(t, map[string]string{
			"app/top.rb":          "Time.now",
			"app/models/deep.rb":  "Time.now",
			"app/models/deep2.rb": "Time.now",
		})
		s := scanner.New(rs, fsys)
		records, err := s.Scan("app-root", "")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "app/top.rb", records[0].File)
	})

	t.Run("invalid_glob_never_applies", func(t *testing.T) {
		rs := registry.NewRuleSet()
		addDetection(rs, `Time\.now`, "time", "app/[.rb")
		fsys := setupTree(t, map[string]string{"app/top.rb": "Time.now"})
		s := scanner.New(rs, fsys)
		records, err := s.Scan("app-root", "")
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestScan_VersionGating(t *testing.T) {
	fsys := setupTree(t, map[string]string{
		"app/controllers/home.rb": "before_filter :authenticate\n",
	})
	s := scanner.New(rules.NewBuiltinRuleSet(), fsys)

	t.Run("gated_rule_active_at_target", func(t *testing.T) {
		records, err := s.Scan("app-root", "5.2.0")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, rules.SrcBeforeFilter, records[0].PatternSource)
	})

	t.Run("gated_rule_inactive_below_target", func(t *testing.T) {
		records, err := s.Scan("app-root", "4.2.0")
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("gated_rule_inactive_with_unset_target", func(t *testing.T) {
		records, err := s.Scan("app-root", "")
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestScan_UndecodableFileSkipped(t *testing.T) {
	fsys := setupTree(t, map[string]string{
		"app/binary.rb": "Time.now \xff\xfe\x00\x01",
		"app/clean.rb":  "Time.now",
	})
	s := scanner.New(rules.NewBuiltinRuleSet(), fsys)
	records, err := s.Scan("app-root", "")
	require.NoError(t, err)
	require.Len(t, records, 1, "binary file skipped, scan continues")
	assert.Equal(t, "app/clean.rb", records[0].File)
}

func TestScan_MissingRoot(t *testing.T) {
	fsys := filesystem.NewAferoFS(afero.NewMemMapFs())
	s := scanner.New(rules.NewBuiltinRuleSet(), fsys)
	_, err := s.Scan("nowhere", "")
	assert.Error(t, err)
}

func TestScan_MatchAnywhereNotAnchored(t *testing.T) {
	fsys := setupTree(t, map[string]string{
		"app/models/user.rb": "# header\n# more\nstamp = Time.now if stale?\n",
	})
	s := scanner.New(rules.NewBuiltinRuleSet(), fsys)
	records, err := s.Scan("app-root", "")
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func addDetection(rs *registry.RuleSet, source, message, glob string) {
	rs.AddDetection(types.DetectionRule{
		Pattern:       regexp.MustCompile(source),
		PatternSource: source,
		Message:       message,
		FileGlob:      glob,
	})
}
