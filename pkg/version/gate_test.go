// Test Type: Unit Test
// Description: Tests constraint parsing and version gate evaluation

package version_test

import (
	"testing"

	"github.com/arthur-debert/railup/pkg/errors"
	"github.com/arthur-debert/railup/pkg/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("valid_constraints", func(t *testing.T) {
		tests := []struct {
			expr string
			op   version.Op
			ver  string
		}{
			{">= 6.0", version.OpGreaterEq, "6.0"},
			{"~> 6.0.0", version.OpPessimistic, "6.0.0"},
			{"== 7.0.0", version.OpEqual, "7.0.0"},
			{"< 8", version.OpLess, "8"},
		}
		for _, tt := range tests {
			c, err := version.Parse(tt.expr)
			require.NoError(t, err, tt.expr)
			assert.Equal(t, tt.op, c.Op)
			assert.Equal(t, tt.ver, c.Version)
		}
	})

	t.Run("invalid_constraints", func(t *testing.T) {
		for _, expr := range []string{"", "6.0", ">=", "=> 6.0", ">= not.a.version", ">= 6.0 extra"} {
			_, err := version.Parse(expr)
			require.Error(t, err, expr)
			assert.True(t, errors.IsErrorCode(err, errors.ErrConstraintInvalid), expr)
		}
	})
}

func TestConstraintApplies(t *testing.T) {
	tests := []struct {
		name   string
		op     version.Op
		ver    string
		target string
		want   bool
	}{
		{"pessimistic_within_minor", version.OpPessimistic, "6.0.0", "6.0.9", true},
		{"pessimistic_next_minor", version.OpPessimistic, "6.0.0", "6.1.0", false},
		{"pessimistic_below", version.OpPessimistic, "6.0.0", "5.9.9", false},
		{"pessimistic_exact", version.OpPessimistic, "6.0.0", "6.0.0", true},
		{"gte_equal", version.OpGreaterEq, "5.2", "5.2.0", true},
		{"gte_above", version.OpGreaterEq, "5.2", "6.1.4", true},
		{"gte_below", version.OpGreaterEq, "5.2", "5.1.7", false},
		{"gt_equal", version.OpGreater, "6.0.0", "6.0.0", false},
		{"gt_above", version.OpGreater, "6.0.0", "6.0.1", true},
		{"lt_below", version.OpLess, "7.0", "6.1.0", true},
		{"lte_equal", version.OpLessEq, "7.0.0", "7.0.0", true},
		{"eq_match", version.OpEqual, "6.1.0", "6.1.0", true},
		{"eq_missing_components_zero", version.OpEqual, "6.1", "6.1.0", true},
		{"eq_mismatch", version.OpEqual, "6.1.0", "6.1.1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &version.Constraint{Op: tt.op, Version: tt.ver}
			assert.Equal(t, tt.want, c.Applies(tt.target))
		})
	}
}

func TestConstraintFailClosed(t *testing.T) {
	t.Run("unknown_operator_never_applies", func(t *testing.T) {
		c := &version.Constraint{Op: version.Op("~~"), Version: "6.0.0"}
		assert.False(t, c.Applies("6.0.0"))
	})

	t.Run("malformed_target_never_applies", func(t *testing.T) {
		c := &version.Constraint{Op: version.OpGreaterEq, Version: "6.0.0"}
		assert.False(t, c.Applies("not-a-version"))
	})

	t.Run("malformed_constraint_version_never_applies", func(t *testing.T) {
		c := &version.Constraint{Op: version.OpGreaterEq, Version: "???"}
		assert.False(t, c.Applies("6.0.0"))
	})

	t.Run("empty_target_never_applies", func(t *testing.T) {
		c := &version.Constraint{Op: version.OpGreaterEq, Version: "6.0.0"}
		assert.False(t, c.Applies(""))
	})

	t.Run("nil_constraint_always_applies", func(t *testing.T) {
		var c *version.Constraint
		assert.True(t, c.Applies(""))
		assert.True(t, c.Applies("6.0.0"))
	})
}
