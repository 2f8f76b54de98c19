package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/arthur-debert/railup/pkg/errors"
	"github.com/arthur-debert/railup/pkg/logging"
)

// Op is a version constraint operator
type Op string

const (
	OpEqual       Op = "=="
	OpGreaterEq   Op = ">="
	OpGreater     Op = ">"
	OpLessEq      Op = "<="
	OpLess        Op = "<"
	OpPessimistic Op = "~>"
)

// Constraint gates a rule on the target version of an upgrade run.
// A nil *Constraint always applies.
type Constraint struct {
	Op      Op
	Version string
}

// Parse parses a constraint expression such as ">= 6.0" or "~> 6.0.0".
// The operator and version may be separated by whitespace.
func Parse(expr string) (*Constraint, error) {
	fields := strings.Fields(strings.TrimSpace(expr))
	if len(fields) != 2 {
		return nil, errors.Newf(errors.ErrConstraintInvalid,
			"constraint %q must be '<operator> <version>'", expr)
	}

	op := Op(fields[0])
	switch op {
	case OpEqual, OpGreaterEq, OpGreater, OpLessEq, OpLess, OpPessimistic:
	default:
		return nil, errors.Newf(errors.ErrConstraintInvalid,
			"unknown constraint operator %q", fields[0])
	}

	if _, err := semver.NewVersion(fields[1]); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConstraintInvalid,
			"invalid constraint version %q", fields[1])
	}

	return &Constraint{Op: op, Version: fields[1]}, nil
}

// Applies reports whether a rule carrying this constraint is active for
// the given target version. Missing version components are treated as
// zero. Any parse failure or unrecognized operator makes the rule never
// apply: unknown constraints must not silently activate rules.
func (c *Constraint) Applies(target string) bool {
	if c == nil {
		return true
	}
	if target == "" {
		return false
	}

	logger := logging.GetLogger("version.gate")

	t, err := semver.NewVersion(target)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("target", target).
			Msg("unparseable target version, constraint does not apply")
		return false
	}

	v, err := semver.NewVersion(c.Version)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("constraint", c.Version).
			Msg("unparseable constraint version, constraint does not apply")
		return false
	}

	switch c.Op {
	case OpEqual:
		return t.Equal(v)
	case OpGreaterEq:
		return !t.LessThan(v)
	case OpGreater:
		return t.GreaterThan(v)
	case OpLessEq:
		return !t.GreaterThan(v)
	case OpLess:
		return t.LessThan(v)
	case OpPessimistic:
		// ~> X.Y.Z matches >= X.Y.Z and < X.(Y+1).0
		upper := v.IncMinor()
		return !t.LessThan(v) && t.LessThan(&upper)
	default:
		logger.Warn().
			Str("operator", string(c.Op)).
			Msg("unknown constraint operator, constraint does not apply")
		return false
	}
}

// String renders the constraint in its source form
func (c *Constraint) String() string {
	if c == nil {
		return ""
	}
	return string(c.Op) + " " + c.Version
}
