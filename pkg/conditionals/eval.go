// Package conditionals decides which dialogue choices are available to a
// passenger.
package conditionals

import (
	"strconv"

	"github.com/jwebster45206/ride-engine/pkg/dialogue"
)

// Reserved condition keys. They are resolved from their own source instead of
// the passenger's variables.
const (
	KeyBranch   = "branch_key"
	KeyIsGhost  = "isGhost"
	KeyAccepted = "accepted"
)

// RunStateView provides the minimal interface needed to evaluate conditions.
// This avoids an import cycle with the state package.
type RunStateView interface {
	Get(key string) string
	IsAccepted() bool
}

// Eval resolves the condition's key and compares it with the expected value.
// A nil run state resolves every variable to "" and accepted to false.
// An unknown operator compares for equality; dialogue.Validate rejects such
// content before it gets here.
func Eval(c dialogue.Condition, rs RunStateView, isGhost bool) bool {
	return compare(resolve(c.Key, rs, isGhost), c.Op, c.Value)
}

// AllPass reports whether every condition holds. An empty list always passes.
func AllPass(conds []dialogue.Condition, rs RunStateView, isGhost bool) bool {
	for _, c := range conds {
		if !Eval(c, rs, isGhost) {
			return false
		}
	}
	return true
}

// FilterChoices returns the node's choices whose conditions all pass, in
// authored order.
func FilterChoices(n *dialogue.Node, rs RunStateView, isGhost bool) []dialogue.Choice {
	if n == nil {
		return nil
	}
	var out []dialogue.Choice
	for _, c := range n.Choices {
		if AllPass(c.Conditions, rs, isGhost) {
			out = append(out, c)
		}
	}
	return out
}

func resolve(key string, rs RunStateView, isGhost bool) string {
	switch key {
	case KeyIsGhost:
		return strconv.FormatBool(isGhost)
	case KeyAccepted:
		return strconv.FormatBool(rs != nil && rs.IsAccepted())
	}
	// branch_key lives in the variables, so it shares the lookup below.
	if rs == nil {
		return ""
	}
	return rs.Get(key)
}

func compare(left string, op dialogue.Operator, right string) bool {
	switch op {
	case dialogue.OpNotEqual:
		return left != right
	default:
		return left == right
	}
}
