// lootfilter/pkg/rules/operators.go

package rules

// Operator is one comparison symbol of the filter language.
type Operator struct {
	Symbol     string
	Apply      func(a, b int) bool
	IsNegation bool
	IsOrdering bool
}

var operators = map[string]Operator{
	"=":  {Symbol: "=", Apply: func(a, b int) bool { return a == b }},
	"==": {Symbol: "==", Apply: func(a, b int) bool { return a == b }},
	"!":  {Symbol: "!", Apply: func(a, b int) bool { return a != b }, IsNegation: true},
	"!=": {Symbol: "!=", Apply: func(a, b int) bool { return a != b }, IsNegation: true},
	"<":  {Symbol: "<", Apply: func(a, b int) bool { return a < b }, IsOrdering: true},
	">":  {Symbol: ">", Apply: func(a, b int) bool { return a > b }, IsOrdering: true},
	"<=": {Symbol: "<=", Apply: func(a, b int) bool { return a <= b }, IsOrdering: true},
	">=": {Symbol: ">=", Apply: func(a, b int) bool { return a >= b }, IsOrdering: true},
}

// OperatorSymbols lists every recognized operator.
var OperatorSymbols = []string{"=", "==", "!", "!=", "<", ">", "<=", ">="}

func LookupOperator(symbol string) (Operator, bool) {
	op, ok := operators[symbol]
	return op, ok
}

func IsOperator(token string) bool {
	_, ok := operators[token]
	return ok
}

// Equal is the operator implied when a filter omits one.
var Equal = operators["="]

// compare applies op between actual and the target values. A single target is
// compared once. Against a list, a negation holds only when actual differs from
// every entry; any other operator holds when it holds for at least one entry.
func compare(op Operator, actual int, targets []int) bool {
	if len(targets) == 1 {
		return op.Apply(actual, targets[0])
	}
	if op.IsNegation {
		for _, t := range targets {
			if !op.Apply(actual, t) {
				return false
			}
		}
		return true
	}
	for _, t := range targets {
		if op.Apply(actual, t) {
			return true
		}
	}
	return false
}
