// lootfilter/pkg/rules/operators_test.go

package rules

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperatorTable(t *testing.T) {
	tests := []struct {
		symbol     string
		a, b       int
		expected   bool
		isNegation bool
		isOrdering bool
	}{
		{"=", 3, 3, true, false, false},
		{"==", 3, 4, false, false, false},
		{"!", 3, 4, true, true, false},
		{"!=", 3, 3, false, true, false},
		{"<", 2, 3, true, false, true},
		{">", 2, 3, false, false, true},
		{"<=", 3, 3, true, false, true},
		{">=", 2, 3, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			op, ok := LookupOperator(tt.symbol)
			require.True(t, ok)
			assert.Equal(t, tt.symbol, op.Symbol)
			assert.Equal(t, tt.expected, op.Apply(tt.a, tt.b))
			assert.Equal(t, tt.isNegation, op.IsNegation)
			assert.Equal(t, tt.isOrdering, op.IsOrdering)
		})
	}

	_, ok := LookupOperator("=>")
	assert.False(t, ok)
	assert.Len(t, OperatorSymbols, len(operators))
}

func TestCompareLists(t *testing.T) {
	ne, _ := LookupOperator("!=")
	gt, _ := LookupOperator(">")

	assert.True(t, compare(Equal, 2, []int{1, 2}))
	assert.False(t, compare(Equal, 3, []int{1, 2}))

	// Negation against a list means "none of them".
	assert.True(t, compare(ne, 3, []int{1, 2}))
	assert.False(t, compare(ne, 2, []int{1, 2}))

	// Ordering against a list holds for any entry.
	assert.True(t, compare(gt, 2, []int{0, 3}))
	assert.False(t, compare(gt, 0, []int{0, 3}))
}

func TestNegationIsComplementOfEquality(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	ne, _ := LookupOperator("!=")
	properties.Property("!= over a list is the complement of = over the same list", prop.ForAll(
		func(actual int, targets []int) bool {
			return compare(ne, actual, targets) == !compare(Equal, actual, targets)
		},
		gen.IntRange(0, 5),
		gen.SliceOfN(3, gen.IntRange(0, 5)),
	))

	properties.TestingRun(t)
}
