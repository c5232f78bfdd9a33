// lootfilter/pkg/compiler/index_test.go

package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rgehrsitz/lootfilter/pkg/rules"
)

func TestGenerateIndices(t *testing.T) {
	res := parse(`
Show
    Rarity Unique
    ItemLevel > 10
    ItemLevel < 80
Show
    Class Rings
    Rarity Rare
Hide`)
	require.True(t, res.OK(), res.ErrorMessages())

	index, deps := GenerateIndices(res.RuleSet)

	assert.Equal(t, map[rules.Property][]int{
		rules.Rarity:    {0, 1},
		rules.ItemLevel: {0},
		rules.Class:     {1},
	}, index)

	require.Len(t, deps, 3)
	assert.Equal(t, PropertyDependency{Rule: 0, Properties: []rules.Property{rules.ItemLevel, rules.Rarity}}, deps[0])
	assert.Equal(t, []rules.Property{rules.Class, rules.Rarity}, deps[1].Properties)
	assert.Empty(t, deps[2].Properties)
}

func TestGenerateIndicesEmpty(t *testing.T) {
	index, deps := GenerateIndices(nil)
	assert.Empty(t, index)
	assert.Empty(t, deps)
}
