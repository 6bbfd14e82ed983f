package introspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/ftlengine/syntax"
)

func TestExtractFindsVariablesFunctionsAndRefs(t *testing.T) {
	t.Parallel()

	res := syntax.Parse(`
greeting = Hello { $name }, you have { NUMBER($count) } items from { -brand }.
    .aria = { welcome.title }
`)
	msg := res.Entries[0]
	info := Extract(msg)

	require.Len(t, info.Variables, 2)
	assert.Equal(t, "name", info.Variables[0].Name)
	assert.Equal(t, ContextBody, info.Variables[0].Context)

	require.Len(t, info.Functions, 1)
	assert.Equal(t, "NUMBER", info.Functions[0].Name)
	assert.Equal(t, []int{0}, info.Functions[0].VariableArgIndices)

	require.Len(t, info.Refs, 2)
	assert.Equal(t, RefKindTerm, info.Refs[0].Kind)
	assert.Equal(t, "brand", info.Refs[0].Id)
	assert.Equal(t, RefKindMessage, info.Refs[1].Kind)
	assert.Equal(t, "welcome", info.Refs[1].Id)
	assert.Equal(t, "title", info.Refs[1].Attribute)
}

func TestExtractCollectsSelectorAndVariantContext(t *testing.T) {
	t.Parallel()

	res := syntax.Parse(`
msg = { $count ->
    [one] one item
   *[other] { $count } items
}
`)
	info := Extract(res.Entries[0])
	require.Len(t, info.Variables, 2)
	assert.Equal(t, ContextSelector, info.Variables[0].Context)
	assert.Equal(t, ContextVariant, info.Variables[1].Context)
}

func TestBuildDependencyGraphNamespacesNodes(t *testing.T) {
	t.Parallel()

	res := syntax.Parse(`
-x = term value
x = message referencing { -x }
`)
	g := BuildDependencyGraph(res)
	nodes := g.Nodes()
	assert.Contains(t, nodes, NodeID("msg:x"))
	assert.Contains(t, nodes, NodeID("term:x"))
	assert.Equal(t, []NodeID{"term:x"}, g.Edges("msg:x"))
}

func TestGraphMessagesAndTermsAccessors(t *testing.T) {
	t.Parallel()

	res := syntax.Parse(`
-x = term value
hello = message referencing { -x }
`)
	g := BuildDependencyGraph(res)
	assert.Equal(t, []string{"hello"}, g.Messages())
	assert.Equal(t, []string{"x"}, g.Terms())
}

func TestDetectCyclesFindsAndDeduplicatesRotations(t *testing.T) {
	t.Parallel()

	res := syntax.Parse(`
a = { b }
b = { c }
c = { a }
`)
	g := BuildDependencyGraph(res)
	cycles := g.DetectCycles()
	require.Len(t, cycles, 1)
	assert.Equal(t, NodeID("msg:a"), cycles[0][0], "canonical rotation starts at the lexicographically smallest node")
}

func TestDetectCyclesNoneOnAcyclicGraph(t *testing.T) {
	t.Parallel()

	res := syntax.Parse(`
a = { b }
b = leaf
`)
	g := BuildDependencyGraph(res)
	assert.Empty(t, g.DetectCycles())
}
