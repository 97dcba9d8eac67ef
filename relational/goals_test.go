package relational_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doir-lang/libecrs"
	"github.com/doir-lang/libecrs/kanren"
	"github.com/doir-lang/libecrs/registry"
	"github.com/doir-lang/libecrs/relational"
)

type name struct{ Value string }

func newModule() *ecrs.Module {
	return ecrs.NewModule(ecrs.WithRegistry(registry.New()))
}

func ancestorGoal(m *ecrs.Module, child, anc kanren.Term) kanren.Goal {
	return kanren.Fresh(func(tmp kanren.Variable) kanren.Goal {
		return kanren.Disjunction(
			relational.RelatedEntities[relational.EntityRelation](m, 0, child, anc),
			kanren.Conjunction(
				relational.RelatedEntities[relational.EntityRelation](m, 0, child, kanren.V(tmp)),
				ancestorGoal(m, kanren.V(tmp), anc),
			),
		)
	})
}

func TestSimpsonsAncestorQuery(t *testing.T) {
	m := newModule()

	bart := m.CreateEntity()
	*ecrs.AddComponent[name](m, bart) = name{"Bart"}
	lisa := m.CreateEntity()
	*ecrs.AddComponent[name](m, lisa) = name{"Lisa"}
	homer := m.CreateEntity()
	*ecrs.AddComponent[name](m, homer) = name{"Homer"}
	marge := m.CreateEntity()
	*ecrs.AddComponent[name](m, marge) = name{"Marge"}
	abraham := m.CreateEntity()
	*ecrs.AddComponent[name](m, abraham) = name{"Abraham"}
	jackie := m.CreateEntity()
	*ecrs.AddComponent[name](m, jackie) = name{"Jackie"}

	*ecrs.AddComponent[relational.EntityRelation](m, bart) = relational.EntityRelation{Related: []ecrs.Entity{homer, marge}}
	*ecrs.AddComponent[relational.EntityRelation](m, lisa) = relational.EntityRelation{Related: []ecrs.Entity{homer, marge}}
	*ecrs.AddComponent[relational.EntityRelation](m, homer) = relational.EntityRelation{Related: []ecrs.Entity{abraham}}
	*ecrs.AddComponent[relational.EntityRelation](m, marge) = relational.EntityRelation{Related: []ecrs.Entity{jackie}}

	s := kanren.NewState(m)
	x, s := s.NextVariable()
	y, s := s.NextVariable()

	goal := ancestorGoal(m, kanren.V(x), kanren.V(y))
	results := kanren.ToSlice(goal(s))
	require.NotEmpty(t, results)

	nameOf := func(e ecrs.Entity) string {
		n, _ := ecrs.GetComponent[name](m, e)
		return n.Value
	}

	pairs := make(map[[2]string]bool)
	for _, st := range results {
		xv, _ := kanren.Assoc(kanren.V(x), st.Subst)
		yv, _ := kanren.Assoc(kanren.V(y), st.Subst)
		child := ecrs.Entity(xv.(kanren.EntityTerm))
		anc := ecrs.Entity(yv.(kanren.EntityTerm))
		pairs[[2]string{nameOf(child), nameOf(anc)}] = true
	}

	assert.True(t, pairs[[2]string{"Bart", "Homer"}])
	assert.True(t, pairs[[2]string{"Bart", "Abraham"}])
	assert.True(t, pairs[[2]string{"Bart", "Marge"}])
	assert.True(t, pairs[[2]string{"Bart", "Jackie"}])
	assert.True(t, pairs[[2]string{"Lisa", "Homer"}])
	assert.True(t, pairs[[2]string{"Homer", "Abraham"}])
	assert.False(t, pairs[[2]string{"Abraham", "Abraham"}])
}

func TestHasComponentEnumeratesOwners(t *testing.T) {
	m := newModule()
	a := m.CreateEntity()
	*ecrs.AddComponent[name](m, a) = name{"a"}
	b := m.CreateEntity()
	_ = b // no name component

	id, ok := registry.ComponentIDFor[name](m.Registry(), 0)
	require.True(t, ok)

	s := kanren.NewState(m)
	v, s := s.NextVariable()

	results := kanren.ToSlice(relational.HasComponent(m, kanren.V(v), id)(s))
	require.Len(t, results, 1)
	bound, _ := kanren.Assoc(kanren.V(v), results[0].Subst)
	assert.Equal(t, a, ecrs.Entity(bound.(kanren.EntityTerm)))
}
