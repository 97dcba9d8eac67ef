package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doir-lang/libecrs"
	"github.com/doir-lang/libecrs/kanren"
	"github.com/doir-lang/libecrs/relational"
)

var runScenarioFile string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one of the bundled relational-query demos",
}

var runSimpsonsCmd = &cobra.Command{
	Use:   "simpsons",
	Short: "Query every (descendant, ancestor) pair in an ancestry scenario",
	RunE:  runSimpsons,
}

var runTypeInferCmd = &cobra.Command{
	Use:   "typeinfer",
	Short: "Type-check a two-argument function call against its declared signature",
	RunE:  runTypeInfer,
}

func init() {
	runSimpsonsCmd.Flags().StringVar(&runScenarioFile, "file", "", "YAML ancestry scenario (defaults to the built-in Simpsons family tree)")
	runCmd.AddCommand(runSimpsonsCmd)
	runCmd.AddCommand(runTypeInferCmd)
}

func ancestorGoal(m *ecrs.Module, child, ancestor kanren.Term) kanren.Goal {
	return kanren.Fresh(func(tmp kanren.Variable) kanren.Goal {
		return kanren.Disjunction(
			relational.RelatedEntities[relational.EntityRelation](m, 0, child, ancestor),
			kanren.Conjunction(
				relational.RelatedEntities[relational.EntityRelation](m, 0, child, kanren.V(tmp)),
				ancestorGoal(m, kanren.V(tmp), ancestor),
			),
		)
	})
}

func runSimpsons(cmd *cobra.Command, args []string) error {
	sc := defaultSimpsonsScenario()
	if runScenarioFile != "" {
		loaded, err := loadAncestryScenario(runScenarioFile)
		if err != nil {
			return err
		}
		sc = loaded
	}

	m, _ := buildAncestryModule(sc, flagDisableStringLookup)

	s := kanren.NewState(m)
	child, s := s.NextVariable()
	ancestor, s := s.NextVariable()

	results := kanren.ToSlice(ancestorGoal(m, kanren.V(child), kanren.V(ancestor))(s))
	nameOf := func(t kanren.Term) string {
		e := ecrs.Entity(t.(kanren.EntityTerm))
		n, _ := ecrs.GetComponent[personName](m, e)
		return n.Value
	}
	for _, st := range results {
		c, _ := kanren.Assoc(kanren.V(child), st.Subst)
		a, _ := kanren.Assoc(kanren.V(ancestor), st.Subst)
		fmt.Printf("%s is a descendant of %s\n", nameOf(c), nameOf(a))
	}
	return nil
}

// function_types/arguments/call/type_of mirror the reference
// implementation's type_inference test fixture: "add" is declared to
// take two arguments of the same type T and return T, and is called with
// two concretely-typed arguments whose type must therefore agree.
type functionTypes struct{ relational.TermRelation }
type arguments struct{ relational.EntityRelation }
type callTarget struct{ relational.EntityRelation }
type typeOf struct{ relational.TermRelation }

func runTypeInfer(cmd *cobra.Command, args []string) error {
	m := ecrs.NewModule(ecrs.WithLogger(logger))

	i32 := m.CreateEntity()
	*ecrs.AddComponent[personName](m, i32) = personName{Value: "i32"}

	a := m.CreateEntity()
	*ecrs.AddComponent[typeOf](m, a) = typeOf{relational.TermRelation{Related: []kanren.Term{kanren.E(i32)}}}
	b := m.CreateEntity()
	*ecrs.AddComponent[typeOf](m, b) = typeOf{relational.TermRelation{Related: []kanren.Term{kanren.E(i32)}}}

	s := kanren.NewState(m)
	t, s := s.NextVariable()

	add := m.CreateEntity()
	*ecrs.AddComponent[functionTypes](m, add) = functionTypes{relational.TermRelation{
		Related: []kanren.Term{kanren.V(t), kanren.V(t), kanren.V(t)},
	}}

	call := m.CreateEntity()
	*ecrs.AddComponent[callTarget](m, call) = callTarget{relational.EntityRelation{Related: []ecrs.Entity{add}}}
	*ecrs.AddComponent[arguments](m, call) = arguments{relational.EntityRelation{Related: []ecrs.Entity{a, b}}}

	funcType, s := s.NextVariable()
	paramTypes, s := s.NextVariable()
	args2, s := s.NextVariable()
	argTypes, s := s.NextVariable()

	goal := kanren.Conjunction(
		relational.RelatedEntitiesList[functionTypes](m, 0, kanren.E(add), kanren.V(funcType)),
		kanren.SplitTail(kanren.V(funcType), kanren.V(paramTypes)),
		relational.RelatedEntitiesList[arguments](m, 0, kanren.E(call), kanren.V(args2)),
		kanren.Map(kanren.V(args2), kanren.V(argTypes), func(elemA, elemB kanren.Term) kanren.Goal {
			return relational.RelatedEntities[typeOf](m, 0, elemA, elemB)
		}),
		kanren.Eq(kanren.V(paramTypes), kanren.V(argTypes)),
	)

	results := kanren.ToSlice(goal(s))
	if len(results) == 0 {
		fmt.Println("call does not type-check")
		return nil
	}

	for _, st := range results {
		if bound, ok := kanren.Assoc(kanren.V(t), st.Subst); ok {
			name, _ := ecrs.GetComponent[personName](m, ecrs.Entity(bound.(kanren.EntityTerm)))
			fmt.Printf("T = %s\n", name.Value)
		}
	}
	return nil
}
