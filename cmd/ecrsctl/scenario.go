package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/doir-lang/libecrs"
	"github.com/doir-lang/libecrs/registry"
	"github.com/doir-lang/libecrs/relational"
)

// personEntity names one entity and the names of its parents, the unit
// a YAML ancestor scenario file is built from.
type personEntity struct {
	Name    string   `yaml:"name"`
	Parents []string `yaml:"parents,omitempty"`
}

// ancestryScenario is the document shape --file expects.
type ancestryScenario struct {
	People []personEntity `yaml:"people"`
}

// loadAncestryScenario reads and validates a YAML ancestry scenario from
// path.
func loadAncestryScenario(path string) (*ancestryScenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	var sc ancestryScenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing scenario file: %w", err)
	}
	for _, p := range sc.People {
		if p.Name == "" {
			return nil, fmt.Errorf("scenario file %s: every person needs a name", path)
		}
	}
	return &sc, nil
}

// personName is the display-name component every scenario entity gets.
type personName struct{ Value string }

// buildAncestryModule materializes sc into a fresh Module: one entity
// per person, a personName component, and an EntityRelation component
// listing each person's parents by entity.
func buildAncestryModule(sc *ancestryScenario, disableStringLookup bool) (*ecrs.Module, map[string]ecrs.Entity) {
	r := registry.New(registry.WithStringLookup(!disableStringLookup), registry.WithLogger(logger))
	m := ecrs.NewModule(ecrs.WithRegistry(r), ecrs.WithLogger(logger))

	byName := make(map[string]ecrs.Entity, len(sc.People))
	for _, p := range sc.People {
		e := m.CreateEntity()
		*ecrs.AddComponent[personName](m, e) = personName{Value: p.Name}
		byName[p.Name] = e
	}

	for _, p := range sc.People {
		if len(p.Parents) == 0 {
			continue
		}
		var parents []ecrs.Entity
		for _, name := range p.Parents {
			parent, ok := byName[name]
			if !ok {
				logger.Warn("scenario references an unknown parent", "child", p.Name, "parent", name)
				continue
			}
			parents = append(parents, parent)
		}
		*ecrs.AddComponent[relational.EntityRelation](m, byName[p.Name]) = relational.EntityRelation{Related: parents}
	}

	return m, byName
}

// defaultSimpsonsScenario is the built-in ancestry used by "run simpsons"
// when no --file is given, lifted from the reference implementation's
// own test fixture.
func defaultSimpsonsScenario() *ancestryScenario {
	return &ancestryScenario{People: []personEntity{
		{Name: "Abraham"},
		{Name: "Jackie"},
		{Name: "Homer", Parents: []string{"Abraham"}},
		{Name: "Marge", Parents: []string{"Jackie"}},
		{Name: "Bart", Parents: []string{"Homer", "Marge"}},
		{Name: "Lisa", Parents: []string{"Homer", "Marge"}},
	}}
}
