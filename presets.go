package docseed

import (
	"sort"

	"github.com/samber/lo"
)

var presets = map[string]Plan{
	"careers": {
		Name:       "careers",
		Fixture:    "careers.json",
		Collection: "careers",
		Shape:      ShapeFlat,
		Mode:       WriteBatch,
	},
	"resources": {
		Name:             "resources",
		Fixture:          "resources.json",
		Collection:       "resources",
		Shape:            ShapeFlat,
		Mode:             WriteBatch,
		Clear:            true,
		DateFields:       []string{"publishDate"},
		ServerTimestamps: []string{"createdAt", "updatedAt"},
	},
	"quizzes": {
		Name:          "quizzes",
		Fixture:       "quizzes.json",
		Collection:    "quizzes",
		Shape:         ShapeNested,
		Mode:          WriteSequential,
		TiersPath:     "quizzes",
		LeafPath:      "questions",
		SubCollection: "questions",
		Required:      []string{"question", "options"},
		Fields:        []string{"question", "options"},
	},
}

// Presets returns the built-in plans, sorted by name
func Presets() []Plan {
	names := lo.Keys(presets)
	sort.Strings(names)
	return lo.Map(names, func(name string, _ int) Plan {
		p, _ := Preset(name)
		return p
	})
}

// Preset returns a copy of the built-in plan with the given name
func Preset(name string) (Plan, bool) {
	p, ok := presets[name]
	if !ok {
		return Plan{}, false
	}
	p.DateFields = append([]string(nil), p.DateFields...)
	p.ServerTimestamps = append([]string(nil), p.ServerTimestamps...)
	p.Required = append([]string(nil), p.Required...)
	p.Fields = append([]string(nil), p.Fields...)
	return p, true
}
