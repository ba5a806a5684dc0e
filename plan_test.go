package docseed_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/autom8ter/docseed"
	"github.com/autom8ter/docseed/errors"
	"github.com/autom8ter/docseed/store/memstore"
	"github.com/autom8ter/docseed/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresets(t *testing.T) {
	presets := docseed.Presets()
	require.Len(t, presets, 3)
	assert.Equal(t, "careers", presets[0].Name)
	assert.Equal(t, "quizzes", presets[1].Name)
	assert.Equal(t, "resources", presets[2].Name)
	for _, p := range presets {
		_, err := p.Build("")
		assert.NoError(t, err, p.Name)
	}
	t.Run("copies", func(t *testing.T) {
		p, ok := docseed.Preset("resources")
		require.True(t, ok)
		p.DateFields[0] = "changed"
		again, _ := docseed.Preset("resources")
		assert.Equal(t, []string{"publishDate"}, again.DateFields)
	})
	t.Run("quizzes require question and options", func(t *testing.T) {
		ctx := context.Background()
		s := memstore.New()
		p, _ := docseed.Preset("quizzes")
		dir := testutil.FixtureDir(t)
		testutil.WriteFile(t, dir, "quizzes.json", testutil.JSON(t, map[string]any{
			"quizzes": map[string]any{
				"tier1": map[string]any{
					"questions": map[string]any{
						"q1": map[string]any{"question": "2+2?", "options": []any{"3", "4"}},
						"q2": map[string]any{"question": "3+3?"},
					},
				},
			},
		}))
		_, err := docseed.New(s).RunPlan(ctx, p, dir)
		assert.True(t, errors.Is(err, errors.Validation))
		assert.Contains(t, err.Error(), "record 1 (quizzes/tier1/questions/q2)")
		assert.Contains(t, err.Error(), "missing required field options")
		assert.Equal(t, 0, s.Len())
		assert.Equal(t, 0, s.Writes())
	})
	t.Run("unknown", func(t *testing.T) {
		_, ok := docseed.Preset("users")
		assert.False(t, ok)
	})
	t.Run("careers", func(t *testing.T) {
		ctx := context.Background()
		s := memstore.New()
		p, _ := docseed.Preset("careers")
		report, err := docseed.New(s).RunPlan(ctx, p, testutil.FixtureDir(t))
		require.NoError(t, err)
		assert.Equal(t, 1, report.Batches)
		assert.Equal(t, testutil.CareersCount, s.Len())
		assert.Equal(t, 1, s.Commits())
		assert.Equal(t, 0, s.Writes())
	})
}

func TestPlanBuild(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		_, err := docseed.Plan{Name: "x", Fixture: "x.json"}.Build("")
		assert.True(t, errors.Is(err, errors.Validation))
		_, err = docseed.Plan{Name: "x", Fixture: "x.json", Collection: "x", Shape: "tree"}.Build("")
		assert.True(t, errors.Is(err, errors.Validation))
		_, err = docseed.Plan{Name: "x", Fixture: "x.json", Collection: "x", Shape: docseed.ShapeNested}.Build("")
		assert.True(t, errors.Is(err, errors.Validation))
		_, err = docseed.Plan{Name: "x", Fixture: "x.json", Collection: "x/y"}.Build("")
		assert.True(t, errors.Is(err, errors.Validation))
	})
	t.Run("paths", func(t *testing.T) {
		job, err := docseed.Plan{Name: "x", Fixture: "x.json", Collection: "x"}.Build("fixtures")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("fixtures", "x.json"), job.FixturePath)
		abs, _ := filepath.Abs("x.json")
		job, err = docseed.Plan{Name: "x", Fixture: abs, Collection: "x"}.Build("fixtures")
		require.NoError(t, err)
		assert.Equal(t, abs, job.FixturePath)
	})
	t.Run("template with transform and schema", func(t *testing.T) {
		ctx := context.Background()
		dir := t.TempDir()
		testutil.WriteFile(t, dir, "careers.json", testutil.CareersFixture())
		testutil.WriteFile(t, dir, "career.schema.json", []byte(`{"type": "object", "required": ["title", "category"]}`))
		plan := docseed.Plan{
			Name:            "careers_by_category",
			Fixture:         "careers.json",
			Collection:      "categories",
			Shape:           docseed.ShapeTemplate,
			AddressTemplate: `categories/{{ .category | lower }}/careers/{{ ._index }}`,
			Schema:          "career.schema.json",
			Fields:          []string{"title", "category"},
			Transform: `
function stamp(record) {
	record.seeded = true;
	return record
}`,
		}
		s := memstore.New()
		report, err := docseed.New(s).RunPlan(ctx, plan, dir)
		require.NoError(t, err)
		assert.Equal(t, "categories/technology/careers/0", report.Written[0].String())
		assert.Equal(t, "categories/healthcare/careers/2", report.Written[2].String())
		doc, err := s.Get(ctx, report.Written[2])
		require.NoError(t, err)
		assert.Equal(t, []string{"category", "seeded", "title"}, doc.Keys())
		assert.Equal(t, true, doc["seeded"])
	})
	t.Run("missing schema", func(t *testing.T) {
		_, err := docseed.Plan{Name: "x", Fixture: "x.json", Collection: "x", Schema: "missing.json"}.Build(t.TempDir())
		assert.True(t, errors.Is(err, errors.Validation))
	})
}
