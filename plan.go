package docseed

import (
	"context"
	"os"
	"path/filepath"

	"github.com/autom8ter/docseed/errors"
	"github.com/autom8ter/docseed/javascript"
	"github.com/autom8ter/docseed/model"
	"github.com/autom8ter/docseed/util"
)

// Shape is the layout of a fixture
type Shape string

const (
	// ShapeFlat is an array of records, each written with a server generated id
	ShapeFlat Shape = "flat"
	// ShapeNested is a group -> leaf -> fields mapping, written to collection/{group}/sub_collection/{leaf}
	ShapeNested Shape = "nested"
	// ShapeTemplate renders each record's address from a template
	ShapeTemplate Shape = "template"
)

// Plan is a declarative seeding job
type Plan struct {
	// Name identifies the plan
	Name string `json:"name" validate:"required"`
	// Fixture is the path of the json fixture, relative to the config directory unless absolute
	Fixture string `json:"fixture" validate:"required"`
	// Collection is the target (root) collection
	Collection string `json:"collection" validate:"required"`
	Shape      Shape  `json:"shape,omitempty" validate:"omitempty,oneof=flat nested template"`
	// Mode is the write mode: batch, group or sequential
	Mode      WriteMode `json:"mode,omitempty" validate:"omitempty,oneof=batch group sequential"`
	BatchSize int       `json:"batch_size,omitempty" validate:"gte=0"`
	// Clear deletes the collection's existing documents before seeding
	Clear bool `json:"clear,omitempty"`
	// RecordsPath is the gjson path of the records of a flat or template fixture (default: the fixture root)
	RecordsPath string `json:"records_path,omitempty"`
	// TiersPath is the gjson path of the groups object of a nested fixture (default: the fixture root)
	TiersPath string `json:"tiers_path,omitempty"`
	// LeafPath is the gjson path, relative to a group, of the leaves object of a nested fixture
	LeafPath      string `json:"leaf_path,omitempty"`
	SubCollection string `json:"sub_collection,omitempty" validate:"required_if=Shape nested"`
	// AddressTemplate is a text/template rendering a record's address, ex: careers/{{ ._key }}
	AddressTemplate string `json:"address_template,omitempty" validate:"required_if=Shape template"`
	// Required fields must be present on every record
	Required []string `json:"required,omitempty"`
	// Fields, if set, are the only record fields that are kept
	Fields []string `json:"fields,omitempty"`
	// DateFields are converted from textual dates into timestamps
	DateFields []string `json:"date_fields,omitempty"`
	// ServerTimestamps are stamped with the store's clock at commit time
	ServerTimestamps []string `json:"server_timestamps,omitempty"`
	// Transform is a javascript function applied to every record
	Transform string `json:"transform,omitempty"`
	// Schema is the path of a json schema that every raw record must satisfy
	Schema string `json:"schema,omitempty"`
}

// Build validates the plan and compiles it into a Job. Relative paths are resolved against baseDir.
func (p Plan) Build(baseDir string) (Job, error) {
	if err := util.ValidateStruct(p); err != nil {
		return Job{}, errors.Wrap(err, 0, "plan %s", p.Name)
	}
	collection, err := model.ParseAddress(p.Collection)
	if err != nil {
		return Job{}, errors.Wrap(err, 0, "plan %s", p.Name)
	}
	if !collection.IsCollection() {
		return Job{}, errors.New(errors.Validation, "plan %s: %s is not a collection", p.Name, p.Collection)
	}
	job := Job{
		Name:        p.Name,
		FixturePath: resolvePath(baseDir, p.Fixture),
		Mode:        p.Mode,
		BatchSize:   p.BatchSize,
	}
	if p.Clear {
		job.Clear = collection
	}
	switch p.Shape {
	case ShapeNested:
		job.Mapper = Nested(NestedOpts{
			Root:          collection,
			GroupsPath:    p.TiersPath,
			LeafPath:      p.LeafPath,
			SubCollection: p.SubCollection,
		})
	case ShapeTemplate:
		job.Mapper, err = Template(p.AddressTemplate, p.RecordsPath)
		if err != nil {
			return Job{}, errors.Wrap(err, 0, "plan %s", p.Name)
		}
	default:
		job.Mapper = FlatList(collection, p.RecordsPath)
	}
	var enrichers []Enricher
	if p.Schema != "" {
		bits, err := os.ReadFile(resolvePath(baseDir, p.Schema))
		if err != nil {
			return Job{}, errors.Wrap(err, errors.Validation, "plan %s: failed to read schema", p.Name)
		}
		schema, err := Schema(bits)
		if err != nil {
			return Job{}, errors.Wrap(err, 0, "plan %s", p.Name)
		}
		enrichers = append(enrichers, schema)
	}
	if len(p.Required) > 0 {
		enrichers = append(enrichers, Require(p.Required...))
	}
	if len(p.Fields) > 0 {
		enrichers = append(enrichers, Pick(p.Fields...))
	}
	if p.Transform != "" {
		script, err := Script(javascript.Script(p.Transform))
		if err != nil {
			return Job{}, errors.Wrap(err, 0, "plan %s", p.Name)
		}
		enrichers = append(enrichers, script)
	}
	if len(p.DateFields) > 0 {
		enrichers = append(enrichers, ParseDates(p.DateFields...))
	}
	if len(p.ServerTimestamps) > 0 {
		enrichers = append(enrichers, ServerTimestamps(p.ServerTimestamps...))
	}
	if len(enrichers) > 0 {
		job.Enricher = Chain(enrichers...)
	}
	return job, nil
}

// RunPlan builds the plan and runs it
func (s *Seeder) RunPlan(ctx context.Context, plan Plan, baseDir string) (*Report, error) {
	job, err := plan.Build(baseDir)
	if err != nil {
		return &Report{Name: plan.Name}, err
	}
	return s.Run(ctx, job)
}

func resolvePath(baseDir, path string) string {
	if baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
