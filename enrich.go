package docseed

import (
	"strings"
	"time"

	"github.com/autom8ter/docseed/errors"
	"github.com/autom8ter/docseed/javascript"
	"github.com/autom8ter/docseed/model"
	"github.com/samber/lo"
	"github.com/spf13/cast"
	"github.com/xeipuuv/gojsonschema"
)

// Enricher transforms a mapped record before it is queued. Enrichers receive their own copy of the document.
type Enricher func(doc model.Document) (model.Document, error)

// Chain runs the enrichers in order, feeding each the previous result. Nil enrichers are skipped.
func Chain(enrichers ...Enricher) Enricher {
	return func(doc model.Document) (model.Document, error) {
		var err error
		for _, enrich := range enrichers {
			if enrich == nil {
				continue
			}
			doc, err = enrich(doc.Clone())
			if err != nil {
				return nil, err
			}
		}
		return doc, nil
	}
}

// ParseDates converts date fields into time.Time. Strings without a zone, including date-only strings such as
// 2024-01-15, are interpreted in UTC. Numbers are milliseconds since the unix epoch. Absent fields are left absent.
func ParseDates(fields ...string) Enricher {
	return func(doc model.Document) (model.Document, error) {
		for _, field := range fields {
			value, ok := doc[field]
			if !ok {
				continue
			}
			switch value.(type) {
			case time.Time:
				continue
			case int, int32, int64, uint, uint32, uint64, float32, float64:
				millis, err := cast.ToInt64E(value)
				if err != nil {
					return nil, errors.Wrap(err, errors.Validation, "field %s is not a date: %v", field, value)
				}
				doc[field] = time.UnixMilli(millis).UTC()
				continue
			}
			t, err := cast.ToTimeInDefaultLocationE(value, time.UTC)
			if err != nil {
				return nil, errors.Wrap(err, errors.Validation, "field %s is not a date: %v", field, value)
			}
			doc[field] = t.UTC()
		}
		return doc, nil
	}
}

// ServerTimestamps stamps the fields with the store's server clock at commit time
func ServerTimestamps(fields ...string) Enricher {
	return func(doc model.Document) (model.Document, error) {
		for _, field := range fields {
			doc[field] = model.ServerTimestamp
		}
		return doc, nil
	}
}

// Pick keeps only the given fields. Fields missing from the record are not added.
func Pick(fields ...string) Enricher {
	return func(doc model.Document) (model.Document, error) {
		picked := model.Document{}
		for _, field := range lo.Uniq(fields) {
			if value, ok := doc[field]; ok {
				picked[field] = value
			}
		}
		return picked, nil
	}
}

// Require fails any record that is missing one of the fields
func Require(fields ...string) Enricher {
	return func(doc model.Document) (model.Document, error) {
		for _, field := range fields {
			if _, ok := doc[field]; !ok {
				return nil, errors.New(errors.Validation, "missing required field %s", field)
			}
		}
		return doc, nil
	}
}

// Script transforms records with a javascript function, which receives the record and must return an object
func Script(script javascript.Script) (Enricher, error) {
	fn, err := script.Parse()
	if err != nil {
		return nil, err
	}
	name := script.FunctionName()
	return func(doc model.Document) (model.Document, error) {
		out, err := fn(map[string]any(doc))
		if err != nil {
			return nil, errors.Wrap(err, errors.Validation, "script %s failed", name)
		}
		m, err := cast.ToStringMapE(out)
		if err != nil {
			return nil, errors.Wrap(err, errors.Validation, "script %s must return an object", name)
		}
		return model.Document(m), nil
	}, nil
}

// Schema validates records against a json schema - https://json-schema.org/
func Schema(schemaContent []byte) (Enricher, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaContent))
	if err != nil {
		return nil, errors.Wrap(err, errors.Validation, "invalid json schema")
	}
	return func(doc model.Document) (model.Document, error) {
		bits, err := doc.Bytes()
		if err != nil {
			return nil, err
		}
		result, err := schema.Validate(gojsonschema.NewBytesLoader(bits))
		if err != nil {
			return nil, errors.Wrap(err, errors.Validation, "")
		}
		if !result.Valid() {
			var errs []string
			for _, err := range result.Errors() {
				errs = append(errs, err.String())
			}
			return nil, errors.New(errors.Validation, "%s", strings.Join(errs, ","))
		}
		return doc, nil
	}, nil
}
