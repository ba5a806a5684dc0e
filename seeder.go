package docseed

import (
	"context"

	"github.com/autom8ter/docseed/errors"
	"github.com/autom8ter/docseed/model"
	"github.com/autom8ter/docseed/store"
	"github.com/samber/lo"
)

// WriteMode controls how mapped records are committed to the store
type WriteMode string

const (
	// WriteBatch commits every record in a single atomic batch
	WriteBatch WriteMode = "batch"
	// WriteGroup commits one atomic batch per record group, in source order. Groups committed before a failure stay
	// applied.
	WriteGroup WriteMode = "group"
	// WriteSequential issues one unbatched write per record in source order. The first failure aborts the rest.
	WriteSequential WriteMode = "sequential"
)

// Valid returns true if the mode is known
func (m WriteMode) Valid() bool {
	switch m {
	case WriteBatch, WriteGroup, WriteSequential:
		return true
	}
	return false
}

// Job is a single seeding run
type Job struct {
	// Name identifies the job in logs and reports
	Name string
	// FixturePath is the json file to seed from. It is ignored if Fixture is set.
	FixturePath string
	// Fixture is an in-memory fixture source
	Fixture *Fixture
	// Mapper maps the fixture onto target addresses
	Mapper Mapper
	// Enricher transforms every mapped record (optional)
	Enricher Enricher
	// Clear is a collection whose documents are deleted, in a batch committed before any insert (optional)
	Clear model.Address
	// Mode is the write mode, WriteBatch if empty
	Mode WriteMode
	// BatchSize splits batches into chunks of at most BatchSize records. 0 means unbounded.
	BatchSize int
}

// Report summarizes a run. On failure it describes the work committed before the failure.
type Report struct {
	Name    string          `json:"name"`
	Cleared int             `json:"cleared"`
	Written []model.Address `json:"written"`
	Batches int             `json:"batches"`
}

// Seeder seeds a document store from json fixtures
type Seeder struct {
	store  store.Store
	logger Logger
}

// New creates a Seeder writing to the given store
func New(s store.Store, opts ...Opt) *Seeder {
	seeder := &Seeder{
		store:  s,
		logger: NewNoopLogger(),
	}
	for _, o := range opts {
		o(seeder)
	}
	return seeder
}

// Store returns the seeder's store
func (s *Seeder) Store() store.Store {
	return s.store
}

// ClearCollection deletes every document of the collection in one batch and returns the number of deleted
// documents. Clearing an empty collection is a no-op. Sub-collections of the deleted documents are left in place.
func (s *Seeder) ClearCollection(ctx context.Context, collection model.Address) (int, error) {
	if err := store.ValidateCollectionAddress(collection); err != nil {
		return 0, err
	}
	addresses, err := s.store.List(ctx, collection)
	if err != nil {
		return 0, errors.Wrap(err, errors.StoreConnection, "failed to list %s", collection.String())
	}
	if len(addresses) == 0 {
		s.logger.Debug(ctx, "collection is empty", map[string]any{"collection": collection.String()})
		return 0, nil
	}
	batch := s.store.Batch()
	for _, address := range addresses {
		if err := batch.Delete(address); err != nil {
			return 0, err
		}
	}
	if err := s.CommitBatch(ctx, batch); err != nil {
		return 0, errors.Wrap(err, 0, "failed to clear %s", collection.String())
	}
	s.logger.Info(ctx, "cleared collection", map[string]any{
		"collection": collection.String(),
		"deleted":    len(addresses),
	})
	return len(addresses), nil
}

// CommitBatch commits the batch as one all-or-nothing unit. A store failure is returned as a BatchCommit error and
// none of the batch's operations are applied.
func (s *Seeder) CommitBatch(ctx context.Context, batch store.Batch) error {
	if err := batch.Commit(ctx); err != nil {
		return errors.Wrap(err, errors.BatchCommit, "failed to commit batch of %d operations", batch.Len())
	}
	return nil
}

// Run loads the job's fixture, maps and enriches every record, optionally clears the target collection and then
// writes the records according to the job's mode. Fixture, mapping and enrichment errors abort the run before any
// store interaction. Batches committed before a failure are not rolled back.
func (s *Seeder) Run(ctx context.Context, job Job) (*Report, error) {
	report := &Report{Name: job.Name}
	if job.Mode == "" {
		job.Mode = WriteBatch
	}
	if !job.Mode.Valid() {
		return report, errors.New(errors.Validation, "job %s: unsupported write mode %q", job.Name, job.Mode)
	}
	if job.BatchSize < 0 {
		return report, errors.New(errors.Validation, "job %s: negative batch size", job.Name)
	}
	if !job.Clear.IsZero() {
		if err := store.ValidateCollectionAddress(job.Clear); err != nil {
			return report, errors.Wrap(err, 0, "job %s: clear", job.Name)
		}
	}
	records, err := job.Records()
	if err != nil {
		return report, err
	}
	s.logger.Debug(ctx, "mapped fixture", map[string]any{
		"job":     job.Name,
		"records": len(records),
		"mode":    string(job.Mode),
	})
	if !job.Clear.IsZero() {
		report.Cleared, err = s.ClearCollection(ctx, job.Clear)
		if err != nil {
			return report, err
		}
	}
	switch job.Mode {
	case WriteSequential:
		err = s.writeSequential(ctx, records, report)
	case WriteGroup:
		for _, group := range groupRecords(records) {
			if err = s.writeBatches(ctx, group, job.BatchSize, report); err != nil {
				break
			}
		}
	default:
		err = s.writeBatches(ctx, records, job.BatchSize, report)
	}
	if err != nil {
		s.logger.Error(ctx, "seeding failed", err, map[string]any{
			"job":     job.Name,
			"written": len(report.Written),
		})
		return report, errors.Wrap(err, 0, "job %s", job.Name)
	}
	s.logger.Info(ctx, "seeded fixture", map[string]any{
		"job":     job.Name,
		"written": len(report.Written),
		"cleared": report.Cleared,
		"batches": report.Batches,
	})
	return report, nil
}

// Records loads the job's fixture and returns its mapped and enriched records without touching any store
func (j Job) Records() ([]Record, error) {
	if j.Mapper == nil {
		return nil, errors.New(errors.Validation, "job %s: missing mapper", j.Name)
	}
	fixture := j.Fixture
	if fixture == nil {
		if j.FixturePath == "" {
			return nil, errors.New(errors.Validation, "job %s: missing fixture", j.Name)
		}
		var err error
		fixture, err = LoadFixture(j.FixturePath)
		if err != nil {
			return nil, err
		}
	}
	records, err := j.Mapper.Map(fixture)
	if err != nil {
		return nil, errors.Wrap(err, 0, "job %s", j.Name)
	}
	if j.Enricher == nil {
		return records, nil
	}
	for i, record := range records {
		doc, err := j.Enricher(record.Document.Clone())
		if err != nil {
			if record.Address.IsAuto() {
				return nil, errors.Wrap(err, 0, "job %s: record %d", j.Name, record.Index)
			}
			return nil, errors.Wrap(err, 0, "job %s: record %d (%s)", j.Name, record.Index, record.Address.String())
		}
		records[i].Document = doc
	}
	return records, nil
}

func (s *Seeder) writeBatches(ctx context.Context, records []Record, size int, report *Report) error {
	if len(records) == 0 {
		return nil
	}
	if size <= 0 {
		size = len(records)
	}
	for _, chunk := range lo.Chunk(records, size) {
		batch := s.store.Batch()
		queued := make([]model.Address, 0, len(chunk))
		for _, record := range chunk {
			address, err := batch.Set(record.Address, record.Document)
			if err != nil {
				return errors.Wrap(err, 0, "failed to queue %s", record.Address.String())
			}
			queued = append(queued, address)
		}
		if err := s.CommitBatch(ctx, batch); err != nil {
			return err
		}
		report.Batches++
		for _, address := range queued {
			s.logger.Info(ctx, "added "+address.String(), map[string]any{"address": address.String()})
		}
		report.Written = append(report.Written, queued...)
	}
	return nil
}

func (s *Seeder) writeSequential(ctx context.Context, records []Record, report *Report) error {
	for _, record := range records {
		address, err := s.store.Set(ctx, record.Address, record.Document)
		if err != nil {
			return errors.Wrap(err, errors.RecordWrite, "failed to add %s", record.Address.String())
		}
		s.logger.Info(ctx, "added "+address.String(), map[string]any{"address": address.String()})
		report.Written = append(report.Written, address)
	}
	return nil
}

// groupRecords splits records into their groups, ordered by first appearance
func groupRecords(records []Record) [][]Record {
	var (
		order  []string
		groups = map[string][]Record{}
	)
	for _, record := range records {
		if _, ok := groups[record.Group]; !ok {
			order = append(order, record.Group)
		}
		groups[record.Group] = append(groups[record.Group], record)
	}
	return lo.Map(order, func(group string, _ int) []Record {
		return groups[group]
	})
}
