package docseed

// Opt configures a Seeder
type Opt func(s *Seeder)

// WithLogger sets the seeder's logger. Seeders discard logs by default.
func WithLogger(logger Logger) Opt {
	return func(s *Seeder) {
		s.logger = logger
	}
}
