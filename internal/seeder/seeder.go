// Package seeder populates a store with fake instances of entities. Callers
// queue requests with AddEntity and run them all at once with Execute.
package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"modelseed/internal/entity"
	"modelseed/internal/faker"
	"modelseed/internal/guess"
	"modelseed/internal/observability"
	"modelseed/internal/store"
)

// Inserted maps an entity name to the primary keys inserted for it, in
// insertion order.
type Inserted map[string][]any

// Formatter computes an override value. It sees the keys inserted so far in
// the current run.
type Formatter func(Inserted) any

// Overrides maps a field, by Go name or column, to its formatter.
type Overrides map[string]Formatter

// Value returns a formatter that always yields v.
func Value(v any) Formatter {
	return func(Inserted) any { return v }
}

// reference is yielded by Ref formatters and resolved like a foreign key.
type reference struct {
	entity string
}

// Ref returns a formatter that fills the field with a random key already
// inserted for the named entity. With no such key a nullable field gets nil
// and any other field fails with ErrMissingRelation.
func Ref(name string) Formatter {
	return func(Inserted) any { return reference{entity: name} }
}

// uniqueAttempts bounds how often a unique field is regenerated.
const uniqueAttempts = 100

type request struct {
	target    any
	count     int
	overrides Overrides
}

// Seeder queues seed requests and executes them against a store.
type Seeder struct {
	store   store.Store
	faker   *faker.Faker
	guesser *guess.Guesser
	parser  *entity.Parser
	logger  *slog.Logger

	requests []request
}

// Option configures a Seeder.
type Option func(*Seeder)

// WithLogger sets the logger used for run summaries.
func WithLogger(l *slog.Logger) Option {
	return func(s *Seeder) { s.logger = l }
}

// WithParser sets the parser used to describe gorm models.
func WithParser(p *entity.Parser) Option {
	return func(s *Seeder) { s.parser = p }
}

// WithGuesser replaces the default guesser built from the seeder's faker.
func WithGuesser(g *guess.Guesser) Option {
	return func(s *Seeder) { s.guesser = g }
}

// New returns a Seeder writing to st with values drawn from f.
func New(st store.Store, f *faker.Faker, opts ...Option) *Seeder {
	s := &Seeder{store: st, faker: f}
	for _, opt := range opts {
		opt(s)
	}
	if s.parser == nil {
		s.parser = entity.NewParser(nil)
	}
	if s.guesser == nil {
		s.guesser = guess.New(f, guess.WithNamer(s.parser.Namer()))
	}
	if s.logger == nil {
		s.logger = observability.Logger
	}
	return s
}

// Faker returns the faker the seeder draws values from.
func (s *Seeder) Faker() *faker.Faker {
	return s.faker
}

// AddEntity queues count instances of target, a gorm model or an
// *entity.Descriptor. Nothing is checked until Execute.
func (s *Seeder) AddEntity(target any, count int, overrides Overrides) {
	s.requests = append(s.requests, request{target: target, count: count, overrides: overrides})
}

// resolved is a request with its descriptor and per-field producers.
type resolved struct {
	desc      *entity.Descriptor
	count     int
	producers []producer
}

// producer fills one field of a row.
type producer struct {
	field  *entity.Field
	format Formatter
	// related is set for foreign keys filled from earlier inserts.
	related *entity.Relation
	// unique guessed values are regenerated until unseen in the run.
	unique bool
}

// Execute runs every queued request inside one transaction and returns the
// inserted primary keys. The queue is emptied whether or not it succeeds.
func (s *Seeder) Execute(ctx context.Context) (inserted Inserted, err error) {
	reqs := s.requests
	s.requests = nil

	start := time.Now()
	span, ctx := observability.NewSpan(ctx, "seeder.Execute", attribute.Int("requests", len(reqs)))
	defer func() {
		span.SetError(err)
		span.End()
		observability.ObserveRun(start, err)
	}()

	if len(reqs) == 0 {
		return nil, &Error{Err: ErrNoEntities}
	}

	plan := make([]*resolved, 0, len(reqs))
	for _, req := range reqs {
		r, err := s.resolve(req)
		if err != nil {
			return nil, err
		}
		plan = append(plan, r)
	}
	plan = order(plan)

	result := Inserted{}
	seen := map[string]map[string]bool{}
	err = s.store.Transaction(ctx, func(w store.Writer) error {
		for _, r := range plan {
			if err := s.insertAll(ctx, w, r, result, seen); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if !IsSeedError(err) {
			err = &Error{Err: err}
		}
		s.logger.ErrorContext(ctx, "seeding failed", slog.String("error", err.Error()))
		return nil, err
	}

	total := 0
	for _, r := range plan {
		observability.RowsInserted.WithLabelValues(r.desc.Name).Add(float64(r.count))
		s.logger.InfoContext(ctx, "seeded entity",
			slog.String("entity", r.desc.Name),
			slog.Int("count", r.count),
		)
		total += r.count
	}
	s.logger.InfoContext(ctx, "seeding complete",
		slog.Int("entities", len(plan)),
		slog.Int("rows", total),
		slog.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

func (s *Seeder) describe(target any) (*entity.Descriptor, error) {
	if d, ok := target.(*entity.Descriptor); ok {
		if d == nil || d.Name == "" {
			return nil, &Error{Err: fmt.Errorf("%w: empty descriptor", ErrDescriptor)}
		}
		return d, nil
	}
	d, err := s.parser.Parse(target)
	if err != nil {
		return nil, &Error{Entity: fmt.Sprintf("%T", target), Err: fmt.Errorf("%w: %w", ErrDescriptor, err)}
	}
	return d, nil
}

func (s *Seeder) resolve(req request) (*resolved, error) {
	d, err := s.describe(req.target)
	if err != nil {
		return nil, err
	}
	if req.count < 0 {
		return nil, &Error{Entity: d.Name, Err: fmt.Errorf("%w: %d", ErrInvalidCount, req.count)}
	}

	byField := map[string]Formatter{}
	keys := map[string]string{}
	for key, fn := range req.overrides {
		f, ok := d.Lookup(key)
		if !ok {
			return nil, &Error{Entity: d.Name, Field: key, Err: ErrUnknownField}
		}
		if prev, dup := keys[f.Name]; dup {
			a, b := prev, key
			if a > b {
				a, b = b, a
			}
			return nil, &Error{Entity: d.Name, Field: f.Name, Err: fmt.Errorf("%w: %q and %q", ErrDuplicateOverride, a, b)}
		}
		keys[f.Name] = key
		byField[f.Name] = fn
	}

	r := &resolved{desc: d, count: req.count}
	for i := range d.Fields {
		f := &d.Fields[i]
		if fn, ok := byField[f.Name]; ok {
			r.producers = append(r.producers, producer{field: f, format: fn})
			continue
		}
		if f.PrimaryKey && f.AutoIncrement {
			continue
		}
		if f.Relation != nil {
			r.producers = append(r.producers, producer{field: f, related: f.Relation})
			continue
		}
		gen, err := s.guesser.Guess(*f)
		if err != nil {
			switch {
			case f.Nullable:
				r.producers = append(r.producers, producer{field: f, format: Value(nil)})
				continue
			case f.HasDefault:
				continue
			}
			return nil, &Error{Entity: d.Name, Field: f.Name, Err: fmt.Errorf("%w: %w", ErrUnresolvableField, err)}
		}
		r.producers = append(r.producers, producer{
			field:  f,
			format: func(Inserted) any { return gen() },
			unique: f.Unique && !f.PrimaryKey,
		})
	}
	return r, nil
}

func (s *Seeder) insertAll(ctx context.Context, w store.Writer, r *resolved, result Inserted, seen map[string]map[string]bool) error {
	span, ctx := observability.NewSpan(ctx, "seeder.entity",
		attribute.String("entity", r.desc.Name),
		attribute.Int("count", r.count),
	)
	defer span.End()

	for i := 0; i < r.count; i++ {
		row := make(entity.Row, len(r.producers))
		for _, p := range r.producers {
			v, err := s.produce(p, r.desc.Name, result, seen)
			if err != nil {
				return &Error{Entity: r.desc.Name, Field: p.field.Name, Err: err}
			}
			row[p.field.Name] = v
		}

		pk, err := w.Insert(ctx, r.desc, row)
		if err != nil {
			span.SetError(err)
			return &Error{Entity: r.desc.Name, Err: fmt.Errorf("insert: %w", err)}
		}
		result[r.desc.Name] = append(result[r.desc.Name], pk)
	}
	if r.count == 0 {
		if _, ok := result[r.desc.Name]; !ok {
			result[r.desc.Name] = []any{}
		}
	}
	return nil
}

// produce computes the value of one field for the next row.
func (s *Seeder) produce(p producer, entityName string, result Inserted, seen map[string]map[string]bool) (any, error) {
	if p.related != nil {
		return s.pickRelated(p.field, p.related.Entity, result)
	}
	if !p.unique {
		v := p.format(result)
		if ref, ok := v.(reference); ok {
			return s.pickRelated(p.field, ref.entity, result)
		}
		return v, nil
	}

	key := entityName + "." + p.field.Name
	used := seen[key]
	if used == nil {
		used = map[string]bool{}
		seen[key] = used
	}
	for attempt := 0; attempt < uniqueAttempts; attempt++ {
		v := p.format(result)
		if v == nil {
			return nil, nil
		}
		k := fmt.Sprint(v)
		if !used[k] {
			used[k] = true
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w after %d attempts", ErrUniqueExhausted, uniqueAttempts)
}

// pickRelated chooses a random key already inserted for target.
func (s *Seeder) pickRelated(f *entity.Field, target string, result Inserted) (any, error) {
	keys := result[target]
	if len(keys) == 0 {
		if f.Nullable {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrMissingRelation, target)
	}
	return keys[s.faker.Intn(len(keys))], nil
}
