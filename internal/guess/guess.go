// Package guess picks a fake value generator for an entity field from its
// name and kind.
package guess

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/schema"

	"modelseed/internal/entity"
	"modelseed/internal/faker"
)

// ErrUnsupportedField is returned when no generator fits a field.
var ErrUnsupportedField = errors.New("guess: unsupported field")

// ValueFunc produces one value for a field.
type ValueFunc func() any

// Guesser maps fields to value generators backed by one faker.
type Guesser struct {
	faker *faker.Faker
	now   func() time.Time
	namer schema.Namer
}

// Option configures a Guesser.
type Option func(*Guesser)

// WithNamer sets the naming strategy used to derive a column name for
// fields that do not carry one.
func WithNamer(n schema.Namer) Option {
	return func(g *Guesser) { g.namer = n }
}

// WithClock replaces time.Now for auto timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Guesser) { g.now = now }
}

// New returns a Guesser drawing values from f.
func New(f *faker.Faker, opts ...Option) *Guesser {
	g := &Guesser{faker: f, now: time.Now, namer: schema.NamingStrategy{}}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Guess returns a generator for field. Choices win, then auto timestamps,
// then recognisable names, then the field kind.
func (g *Guesser) Guess(field entity.Field) (ValueFunc, error) {
	if len(field.Choices) > 0 {
		choices := field.Choices
		return func() any { return choices[g.faker.Intn(len(choices))] }, nil
	}
	if field.AutoNow || field.AutoNowAdd {
		return func() any { return g.now().In(g.faker.Location()) }, nil
	}
	if fn := g.byName(field); fn != nil {
		return fn, nil
	}
	if fn := g.byKind(field); fn != nil {
		return fn, nil
	}
	return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedField, field.Name, field.Kind)
}

func (g *Guesser) byName(field entity.Field) ValueFunc {
	name := field.Column
	if name == "" {
		name = g.namer.ColumnName("", field.Name)
	}
	name = strings.ToLower(name)
	f := g.faker

	switch field.Kind {
	case entity.KindBool:
		if strings.HasPrefix(name, "is_") {
			return func() any { return f.Bool() }
		}
		return nil
	case entity.KindDateTime:
		if strings.HasSuffix(name, "_at") {
			return g.timeValue(field, f.DateTime)
		}
		return nil
	}
	if !field.Kind.Textual() {
		return nil
	}

	var fn func() string
	switch name {
	case "first_name", "firstname", "first":
		fn = f.FirstName
	case "last_name", "lastname", "last":
		fn = f.LastName
	case "username", "login", "nickname":
		fn = f.Username
	case "email", "email_address":
		fn = f.Email
	case "phone", "phone_number", "phonenumber":
		fn = f.Phone
	case "address":
		fn = func() string {
			return fmt.Sprintf("%s, %s, %s %s", f.Street(), f.City(), f.State(), f.Zip())
		}
	case "street_address", "streetaddress":
		fn = f.Street
	case "city":
		fn = f.City
	case "postcode", "zipcode", "zip":
		fn = f.Zip
	case "state":
		fn = f.State
	case "country":
		fn = f.Country
	case "company":
		fn = f.Company
	case "job", "job_title":
		fn = f.JobTitle
	case "url", "website":
		fn = f.URL
	case "title":
		fn = func() string { return f.Sentence(5) }
	case "body", "summary", "description", "text":
		fn = func() string { return f.Paragraph(1, 3, 10, " ") }
	case "password":
		fn = func() string {
			hash, err := bcrypt.GenerateFromPassword([]byte(f.Password(true, true, true, false, false, 12)), bcrypt.MinCost)
			if err != nil {
				return ""
			}
			return string(hash)
		}
	default:
		return nil
	}
	return g.textValue(field, fn)
}

func (g *Guesser) byKind(field entity.Field) ValueFunc {
	f := g.faker
	goType := indirect(field.GoType)

	switch field.Kind {
	case entity.KindBool:
		return func() any { return f.Bool() }
	case entity.KindSmallInt, entity.KindInt, entity.KindBigInt, entity.KindUint:
		limit := intLimit(field.Kind, goType)
		return func() any { return f.Int63n(limit + 1) }
	case entity.KindFloat:
		return func() any { return math.Round(f.Float64Range(0, 10000)*100) / 100 }
	case entity.KindString:
		if field.MaxLength > 0 && field.MaxLength < 5 {
			n := uint(field.MaxLength)
			return func() any { return f.LetterN(n) }
		}
		return g.textValue(field, func() string { return strings.TrimSuffix(f.Sentence(6), ".") })
	case entity.KindText:
		return g.textValue(field, func() string { return f.Paragraph(1, 3, 10, " ") })
	case entity.KindEmail:
		return g.textValue(field, f.Email)
	case entity.KindURL:
		return g.textValue(field, f.URL)
	case entity.KindSlug:
		return g.textValue(field, f.Slug)
	case entity.KindIP:
		return g.textValue(field, f.IPv4Address)
	case entity.KindFilePath:
		return g.textValue(field, f.FilePath)
	case entity.KindCSI:
		return g.textValue(field, f.CommaSeparatedInts)
	case entity.KindUUID:
		if goType == reflect.TypeOf(uuid.UUID{}) {
			return func() any { return uuid.New() }
		}
		return func() any { return uuid.NewString() }
	case entity.KindDate:
		return g.formatted(field, "2006-01-02", func() time.Time {
			dt := f.DateTime()
			return time.Date(dt.Year(), dt.Month(), dt.Day(), 0, 0, 0, 0, dt.Location())
		})
	case entity.KindDateTime:
		return g.timeValue(field, f.DateTime)
	case entity.KindTime:
		return g.formatted(field, "15:04:05", f.DateTime)
	case entity.KindDuration:
		return func() any { return time.Duration(f.Number(1, 86400)) * time.Second }
	case entity.KindBinary:
		return func() any {
			b := make([]byte, 16)
			for i := range b {
				b[i] = byte(f.Intn(256))
			}
			return b
		}
	}
	return nil
}

func (g *Guesser) textValue(field entity.Field, fn func() string) ValueFunc {
	limit := field.MaxLength
	return func() any { return truncate(fn(), limit) }
}

// timeValue yields time.Time values, or RFC 3339 strings for string fields.
func (g *Guesser) timeValue(field entity.Field, fn func() time.Time) ValueFunc {
	return g.formatted(field, time.RFC3339, fn)
}

func (g *Guesser) formatted(field entity.Field, layout string, fn func() time.Time) ValueFunc {
	if t := indirect(field.GoType); t != nil && t.Kind() == reflect.String {
		return func() any { return fn().Format(layout) }
	}
	return func() any { return fn() }
}

func intLimit(kind entity.Kind, t reflect.Type) int64 {
	var limit int64
	switch kind {
	case entity.KindSmallInt:
		limit = math.MaxInt16
	case entity.KindBigInt:
		limit = 10_000_000_000
	default:
		limit = 10_000_000
	}
	if t == nil {
		return limit
	}
	var typeMax int64
	switch t.Kind() {
	case reflect.Int8:
		typeMax = math.MaxInt8
	case reflect.Int16:
		typeMax = math.MaxInt16
	case reflect.Int32:
		typeMax = math.MaxInt32
	case reflect.Uint8:
		typeMax = math.MaxUint8
	case reflect.Uint16:
		typeMax = math.MaxUint16
	case reflect.Uint32:
		typeMax = math.MaxUint32
	default:
		return limit
	}
	return min(limit, typeMax)
}

func indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return strings.TrimSpace(string(r[:limit]))
}
