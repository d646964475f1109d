package guess

import (
	"math"
	"net"
	"reflect"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/schema"

	"modelseed/internal/entity"
	"modelseed/internal/faker"
)

// contactNamer stores Contact fields in an email column.
type contactNamer struct {
	schema.NamingStrategy
}

func (n contactNamer) ColumnName(table, name string) string {
	if name == "Contact" {
		return "email"
	}
	return n.NamingStrategy.ColumnName(table, name)
}

func newGuesser(t *testing.T, opts ...Option) *Guesser {
	t.Helper()
	f, err := faker.New(faker.Options{Seed: 1})
	require.NoError(t, err)
	return New(f, opts...)
}

func TestGuess_ByKind(t *testing.T) {
	g := newGuesser(t)

	tests := []struct {
		name  string
		field entity.Field
		check func(t *testing.T, v any)
	}{
		{"bool", entity.Field{Name: "Active", Kind: entity.KindBool}, func(t *testing.T, v any) {
			assert.IsType(t, true, v)
		}},
		{"smallint stays in int16", entity.Field{Name: "Levels", Kind: entity.KindSmallInt, GoType: reflect.TypeOf(int16(0))}, func(t *testing.T, v any) {
			n := v.(int64)
			assert.GreaterOrEqual(t, n, int64(0))
			assert.LessOrEqual(t, n, int64(32767))
		}},
		{"uint8 stays in range", entity.Field{Name: "Level", Kind: entity.KindUint, GoType: reflect.TypeOf(uint8(0))}, func(t *testing.T, v any) {
			assert.LessOrEqual(t, v.(int64), int64(255))
		}},
		{"float has two decimals", entity.Field{Name: "Balance", Kind: entity.KindFloat}, func(t *testing.T, v any) {
			f := v.(float64)
			assert.InDelta(t, math.Round(f*100), f*100, 1e-6)
		}},
		{"string respects max length", entity.Field{Name: "Tagline", Kind: entity.KindString, MaxLength: 12}, func(t *testing.T, v any) {
			assert.LessOrEqual(t, utf8.RuneCountInString(v.(string)), 12)
		}},
		{"tiny string uses letters", entity.Field{Name: "Code", Kind: entity.KindString, MaxLength: 3}, func(t *testing.T, v any) {
			assert.Len(t, v.(string), 3)
		}},
		{"ip", entity.Field{Name: "IP", Kind: entity.KindIP}, func(t *testing.T, v any) {
			assert.NotNil(t, net.ParseIP(v.(string)))
		}},
		{"typed uuid", entity.Field{Name: "UUID", Kind: entity.KindUUID, GoType: reflect.TypeOf(uuid.UUID{})}, func(t *testing.T, v any) {
			assert.IsType(t, uuid.UUID{}, v)
		}},
		{"string uuid", entity.Field{Name: "Ref", Kind: entity.KindUUID}, func(t *testing.T, v any) {
			_, err := uuid.Parse(v.(string))
			assert.NoError(t, err)
		}},
		{"date is midnight", entity.Field{Name: "UpdatedDate", Kind: entity.KindDate, GoType: reflect.TypeOf(time.Time{})}, func(t *testing.T, v any) {
			d := v.(time.Time)
			assert.Equal(t, 0, d.Hour()+d.Minute()+d.Second())
		}},
		{"time as string", entity.Field{Name: "UpdatedTime", Kind: entity.KindTime, GoType: reflect.TypeOf("")}, func(t *testing.T, v any) {
			_, err := time.Parse("15:04:05", v.(string))
			assert.NoError(t, err)
		}},
		{"duration", entity.Field{Name: "Duration", Kind: entity.KindDuration}, func(t *testing.T, v any) {
			d := v.(time.Duration)
			assert.Greater(t, d, time.Duration(0))
			assert.LessOrEqual(t, d, 24*time.Hour)
		}},
		{"binary", entity.Field{Name: "Blob", Kind: entity.KindBinary}, func(t *testing.T, v any) {
			assert.Len(t, v.([]byte), 16)
		}},
		{"comma separated ints", entity.Field{Name: "Achievements", Kind: entity.KindCSI}, func(t *testing.T, v any) {
			assert.Regexp(t, `^\d+(,\d+)*$`, v.(string))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := g.Guess(tt.field)
			require.NoError(t, err)
			tt.check(t, fn())
		})
	}
}

func TestGuess_ByName(t *testing.T) {
	g := newGuesser(t)

	t.Run("email on char field", func(t *testing.T) {
		fn, err := g.Guess(entity.Field{Name: "Email", Column: "email", Kind: entity.KindString, MaxLength: 255})
		require.NoError(t, err)
		assert.Contains(t, fn().(string), "@")
	})

	t.Run("name guess is truncated", func(t *testing.T) {
		fn, err := g.Guess(entity.Field{Name: "Description", Column: "description", Kind: entity.KindString, MaxLength: 10})
		require.NoError(t, err)
		assert.LessOrEqual(t, utf8.RuneCountInString(fn().(string)), 10)
	})

	t.Run("column falls back to the namer", func(t *testing.T) {
		fn, err := g.Guess(entity.Field{Name: "FirstName", Kind: entity.KindString})
		require.NoError(t, err)
		assert.NotEmpty(t, fn())

		fn, err = g.Guess(entity.Field{Name: "LastLoginAt", Kind: entity.KindDateTime})
		require.NoError(t, err)
		assert.IsType(t, time.Time{}, fn())
	})

	t.Run("custom namer", func(t *testing.T) {
		g := newGuesser(t, WithNamer(contactNamer{}))
		fn, err := g.Guess(entity.Field{Name: "Contact", Kind: entity.KindString, MaxLength: 255})
		require.NoError(t, err)
		assert.Contains(t, fn().(string), "@")
	})

	t.Run("is prefix on bool", func(t *testing.T) {
		fn, err := g.Guess(entity.Field{Name: "IsAdmin", Column: "is_admin", Kind: entity.KindBool})
		require.NoError(t, err)
		assert.IsType(t, true, fn())
	})

	t.Run("name ignored for numeric kinds", func(t *testing.T) {
		fn, err := g.Guess(entity.Field{Name: "Email", Column: "email", Kind: entity.KindInt})
		require.NoError(t, err)
		assert.IsType(t, int64(0), fn())
	})

	t.Run("password is a bcrypt hash", func(t *testing.T) {
		fn, err := g.Guess(entity.Field{Name: "Password", Column: "password", Kind: entity.KindString})
		require.NoError(t, err)
		_, costErr := bcrypt.Cost([]byte(fn().(string)))
		assert.NoError(t, costErr)
	})
}

func TestGuess_Choices(t *testing.T) {
	g := newGuesser(t)
	choices := []string{"fire", "move", "stop"}
	fn, err := g.Guess(entity.Field{Name: "Name", Kind: entity.KindString, MaxLength: 4, Choices: choices})
	require.NoError(t, err)
	for range 20 {
		assert.Contains(t, choices, fn())
	}
}

func TestGuess_AutoTimestampsUseClockAndLocation(t *testing.T) {
	zone := time.FixedZone("Test/Zone", -5*60*60)
	fixed := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	f, err := faker.New(faker.Options{Location: zone})
	require.NoError(t, err)
	g := New(f, WithClock(func() time.Time { return fixed }))

	fn, err := g.Guess(entity.Field{Name: "CreatedAt", Column: "created_at", Kind: entity.KindDateTime, AutoNowAdd: true})
	require.NoError(t, err)

	got := fn().(time.Time)
	assert.True(t, got.Equal(fixed))
	assert.Equal(t, zone, got.Location())
}

func TestGuess_DateTimeIsTimezoneAware(t *testing.T) {
	zone := time.FixedZone("Test/Zone", 2*60*60)
	f, err := faker.New(faker.Options{Location: zone})
	require.NoError(t, err)
	g := New(f)

	fn, err := g.Guess(entity.Field{Name: "LastLoginAt", Column: "last_login_at", Kind: entity.KindDateTime})
	require.NoError(t, err)
	assert.Equal(t, zone, fn().(time.Time).Location())
}

func TestGuess_Unsupported(t *testing.T) {
	g := newGuesser(t)
	_, err := g.Guess(entity.Field{Name: "Payload", Kind: entity.KindUnknown})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedField)
	assert.True(t, strings.Contains(err.Error(), "Payload"))
}
