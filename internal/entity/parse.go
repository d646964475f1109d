package entity

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// TagName is the struct tag read for seeding hints, in gorm's key:value;key
// format. Recognised keys are kind, choices and maxlength.
const TagName = "seed"

var (
	durationType  = reflect.TypeOf(time.Duration(0))
	timeType      = reflect.TypeOf(time.Time{})
	uuidType      = reflect.TypeOf(uuid.UUID{})
	deletedAtType = reflect.TypeOf(gorm.DeletedAt{})
)

// ErrInvalidModel is returned when a model cannot be described.
var ErrInvalidModel = errors.New("entity: invalid model")

// Parser builds descriptors from gorm models. It caches parsed schemas and
// is safe for concurrent use.
type Parser struct {
	cache *sync.Map
	namer schema.Namer
}

// NewParser returns a Parser using namer for table and column names. A nil
// namer uses gorm's default naming strategy.
func NewParser(namer schema.Namer) *Parser {
	if namer == nil {
		namer = schema.NamingStrategy{}
	}
	return &Parser{cache: &sync.Map{}, namer: namer}
}

// ParserFor returns a Parser that names things the way db does.
func ParserFor(db *gorm.DB) *Parser {
	if db == nil || db.Config == nil {
		return NewParser(nil)
	}
	return NewParser(db.NamingStrategy)
}

// Namer returns the naming strategy p derives tables and columns with.
func (p *Parser) Namer() schema.Namer {
	return p.namer
}

// Parse describes model, which must be a struct or a pointer to one.
func (p *Parser) Parse(model any) (*Descriptor, error) {
	if model == nil {
		return nil, fmt.Errorf("%w: nil", ErrInvalidModel)
	}
	s, err := schema.Parse(model, p.cache, p.namer)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}

	proto := reflect.New(s.ModelType).Interface()
	d := &Descriptor{Name: s.Name, Table: s.Table, Model: proto}

	relations := map[string]*Relation{}
	for _, rel := range s.Relationships.BelongsTo {
		for _, ref := range rel.References {
			if ref.ForeignKey == nil || ref.PrimaryKey == nil {
				continue
			}
			relations[ref.ForeignKey.Name] = &Relation{
				Entity: rel.FieldSchema.Name,
				Field:  ref.PrimaryKey.Name,
			}
		}
	}

	for _, sf := range s.Fields {
		if sf.DBName == "" || !sf.Creatable || sf.FieldType == deletedAtType {
			continue
		}
		f, err := describeField(sf)
		if err != nil {
			return nil, fmt.Errorf("%w: %s.%s: %v", ErrInvalidModel, s.Name, sf.Name, err)
		}
		f.Relation = relations[sf.Name]
		d.Fields = append(d.Fields, f)
	}
	return d, nil
}

func describeField(sf *schema.Field) (Field, error) {
	goType := sf.IndirectFieldType
	f := Field{
		Name:          sf.Name,
		Column:        sf.DBName,
		GoType:        sf.FieldType,
		Nullable:      sf.FieldType.Kind() == reflect.Ptr,
		Unique:        sf.Unique,
		PrimaryKey:    sf.PrimaryKey,
		AutoIncrement: sf.AutoIncrement,
		HasDefault:    sf.HasDefaultValue && !sf.AutoIncrement,
		AutoNow:       sf.AutoUpdateTime > 0,
		AutoNowAdd:    sf.AutoCreateTime > 0,
		MaxLength:     sf.Size,
	}

	tags := schema.ParseTagSetting(sf.Tag.Get(TagName), ";")
	if v, ok := tags["CHOICES"]; ok {
		for _, c := range strings.Split(v, ",") {
			if c = strings.TrimSpace(c); c != "" {
				f.Choices = append(f.Choices, c)
			}
		}
	}
	if v, ok := tags["MAXLENGTH"]; ok {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
			return f, fmt.Errorf("maxlength %q", v)
		}
		f.MaxLength = n
	}
	if v, ok := tags["KIND"]; ok {
		k, err := ParseKind(v)
		if err != nil {
			return f, err
		}
		f.Kind = k
		return f, nil
	}

	f.Kind = kindOf(goType, strings.ToLower(sf.TagSettings["TYPE"]))
	return f, nil
}

// ParseKind maps a tag value to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindBool, KindSmallInt, KindInt, KindBigInt, KindUint, KindFloat,
		KindString, KindText, KindEmail, KindURL, KindSlug, KindIP, KindFilePath,
		KindCSI, KindUUID, KindDate, KindDateTime, KindTime, KindDuration, KindBinary:
		return k, nil
	}
	return KindUnknown, fmt.Errorf("unknown kind %q", s)
}

func kindOf(t reflect.Type, sqlType string) Kind {
	switch t {
	case durationType:
		return KindDuration
	case timeType:
		switch sqlType {
		case "date":
			return KindDate
		case "time":
			return KindTime
		}
		return KindDateTime
	case uuidType:
		return KindUUID
	}

	switch t.Kind() {
	case reflect.Bool:
		return KindBool
	case reflect.Int8, reflect.Int16:
		return KindSmallInt
	case reflect.Int, reflect.Int32:
		return KindInt
	case reflect.Int64:
		return KindBigInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindUint
	case reflect.Float32, reflect.Float64:
		return KindFloat
	case reflect.String:
		if sqlType == "text" {
			return KindText
		}
		if sqlType == "uuid" {
			return KindUUID
		}
		return KindString
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return KindBinary
		}
	}
	return KindUnknown
}
