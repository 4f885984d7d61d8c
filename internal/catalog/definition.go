package catalog

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Kind names one of the parallel connector catalogs.
type Kind string

const (
	KindSource      Kind = "source"
	KindDestination Kind = "destination"
)

// Kinds returns every catalog kind in reconciliation order.
func Kinds() []Kind {
	return []Kind{KindSource, KindDestination}
}

// ParseKind normalizes a user supplied kind name.
func ParseKind(raw string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindSource, "sources":
		return KindSource, nil
	case KindDestination, "destinations":
		return KindDestination, nil
	default:
		return "", fmt.Errorf("unknown connector kind %q (want source or destination)", raw)
	}
}

func (k Kind) String() string { return string(k) }

// Definition is one catalog entry for a connector image.
type Definition struct {
	ID         uuid.UUID
	Kind       Kind
	Name       string
	Repository string
	Version    string
	Optional   OptionalFields
}

// OptionalFields holds the nullable descriptive attributes of a definition.
// A nil pointer means the value is absent.
type OptionalFields struct {
	DocumentationURL *string
	Icon             *string
	SourceType       *string
	ReleaseStage     *string
}

type optionalField struct {
	name string
	ptr  func(*OptionalFields) **string
}

// optionalFieldTable is the fixed set of backfillable fields.
var optionalFieldTable = []optionalField{
	{name: "documentation_url", ptr: func(o *OptionalFields) **string { return &o.DocumentationURL }},
	{name: "icon", ptr: func(o *OptionalFields) **string { return &o.Icon }},
	{name: "source_type", ptr: func(o *OptionalFields) **string { return &o.SourceType }},
	{name: "release_stage", ptr: func(o *OptionalFields) **string { return &o.ReleaseStage }},
}

// OptionalFieldNames lists the optional fields in their canonical order.
func OptionalFieldNames() []string {
	names := make([]string, 0, len(optionalFieldTable))
	for _, f := range optionalFieldTable {
		names = append(names, f.name)
	}
	return names
}

// Get returns the value of the named optional field.
func (o OptionalFields) Get(name string) (*string, bool) {
	for _, f := range optionalFieldTable {
		if f.name == name {
			return *f.ptr(&o), true
		}
	}
	return nil, false
}

// Clone returns a copy that shares no pointers with o.
func (o OptionalFields) Clone() OptionalFields {
	out := OptionalFields{}
	for _, f := range optionalFieldTable {
		if v := *f.ptr(&o); v != nil {
			s := *v
			*f.ptr(&out) = &s
		}
	}
	return out
}

// Equal reports whether both sets hold the same values, treating nil as absent.
func (o OptionalFields) Equal(other OptionalFields) bool {
	for _, f := range optionalFieldTable {
		a, b := *f.ptr(&o), *f.ptr(&other)
		if (a == nil) != (b == nil) {
			return false
		}
		if a != nil && *a != *b {
			return false
		}
	}
	return true
}

// Backfill fills every absent field of o with the value from latest.
// Fields already set on o are never overwritten.
func (o OptionalFields) Backfill(latest OptionalFields) OptionalFields {
	out := o.Clone()
	latest = latest.Clone()
	for _, f := range optionalFieldTable {
		if *f.ptr(&out) == nil && *f.ptr(&latest) != nil {
			*f.ptr(&out) = *f.ptr(&latest)
		}
	}
	return out
}

// Clone returns a deep copy of d.
func (d Definition) Clone() Definition {
	out := d
	out.Optional = d.Optional.Clone()
	return out
}

// Equal reports whether d and other would persist as the same row.
func (d Definition) Equal(other Definition) bool {
	return d.ID == other.ID &&
		d.Kind == other.Kind &&
		d.Name == other.Name &&
		d.Repository == other.Repository &&
		d.Version == other.Version &&
		d.Optional.Equal(other.Optional)
}

// Ptr returns a pointer to a copy of s. Empty strings stay empty, not nil.
func Ptr(s string) *string {
	return &s
}

// NullableString returns nil for blank input.
func NullableString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
