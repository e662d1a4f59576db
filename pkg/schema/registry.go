package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrUnknownFamily  = errors.New("unknown column family")
	ErrFamilyConflict = errors.New("column family conflict")
	ErrUnknownDecoder = errors.New("unknown decoder kind")
)

// Family identifies one column family of the store.
type Family struct {
	Name string
	Tag  uint64
}

func (f Family) String() string {
	return fmt.Sprintf("%s(%d)", f.Name, f.Tag)
}

// Decoder maps the raw value bytes of one family to a structured record.
type Decoder interface {
	Decode(value []byte) (any, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(value []byte) (any, error)

func (f DecoderFunc) Decode(value []byte) (any, error) {
	return f(value)
}

type entry struct {
	family  Family
	decoder Decoder
	kind    string
}

// Registry is the caller-owned table from family to decoder. The value schemas belong to the
// state machine that wrote the store, so the inspector only receives them.
type Registry struct {
	byTag  map[uint64]*entry
	byName map[string]*entry
}

func NewRegistry() *Registry {
	return &Registry{
		byTag:  make(map[uint64]*entry),
		byName: make(map[string]*entry),
	}
}

func normalize(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Register adds a family. Names and tags must both be unused.
func (r *Registry) Register(name string, tag uint64, d Decoder) error {
	return r.add(name, tag, d, "custom", false)
}

// Override adds a family or replaces the family of the same name.
func (r *Registry) Override(name string, tag uint64, d Decoder) error {
	return r.add(name, tag, d, "custom", true)
}

// RegisterKind is Register with a kind label shown by family listings.
func (r *Registry) RegisterKind(name string, tag uint64, d Decoder, kind string) error {
	return r.add(name, tag, d, kind, false)
}

func (r *Registry) add(name string, tag uint64, d Decoder, kind string, replace bool) error {
	name = normalize(name)
	if name == "" {
		return errors.Wrap(ErrFamilyConflict, "empty family name")
	}
	if d == nil {
		return errors.Wrapf(ErrUnknownDecoder, "family %s has no decoder", name)
	}
	if old, ok := r.byName[name]; ok {
		if !replace {
			return errors.Wrapf(ErrFamilyConflict, "family %s already registered", name)
		}
		delete(r.byTag, old.family.Tag)
		delete(r.byName, name)
	}
	if other, ok := r.byTag[tag]; ok {
		return errors.Wrapf(ErrFamilyConflict, "tag %d of %s already used by %s", tag, name, other.family.Name)
	}
	e := &entry{family: Family{Name: name, Tag: tag}, decoder: d, kind: kind}
	r.byName[name] = e
	r.byTag[tag] = e
	return nil
}

// Lookup resolves a family by name, case-insensitively.
func (r *Registry) Lookup(name string) (Family, Decoder, error) {
	e, ok := r.byName[normalize(name)]
	if !ok {
		return Family{}, nil, errors.Wrapf(ErrUnknownFamily, "%q", name)
	}
	return e.family, e.decoder, nil
}

func (r *Registry) ByTag(tag uint64) (Family, Decoder, bool) {
	e, ok := r.byTag[tag]
	if !ok {
		return Family{}, nil, false
	}
	return e.family, e.decoder, true
}

// Kind returns the decoder kind the family was configured with, "custom" for decoders
// registered in code.
func (r *Registry) Kind(name string) string {
	if e, ok := r.byName[normalize(name)]; ok {
		return e.kind
	}
	return ""
}

// Families returns every registered family ordered by tag.
func (r *Registry) Families() []Family {
	families := make([]Family, 0, len(r.byTag))
	for _, e := range r.byTag {
		families = append(families, e.family)
	}
	sort.Slice(families, func(i, j int) bool {
		return families[i].Tag < families[j].Tag
	})
	return families
}

func (r *Registry) Len() int {
	return len(r.byTag)
}
