package zberr

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind classifies inspection failures.
type Kind uint8

const (
	KindUnknown Kind = iota
	// KindStorageUnavailable path missing, unreadable or locked
	KindStorageUnavailable
	// KindStorageLocked the store is held by another process. Also matches KindStorageUnavailable.
	KindStorageLocked
	// KindCorruptRecord declared length or layout violated
	KindCorruptRecord
	// KindNotFound point lookup miss
	KindNotFound
	// KindSchemaMismatch the family decoder cannot interpret the stored bytes
	KindSchemaMismatch
	// KindDanglingReference causal parent missing from the inspected log
	KindDanglingReference
)

func (k Kind) String() string {
	switch k {
	case KindStorageUnavailable:
		return "storage unavailable"
	case KindStorageLocked:
		return "storage locked"
	case KindCorruptRecord:
		return "corrupt record"
	case KindNotFound:
		return "not found"
	case KindSchemaMismatch:
		return "schema mismatch"
	case KindDanglingReference:
		return "dangling reference"
	}
	return "unknown"
}

var (
	ErrStorageUnavailable = &Error{Kind: KindStorageUnavailable}
	ErrStorageLocked      = &Error{Kind: KindStorageLocked}
	ErrCorruptRecord      = &Error{Kind: KindCorruptRecord}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrSchemaMismatch     = &Error{Kind: KindSchemaMismatch}
	ErrDanglingReference  = &Error{Kind: KindDanglingReference}
)

// Error is the error type returned by every inspection package.
type Error struct {
	Kind   Kind
	Path   string
	Family string
	Key    []byte
	// Position is the log position (or child position for dangling references), -1 if unset.
	Position int64
	// Parent is the referenced parent position of a dangling reference.
	Parent int64
	Detail string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Path != "" {
		fmt.Fprintf(&b, " path=%s", e.Path)
	}
	if e.Family != "" {
		fmt.Fprintf(&b, " family=%s", e.Family)
	}
	if e.Key != nil {
		fmt.Fprintf(&b, " key=%x", e.Key)
	}
	if e.Kind == KindDanglingReference {
		fmt.Fprintf(&b, " position=%d parent=%d", e.Position, e.Parent)
	} else if e.Position >= 0 && e.Kind == KindCorruptRecord {
		fmt.Fprintf(&b, " position=%d", e.Position)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinels by kind. A locked store is also an unavailable store.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind == e.Kind {
		return true
	}
	return t.Kind == KindStorageUnavailable && e.Kind == KindStorageLocked
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func StorageUnavailable(path string, err error) error {
	return &Error{Kind: KindStorageUnavailable, Path: path, Position: -1, Err: err}
}

func StorageLocked(path string, err error) error {
	return &Error{Kind: KindStorageLocked, Path: path, Position: -1, Err: err}
}

// Corrupt reports a layout violation in the file at path.
func Corrupt(path string, err error, format string, args ...any) error {
	return &Error{Kind: KindCorruptRecord, Path: path, Position: -1, Detail: fmt.Sprintf(format, args...), Err: err}
}

// CorruptAt reports a layout violation at a log position.
func CorruptAt(path string, position int64, format string, args ...any) error {
	return &Error{Kind: KindCorruptRecord, Path: path, Position: position, Detail: fmt.Sprintf(format, args...)}
}

// CorruptKey reports an undecodable value found while scanning a family.
func CorruptKey(family string, key []byte, err error) error {
	return &Error{Kind: KindCorruptRecord, Family: family, Key: clone(key), Position: -1, Err: err}
}

func NotFound(family string, key []byte) error {
	return &Error{Kind: KindNotFound, Family: family, Key: clone(key), Position: -1}
}

func SchemaMismatch(family string, key []byte, err error) error {
	return &Error{Kind: KindSchemaMismatch, Family: family, Key: clone(key), Position: -1, Err: err}
}

func DanglingReference(position, parent int64) error {
	return &Error{Kind: KindDanglingReference, Position: position, Parent: parent}
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
