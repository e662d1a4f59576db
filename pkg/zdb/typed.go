package zdb

import (
	"github.com/WuKongIM/zdb/pkg/zberr"
	"github.com/WuKongIM/zdb/pkg/zdb/key"
	"github.com/pkg/errors"
)

// Scan is ScanPrefix for families whose decoder yields T. A value of another type is a
// schema mismatch and aborts the scan.
func Scan[T any](s *Store, family string, predicate func(rawKey []byte, value T) bool, visitor func(rawKey []byte, value T) bool) (ScanResult, error) {
	var mismatch error
	matched := 0
	result, err := s.ScanPrefix(family, nil, func(rawKey []byte, value any) bool {
		v, ok := as[T](value)
		if !ok {
			mismatch = zberr.SchemaMismatch(family, key.Payload(rawKey), errors.Errorf("decoded %T, want %T", value, v))
			return false
		}
		if predicate != nil && !predicate(rawKey, v) {
			return true
		}
		matched++
		return visitor(rawKey, v)
	})
	result.Matched = matched
	if err != nil {
		return result, err
	}
	if mismatch != nil {
		result.Stopped = false
		return result, mismatch
	}
	return result, nil
}

// Get is GetValue asserting the decoded type.
func Get[T any](s *Store, family string, payload []byte) (T, error) {
	var zero T
	value, err := s.GetValue(family, payload)
	if err != nil {
		return zero, err
	}
	v, ok := as[T](value)
	if !ok {
		return zero, zberr.SchemaMismatch(family, payload, errors.Errorf("decoded %T, want %T", value, zero))
	}
	return v, nil
}

// as asserts value to T. A nil value only fits interface types.
func as[T any](value any) (T, bool) {
	if value == nil {
		var zero T
		return zero, any(zero) == nil
	}
	v, ok := value.(T)
	return v, ok
}
