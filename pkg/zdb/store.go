package zdb

import (
	"bytes"
	"errors"
	"os"

	"github.com/WuKongIM/zdb/pkg/schema"
	"github.com/WuKongIM/zdb/pkg/zberr"
	"github.com/WuKongIM/zdb/pkg/zblog"
	"github.com/WuKongIM/zdb/pkg/zdb/key"
	"github.com/cockroachdb/pebble"
	lru "github.com/hashicorp/golang-lru/v2"
	pkgerr "github.com/pkg/errors"
	"go.uber.org/zap"
)

// Predicate filters decoded records during a scan.
type Predicate func(rawKey []byte, value any) bool

// Visitor receives each matching record. rawKey is only valid during the call. Returning
// false stops the scan.
type Visitor func(rawKey []byte, value any) bool

// ScanResult summarizes one prefix scan.
type ScanResult struct {
	Visited int  // 遍历的key数量
	Matched int  // 通过predicate的数量
	Skipped int  // 宽松模式下跳过的无法解码的记录
	Stopped bool // visitor提前结束
}

// Store is a read-only handle on the column family store of one partition.
type Store struct {
	path     string
	db       *pebble.DB
	registry *schema.Registry
	opts     *Options
	cache    *lru.Cache[string, []byte]
	zblog.Log
}

// Open opens the store at path read-only. The registry supplies the family table and the
// value decoders.
func Open(path string, registry *schema.Registry, opt ...Option) (*Store, error) {
	opts := NewOptions(opt...)
	s := &Store{
		path:     path,
		registry: registry,
		opts:     opts,
		Log:      zblog.NewZBLog("zdb"),
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, zberr.StorageUnavailable(path, pkgerr.WithStack(err))
	}
	if !info.IsDir() {
		return nil, zberr.StorageUnavailable(path, pkgerr.New("not a directory"))
	}
	s.db, err = pebble.Open(path, &pebble.Options{
		ReadOnly:         true,
		ErrorIfNotExists: true,
		FS:               newReadOnlyFS(),
	})
	if err != nil {
		if isLockError(err) {
			return nil, zberr.StorageLocked(path, err)
		}
		return nil, zberr.StorageUnavailable(path, err)
	}
	if opts.CacheSize > 0 {
		s.cache, err = lru.New[string, []byte](opts.CacheSize)
		if err != nil {
			_ = s.db.Close()
			return nil, pkgerr.Wrap(err, "create value cache")
		}
	}
	s.Debug("opened store", zap.String("path", path), zap.Bool("strict", opts.Strict))
	return s, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Registry() *schema.Registry {
	return s.registry
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if s.cache != nil {
		s.cache.Purge()
	}
	return err
}

// ScanPrefix visits every key of family in ascending byte order. Values are decoded with
// the family's decoder, filtered by predicate (nil accepts everything) and handed to visitor.
func (s *Store) ScanPrefix(family string, predicate Predicate, visitor Visitor) (ScanResult, error) {
	var result ScanResult
	f, decoder, err := s.registry.Lookup(family)
	if err != nil {
		return result, err
	}
	prefix := key.FamilyPrefix(f.Tag)
	iter := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: key.UpperBound(prefix),
	})
	defer iter.Close()

	for iter.SeekGE(prefix); iter.Valid(); iter.Next() {
		k := iter.Key()
		if !bytes.HasPrefix(k, prefix) {
			break
		}
		result.Visited++
		value, err := decoder.Decode(iter.Value())
		if err != nil {
			if s.opts.Strict {
				return result, zberr.CorruptKey(f.Name, k, err)
			}
			result.Skipped++
			s.Warn("skip undecodable record", zap.String("family", f.Name), zap.Binary("key", k), zap.Error(err))
			continue
		}
		if predicate != nil && !predicate(k, value) {
			continue
		}
		result.Matched++
		if !visitor(k, value) {
			result.Stopped = true
			break
		}
	}
	if err := iter.Error(); err != nil {
		return result, zberr.Corrupt(s.path, err, "iterate family %s", f.Name)
	}
	return result, nil
}

// GetValue looks up the record of family stored under payload (the key without the family
// tag) and decodes it.
func (s *Store) GetValue(family string, payload []byte) (any, error) {
	f, decoder, err := s.registry.Lookup(family)
	if err != nil {
		return nil, err
	}
	k := key.New(f.Tag, payload)
	raw, err := s.getRaw(k)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, zberr.NotFound(f.Name, payload)
		}
		return nil, zberr.StorageUnavailable(s.path, err)
	}
	value, err := decoder.Decode(raw)
	if err != nil {
		return nil, zberr.SchemaMismatch(f.Name, payload, err)
	}
	return value, nil
}

// GetInt64Key looks up a family keyed by a single int64.
func (s *Store) GetInt64Key(family string, k int64) (any, error) {
	return s.GetValue(family, key.Int64(k))
}

func (s *Store) getRaw(k []byte) ([]byte, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(string(k)); ok {
			return v, nil
		}
	}
	value, closer, err := s.db.Get(k)
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	raw := make([]byte, len(value))
	copy(raw, value)
	if s.cache != nil {
		s.cache.Add(string(k), raw)
	}
	return raw, nil
}

// FamilyCount is the number of keys stored under one family.
type FamilyCount struct {
	Family schema.Family `json:"-"`
	Name   string        `json:"family"`
	Tag    uint64        `json:"tag"`
	Count  int           `json:"count"`
}

// CountFamilies counts the keys of every registered family without decoding values.
func (s *Store) CountFamilies() ([]FamilyCount, error) {
	families := s.registry.Families()
	counts := make([]FamilyCount, 0, len(families))
	for _, f := range families {
		n, err := s.count(f.Tag)
		if err != nil {
			return nil, zberr.Corrupt(s.path, err, "count family %s", f.Name)
		}
		counts = append(counts, FamilyCount{Family: f, Name: f.Name, Tag: f.Tag, Count: n})
	}
	return counts, nil
}

func (s *Store) count(tag uint64) (int, error) {
	prefix := key.FamilyPrefix(tag)
	iter := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: key.UpperBound(prefix),
	})
	defer iter.Close()
	n := 0
	for iter.First(); iter.Valid(); iter.Next() {
		n++
	}
	return n, iter.Error()
}
