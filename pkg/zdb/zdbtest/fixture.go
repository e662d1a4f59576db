// Package zdbtest writes column family stores for tests.
package zdbtest

import (
	"github.com/WuKongIM/zdb/pkg/zdb/key"
	"github.com/cockroachdb/pebble"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// Record is one key of the fixture store.
type Record struct {
	Tag     uint64
	Payload []byte
	Value   []byte
}

func Int64Record(tag uint64, k int64, value []byte) Record {
	return Record{Tag: tag, Payload: key.Int64(k), Value: value}
}

// Msgpack encodes v, panicking on failure.
func Msgpack(v any) []byte {
	data, err := msgpack.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}

// Write creates a pebble store in dir holding records and closes it.
func Write(dir string, records ...Record) error {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return errors.Wrap(err, "open fixture store")
	}
	batch := db.NewBatch()
	for _, r := range records {
		if err := batch.Set(key.New(r.Tag, r.Payload), r.Value, nil); err != nil {
			_ = batch.Close()
			_ = db.Close()
			return err
		}
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		_ = db.Close()
		return err
	}
	if err := batch.Close(); err != nil {
		_ = db.Close()
		return err
	}
	// 落盘为sstable
	if err := db.Flush(); err != nil {
		_ = db.Close()
		return err
	}
	return db.Close()
}
