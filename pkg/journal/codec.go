package journal

import (
	"time"

	"github.com/WuKongIM/zdb/pkg/raftmeta"
	"github.com/WuKongIM/zdb/pkg/schema"
	"github.com/WuKongIM/zdb/pkg/zbuf"
	"github.com/pkg/errors"
)

// decodePayload decodes a checksum-verified frame payload.
func decodePayload(payload []byte, checksum uint64) (*PersistedRecord, error) {
	dec := zbuf.NewDecoder(payload, Encoding)
	var (
		r   = &PersistedRecord{Checksum: checksum}
		err error
	)
	if r.Index, err = dec.Uint64(); err != nil {
		return nil, errors.Wrap(err, "index")
	}
	if r.Asqn, err = dec.Int64(); err != nil {
		return nil, errors.Wrap(err, "asqn")
	}
	if r.Term, err = dec.Uint64(); err != nil {
		return nil, errors.Wrap(err, "term")
	}
	frameType, err := dec.Uint8()
	if err != nil {
		return nil, errors.Wrap(err, "type")
	}
	switch frameType {
	case frameInitial:
		r.Kind = KindInitial
		if dec.Len() != 0 {
			return nil, errors.Errorf("initial record with %d body bytes", dec.Len())
		}
	case frameConfiguration:
		r.Kind = KindConfiguration
		if r.Configuration, err = raftmeta.DecodeConfiguration(dec.BinaryAll()); err != nil {
			return nil, errors.Wrap(err, "configuration")
		}
	case frameApplication:
		r.Kind = KindApplication
		if r.Application, err = decodeApplication(dec, r.Index, r.Term); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Errorf("unknown record type %d", frameType)
	}
	return r, nil
}

func decodeApplication(dec *zbuf.Decoder, index, term uint64) (*ApplicationRecord, error) {
	var (
		app = &ApplicationRecord{}
		err error
	)
	if app.LowestPosition, err = dec.Int64(); err != nil {
		return nil, errors.Wrap(err, "lowestPosition")
	}
	if app.HighestPosition, err = dec.Int64(); err != nil {
		return nil, errors.Wrap(err, "highestPosition")
	}
	if app.LowestPosition > app.HighestPosition {
		return nil, errors.Errorf("lowest position %d above highest %d", app.LowestPosition, app.HighestPosition)
	}
	count, err := dec.Uint32()
	if err != nil {
		return nil, errors.Wrap(err, "count")
	}
	// 每个entry至少有长度前缀
	if uint64(count)*4 > uint64(dec.Len()) {
		return nil, errors.Errorf("%d entries do not fit in %d bytes", count, dec.Len())
	}
	app.Entries = make([]Entry, 0, count)
	for i := uint32(0); i < count; i++ {
		data, err := dec.Binary()
		if err != nil {
			return nil, errors.Wrapf(err, "entry %d", i)
		}
		e, err := decodeEntry(data)
		if err != nil {
			return nil, errors.Wrapf(err, "entry %d", i)
		}
		e.Index = index
		e.Term = term
		app.Entries = append(app.Entries, e)
	}
	if dec.Len() != 0 {
		return nil, errors.Errorf("%d trailing bytes after entries", dec.Len())
	}
	return app, nil
}

func decodeEntry(data []byte) (Entry, error) {
	var (
		e   Entry
		err error
	)
	dec := zbuf.NewDecoder(data, Encoding)
	if e.Position, err = dec.Int64(); err != nil {
		return e, errors.Wrap(err, "position")
	}
	if e.SourceRecordPosition, err = dec.Int64(); err != nil {
		return e, errors.Wrap(err, "sourceRecordPosition")
	}
	if e.Key, err = dec.Int64(); err != nil {
		return e, errors.Wrap(err, "key")
	}
	timestamp, err := dec.Int64()
	if err != nil {
		return e, errors.Wrap(err, "timestamp")
	}
	e.Timestamp = time.UnixMilli(timestamp).UTC()
	recordType, err := dec.Uint8()
	if err != nil {
		return e, errors.Wrap(err, "recordType")
	}
	e.RecordType = RecordType(recordType)
	valueType, err := dec.Uint8()
	if err != nil {
		return e, errors.Wrap(err, "valueType")
	}
	e.ValueType = ValueType(valueType)
	intent, err := dec.Uint8()
	if err != nil {
		return e, errors.Wrap(err, "intent")
	}
	e.Intent = IntentName(e.ValueType, intent)
	value, err := dec.Binary()
	if err != nil {
		return e, errors.Wrap(err, "value")
	}
	if dec.Len() != 0 {
		return e, errors.Errorf("%d trailing bytes in entry", dec.Len())
	}
	if len(value) > 0 {
		v, err := schema.DecodeMsgpack(value)
		if err != nil {
			return e, errors.Wrap(err, "value")
		}
		m, ok := v.(map[string]any)
		if !ok {
			return e, errors.Errorf("value is %T, want a document", v)
		}
		e.Value = m
	}
	return e, nil
}
