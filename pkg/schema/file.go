package schema

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// 文件格式
//
//	families:
//	  - name: JOBS
//	    tag: 16
//	    decoder: msgpack
type fileTable struct {
	Families []fileFamily `yaml:"families"`
}

type fileFamily struct {
	Name    string  `yaml:"name"`
	Tag     *uint64 `yaml:"tag"`
	Decoder string  `yaml:"decoder"`
}

// LoadFile reads a family table from a YAML file into r. Entries replace families of the
// same name.
func (r *Registry) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open schema file %s", path)
	}
	defer f.Close()
	return errors.Wrapf(r.Load(f), "schema file %s", path)
}

// Load reads a YAML family table from reader into r.
func (r *Registry) Load(reader io.Reader) error {
	var table fileTable
	dec := yaml.NewDecoder(reader)
	dec.KnownFields(true)
	if err := dec.Decode(&table); err != nil && err != io.EOF {
		return errors.Wrap(err, "decode yaml")
	}
	for i, f := range table.Families {
		if f.Tag == nil {
			return errors.Errorf("family %d (%s): missing tag", i, f.Name)
		}
		kind := f.Decoder
		if kind == "" {
			kind = KindMsgpack
		}
		d, err := DecoderForKind(kind)
		if err != nil {
			return errors.Wrapf(err, "family %s", f.Name)
		}
		if err := r.add(f.Name, *f.Tag, d, kind, true); err != nil {
			return err
		}
	}
	return nil
}
