package zbutil

import (
	"bytes"
	"encoding/json"
	"io"
)

// ToIndentJson renders obj as indented JSON.
func ToIndentJson(obj interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(obj); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// JsonArrayPrinter streams values as the elements of one JSON array.
type JsonArrayPrinter struct {
	w     io.Writer
	count int
	err   error
}

func NewJsonArrayPrinter(w io.Writer) *JsonArrayPrinter {
	return &JsonArrayPrinter{w: w}
}

// Print writes v as the next element. The first error sticks and is returned by Close.
func (p *JsonArrayPrinter) Print(v interface{}) error {
	if p.err != nil {
		return p.err
	}
	data, err := json.Marshal(v)
	if err != nil {
		p.err = err
		return err
	}
	sep := ","
	if p.count == 0 {
		sep = "["
	}
	if _, err = io.WriteString(p.w, sep); err == nil {
		_, err = p.w.Write(data)
	}
	p.err = err
	p.count++
	return err
}

func (p *JsonArrayPrinter) Count() int {
	return p.count
}

// Close terminates the array, writing [] when nothing was printed.
func (p *JsonArrayPrinter) Close() error {
	if p.err != nil {
		return p.err
	}
	end := "]\n"
	if p.count == 0 {
		end = "[]\n"
	}
	_, err := io.WriteString(p.w, end)
	return err
}
