package source

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/brokkr-io/brokkr/pkg/msgpack"
)

// Document is one CSV row. It packs as its field strings in column order,
// so a row round-trips through the codec as a fixed sequence of strings.
type Document struct {
	Fields []string
}

// Pack forwards each field to the codec.
func (d *Document) Pack(c msgpack.Codec) {
	c.Process(&d.Fields)
}

// CSVReader yields Documents from a CSV stream. The header row, when
// present, is exposed separately so callers can key columns by name.
type CSVReader struct {
	reader *csv.Reader
	header []string
}

// NewCSVReader wraps r. If hasHeader is true the first row is consumed as
// the header.
func NewCSVReader(r io.Reader, hasHeader bool) (*CSVReader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	reader := &CSVReader{reader: cr}
	if hasHeader {
		header, err := cr.Read()
		if err != nil {
			return nil, err
		}
		reader.header = header
	}
	return reader, nil
}

// Header returns the header row, or nil when the stream has none.
func (r *CSVReader) Header() []string {
	return r.header
}

// Next returns the next row as a Document. io.EOF signals the end of the
// stream.
func (r *CSVReader) Next() (*Document, error) {
	row, err := r.reader.Read()
	if err != nil {
		return nil, err
	}
	return &Document{Fields: row}, nil
}

// ReadCSVFile reads every data row of a CSV file into Documents.
func ReadCSVFile(path string, hasHeader bool) ([]*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader, err := NewCSVReader(f, hasHeader)
	if err != nil {
		return nil, err
	}

	var docs []*Document
	for {
		doc, err := reader.Next()
		if err == io.EOF {
			return docs, nil
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
}
