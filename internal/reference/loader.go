package reference

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed data/reference.yaml
var defaultDocument []byte

// Decode parses a YAML reference document without validating it.
func Decode(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	doc := &Document{}
	if err := dec.Decode(doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: document is empty", ErrInvalidTables)
		}
		return nil, fmt.Errorf("%w: decoding yaml: %v", ErrInvalidTables, err)
	}
	return doc, nil
}

// Load decodes and validates a YAML reference document.
func Load(r io.Reader) (*Tables, error) {
	doc, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return New(doc)
}

// LoadFile loads reference tables from a YAML file on disk.
func LoadFile(path string) (*Tables, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening reference file: %w", err)
	}
	defer f.Close()

	tables, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return tables, nil
}

// Default returns the tables built from the dataset compiled into the binary.
func Default() (*Tables, error) {
	return Load(bytes.NewReader(defaultDocument))
}

// DefaultDocument returns a decoded copy of the compiled-in dataset.
func DefaultDocument() (*Document, error) {
	return Decode(bytes.NewReader(defaultDocument))
}
