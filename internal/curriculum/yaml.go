package curriculum

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNotCurriculum is returned when a YAML document has neither id nor title.
var ErrNotCurriculum = errors.New("not a curriculum document")

// WriteYAML encodes c, including its progress map, as a YAML document.
func WriteYAML(w io.Writer, c *Curriculum) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode curriculum: %w", err)
	}
	return enc.Close()
}

// ReadYAML decodes a curriculum exported by WriteYAML.
func ReadYAML(r io.Reader) (*Curriculum, error) {
	var c Curriculum
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNotCurriculum
		}
		return nil, fmt.Errorf("decode curriculum: %w", err)
	}
	if c.ID == "" && c.Title == "" {
		return nil, ErrNotCurriculum
	}
	return &c, nil
}

// LoadFile reads an exported curriculum snapshot from disk.
func LoadFile(path string) (*Curriculum, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := ReadYAML(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
