package quiz

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// ErrMalformed is returned for quiz payloads that do not match the schema.
var ErrMalformed = errors.New("malformed quiz")

//go:embed schema.json
var schemaJSON []byte

var loadSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
})

// Decode validates raw against the quiz schema and unmarshals it.
func Decode(raw []byte) (*Quiz, error) {
	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("load quiz schema: %w", err)
	}

	res, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrMalformed, strings.Join(msgs, "; "))
	}

	var q Quiz
	if err := json.Unmarshal(raw, &q); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	for i, question := range q.Questions {
		if question.CorrectAnswer >= len(question.Options) {
			return nil, fmt.Errorf("%w: question %d: correct answer %d out of range", ErrMalformed, i+1, question.CorrectAnswer)
		}
	}
	return &q, nil
}
