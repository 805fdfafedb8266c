package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/msdtool/msd"
)

// JSONEncoder renders parameters as a JSON array of {key, values}
// objects.
type JSONEncoder struct {
	w      io.Writer
	params []msd.Parameter
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(params []msd.Parameter) error {
	e.params = params
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	if _, err := e.w.Write(text); err != nil {
		return err
	}
	_, err = e.w.Write([]byte("\n"))
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	out := make([]jsonParameter, 0, len(e.params))
	for _, p := range e.params {
		key, _ := p.Key()
		out = append(out, jsonParameter{
			Key:    key,
			Values: p.Values(),
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

type jsonParameter struct {
	Key    string   `json:"key"`
	Values []string `json:"values,omitempty"`
}
