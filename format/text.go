package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/msdtool/msd"
)

// TextEncoder renders one "key: value, value" line per parameter.
// Multi-line values are kept as-is, so the output is for human eyes,
// not for machines.
type TextEncoder struct {
	w io.Writer
}

func NewTextEncoder(w io.Writer) *TextEncoder {
	return &TextEncoder{w: w}
}

func (e *TextEncoder) Encode(params []msd.Parameter) error {
	for _, p := range params {
		key, _ := p.Key()
		if _, err := fmt.Fprintf(e.w, "%s: %s\n", key, strings.Join(p.Values(), ", ")); err != nil {
			return err
		}
	}
	return nil
}
