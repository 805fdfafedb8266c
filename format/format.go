package format

import (
	"github.com/dhamidi/msdtool/msd"
)

// Encoder writes parsed MSD parameters in some output representation.
// None of the encoders emit MSD itself; they exist for inspection and
// for feeding other tools.
type Encoder interface {
	Encode(params []msd.Parameter) error
}
