// Package msd parses the MSD text format used by rhythm-game simfiles
// (.sm, .ssc, .dwi and friends).
//
// # Format
//
// An MSD document is a sequence of parameters. Each parameter is one
// '#'-opened, ';'-terminated block whose components are separated by
// colons; the first component is the key:
//
//	#TITLE:Springtime;
//	#BPMS:0.000=182.000;
//	#NOTES:dance-single:Expert:9:...;
//
// Two lexical features complicate the picture. A '//' opens a comment
// that runs to the end of the line and is stripped before components
// are assembled, and a backslash escapes the character after it, so
// '\:' is a literal colon rather than a component separator. Both
// rules interleave: an escaped slash never opens a comment.
//
// # Parsing
//
// The parser reads an io.Reader incrementally and yields one Parameter
// per well-formed block, in input order:
//
//	p := msd.NewParser(f, msd.WithFile("song.sm"))
//	for {
//		param, err := p.Next()
//		if err == io.EOF {
//			break
//		}
//		if err != nil {
//			return err
//		}
//		key, _ := param.Key()
//		// ...
//	}
//
// By default a backslash escapes the next character and text between
// blocks is a fatal *ParseError. Older simfiles predate both rules;
// parse those with WithoutEscapes and IgnoreStrayText. Whitespace
// between blocks is always tolerated.
//
// The parser performs no semantic validation: '#BPMS:zebra;' parses
// fine. Interpreting values belongs to the caller.
package msd
