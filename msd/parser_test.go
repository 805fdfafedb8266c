package msd

import (
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseAll(t *testing.T, input string, opts ...Option) []Parameter {
	t.Helper()
	params, err := Parse(strings.NewReader(input), opts...)
	require.NoError(t, err)
	return params
}

func components(params []Parameter) [][]string {
	var out [][]string
	for _, p := range params {
		out = append(out, p.Components)
	}
	return out
}

func TestParseEmpty(t *testing.T) {
	p := NewParser(strings.NewReader(""))
	_, err := p.Next()
	assert.Equal(t, io.EOF, err)
}

func TestParseKeyAndValues(t *testing.T) {
	params := parseAll(t, "#K:V1:V2;")
	require.Len(t, params, 1)

	key, ok := params[0].Key()
	assert.True(t, ok)
	assert.Equal(t, "K", key)
	assert.Equal(t, []string{"V1", "V2"}, params[0].Values())
}

func TestParseSimfileHeader(t *testing.T) {
	input := "#VERSION:0.83;\n#TITLE:Springtime;\n#SUBTITLE:;\n#ARTIST:Kommisar;"
	params := parseAll(t, input)

	assert.Equal(t, [][]string{
		{"VERSION", "0.83"},
		{"TITLE", "Springtime"},
		{"SUBTITLE", ""},
		{"ARTIST", "Kommisar"},
	}, components(params))
}

func TestEmptyKey(t *testing.T) {
	params := parseAll(t, "#:ABC;#:DEF;")
	assert.Equal(t, [][]string{{"", "ABC"}, {"", "DEF"}}, components(params))
}

func TestEmptyValue(t *testing.T) {
	params := parseAll(t, "#ABC:;#DEF:;")
	assert.Equal(t, [][]string{{"ABC", ""}, {"DEF", ""}}, components(params))
}

func TestMissingValue(t *testing.T) {
	params := parseAll(t, "#ABC;#DEF;")
	require.Len(t, params, 2)
	assert.Equal(t, []string{"ABC"}, params[0].Components)

	_, ok := params[0].Value()
	assert.False(t, ok)
	assert.Nil(t, params[0].Values())
}

func TestNormalCharacters(t *testing.T) {
	component := "A1,./'\"[]{\\\\}|`~!@#$%^&*()-_=+ \r\n\t"
	params := parseAll(t, "#"+component+":"+component+":;")
	require.Len(t, params, 1)

	unescaped := "A1,./'\"[]{\\}|`~!@#$%^&*()-_=+ \r\n\t"
	assert.Equal(t, []string{unescaped, unescaped, ""}, params[0].Components)
}

func TestUnicode(t *testing.T) {
	params := parseAll(t, "#TITLE:実例;\n#ARTIST:楽士;")
	assert.Equal(t, [][]string{{"TITLE", "実例"}, {"ARTIST", "楽士"}}, components(params))
}

func TestLeadingBOM(t *testing.T) {
	params := parseAll(t, "\ufeff#A:B;")
	assert.Equal(t, [][]string{{"A", "B"}}, components(params))
}

func TestComments(t *testing.T) {
	// Everything from '//' through the line break is stripped, the
	// '\r' of a CRLF ending included.
	params := parseAll(t, "#A// comment //\r\nBC:D// ; \nEF;")
	require.Len(t, params, 1)
	assert.Equal(t, []string{"ABC", "DEF"}, params[0].Components)
}

func TestBareCarriageReturnDoesNotEndComment(t *testing.T) {
	params := parseAll(t, "#A//one\rstill comment\nB;")
	require.Len(t, params, 1)
	assert.Equal(t, []string{"AB"}, params[0].Components)
}

func TestCarriageReturnOutsideCommentIsContent(t *testing.T) {
	params := parseAll(t, "#A\rB:C;")
	require.Len(t, params, 1)
	assert.Equal(t, []string{"A\rB", "C"}, params[0].Components)
}

func TestCommentNeverSplitsComponent(t *testing.T) {
	params := parseAll(t, "#A://comment\nB;")
	require.Len(t, params, 1)
	assert.Equal(t, []string{"A", "B"}, params[0].Components)
}

func TestCommentOutsideBlocks(t *testing.T) {
	// Comment stripping is active between blocks too, so a comment
	// line is not stray text even in strict mode.
	params := parseAll(t, "//header\n#A:B;\n// trailing\n")
	assert.Equal(t, [][]string{{"A", "B"}}, components(params))
}

func TestTrailingCommentRunsToEndOfInput(t *testing.T) {
	params := parseAll(t, "#A:B;//#NO:PE;")
	assert.Equal(t, [][]string{{"A", "B"}}, components(params))
}

func TestLoneSlashIsLiteral(t *testing.T) {
	params := parseAll(t, "#A:C/D;")
	require.Len(t, params, 1)
	assert.Equal(t, []string{"A", "C/D"}, params[0].Components)
}

func TestEscapes(t *testing.T) {
	params := parseAll(t, "#A\\:B:C\\;D;#E\\#F:G\\\\H;#LF:\\\nLF;")
	assert.Equal(t, [][]string{
		{"A:B", "C;D"},
		{"E#F", "G\\H"},
		{"LF", "\nLF"},
	}, components(params))
}

func TestEscapedSlashDoesNotOpenComment(t *testing.T) {
	params := parseAll(t, "#A\\//B;")
	require.Len(t, params, 1)
	assert.Equal(t, []string{"A//B"}, params[0].Components)
}

func TestWithoutEscapes(t *testing.T) {
	params := parseAll(t, "#A\\:B:C\\;D;#E\\#F:G\\\\H;#LF:\\\nLF;", WithoutEscapes(), IgnoreStrayText())
	assert.Equal(t, [][]string{
		{"A\\", "B", "C\\"},
		{"E\\#F", "G\\\\H"},
		{"LF", "\\\nLF"},
	}, components(params))
}

func TestStrayText(t *testing.T) {
	p := NewParser(strings.NewReader("#A:B;n#C:D;"))

	param, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, param.Components)

	_, err = p.Next()
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ErrStrayText, perr.Kind)
	assert.Equal(t, "stray 'n' encountered after 'A' parameter", perr.Message)
}

func TestStrayTextAtStart(t *testing.T) {
	p := NewParser(strings.NewReader("TITLE:oops;"))

	_, err := p.Next()
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ErrStrayText, perr.Kind)
	assert.Equal(t, "stray 'T' encountered at start of document", perr.Message)
	assert.Equal(t, 1, perr.Pos.Line)
	assert.Equal(t, 1, perr.Pos.Column)
}

func TestStraySemicolon(t *testing.T) {
	p := NewParser(strings.NewReader("#A:B;;#C:D;"))

	_, err := p.Next()
	require.NoError(t, err)

	_, err = p.Next()
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ErrStrayText, perr.Kind)
	assert.Equal(t, "stray ';' encountered after 'A' parameter", perr.Message)
}

func TestIgnoreStrayText(t *testing.T) {
	params := parseAll(t, "garbage#A:B;more garbage#C:D;", IgnoreStrayText())
	assert.Equal(t, [][]string{{"A", "B"}, {"C", "D"}}, components(params))
}

func TestBlankLinesBetweenBlocksAlwaysTolerated(t *testing.T) {
	params := parseAll(t, "\n\n#A:B;\r\n\t \n#C:D;\n")
	assert.Equal(t, [][]string{{"A", "B"}, {"C", "D"}}, components(params))
}

func TestUnterminatedBlock(t *testing.T) {
	p := NewParser(strings.NewReader("#A:B"))

	_, err := p.Next()
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ErrUnexpectedEOF, perr.Kind)
}

func TestUnterminatedBlockAfterParameters(t *testing.T) {
	p := NewParser(strings.NewReader("#A:B;#C:D"))

	param, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, param.Components)

	_, err = p.Next()
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ErrUnexpectedEOF, perr.Kind)
}

func TestCommentAtEOFLeavesBlockOpen(t *testing.T) {
	// The comment itself is benign, but the block it interrupted
	// still never got its ';'.
	p := NewParser(strings.NewReader("#ABC:DEF// eof"))

	_, err := p.Next()
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ErrUnexpectedEOF, perr.Kind)
}

func TestEscapeAtEOF(t *testing.T) {
	p := NewParser(strings.NewReader("#A:B\\"))

	_, err := p.Next()
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ErrUnexpectedEOF, perr.Kind)
}

func TestErrorIsTerminal(t *testing.T) {
	p := NewParser(strings.NewReader("oops#A:B;"))

	_, err := p.Next()
	require.Error(t, err)

	_, again := p.Next()
	assert.Equal(t, err, again)
}

func TestEOFIsSticky(t *testing.T) {
	p := NewParser(strings.NewReader("#A:B;"))

	_, err := p.Next()
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = p.Next()
		assert.Equal(t, io.EOF, err)
	}
}

func TestParameterPositions(t *testing.T) {
	params := parseAll(t, "#A:B;\n  #C:D;", WithFile("song.sm"))
	require.Len(t, params, 2)

	assert.Equal(t, Position{File: "song.sm", Offset: 0, Line: 1, Column: 1}, params[0].Pos)
	assert.Equal(t, Position{File: "song.sm", Offset: 8, Line: 2, Column: 3}, params[1].Pos)
}

func TestErrorMessageIncludesFile(t *testing.T) {
	_, err := Parse(strings.NewReader("oops"), WithFile("song.sm"))
	require.Error(t, err)
	assert.Equal(t, "song.sm: line 1, col 1: stray 'o' encountered at start of document", err.Error())
}

func TestIdempotence(t *testing.T) {
	input := "#A// c\n:B\\:C;\nx#D:E;"

	run := func() ([]Parameter, error) {
		return Parse(strings.NewReader(input), IgnoreStrayText())
	}
	first, err1 := run()
	second, err2 := run()

	assert.Equal(t, err1, err2)
	assert.Equal(t, first, second)
}

func TestStreamingOneByteAtATime(t *testing.T) {
	// The state machine must survive arbitrarily small reads, with
	// comments and escapes crossing read boundaries.
	r := iotest.OneByteReader(strings.NewReader("#A\\:B://x\nC;#D:E;"))
	params, err := Parse(r)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"A:B", "C"}, {"D", "E"}}, components(params))
}

func TestReaderErrorPropagates(t *testing.T) {
	r := io.MultiReader(strings.NewReader("#A:B;#C"), iotest.ErrReader(iotest.ErrTimeout))
	p := NewParser(r)

	param, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, param.Components)

	_, err = p.Next()
	assert.ErrorIs(t, err, iotest.ErrTimeout)
}
