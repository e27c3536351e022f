package ops

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func parse(t *testing.T, src string) ([]Instruction, error) {
	t.Helper()
	p := NewParser(NewLexer(strings.NewReader(src)))
	return p.Parse()
}

func TestParserAssignmentEmission(t *testing.T) {
	code, err := parse(t, "x = 1 + 2;")
	assert.NoError(t, err)
	assert.Equal(t, []Instruction{
		pushInt(1),
		pushInt(2),
		op(Add),
		pushName("x"),
		op(Assign),
	}, code)
}

func TestParserLeftAssociativity(t *testing.T) {
	// a - b - c must fold as (a - b) - c: Sub, then Sub again against c,
	// not Sub(b, Sub(...)) as a naive recursive-tail translation would give.
	code, err := parse(t, "x = a - b - c;")
	assert.NoError(t, err)
	assert.Equal(t, []Instruction{
		pushName("a"),
		pushName("b"),
		op(Sub),
		pushName("c"),
		op(Sub),
		pushName("x"),
		op(Assign),
	}, code)
}

func TestParserMulDivPrecedence(t *testing.T) {
	code, err := parse(t, "x = a + b * c;")
	assert.NoError(t, err)
	assert.Equal(t, []Instruction{
		pushName("a"),
		pushName("b"),
		pushName("c"),
		op(Mul),
		op(Add),
		pushName("x"),
		op(Assign),
	}, code)
}

func TestParserReadPrint(t *testing.T) {
	code, err := parse(t, "read(x); print(x);")
	assert.NoError(t, err)
	assert.Equal(t, []Instruction{
		pushName("x"),
		op(Read),
		pushName("x"),
		op(Print),
	}, code)
}

func TestParserIfNoElse(t *testing.T) {
	code, err := parse(t, "if (x < 1) { y = 1; };")
	assert.NoError(t, err)
	assert.Equal(t, []Instruction{
		pushName("x"),
		pushInt(1),
		op(Lt),
		labelRef("Lif0"),
		op(JumpIfFalse),
		pushInt(1),
		pushName("y"),
		op(Assign),
		labelDef("Lif0"),
	}, code)
}

func TestParserIfElse(t *testing.T) {
	code, err := parse(t, "if (x < 1) { y = 1; } else { y = 2; };")
	assert.NoError(t, err)
	assert.Equal(t, []Instruction{
		pushName("x"),
		pushInt(1),
		op(Lt),
		labelRef("Lif0"),
		op(JumpIfFalse),
		pushInt(1),
		pushName("y"),
		op(Assign),
		labelRef("Lend1"),
		op(Jmp),
		labelDef("Lif0"),
		pushInt(2),
		pushName("y"),
		op(Assign),
		labelDef("Lend1"),
	}, code)
}

func TestParserWhile(t *testing.T) {
	code, err := parse(t, "while (x < 1) { x = x + 1; };")
	assert.NoError(t, err)
	assert.Equal(t, []Instruction{
		labelDef("Lhead0"),
		pushName("x"),
		pushInt(1),
		op(Lt),
		labelRef("Lexit1"),
		op(JumpIfFalse),
		pushName("x"),
		pushInt(1),
		op(Add),
		pushName("x"),
		op(Assign),
		labelRef("Lhead0"),
		op(Jmp),
		labelDef("Lexit1"),
	}, code)
}

func TestParserParenthesizedExpression(t *testing.T) {
	code, err := parse(t, "x = (a + b) * c;")
	assert.NoError(t, err)
	assert.Equal(t, []Instruction{
		pushName("a"),
		pushName("b"),
		op(Add),
		pushName("c"),
		op(Mul),
		pushName("x"),
		op(Assign),
	}, code)
}

func TestParserBoundaryCases(t *testing.T) {
	cases := []struct {
		name string
		src  string
		fail bool
	}{
		{name: "empty source", src: "", fail: false},
		{name: "lone semicolon", src: ";", fail: false},
		{name: "nested if", src: "if (a < b) { if (c < d) { e = 1; }; };", fail: false},
		{name: "nested while", src: "while (a < b) { while (c < d) { e = 1; }; };", fail: false},
		{name: "missing semicolon", src: "x = 1", fail: true},
		{name: "missing closing brace", src: "if (a < b) { x = 1;", fail: true},
		{name: "missing comparison operator", src: "if (a b) { x = 1; };", fail: true},
		{name: "bad expression start", src: "x = ;", fail: true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := parse(t, c.src)
			if c.fail {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
