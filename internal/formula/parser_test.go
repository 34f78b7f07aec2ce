package formula

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/gridcalc/internal/celladdr"
)

func TestParse_Precedence(t *testing.T) {
	cases := map[string]string{
		"=A1":           "A1",
		"=A1+5":         "(A1 + 5)",
		"=B2-3.5":       "(B2 - 3.5)",
		"=2.5+C3":       "(2.5 + C3)",
		"=1+2*3":        "(1 + (2 * 3))",
		"=(1+2)*3":      "((1 + 2) * 3)",
		"=1-2-3":        "((1 - 2) - 3)",
		"=8/4/2":        "((8 / 4) / 2)",
		"=-A1*2":        "(-A1 * 2)",
		"=--5":          "--5",
		"=-(A1+B1)":     "-(A1 + B1)",
		"=A1+B2*C3-D4/2": "((A1 + (B2 * C3)) - (D4 / 2))",
		"= ( ( 7 ) )":   "7",
		"=5-3+1":        "((5 - 3) + 1)",
		"=2*-3":         "(2 * -3)",
	}
	for src, want := range cases {
		t.Run(src, func(t *testing.T) {
			expr, err := Parse(src)
			require.NoError(t, err)
			assert.Equal(t, want, Format(expr))
		})
	}
}

func TestParse_Tree(t *testing.T) {
	expr, err := Parse("=A1-3.5")
	require.NoError(t, err)

	want := &Binary{
		Op:    OpSub,
		Left:  &Ref{Letters: "A", Digits: "1", At: 1},
		Right: &Literal{Value: 3.5, At: 4},
		At:    3,
	}
	if diff := cmp.Diff(want, expr); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		src string
		pos int
	}{
		{"=", 1},
		{"=A1 +", 5},
		{"= + 5", 2},
		{"=A1 + B2 -", 10},
		{"=(1+2", 5},
		{"=1+2)", 4},
		{"=A1 B2", 4},
		{"=()", 2},
		{"=+5", 1},
		{"=5 5", 3},
		{"A1 + 5", 0},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			_, err := Parse(tc.src)
			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), "expected ParseError, got %v", err)
			assert.Equal(t, tc.pos, parseErr.Pos)
			assert.NotEmpty(t, parseErr.Expected)
		})
	}
}

func TestParse_DivisionByZeroIsNotAParseError(t *testing.T) {
	expr, err := Parse("=5/0")
	require.NoError(t, err)
	assert.Equal(t, "(5 / 0)", Format(expr))
}

func TestParseLiteral(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cases := map[string]float64{
			"42":     42,
			"3.14":   3.14,
			"-7.25":  -7.25,
			" 12 ":   12,
			".5":     0.5,
			"0":      0,
			"1000.0": 1000,
		}
		for src, want := range cases {
			got, err := ParseLiteral(src)
			require.NoError(t, err, src)
			assert.Equal(t, want, got, src)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		for _, src := range []string{"invalid", "A1 + 5", "1+1", "--1", "- 1", "(1)", "1 2"} {
			_, err := ParseLiteral(src)
			assert.Error(t, err, src)
		}
	})
}

func TestIsFormulaAndIsBlank(t *testing.T) {
	assert.True(t, IsFormula("=A1"))
	assert.True(t, IsFormula("  =A1"))
	assert.False(t, IsFormula("A1"))
	assert.False(t, IsFormula(""))
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank(" \t"))
	assert.False(t, IsBlank(" 1"))
}

func TestResolveAndRefs(t *testing.T) {
	expr, err := Parse("=A1+B2*A1")
	require.NoError(t, err)

	refs := Refs(expr)
	require.Len(t, refs, 3)
	assert.Equal(t, "A1", refs[0].Name())
	assert.Equal(t, "B2", refs[1].Name())

	require.NoError(t, Resolve(expr, celladdr.Bounds{Rows: 2, Cols: 2}))
	assert.Equal(t, celladdr.Address{Row: 1, Col: 1}, refs[1].Addr)

	expr, err = Parse("=A1+C1")
	require.NoError(t, err)
	err = Resolve(expr, celladdr.Bounds{Rows: 2, Cols: 2})
	var rangeErr *celladdr.OutOfRangeError
	require.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, 0, rangeErr.Row)
	assert.Equal(t, 2, rangeErr.Col)
}
