package sheet

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/gridcalc/internal/celladdr"
	"github.com/vk/gridcalc/internal/ctxlog"
)

func testContext() context.Context {
	return ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestValidateShape(t *testing.T) {
	t.Run("rectangular matrix", func(t *testing.T) {
		b, err := ValidateShape([][]string{{"1", "2"}, {"3", "4"}, {"5", "6"}}, DefaultLimits)
		require.NoError(t, err)
		assert.Equal(t, celladdr.Bounds{Rows: 3, Cols: 2}, b)
	})

	t.Run("empty matrix", func(t *testing.T) {
		_, err := ValidateShape(nil, DefaultLimits)
		assert.ErrorIs(t, err, ErrEmptyMatrix)
		_, err = ValidateShape([][]string{{}}, DefaultLimits)
		assert.ErrorIs(t, err, ErrEmptyMatrix)
	})

	t.Run("ragged matrix", func(t *testing.T) {
		_, err := ValidateShape([][]string{{"1", "2"}, {"3"}}, DefaultLimits)
		assert.ErrorIs(t, err, ErrRagged)
		assert.ErrorContains(t, err, "row 2 has 1 columns, expected 2")
	})

	t.Run("too large", func(t *testing.T) {
		matrix := make([][]string, 11)
		for i := range matrix {
			matrix[i] = []string{""}
		}
		_, err := ValidateShape(matrix, DefaultLimits)
		assert.ErrorIs(t, err, ErrTooLarge)

		_, err = ValidateShape(matrix, Limits{})
		assert.NoError(t, err, "zero limits mean unlimited")
	})
}

func TestFromMatrix(t *testing.T) {
	matrix := [][]string{
		{"=B2+5", "=A1-3.5"},
		{"=A1", "42"},
		{"3.14", "=B2"},
	}

	g, err := FromMatrix(testContext(), matrix, DefaultLimits, 4)
	require.NoError(t, err)

	assert.Equal(t, 3, g.Rows())
	assert.Equal(t, 2, g.Cols())
	assert.Equal(t, 6, g.Len())
	assert.Equal(t, matrix, g.Raw())

	b2 := g.At(celladdr.MustParse("B2"))
	assert.Equal(t, Number, b2.Kind)
	assert.Equal(t, 42.0, b2.Value)
	assert.Equal(t, celladdr.MustParse("B2"), b2.Addr)

	a1 := g.At(celladdr.MustParse("A1"))
	assert.Equal(t, Formula, a1.Kind)
	assert.NotNil(t, a1.Expr)
}

func TestFromMatrix_ParseErrorsStayLocal(t *testing.T) {
	g, err := FromMatrix(testContext(), [][]string{{"=1+", "7"}}, DefaultLimits, 2)
	require.NoError(t, err)

	bad := g.At(celladdr.Address{Row: 0, Col: 0})
	require.NotNil(t, bad.Err)
	assert.Equal(t, ParseError, bad.Err.Kind)

	good := g.At(celladdr.Address{Row: 0, Col: 1})
	assert.Nil(t, good.Err)
	assert.Equal(t, 7.0, good.Value)
}

func TestFromMatrix_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(testContext())
	cancel()

	_, err := FromMatrix(ctx, [][]string{{"1", "2"}}, DefaultLimits, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
