package gridio

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vk/gridcalc/internal/api"
	"github.com/vk/gridcalc/internal/ctxlog"
)

func testContext() context.Context {
	return ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func ptr(v float64) *float64 { return &v }

func sampleResponse() *api.EvaluateResponse {
	return &api.EvaluateResponse{
		Success: false,
		Result:  [][]*float64{{ptr(1), ptr(2.5)}, {nil, ptr(-3)}},
		Errors: [][]*api.CellErrorDTO{
			{nil, nil},
			{{Cell: "A2", Kind: "DivisionByZero", Code: "#DIV/0!"}, nil},
		},
		Original: [][]string{{"1", "=A1+1.5"}, {"=1/0", "-3"}},
	}
}

func TestFormatOf(t *testing.T) {
	t.Parallel()

	for path, want := range map[string]Format{
		"grid.json": JSON,
		"GRID.CSV":  CSV,
		"a/b.xlsx":  XLSX,
		"sheet.hcl": HCL,
	} {
		got, err := FormatOf(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatOf("grid.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `".txt"`)
}

func TestReadJSON(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
		want  [][]string
	}{
		{name: "wrapped", input: `{"matrix": [["1", "=A1"]]}`, want: [][]string{{"1", "=A1"}}},
		{name: "bare", input: ` [["=B1", 2], [null, "x"]]`, want: [][]string{{"=B1", "2"}, {"", "x"}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ReadJSON(strings.NewReader(tc.input))
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("matrix mismatch (-want +got):\n%s", diff)
			}
		})
	}

	_, err := ReadJSON(strings.NewReader(`{"matrix": [[true]]}`))
	require.Error(t, err)
}

func TestReadCSV(t *testing.T) {
	t.Parallel()

	got, err := ReadCSV(strings.NewReader("1, =A1+1\n\"=A1*2\",\n3"))
	require.NoError(t, err)
	want := [][]string{{"1", "=A1+1"}, {"=A1*2", ""}, {"3"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("matrix mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleResponse()))
	assert.Equal(t, "1,2.5\n#DIV/0!,-3\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleResponse()))
	assert.Contains(t, buf.String(), `"code": "#DIV/0!"`)
	assert.Contains(t, buf.String(), `"success": false`)
}

func TestXLSX_RoundTrip(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	resp := sampleResponse()
	var buf bytes.Buffer

	// --- Act ---
	require.NoError(t, WriteXLSX(&buf, resp))
	source, err := ReadXLSX(bytes.NewReader(buf.Bytes()))

	// --- Assert ---
	require.NoError(t, err)
	if diff := cmp.Diff(resp.Original, source); diff != "" {
		t.Errorf("source mismatch (-want +got):\n%s", diff)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{ResultsSheet, SourceSheet}, f.GetSheetList())
	v, err := f.GetCellValue(ResultsSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "#DIV/0!", v)
	v, err = f.GetCellValue(ResultsSheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "2.5", v)
}

func TestReadXLSX_Formulas(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", 4))
	require.NoError(t, f.SetCellFormula(sheet, "B1", "A1*2"))
	require.NoError(t, f.SetCellValue(sheet, "A2", "7"))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	// --- Act ---
	got, err := ReadXLSX(&buf)

	// --- Assert ---
	require.NoError(t, err)
	want := [][]string{{"4", "=A1*2"}, {"7", ""}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("matrix mismatch (-want +got):\n%s", diff)
	}
}

func TestReadFile_AllFormats(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	want := [][]string{{"1", "=A1+1"}}

	files := map[string]string{
		"g.json": `{"matrix": [["1", "=A1+1"]]}`,
		"g.csv":  "1,=A1+1\n",
		"g.hcl":  "grid {\n  rows = [[1, \"=A1+1\"]]\n}\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		got, err := ReadFile(testContext(), path)
		require.NoError(t, err, name)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", name, diff)
		}
	}

	out := filepath.Join(dir, "out.xlsx")
	require.NoError(t, WriteFile(out, &api.EvaluateResponse{
		Result:   [][]*float64{{ptr(1), ptr(2)}},
		Original: want,
	}))
	got, err := ReadFile(testContext(), out)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
