package frame

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dummyFrame() *Frame {
	return New([]string{"col1", "col2", "col3"},
		[]any{1, 4, 5},
		[]any{2, 5, 6},
	)
}

func TestFromColumns(t *testing.T) {
	f, err := FromColumns([]string{"col1", "col2"}, map[string][]any{
		"col1": {1, 2},
		"col2": {"a", "b"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, f.Len())
	assert.Equal(t, []any{2, "b"}, f.Rows[1])

	_, err = FromColumns([]string{"col1", "col2"}, map[string][]any{
		"col1": {1, 2},
		"col2": {"a"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has 1 values, want 2")

	_, err = FromColumns([]string{"missing"}, map[string][]any{})
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		frame  *Frame
		errMsg string
	}{
		{name: "valid", frame: dummyFrame()},
		{name: "nil frame", frame: nil, errMsg: "frame is nil"},
		{
			name:   "short row",
			frame:  New([]string{"a", "b"}, []any{1}),
			errMsg: "row 0 has 1 values, want 2",
		},
		{
			name:   "duplicate column",
			frame:  New([]string{"a", "a"}),
			errMsg: `duplicate column "a"`,
		},
		{
			name:   "index length",
			frame:  &Frame{Columns: []string{"a"}, Rows: [][]any{{1}}, Index: []any{1, 2}},
			errMsg: "index has 2 labels, want 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.frame.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestEqual(t *testing.T) {
	saved := dummyFrame()
	loaded := New([]string{"col1", "col2", "col3"},
		[]any{int64(1), int64(4), int64(5)},
		[]any{int64(2), int64(5), int64(6)},
	)
	assert.True(t, saved.Equal(loaded), "ints should equal int64 read back")

	loaded.Index = []any{"x", "y"}
	assert.True(t, saved.Equal(loaded), "index is ignored")

	loaded.Rows[1][2] = int64(7)
	assert.False(t, saved.Equal(loaded))

	assert.False(t, saved.Equal(New([]string{"col1"})))
	assert.True(t, New([]string{"b"}, []any{[]byte("x")}).Equal(New([]string{"b"}, []any{[]byte("x")})))
	assert.True(t, New([]string{"f"}, []any{1.5}).Equal(New([]string{"f"}, []any{float32(1.5)})))
}

func TestSetIndex(t *testing.T) {
	f := dummyFrame()
	require.NoError(t, f.SetIndex("col1"))

	assert.Equal(t, []string{"col2", "col3"}, f.Columns)
	assert.Equal(t, []any{1, 2}, f.Index)
	assert.Equal(t, "col1", f.IndexName)
	assert.Equal(t, [][]any{{4, 5}, {5, 6}}, f.Rows)

	assert.Error(t, f.SetIndex("nope"))
}

func TestWithIndexColumn(t *testing.T) {
	f := dummyFrame()
	g := f.WithIndexColumn("")
	assert.Equal(t, []string{"index", "col1", "col2", "col3"}, g.Columns)
	assert.Equal(t, []any{int64(1), 1, 4, 5}, g.Rows[1])
	assert.Len(t, f.Columns, 3, "source untouched")

	require.NoError(t, f.SetIndex("col1"))
	g = f.WithIndexColumn("")
	assert.Equal(t, []string{"col1", "col2", "col3"}, g.Columns)
	assert.Equal(t, [][]any{{1, 3, 4}, {2, 4, 5}}, g.Rows)
	assert.Nil(t, g.Index)

	assert.Equal(t, "id", f.WithIndexColumn("id").Columns[0])
}

func TestIndexLabels(t *testing.T) {
	f := dummyFrame()
	assert.Equal(t, []any{int64(0), int64(1)}, f.IndexLabels())

	f.Index = []any{"a", "b"}
	assert.Equal(t, []any{"a", "b"}, f.IndexLabels())
}

func TestColumn(t *testing.T) {
	f := dummyFrame()
	col, ok := f.Column("col2")
	require.True(t, ok)
	assert.Equal(t, []any{4, 5}, col)

	_, ok = f.Column("nope")
	assert.False(t, ok)
}

func TestRender(t *testing.T) {
	tests := []struct {
		format  Format
		wantOut []string
	}{
		{format: FormatTable, wantOut: []string{"col1", "col3", "(2 rows)"}},
		{format: FormatCSV, wantOut: []string{"col1,col2,col3\n1,4,5\n2,5,6\n"}},
		{format: FormatJSON, wantOut: []string{`"col1": 1`, `"col3": 6`}},
		{format: FormatYAML, wantOut: []string{"- col1: 1", "  col3: 6"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Render(&buf, dummyFrame(), tt.format))
			for _, want := range tt.wantOut {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestRenderEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, New([]string{"a"}), FormatTable))
	assert.Equal(t, "(0 rows)\n", buf.String())
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestReadCSV(t *testing.T) {
	f, err := ReadCSV(strings.NewReader("id,name,score\n1,alice,9.5\n2,,3\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "score"}, f.Columns)
	assert.Equal(t, []any{int64(1), "alice", 9.5}, f.Rows[0])
	assert.Equal(t, []any{int64(2), nil, int64(3)}, f.Rows[1])

	_, err = ReadCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "NULL", FormatValue(nil))

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, New([]string{"a", "b"}, []any{nil, "x"}), FormatCSV))
	assert.Equal(t, "a,b\n,x\n", buf.String())
	assert.Equal(t, "abc", FormatValue([]byte("abc")))
	assert.Equal(t, "1.25", FormatValue(float32(1.25)))
	assert.Equal(t, "7", FormatValue(uint8(7)))
}
