package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsRaggedAndDuplicateColumns(t *testing.T) {
	_, err := New(NewColumn("a", Number(1)), NewColumn("a", Number(2)))
	require.Error(t, err)

	_, err = New(NewColumn("a", Number(1), Number(2)), NewColumn("b", Number(2)))
	require.Error(t, err)
}

func TestColumnKind(t *testing.T) {
	tests := []struct {
		name     string
		values   []Value
		expected ColumnKind
	}{
		{"all numbers", []Value{Number(1), Number(2)}, ColumnNumeric},
		{"numbers with missing", []Value{Number(1), Missing()}, ColumnNumeric},
		{"all missing", []Value{Missing(), Missing()}, ColumnNumeric},
		{"text anywhere", []Value{Number(1), Text("x")}, ColumnString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewColumn("c", tt.values...).Kind())
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := MustNew(NewColumn("a", Number(1), Missing()))
	cp := orig.Clone()

	col, _ := cp.Column("a")
	col.Values[1] = Number(5)

	origCol, _ := orig.Column("a")
	assert.True(t, origCol.Values[1].IsMissing())
	assert.False(t, orig.Equal(cp))
}

func TestSelectKeepsRowCount(t *testing.T) {
	tbl := MustNew(NewColumn("a", Missing(), Missing(), Missing()))
	out := tbl.Select(func(*Column) bool { return false })

	assert.Equal(t, 3, out.RowCount())
	assert.Empty(t, out.Columns())
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "2.5", Number(2.5).String())
	assert.Equal(t, "Fire", Text("Fire").String())
	assert.Equal(t, "NaN", Missing().String())
}
