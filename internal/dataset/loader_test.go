package dataset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"datalens/domain/table"
	"datalens/internal/errors"
	"datalens/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// MockObjectStore is a testify mock of ports.ObjectStore
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, bucket, key)
	if rc, ok := args.Get(0).(io.ReadCloser); ok {
		return rc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockObjectStore) PutObject(ctx context.Context, bucket, key string, body io.Reader, size int64) error {
	args := m.Called(ctx, bucket, key, body, size)
	return args.Error(0)
}

const pokemonCSV = `Name,Type 1,Speed,Attack
Bulbasaur,Grass,45,49
Charmander,Fire,,52
Squirtle,Water,43,NA
Pikachu,,90,55
`

func TestLoaderLoadsAndInfersTypes(t *testing.T) {
	store := new(MockObjectStore)
	store.On("GetObject", mock.Anything, "bucket", "Pokemons.csv").
		Return(io.NopCloser(strings.NewReader(pokemonCSV)), nil)

	tbl, err := NewLoader(store, nil).Load(context.Background(), "bucket", "Pokemons.csv")
	require.NoError(t, err)
	store.AssertExpectations(t)

	assert.Equal(t, []string{"Name", "Type 1", "Speed", "Attack"}, tbl.ColumnNames())
	assert.Equal(t, 4, tbl.RowCount())

	name, _ := tbl.Column("Name")
	assert.Equal(t, table.ColumnString, name.Kind())

	speed, _ := tbl.Column("Speed")
	assert.Equal(t, table.ColumnNumeric, speed.Kind())
	assert.True(t, speed.Values[1].IsMissing())
	f, ok := speed.Values[3].Float()
	assert.True(t, ok)
	assert.Equal(t, 90.0, f)

	attack, _ := tbl.Column("Attack")
	assert.True(t, attack.Values[2].IsMissing())

	typ, _ := tbl.Column("Type 1")
	assert.Equal(t, 1, typ.MissingCount())
}

func TestLoaderStorageError(t *testing.T) {
	store := new(MockObjectStore)
	store.On("GetObject", mock.Anything, "bucket", "absent.csv").
		Return(nil, fmt.Errorf("%w: bucket/absent.csv", ports.ErrObjectNotFound))

	_, err := NewLoader(store, nil).Load(context.Background(), "bucket", "absent.csv")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeStorageError))
	assert.ErrorIs(t, err, ports.ErrObjectNotFound)
}

func TestLoaderParseError(t *testing.T) {
	store := new(MockObjectStore)
	store.On("GetObject", mock.Anything, "bucket", "bad.csv").
		Return(io.NopCloser(strings.NewReader("a,b\n\"unterminated,2\n")), nil)

	_, err := NewLoader(store, nil).Load(context.Background(), "bucket", "bad.csv")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeParseError))
}

func TestParseEdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		check   func(t *testing.T, tbl *table.Table)
	}{
		{
			name:    "empty document",
			input:   "",
			wantErr: true,
		},
		{
			name:  "header only",
			input: "a,b\n",
			check: func(t *testing.T, tbl *table.Table) {
				assert.Equal(t, 0, tbl.RowCount())
				assert.Equal(t, []string{"a", "b"}, tbl.ColumnNames())
			},
		},
		{
			name:  "short rows are padded with missing",
			input: "a,b\n1\n2,3\n",
			check: func(t *testing.T, tbl *table.Table) {
				b, _ := tbl.Column("b")
				assert.True(t, b.Values[0].IsMissing())
				assert.Equal(t, 1, b.MissingCount())
			},
		},
		{
			name:    "long rows are rejected",
			input:   "a,b\n1,2,3\n",
			wantErr: true,
		},
		{
			name:  "duplicate and blank headers",
			input: "x,x,,x\n1,2,3,4\n",
			check: func(t *testing.T, tbl *table.Table) {
				assert.Equal(t, []string{"x", "x.1", "Unnamed: 2", "x.2"}, tbl.ColumnNames())
			},
		},
		{
			name:  "byte order mark is stripped",
			input: "\xef\xbb\xbfid,v\n1,2\n",
			check: func(t *testing.T, tbl *table.Table) {
				assert.True(t, tbl.Has("id"))
			},
		},
		{
			name:  "all missing column is numeric",
			input: "a,b\n1,\n2,null\n",
			check: func(t *testing.T, tbl *table.Table) {
				b, _ := tbl.Column("b")
				assert.Equal(t, table.ColumnNumeric, b.Kind())
				assert.Equal(t, 2, b.MissingCount())
			},
		},
		{
			name:  "nan spellings are missing",
			input: "a\n1\nNAN\n+nan\nnAn\n5\n",
			check: func(t *testing.T, tbl *table.Table) {
				a, _ := tbl.Column("a")
				assert.Equal(t, table.ColumnNumeric, a.Kind())
				assert.Equal(t, 3, a.MissingCount())
				assert.Equal(t, []float64{1, 5}, a.Numbers())
			},
		},
		{
			name:  "nan spelling in a text column is missing",
			input: "a\nfoo\n-NAN\n",
			check: func(t *testing.T, tbl *table.Table) {
				a, _ := tbl.Column("a")
				assert.Equal(t, table.ColumnString, a.Kind())
				assert.True(t, a.Values[1].IsMissing())
			},
		},
		{
			name:  "text keeps surrounding spaces",
			input: "name,n\n  Bulbasaur ,\" 7 \"\n NA ,8\n",
			check: func(t *testing.T, tbl *table.Table) {
				name, _ := tbl.Column("name")
				assert.Equal(t, "  Bulbasaur ", name.Values[0].String())
				assert.True(t, name.Values[1].IsMissing())
				n, _ := tbl.Column("n")
				assert.Equal(t, []float64{7, 8}, n.Numbers())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := Parse("data.csv", strings.NewReader(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.CodeParseError))
				return
			}
			require.NoError(t, err)
			tt.check(t, tbl)
		})
	}
}

func TestParseExcelWorkbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Name", "Speed"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"Bulbasaur", 45}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"Charmander"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	tbl, err := Parse("Pokemons.xlsx", &buf)
	require.NoError(t, err)

	speed, ok := tbl.Column("Speed")
	require.True(t, ok)
	assert.Equal(t, table.ColumnNumeric, speed.Kind())
	assert.True(t, speed.Values[1].IsMissing())
}
