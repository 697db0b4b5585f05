package tablekit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewColumnDefaults(t *testing.T) {
	c := NewColumn("first_name")

	assert.Equal(t, "first_name", c.Name())
	assert.Equal(t, "first_name", c.Path())
	assert.Equal(t, "First name", c.VerboseName())
	assert.True(t, c.Sortable())
	assert.True(t, c.Visible())
	assert.Nil(t, c.Default())
	assert.Equal(t, Asc, c.Direction())
}

func TestNewColumnOptions(t *testing.T) {
	c := NewColumn("capital",
		WithPath("capital.name"),
		WithVerboseName("Capital city"),
		WithSortable(false),
		WithVisible(false),
		WithDefault("unknown"),
		WithDirection(Desc),
	)

	assert.Equal(t, "capital.name", c.Path())
	assert.Equal(t, "Capital city", c.VerboseName())
	assert.False(t, c.Sortable())
	assert.False(t, c.Visible())
	assert.Equal(t, "unknown", c.Default())
	assert.Equal(t, Desc, c.Direction())
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{in: "asc", want: Asc},
		{in: "DESC", want: Desc},
		{in: "", want: Asc},
		{in: "sideways", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDirection(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrConfiguration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.String(), got.String())
		})
	}
}

func TestColumnSetViews(t *testing.T) {
	cols, err := NewColumnSet(
		NewColumn("name"),
		NewColumn("population", WithVisible(false)),
		NewColumn("notes", WithSortable(false)),
		NewColumn("code", WithVisible(false), WithSortable(false)),
	)
	require.NoError(t, err)

	assert.Equal(t, 4, cols.Len())
	assert.Equal(t, []string{"name", "population", "notes", "code"}, cols.Names())
	assert.Equal(t, []string{"name", "notes"}, names(cols.Visible()))
	assert.Equal(t, []string{"name", "population"}, names(cols.Sortable()))

	all := names(cols.All())
	for _, name := range names(cols.Visible()) {
		assert.Contains(t, all, name)
	}
	for _, name := range names(cols.Sortable()) {
		assert.Contains(t, all, name)
	}

	_, ok := cols.SortDirection("notes")
	assert.False(t, ok, "unsortable columns are not Sortables")
	_, ok = cols.SortDirection("missing")
	assert.False(t, ok)

	c, ok := cols.Get("population")
	require.True(t, ok)
	assert.False(t, c.Visible(), "hidden columns stay reachable by name")
}

func TestColumnSetRegisterErrors(t *testing.T) {
	tests := []struct {
		name    string
		cols    []Column
		wantErr error
	}{
		{
			name:    "duplicate name",
			cols:    []Column{NewColumn("name"), NewColumn("name", WithPath("other"))},
			wantErr: ErrDuplicateColumn,
		},
		{
			name:    "empty path segment",
			cols:    []Column{NewColumn("capital", WithPath("capital..name"))},
			wantErr: ErrEmptyPathSegment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewColumnSet(tt.cols...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}
}

func TestColumnSetRegisterKeepsExistingOnError(t *testing.T) {
	cols, err := NewColumnSet(NewColumn("name"))
	require.NoError(t, err)

	require.Error(t, cols.Register(NewColumn("name")))
	require.NoError(t, cols.Register(NewColumn("date")))
	assert.Equal(t, []string{"name", "date"}, cols.Names())
}

func TestColumnSetExclude(t *testing.T) {
	cols, err := NewColumnSet(NewColumn("id"), NewColumn("name"), NewColumn("secret"))
	require.NoError(t, err)

	out := cols.Exclude("id", "secret", "missing")
	assert.Equal(t, []string{"name"}, out.Names())
	assert.Equal(t, 3, cols.Len(), "exclude returns a copy")

	_, ok := out.Get("id")
	assert.False(t, ok)
}

func TestColumnSetSortableDefault(t *testing.T) {
	cols, err := NewColumnSet(
		NewColumn("name"),
		NewColumn("population", WithSortable(true)),
		NewColumn("notes", WithSortable(false)),
	)
	require.NoError(t, err)

	off := cols.WithSortableDefault(false)
	assert.Equal(t, []string{"population"}, names(off.Sortable()), "explicit settings win")

	on := cols.WithSortableDefault(true)
	assert.Equal(t, []string{"name", "population"}, names(on.Sortable()))

	assert.Equal(t, []string{"name", "population"}, names(cols.Sortable()), "the original is unchanged")
}

func names(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Name()
	}
	return out
}
