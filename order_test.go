package tablekit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderColumns(t *testing.T) *ColumnSet {
	t.Helper()
	cols, err := NewColumnSet(
		NewColumn("name"),
		NewColumn("date", WithDirection(Desc)),
		NewColumn("population"),
		NewColumn("secret", WithSortable(false)),
	)
	require.NoError(t, err)
	return cols
}

func TestParseOrderByRoundTrip(t *testing.T) {
	cols := orderColumns(t)

	for _, raw := range []string{"", "name", "-date", "name,-date", "-population,date,name"} {
		t.Run(raw, func(t *testing.T) {
			o, err := ParseOrderByString(raw, cols, false)
			require.NoError(t, err)
			assert.Equal(t, raw, o.String())

			again, err := ParseOrderByString(o.String(), cols, false)
			require.NoError(t, err)
			assert.True(t, o.Equal(again))
		})
	}
}

func TestParseOrderByDropsInvalidTokens(t *testing.T) {
	cols := orderColumns(t)

	tests := []struct {
		name   string
		tokens []string
		want   string
	}{
		{
			name:   "unknown column",
			tokens: []string{"name", "totallynotacolumn", "-date"},
			want:   "name,-date",
		},
		{
			name:   "unsortable column",
			tokens: []string{"secret", "-population"},
			want:   "-population",
		},
		{
			name:   "blank tokens",
			tokens: []string{" name ", "", "  "},
			want:   "name",
		},
		{
			name:   "everything invalid",
			tokens: []string{"nope", "-secret"},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := ParseOrderBy(tt.tokens, cols, false)
			require.NoError(t, err)
			assert.Equal(t, tt.want, o.String())
		})
	}
}

func TestParseOrderByStrict(t *testing.T) {
	cols := orderColumns(t)

	for _, tokens := range [][]string{{"name", "totallynotacolumn"}, {"-secret"}} {
		_, err := ParseOrderBy(tokens, cols, true)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidOrderBy)
		assert.ErrorIs(t, err, ErrConfiguration)
	}

	o, err := ParseOrderBy([]string{"name", "-date"}, cols, true)
	require.NoError(t, err)
	assert.Equal(t, "name,-date", o.String())
}

func TestParseOrderByWithoutColumns(t *testing.T) {
	o, err := ParseOrderByString("anything,-goes", nil, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"anything", "goes"}, o.Names())
	assert.True(t, o.IsOrderedNormal("anything"))
	assert.True(t, o.IsOrderedReversed("goes"))
}

func TestOrderByLastWins(t *testing.T) {
	o := NewOrderBy(
		OrderEntry{Name: "a"},
		OrderEntry{Name: "b"},
		OrderEntry{Name: "a", Reverse: true},
	)
	assert.Equal(t, "-a,b", o.String())

	parsed, err := ParseOrderByString("name,-date,-name", orderColumns(t), false)
	require.NoError(t, err)
	assert.Equal(t, "-name,-date", parsed.String())
}

func TestOrderByToggleInvolution(t *testing.T) {
	cols := orderColumns(t)

	for _, raw := range []string{"name", "-name", "name,-date", "-population,date"} {
		o, err := ParseOrderByString(raw, cols, false)
		require.NoError(t, err)
		for _, name := range o.Names() {
			twice := o.WithToggled(name).WithToggled(name)
			assert.True(t, o.Equal(twice), "%s toggled twice on %s", name, raw)
		}
	}
}

func TestOrderByTransforms(t *testing.T) {
	cols := orderColumns(t)
	o, err := ParseOrderByString("name", cols, false)
	require.NoError(t, err)

	tests := []struct {
		name string
		got  OrderBy
		want string
	}{
		{name: "toggle present", got: o.WithToggled("name"), want: "-name"},
		{name: "toggle absent ascending column", got: o.WithToggled("population"), want: "name,population"},
		{name: "toggle absent descending column", got: o.WithToggled("date"), want: "name,date"},
		{name: "normal of descending column", got: o.WithNormal("date"), want: "name,-date"},
		{name: "reversed of descending column", got: o.WithReversed("date"), want: "name,date"},
		{name: "normal of present column", got: o.WithReversed("name").WithNormal("name"), want: "name"},
		{name: "reversed of ascending column", got: o.WithReversed("name"), want: "-name"},
		{name: "toggle all", got: o.WithNormal("date").ToggleAll(), want: "-name,date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got.String())
		})
	}

	assert.Equal(t, "name", o.String(), "transforms never modify the receiver")
}

func TestOrderByNormalIsRelativeToDirection(t *testing.T) {
	cols := orderColumns(t)

	o, err := ParseOrderByString("name,-date", cols, false)
	require.NoError(t, err)

	assert.True(t, o.IsOrderedBy("date"))
	assert.True(t, o.IsOrderedNormal("name"))
	assert.True(t, o.IsOrderedNormal("date"), "descending is normal for a desc column")
	assert.False(t, o.IsOrderedReversed("date"))

	o = o.WithToggled("date")
	assert.True(t, o.IsOrderedReversed("date"))
	assert.False(t, o.IsOrderedBy("population"))
	assert.False(t, o.IsOrderedNormal("population"))
	assert.False(t, o.IsOrderedReversed("population"))
}

func TestOrderByAccessors(t *testing.T) {
	o, err := ParseOrderByString("name,-date", orderColumns(t), false)
	require.NoError(t, err)

	assert.Equal(t, 2, o.Len())
	assert.False(t, o.IsEmpty())
	assert.Equal(t, []string{"name", "-date"}, o.Tokens())
	assert.Equal(t, []OrderEntry{{Name: "name"}, {Name: "date", Reverse: true}}, o.Entries())

	e, ok := o.Get("date")
	require.True(t, ok)
	assert.True(t, e.Reverse)

	_, ok = o.Get("population")
	assert.False(t, ok)

	assert.True(t, OrderBy{}.IsEmpty())
}
