package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-di/framework/container"
)

func TestAliasTable(t *testing.T) {
	tests := []struct {
		name    string
		aliases [][2]string
		lookup  string
		want    string
		cycle   []string
	}{
		{name: "no alias", lookup: "a", want: "a"},
		{name: "direct", aliases: [][2]string{{"a", "b"}}, lookup: "a", want: "b"},
		{name: "chain", aliases: [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}}, lookup: "a", want: "d"},
		{name: "replaced", aliases: [][2]string{{"a", "b"}, {"a", "c"}}, lookup: "a", want: "c"},
		{name: "self", aliases: [][2]string{{"a", "a"}}, lookup: "a", cycle: []string{"a", "a"}},
		{name: "loop", aliases: [][2]string{{"a", "b"}, {"b", "c"}, {"c", "b"}}, lookup: "a", cycle: []string{"a", "b", "c", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := container.NewAliasTable()
			for _, a := range tt.aliases {
				table.Add(a[0], a[1])
			}
			got, err := table.Resolve(tt.lookup)
			if tt.cycle != nil {
				var cycle *container.AliasCycleError
				require.ErrorAs(t, err, &cycle)
				assert.Equal(t, tt.cycle, cycle.Chain)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAliasTable_CopyAndReset(t *testing.T) {
	table := container.NewAliasTable()
	table.Add("a", "b")

	snapshot := table.Aliases()
	snapshot["x"] = "y"
	assert.Equal(t, map[string]string{"a": "b"}, table.Aliases())

	table.Reset()
	assert.Empty(t, table.Aliases())
}
