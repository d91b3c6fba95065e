package pagination

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   Pagination
		want Pagination
	}{
		{"defaults", Pagination{}, Pagination{Page: 1, Limit: 20}},
		{"negative page", Pagination{Page: -3, Limit: 5}, Pagination{Page: 1, Limit: 5}},
		{"cap limit", Pagination{Page: 2, Limit: 500}, Pagination{Page: 2, Limit: 100}},
		{"floor limit", Pagination{Page: 1, Limit: -1}, Pagination{Page: 1, Limit: 1}},
		{"cap page", Pagination{Page: 92233720368547760, Limit: 100}, Pagination{Page: 21474837, Limit: 100}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.in.Normalize(20, 100))
		})
	}
}

func TestOffsetAndPageInfo(t *testing.T) {
	p := Pagination{Page: 3, Limit: 20}
	require.Equal(t, 40, p.Offset())

	info := BuildPageInfo(p, 41)
	require.Equal(t, 3, info.TotalPages)
	require.Equal(t, int64(41), info.Total)

	require.Equal(t, 0, BuildPageInfo(p, 0).TotalPages)
}

func TestOffsetNeverOverflows(t *testing.T) {
	p := Pagination{Page: 92233720368547760, Limit: 100}.Normalize(20, 100)
	require.Equal(t, 2147483600, p.Offset())

	raw := Pagination{Page: 1 << 62, Limit: 100}
	require.Equal(t, MaxOffset, raw.Offset())
}
