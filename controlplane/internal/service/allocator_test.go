package service_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"vpnaas/controlplane/internal/model"
	"vpnaas/controlplane/internal/service"
)

func TestAllocate(t *testing.T) {
	cases := []struct {
		name   string
		used   []int
		lo, hi int
		want   int
	}{
		{name: "empty", used: nil, lo: 0, hi: 9999, want: 0},
		{name: "first gap", used: []int{0, 1, 2, 5, 6}, lo: 0, hi: 9999, want: 3},
		{name: "unsorted", used: []int{6, 2, 0, 5, 1}, lo: 0, hi: 9999, want: 3},
		{name: "after contiguous block", used: []int{1, 2, 3}, lo: 1, hi: 2000, want: 4},
		{name: "gap at start", used: []int{2, 3}, lo: 1, hi: 2000, want: 1},
		{name: "duplicates", used: []int{1, 1, 2, 2}, lo: 1, hi: 10, want: 3},
		{name: "out of range ignored", used: []int{-5, 0, 1, 50}, lo: 1, hi: 10, want: 2},
		{name: "last slot", used: []int{1, 2, 3}, lo: 1, hi: 4, want: 4},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := service.Allocate(c.used, c.lo, c.hi)
			require.NoError(t, err)
			require.Equal(t, c.want, got)
		})
	}
}

func TestAllocate_Exhausted(t *testing.T) {
	_, err := service.Allocate([]int{1, 2, 3, 4}, 1, 4)
	require.ErrorIs(t, err, service.ErrIDSpaceExhausted)
	require.True(t, service.IsExhausted(err))

	_, err = service.Allocate(nil, 5, 4)
	require.ErrorIs(t, err, service.ErrIDSpaceExhausted)
}

func TestAllocate_Sequential(t *testing.T) {
	var used []int
	prev := -1
	for i := 0; i < 5; i++ {
		id, err := service.Allocate(used, 0, 9999)
		require.NoError(t, err)
		require.Greater(t, id, prev)
		used = append(used, id)
		prev = id
	}
}

func TestRanges(t *testing.T) {
	r := service.DefaultRanges()
	require.Equal(t, service.Range{Min: 0, Max: 9999}, r.Tunnel)
	require.Equal(t, service.Range{Min: 1, Max: 2000}, r.IkePolicy)
	require.Equal(t, service.Range{Min: 1, Max: 2000}, r.IpsecPolicy)

	got, err := r.For(model.SpaceIpsecPolicy)
	require.NoError(t, err)
	require.Equal(t, r.IpsecPolicy, got)

	_, err = r.For("vlan")
	require.Error(t, err)
}
