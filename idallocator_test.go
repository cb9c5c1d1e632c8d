package unc17

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewIDCreatorCountersStartAtOne(t *testing.T) {
	c := NewIDCreator()
	for _, ns := range []IDNamespace{NamespaceItem, NamespaceTrack, NamespaceEntityGroup} {
		id, err := c.NewID(ns)
		require.NoError(t, err)
		require.EqualValues(t, 1, id)
	}
}

func TestNewIDPerNamespaceCountersAreIndependentAndMonotonic(t *testing.T) {
	c := NewIDCreator()
	a1, err := c.NewID(NamespaceItem)
	require.NoError(t, err)
	a2, err := c.NewID(NamespaceItem)
	require.NoError(t, err)
	a3, err := c.NewID(NamespaceItem)
	require.NoError(t, err)
	require.Equal(t, []uint32{1, 2, 3}, []uint32{a1, a2, a3})

	trackID, err := c.NewID(NamespaceTrack)
	require.NoError(t, err)
	require.EqualValues(t, 1, trackID)
}

func TestSetUnifiedSharesOneCounterAcrossNamespaces(t *testing.T) {
	c := NewIDCreator()
	_, err := c.NewID(NamespaceItem)
	require.NoError(t, err)
	_, err = c.NewID(NamespaceItem)
	require.NoError(t, err)
	_, err = c.NewID(NamespaceItem)
	require.NoError(t, err)

	// Switching to unified mode starts the shared counter fresh at 1; it
	// does not inherit the item namespace's running value (3 calls in).
	c.SetUnified(true)
	track, err := c.NewID(NamespaceTrack)
	require.NoError(t, err)
	require.EqualValues(t, 1, track)

	group, err := c.NewID(NamespaceEntityGroup)
	require.NoError(t, err)
	require.EqualValues(t, 2, group)
}

func TestSetUnifiedFalseResumesPerNamespaceCountersUntouched(t *testing.T) {
	c := NewIDCreator()
	_, err := c.NewID(NamespaceItem)
	require.NoError(t, err)
	_, err = c.NewID(NamespaceItem)
	require.NoError(t, err)

	c.SetUnified(true)
	_, err = c.NewID(NamespaceTrack)
	require.NoError(t, err)

	c.SetUnified(false)
	item, err := c.NewID(NamespaceItem)
	require.NoError(t, err)
	require.EqualValues(t, 3, item)
}

func TestNewIDUnifiedOverflowReturnsUsageError(t *testing.T) {
	c := NewIDCreator()
	c.SetUnified(true)
	c.global = 0
	_, err := c.NewID(NamespaceItem)
	require.Error(t, err)
	idErr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, KindUsage, idErr.Kind)
	require.Equal(t, "ID namespace overflow", idErr.Message)
}

func TestNewIDOverflowReturnsUsageError(t *testing.T) {
	c := NewIDCreator()
	c.counters[NamespaceItem] = 0
	_, err := c.NewID(NamespaceItem)
	require.Error(t, err)
	idErr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, KindUsage, idErr.Kind)
	require.Equal(t, "ID namespace overflow", idErr.Message)
}
