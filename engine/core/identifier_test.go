package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifierAcquireIsUnique(t *testing.T) {
	a := IdentifierAcquireNewID("a")
	b := IdentifierAcquireNewID("b")
	assert.NotEqual(t, a, b)

	require.NoError(t, IdentifierReleaseID(a))
	require.NoError(t, IdentifierReleaseID(b))
}

func TestIdentifierReleaseRecyclesSlot(t *testing.T) {
	a := IdentifierAcquireNewID("a")
	b := IdentifierAcquireNewID("b")

	require.NoError(t, IdentifierReleaseID(a))
	c := IdentifierAcquireNewID("c")
	assert.Equal(t, a, c, "released slot should be reused before growing")

	require.NoError(t, IdentifierReleaseID(b))
	require.NoError(t, IdentifierReleaseID(c))
}

func TestIdentifierReleaseRejectsBadIDs(t *testing.T) {
	a := IdentifierAcquireNewID("a")

	assert.Error(t, IdentifierReleaseID(a+1000))

	require.NoError(t, IdentifierReleaseID(a))
	assert.Error(t, IdentifierReleaseID(a), "double release should fail")
}
