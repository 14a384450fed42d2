package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllIsClosedAndStable(t *testing.T) {
	first := All()
	second := All()
	require.Equal(t, first, second)

	seen := make(map[NotificationType]bool, len(first))
	for _, nt := range first {
		assert.False(t, seen[nt], "duplicate type %s", nt)
		seen[nt] = true
	}
	assert.True(t, seen[TypeItemAdded])
	assert.True(t, seen[TypeGeneric])
}

func TestParse(t *testing.T) {
	nt, ok := Parse("ItemAdded")
	require.True(t, ok)
	assert.Equal(t, TypeItemAdded, nt)

	nt, ok = Parse("AuthenticationFailure")
	require.True(t, ok)
	assert.Equal(t, TypeAuthFailure, nt)

	_, ok = Parse("NoSuchEvent")
	assert.False(t, ok)
}

func TestItemKindWireForms(t *testing.T) {
	assert.Equal(t, "MusicAlbum", KindAlbum.String())
	assert.Equal(t, "Audio", KindSong.String())
}
