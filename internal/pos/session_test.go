package pos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	cat, rates, _ := newFixture()
	m := NewManager(cat, rates, "TILL-TEST")

	session := m.Open("cashier1")
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "cashier1", session.CreatedBy)
	assert.Equal(t, "TILL-TEST", session.Terminal)
	require.NotNil(t, session.Cart)

	got, ok := m.Get(session.Token)
	require.True(t, ok)
	assert.Same(t, session, got)

	m.Close(session.Token)
	_, ok = m.Get(session.Token)
	assert.False(t, ok)
}

func TestSessionTokensAreUnique(t *testing.T) {
	cat, rates, _ := newFixture()
	m := NewManager(cat, rates, "TILL-TEST")

	a := m.Open("cashier1")
	b := m.Open("cashier1")
	assert.NotEqual(t, a.Token, b.Token)
}

func TestPurgeIdle(t *testing.T) {
	cat, rates, _ := newFixture()
	m := NewManager(cat, rates, "TILL-TEST")

	stale := m.Open("cashier1")
	fresh := m.Open("cashier2")
	stale.LastSeen = time.Now().Add(-time.Hour)

	assert.Equal(t, 1, m.PurgeIdle(30*time.Minute))

	_, ok := m.Get(stale.Token)
	assert.False(t, ok)
	_, ok = m.Get(fresh.Token)
	assert.True(t, ok)
}
