package session

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	m := NewManager("secret", time.Hour)

	tok, exp, err := m.Issue(42)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	id, err := m.ProfileID(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestParse_WrongSecret(t *testing.T) {
	tok, _, err := NewManager("one", time.Hour).Issue(1)
	require.NoError(t, err)

	_, err = NewManager("two", time.Hour).ProfileID(tok)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestParse_Expired(t *testing.T) {
	m := NewManager("secret", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, _, err := m.Issue(3)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ProfileID(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssue_UniqueTokenIDs(t *testing.T) {
	m := NewManager("secret", time.Hour)
	a, _, _ := m.Issue(1)
	b, _, _ := m.Issue(1)
	assert.NotEqual(t, a, b)
}

func TestParse_Garbage(t *testing.T) {
	_, err := NewManager("secret", time.Hour).ProfileID("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
