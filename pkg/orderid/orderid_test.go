package orderid

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	// 1700000000.12 s → 170000000012 hundredths → last 8 digits 00000012
	ts := time.Unix(1700000000, 120_000_000)
	assert.Equal(t, "ORD00000012", Format(ts))

	ts = time.Unix(1712345678, 990_000_000)
	assert.Equal(t, "ORD34567899", Format(ts))
}

func TestFormat_AlwaysPrefixedAndFixedWidth(t *testing.T) {
	id := Format(time.Now())
	assert.True(t, strings.HasPrefix(id, Prefix))
	assert.Len(t, id, len(Prefix)+suffixDigits)
}

func TestGenerator_SkipsTakenIdentifiers(t *testing.T) {
	fixed := time.Unix(1700000000, 120_000_000)
	taken := map[string]bool{"ORD00000012": true, "ORD00000013": true}

	g := NewGenerator(func(_ context.Context, id string) (bool, error) {
		return taken[id], nil
	}).WithClock(func() time.Time { return fixed })

	id, err := g.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ORD00000014", id)
}

func TestGenerator_WrapsAroundSuffix(t *testing.T) {
	// 99999999 hundredths → next candidate wraps to 00000000
	fixed := time.Unix(0, 99_999_999*int64(10*time.Millisecond))

	g := NewGenerator(func(_ context.Context, id string) (bool, error) {
		return id == "ORD99999999", nil
	}).WithClock(func() time.Time { return fixed })

	id, err := g.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ORD00000000", id)
}

func TestGenerator_PropagatesLookupError(t *testing.T) {
	g := NewGenerator(func(context.Context, string) (bool, error) {
		return false, errors.New("db down")
	})

	_, err := g.Next(context.Background())
	assert.ErrorContains(t, err, "db down")
}

func TestGenerator_Exhausted(t *testing.T) {
	g := NewGenerator(func(context.Context, string) (bool, error) { return true, nil })

	_, err := g.Next(context.Background())
	assert.ErrorIs(t, err, ErrExhausted)
}
