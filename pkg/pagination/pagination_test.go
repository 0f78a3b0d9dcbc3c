package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-3))
	assert.Equal(t, 10, NormalizeLimit(10))
	assert.Equal(t, MaxLimit, NormalizeLimit(MaxLimit+50))
	assert.Equal(t, 11, LimitWithBuffer(10))
}

func TestCursorRoundTrip(t *testing.T) {
	at := time.Date(2025, 11, 2, 9, 30, 15, 500, time.FixedZone("GST", 4*3600))
	id := uuid.New()

	decoded, err := ParseCursor(EncodeCursor(Cursor{At: at, ID: id}))
	require.NoError(t, err)
	require.NotNil(t, decoded)
	assert.True(t, decoded.At.Equal(at))
	assert.Equal(t, id, decoded.ID)
}

func TestParseCursorEmptyAndInvalid(t *testing.T) {
	cursor, err := ParseCursor("  ")
	require.NoError(t, err)
	assert.Nil(t, cursor)

	_, err = ParseCursor("not base64!")
	assert.Error(t, err)

	_, err = ParseCursor(base64.RawURLEncoding.EncodeToString([]byte("plain-text")))
	assert.Error(t, err)

	_, err = ParseCursor(base64.RawURLEncoding.EncodeToString([]byte(`{"t":"2025-11-02T09:00:00Z"}`)))
	assert.Error(t, err)
}

type row struct {
	at time.Time
	id uuid.UUID
}

func TestPage(t *testing.T) {
	base := time.Date(2025, 11, 2, 9, 0, 0, 0, time.UTC)
	rows := make([]row, 4)
	for i := range rows {
		rows[i] = row{at: base.Add(-time.Duration(i) * time.Minute), id: uuid.New()}
	}
	key := func(r row) Cursor { return Cursor{At: r.at, ID: r.id} }

	kept, next := Page(rows, 3, key)
	require.Len(t, kept, 3)
	c, err := ParseCursor(next)
	require.NoError(t, err)
	assert.Equal(t, rows[2].id, c.ID)

	kept, next = Page(rows[:2], 3, key)
	assert.Len(t, kept, 2)
	assert.Empty(t, next)
}
