package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/ordl/internal/domain"
)

func TestDefaultCorpus(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	assert.Equal(t, 420, c.Len())
	assert.Equal(t, 70, c.TotalPuzzles())

	first := c.Events()[0]
	assert.Equal(t, "challenger", first.ID)
	assert.Equal(t, time.Date(1986, 1, 28, 0, 0, 0, 0, time.UTC), first.Date)
}

func TestParseFullDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"November 9, 1989", time.Date(1989, 11, 9, 0, 0, 0, 0, time.UTC)},
		{"Nov 9, 1989", time.Date(1989, 11, 9, 0, 0, 0, 0, time.UTC)},
		{"March 1918", time.Date(1918, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"1989-11-09", time.Date(1989, 11, 9, 0, 0, 0, 0, time.UTC)},
		{" 1969-07-20T20:17:00Z ", time.Date(1969, 7, 20, 20, 17, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := ParseFullDate(tc.in)
		require.NoError(t, err, tc.in)
		assert.True(t, tc.want.Equal(got), "%s: got %v", tc.in, got)
	}

	_, err := ParseFullDate("sometime in the eighties")
	assert.Error(t, err)
}

func sixEvents() []domain.Event {
	out := make([]domain.Event, 6)
	for i := range out {
		out[i] = domain.Event{
			ID:       string(rune('a' + i)),
			Text:     "event",
			Emoji:    "x",
			Year:     2000 + i,
			FullDate: time.Date(2000+i, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
		}
	}
	return out
}

func TestNewRejectsBadCorpora(t *testing.T) {
	t.Run("too small", func(t *testing.T) {
		_, err := New(sixEvents()[:5])
		assert.ErrorContains(t, err, "need at least 6")
	})
	t.Run("duplicate id", func(t *testing.T) {
		ev := sixEvents()
		ev[4].ID = ev[1].ID
		_, err := New(ev)
		assert.ErrorContains(t, err, "duplicate id")
	})
	t.Run("missing id", func(t *testing.T) {
		ev := sixEvents()
		ev[2].ID = ""
		_, err := New(ev)
		assert.ErrorContains(t, err, "missing id")
	})
	t.Run("bad date", func(t *testing.T) {
		ev := sixEvents()
		ev[3].FullDate = "later"
		_, err := New(ev)
		assert.ErrorContains(t, err, "unrecognised date")
	})
}

func TestNewDoesNotAliasInput(t *testing.T) {
	ev := sixEvents()
	c, err := New(ev)
	require.NoError(t, err)
	ev[0].ID = "changed"
	assert.Equal(t, "a", c.Events()[0].ID)
}

func TestTrailingEventsAreUnreachable(t *testing.T) {
	ev := append(sixEvents(), domain.Event{ID: "extra", FullDate: "2010-01-01"})
	c, err := New(ev)
	require.NoError(t, err)
	assert.Equal(t, 7, c.Len())
	assert.Equal(t, 1, c.TotalPuzzles())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	body := `[
  {"id":"a","event":"A","emoji":"1","year":1990,"fullDate":"January 1, 1990"},
  {"id":"b","event":"B","emoji":"2","year":1991,"fullDate":"January 1, 1991"},
  {"id":"c","event":"C","emoji":"3","year":1992,"fullDate":"January 1, 1992"},
  {"id":"d","event":"D","emoji":"4","year":1993,"fullDate":"January 1, 1993"},
  {"id":"e","event":"E","emoji":"5","year":1994,"fullDate":"January 1, 1994"},
  {"id":"f","event":"F","emoji":"6","year":1995,"fullDate":"January 1, 1995"}
]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	c, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 1, c.TotalPuzzles())
	assert.Equal(t, "C", c.Events()[2].Text)

	_, err = Load(strings.NewReader("{not json"))
	assert.ErrorContains(t, err, "decode corpus")
}
