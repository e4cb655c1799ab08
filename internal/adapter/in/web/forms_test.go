package web

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParsePostForm(t *testing.T) {
	t.Parallel()

	t.Run("full form", func(t *testing.T) {
		t.Parallel()

		req, verr := parsePostForm(url.Values{
			"title":        {"Title"},
			"text":         {"Body"},
			"pub_date":     {"2024-05-01T10:30"},
			"category":     {"3"},
			"location":     {"7"},
			"is_published": {"on"},
		})
		require.Nil(t, verr)
		require.Equal(t, "Title", req.Title)
		require.Equal(t, "Body", req.Text)
		require.Equal(t, time.Date(2024, 5, 1, 10, 30, 0, 0, time.Local), req.PubDate)
		require.Equal(t, int64(3), req.CategoryID)
		require.NotNil(t, req.LocationID)
		require.Equal(t, int64(7), *req.LocationID)
		require.True(t, req.IsPublished)
	})

	t.Run("optional fields empty", func(t *testing.T) {
		t.Parallel()

		req, verr := parsePostForm(url.Values{"title": {"Title"}, "category": {"3"}})
		require.Nil(t, verr)
		require.True(t, req.PubDate.IsZero())
		require.Nil(t, req.LocationID)
		require.False(t, req.IsPublished)
	})

	t.Run("malformed values", func(t *testing.T) {
		t.Parallel()

		_, verr := parsePostForm(url.Values{
			"pub_date": {"yesterday"},
			"category": {"abc"},
			"location": {"?"},
		})
		require.NotNil(t, verr)
		require.Contains(t, verr.Fields, "pub_date")
		require.Contains(t, verr.Fields, "category")
		require.Contains(t, verr.Fields, "location")
	})
}

func TestSafeNext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		next string
		want string
	}{
		{next: "", want: "/"},
		{next: "/posts/1", want: "/posts/1"},
		{next: "/?page=2", want: "/?page=2"},
		{next: "https://example.com", want: "/"},
		{next: "//example.com", want: "/"},
		{next: `/\example.com`, want: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.next, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, safeNext(tt.next))
		})
	}
}
