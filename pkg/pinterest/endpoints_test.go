package pinterest

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileURL(t *testing.T) {
	assert.Equal(t, "https://pinterest.com/johndoe/", ProfileURL(BaseURL, "johndoe"))
	assert.Equal(t, "https://pinterest.com/johndoe/art/", ProfileURL(BaseURL, "johndoe/art"))
}

func TestBoardFeedURL(t *testing.T) {
	board := Board{ID: "b1", URL: "johndoe/art", Owner: "johndoe", Name: "art"}

	feedURL, err := BoardFeedURL(BaseURL, board, "", 25)
	require.NoError(t, err)

	parsed, err := url.Parse(feedURL)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(feedURL, BaseURL+BoardFeedEndpoint))
	assert.Equal(t, "johndoe/art", parsed.Query().Get("source_url"))

	var data struct {
		Options struct {
			BoardID   string   `json:"board_id"`
			PageSize  int      `json:"page_size"`
			Bookmarks []string `json:"bookmarks"`
		} `json:"options"`
		Context map[string]interface{} `json:"context"`
	}
	require.NoError(t, json.Unmarshal([]byte(parsed.Query().Get("data")), &data))
	assert.Equal(t, "b1", data.Options.BoardID)
	assert.Equal(t, 25, data.Options.PageSize)
	assert.Nil(t, data.Options.Bookmarks)
	assert.NotNil(t, data.Context)
}

func TestBoardFeedURLWithBookmark(t *testing.T) {
	board := Board{ID: "b1", URL: "johndoe/art"}

	feedURL, err := BoardFeedURL(BaseURL, board, "cursor-1", 25)
	require.NoError(t, err)

	parsed, err := url.Parse(feedURL)
	require.NoError(t, err)

	var data struct {
		Options struct {
			Bookmarks []string `json:"bookmarks"`
		} `json:"options"`
	}
	require.NoError(t, json.Unmarshal([]byte(parsed.Query().Get("data")), &data))
	assert.Equal(t, []string{"cursor-1"}, data.Options.Bookmarks)
}

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"johndoe", "johndoe"},
		{"/johndoe/", "johndoe"},
		{"  /johndoe ", "johndoe"},
		{"johndoe/art/", "johndoe/art"},
		{"///", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizePath(tt.in), "input %q", tt.in)
	}
}
