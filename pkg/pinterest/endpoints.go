package pinterest

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

const (
	// BaseURL is the default Pinterest host
	BaseURL = "https://pinterest.com"

	// BoardFeedEndpoint is the endpoint pattern for board feed pages
	BoardFeedEndpoint = "/resource/BoardFeedResource/get/"

	// BookmarkEnd is the sentinel bookmark that terminates pagination
	BookmarkEnd = "-end-"

	// DefaultPageSize is the number of pins requested per feed page
	DefaultPageSize = 25

	// Resource names carried by the embedded page-state payload
	userProfileBaseResource  = "UserProfileBaseResource"
	userProfileBoardResource = "UserProfileBoardResource"
)

// feedRequestOptions is the options object of a feed request. Bookmarks
// is included only once a cursor has been obtained from a prior response.
type feedRequestOptions struct {
	BoardID   string   `json:"board_id"`
	PageSize  int      `json:"page_size"`
	Bookmarks []string `json:"bookmarks,omitempty"`
}

// feedRequestData is the JSON-encoded data query parameter
type feedRequestData struct {
	Options feedRequestOptions `json:"options"`
	Context struct{}           `json:"context"`
}

// ProfileURL constructs the URL for a user's profile (or board) page
func ProfileURL(host, path string) string {
	return fmt.Sprintf("%s/%s/", host, path)
}

// BoardFeedURL constructs the URL for one board feed page. The board URL
// is passed through verbatim as the source_url parameter.
func BoardFeedURL(host string, board Board, bookmark string, pageSize int) (string, error) {
	options := feedRequestOptions{
		BoardID:  board.ID,
		PageSize: pageSize,
	}
	if bookmark != "" {
		options.Bookmarks = []string{bookmark}
	}

	data, err := json.Marshal(feedRequestData{Options: options})
	if err != nil {
		return "", fmt.Errorf("failed to encode feed request data: %w", err)
	}

	params := url.Values{}
	params.Set("source_url", board.URL)
	params.Set("data", string(data))

	return fmt.Sprintf("%s%s?%s", host, BoardFeedEndpoint, params.Encode()), nil
}

// SanitizePath normalizes the user-supplied profile path by stripping
// leading and trailing slashes
func SanitizePath(path string) string {
	return strings.Trim(strings.TrimSpace(path), "/")
}
