package pinterest

import (
	"context"

	"pinscraper/pkg/errors"
)

// BoardFeed collects all raw pins of a board by paginating the feed API
// with a bookmark cursor until the end sentinel is returned. The board
// URL is reused verbatim as the source_url parameter of every request.
func (c *Client) BoardFeed(ctx context.Context, board Board) ([]Pin, error) {
	var pins []Pin
	bookmark := ""

	for page := 0; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if page >= c.maxPages {
			return nil, errors.Newf(errors.ErrorTypeProtocol,
				"feed for board %s did not terminate after %d pages", board.ID, c.maxPages)
		}

		feedURL, err := BoardFeedURL(c.baseURL, board, bookmark, c.pageSize)
		if err != nil {
			return nil, err
		}

		var resp feedResponse
		if err := c.GetJSON(ctx, feedURL, &resp); err != nil {
			return nil, err
		}

		pins = append(pins, resp.ResourceResponse.Data...)

		if len(resp.Resource.Options.Bookmarks) == 0 {
			return nil, errors.New(errors.ErrorTypeProtocol,
				"feed response is missing the bookmark cursor")
		}
		bookmark = resp.Resource.Options.Bookmarks[0]

		c.logger.DebugWithFields("fetched feed page", map[string]interface{}{
			"board_id": board.ID,
			"page":     page + 1,
			"pins":     len(resp.ResourceResponse.Data),
			"bookmark": bookmark,
		})

		if bookmark == BookmarkEnd {
			break
		}
	}

	c.logger.InfoWithFields("board feed collected", map[string]interface{}{
		"board_id": board.ID,
		"board":    board.Name,
		"pins":     len(pins),
	})

	return pins, nil
}
