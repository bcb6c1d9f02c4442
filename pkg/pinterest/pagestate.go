package pinterest

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"pinscraper/pkg/errors"
)

// FetchPageState fetches the profile page at path and extracts the named
// resource responses from the embedded page-state payload. path is a
// username or "username/boardname" path segment.
func (c *Client) FetchPageState(ctx context.Context, path string) (*PageState, error) {
	pageURL := ProfileURL(c.baseURL, path)

	c.logger.DebugWithFields("fetching profile page", map[string]interface{}{
		"path": path,
		"url":  pageURL,
	})

	resp, err := c.Get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.Newf(errors.ErrorTypeParse, "failed to parse profile page HTML: %v", err)
	}

	sel := doc.Find("script#initial-state")
	if sel.Length() == 0 {
		return nil, errors.New(errors.ErrorTypeParse, "initial-state script not found in profile page")
	}

	var state initialState
	if err := json.Unmarshal([]byte(sel.First().Text()), &state); err != nil {
		return nil, errors.Newf(errors.ErrorTypeParse, "failed to parse initial-state payload: %v", err)
	}
	if state.ResourceResponses == nil {
		return nil, errors.New(errors.ErrorTypeParse, "initial-state payload has no resource responses")
	}

	result := &PageState{}
	for _, item := range state.ResourceResponses {
		switch item.Name {
		case userProfileBaseResource:
			result.Base = ResourceResponse{
				Status:     item.Response.Status,
				HTTPStatus: item.Response.HTTPStatus,
				Data:       item.Response.Data,
			}
		case userProfileBoardResource:
			result.Board = ResourceResponse{
				Status:     item.Response.Status,
				HTTPStatus: item.Response.HTTPStatus,
				Data:       item.Response.Data,
			}
		}

		if item.Response.Error != nil {
			msg, err := responseErrorMessage(item.Response.Error.Message)
			if err != nil {
				return nil, err
			}
			result.Err = msg
		}
	}

	return result, nil
}

// responseErrorMessage extracts the human-readable message from a
// server-reported error. The raw message has the form
// "<prefix> - <json>"; the JSON part carries a message field.
func responseErrorMessage(raw string) (string, error) {
	parts := strings.Split(raw, " - ")
	if len(parts) < 2 {
		return "", errors.Newf(errors.ErrorTypeParse, "unexpected error message format: %q", raw)
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(parts[1]), &payload); err != nil {
		return "", errors.Newf(errors.ErrorTypeParse, "failed to parse error message payload: %v", err)
	}

	return payload.Message, nil
}
