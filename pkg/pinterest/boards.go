package pinterest

import (
	"context"
	"encoding/json"

	"pinscraper/pkg/errors"
)

// UserBoards resolves a username into the user's boards. It fails with a
// user_board error if the page reports an error or the user has no
// boards, and with a validation error if the board data has the wrong
// shape.
func (c *Client) UserBoards(ctx context.Context, username string) ([]Board, error) {
	state, err := c.FetchPageState(ctx, username)
	if err != nil {
		return nil, err
	}

	if state.Err != "" {
		return nil, errors.New(errors.ErrorTypeUserBoard, state.Err)
	}

	boards, err := parseBoardData(state.Board.Data)
	if err != nil {
		return nil, err
	}

	if len(boards) == 0 {
		return nil, errors.New(errors.ErrorTypeUserBoard, "User does not have any boards")
	}

	c.logger.InfoWithFields("resolved user boards", map[string]interface{}{
		"username": username,
		"boards":   len(boards),
	})

	return boards, nil
}

// parseBoardData maps the raw board resource data to Board records. An
// absent or null data slot is rejected like any other non-list shape;
// json.Unmarshal would otherwise accept null into the slice and make a
// missing payload indistinguishable from a user without boards.
func parseBoardData(data json.RawMessage) ([]Board, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, errors.New(errors.ErrorTypeValidation, "board data is not a list")
	}

	var records []boardRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.New(errors.ErrorTypeValidation, "board data is not a list")
	}

	boards := make([]Board, 0, len(records))
	for _, record := range records {
		boards = append(boards, Board{
			ID:    record.ID,
			URL:   record.URL,
			Owner: record.Owner.Username,
			Name:  record.Name,
		})
	}

	return boards, nil
}
