package scraper

import (
	"context"
	"net/http"

	"pinscraper/pkg/pinterest"
)

// BoardClient is the subset of the Pinterest client the orchestrator
// needs. Declared here so tests can substitute a fake.
type BoardClient interface {
	// UserBoards resolves a username into the user's boards
	UserBoards(ctx context.Context, username string) ([]pinterest.Board, error)

	// BoardFeed collects all raw pins of a board
	BoardFeed(ctx context.Context, board pinterest.Board) ([]pinterest.Pin, error)

	// Download performs a streaming GET for a media or segment URL
	Download(ctx context.Context, url string) (*http.Response, error)
}
