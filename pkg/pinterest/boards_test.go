package pinterest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinscraper/pkg/errors"
)

func TestUserBoards(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, profilePage(boardState))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	boards, err := client.UserBoards(context.Background(), "johndoe")

	require.NoError(t, err)
	require.Len(t, boards, 2)
	assert.Equal(t, Board{ID: "b1", URL: "johndoe/art", Owner: "johndoe", Name: "art"}, boards[0])
	assert.Equal(t, Board{ID: "b2", URL: "johndoe/travel", Owner: "johndoe", Name: "travel"}, boards[1])
}

func TestUserBoardsServerReportedError(t *testing.T) {
	state := `{
		"resourceResponses": [
			{
				"name": "UserProfileBaseResource",
				"response": {
					"status": "failure",
					"http_status": 404,
					"data": null,
					"error": {"message": "API ERROR - {\"message\": \"User not found.\"}"}
				}
			}
		]
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, profilePage(state))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.UserBoards(context.Background(), "nosuchuser")

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUserBoard))
	assert.Contains(t, err.Error(), "User not found.")
}

func TestUserBoardsEmptyList(t *testing.T) {
	state := `{
		"resourceResponses": [
			{
				"name": "UserProfileBoardResource",
				"response": {"status": "success", "http_status": 200, "data": []}
			}
		]
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, profilePage(state))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.UserBoards(context.Background(), "johndoe")

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUserBoard))
	assert.Contains(t, err.Error(), "User does not have any boards")
}

func TestUserBoardsWrongShape(t *testing.T) {
	state := `{
		"resourceResponses": [
			{
				"name": "UserProfileBoardResource",
				"response": {"status": "success", "http_status": 200, "data": {"unexpected": "object"}}
			}
		]
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, profilePage(state))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.UserBoards(context.Background(), "johndoe")

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestUserBoardsNullData(t *testing.T) {
	// A null data slot must not read as "user without boards"
	state := `{
		"resourceResponses": [
			{
				"name": "UserProfileBoardResource",
				"response": {"status": "success", "http_status": 200, "data": null}
			}
		]
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, profilePage(state))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.UserBoards(context.Background(), "johndoe")

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestParseBoardDataRejectsNonList(t *testing.T) {
	for _, data := range []json.RawMessage{nil, []byte("null"), []byte(`{"unexpected": "object"}`), []byte(`"text"`)} {
		_, err := parseBoardData(data)
		require.Error(t, err, "data %q", data)
		assert.True(t, errors.IsType(err, errors.ErrorTypeValidation), "data %q", data)
	}
}

func TestParseBoardDataMapsAllRecords(t *testing.T) {
	records := []map[string]interface{}{
		{"id": "1", "url": "alice/one", "name": "one", "owner": map[string]string{"username": "alice"}},
		{"id": "2", "url": "alice/two", "name": "two", "owner": map[string]string{"username": "alice"}},
		{"id": "3", "url": "alice/three", "name": "three", "owner": map[string]string{"username": "alice"}},
	}
	data, err := json.Marshal(records)
	require.NoError(t, err)

	boards, err := parseBoardData(data)

	require.NoError(t, err)
	require.Len(t, boards, len(records))
	for i, board := range boards {
		assert.Equal(t, records[i]["id"], board.ID)
		assert.Equal(t, records[i]["url"], board.URL)
		assert.Equal(t, records[i]["name"], board.Name)
		assert.Equal(t, "alice", board.Owner)
	}
}
