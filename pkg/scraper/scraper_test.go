package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinscraper/pkg/config"
	"pinscraper/pkg/pinterest"
	"pinscraper/pkg/ui"
)

func TestMain(m *testing.M) {
	ui.SetQuietMode(true)
	os.Exit(m.Run())
}

// boardServer simulates the full scrape surface: profile page, board
// feed, image file, HLS playlists and segments. mediaRequests counts
// only media fetches, not discovery traffic.
type boardServer struct {
	*httptest.Server
	mediaRequests int32
}

func newBoardServer(t *testing.T) *boardServer {
	t.Helper()

	bs := &boardServer{}
	bs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/johndoe/":
			state := `{
				"resourceResponses": [
					{"name": "UserProfileBaseResource", "response": {"status": "success", "http_status": 200, "data": {}}},
					{"name": "UserProfileBoardResource", "response": {"status": "success", "http_status": 200, "data": [
						{"id": "b1", "url": "johndoe/art", "name": "art", "owner": {"username": "johndoe"}}
					]}}
				]
			}`
			fmt.Fprintf(w,
				`<html><body><script id="initial-state" type="application/json">%s</script></body></html>`,
				state)

		case r.URL.Path == pinterest.BoardFeedEndpoint:
			fmt.Fprintf(w, `{
				"resource_response": {"data": [
					{"id": "p1", "images": {"orig": {"url": "%[1]s/media/p1.jpg"}}, "videos": null},
					{"id": "p2", "images": {"orig": {"url": "%[1]s/media/p2.jpg"}}, "videos": {"video_list": {"V_HLSV4": {"url": "%[1]s/v/index.m3u8"}}}}
				]},
				"resource": {"options": {"bookmarks": ["%[2]s"]}}
			}`, bs.URL, pinterest.BookmarkEnd)

		case r.URL.Path == "/media/p1.jpg":
			atomic.AddInt32(&bs.mediaRequests, 1)
			fmt.Fprint(w, "image-bytes")

		case r.URL.Path == "/v/index.m3u8":
			atomic.AddInt32(&bs.mediaRequests, 1)
			fmt.Fprint(w, "#EXTM3U\n#EXT-X-STREAM-INF:BANDWIDTH=400000\n360p.m3u8\n#EXT-X-STREAM-INF:BANDWIDTH=1200000\n720p.m3u8")

		case r.URL.Path == "/v/720p.m3u8":
			atomic.AddInt32(&bs.mediaRequests, 1)
			fmt.Fprint(w, "#EXTM3U\n#EXTINF:4.0,\nseg0.ts\n#EXTINF:4.0,\nseg1.ts\n#EXT-X-ENDLIST")

		case strings.HasPrefix(r.URL.Path, "/v/seg"):
			atomic.AddInt32(&bs.mediaRequests, 1)
			fmt.Fprint(w, strings.TrimSuffix(filepath.Base(r.URL.Path), ".ts")+"|")

		default:
			t.Errorf("unexpected request %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))

	return bs
}

func newTestScraper(host, saveFolder string) *Scraper {
	cfg := config.DefaultConfig()
	cfg.Pinterest.Host = host
	cfg.Output.SaveFolder = saveFolder
	cfg.Download.ConcurrentDownloads = 2
	return New(cfg)
}

func TestDownloadAll(t *testing.T) {
	server := newBoardServer(t)
	defer server.Close()

	saveFolder := t.TempDir()
	s := newTestScraper(server.URL, saveFolder)

	summary, err := s.DownloadAll(context.Background(), "johndoe")
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Boards)
	assert.Equal(t, 2, summary.Downloaded)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)

	image, err := os.ReadFile(filepath.Join(saveFolder, "johndoe", "art", "p1.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(image))

	// The classifier routes p2 to the video path, so only its playlist
	// is fetched and the segments land concatenated in order
	video, err := os.ReadFile(filepath.Join(saveFolder, "johndoe", "art", "p2.ts"))
	require.NoError(t, err)
	assert.Equal(t, "seg0|seg1|", string(video))

	_, err = os.Stat(filepath.Join(saveFolder, "johndoe", "art", "p2.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestDownloadAllSecondRunSkips(t *testing.T) {
	server := newBoardServer(t)
	defer server.Close()

	saveFolder := t.TempDir()
	s := newTestScraper(server.URL, saveFolder)

	_, err := s.DownloadAll(context.Background(), "johndoe")
	require.NoError(t, err)

	atomic.StoreInt32(&server.mediaRequests, 0)

	summary, err := s.DownloadAll(context.Background(), "johndoe")
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Downloaded)
	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, int32(0), atomic.LoadInt32(&server.mediaRequests),
		"a repeated run over existing files must not fetch media")
}

func TestDownloadAllForceRefetches(t *testing.T) {
	server := newBoardServer(t)
	defer server.Close()

	saveFolder := t.TempDir()
	s := newTestScraper(server.URL, saveFolder)

	_, err := s.DownloadAll(context.Background(), "johndoe")
	require.NoError(t, err)

	s.config.Output.Force = true
	summary, err := s.DownloadAll(context.Background(), "johndoe")
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Downloaded)
	assert.Equal(t, 0, summary.Skipped)

	// Force restarts the segment file instead of appending to it
	video, err := os.ReadFile(filepath.Join(saveFolder, "johndoe", "art", "p2.ts"))
	require.NoError(t, err)
	assert.Equal(t, "seg0|seg1|", string(video))
}

func TestDownloadAllCountsFailures(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/johndoe/":
			state := `{
				"resourceResponses": [
					{"name": "UserProfileBaseResource", "response": {"status": "success", "http_status": 200, "data": {}}},
					{"name": "UserProfileBoardResource", "response": {"status": "success", "http_status": 200, "data": [
						{"id": "b1", "url": "johndoe/art", "name": "art", "owner": {"username": "johndoe"}}
					]}}
				]
			}`
			fmt.Fprintf(w,
				`<html><body><script id="initial-state" type="application/json">%s</script></body></html>`,
				state)
		case pinterest.BoardFeedEndpoint:
			fmt.Fprintf(w, `{
				"resource_response": {"data": [
					{"id": "p1", "images": {"orig": {"url": "%[1]s/media/p1.jpg"}}, "videos": null},
					{"id": "p2", "images": {"orig": {"url": "%[1]s/media/gone.jpg"}}, "videos": null}
				]},
				"resource": {"options": {"bookmarks": ["%[2]s"]}}
			}`, server.URL, pinterest.BookmarkEnd)
		case "/media/p1.jpg":
			fmt.Fprint(w, "ok")
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	saveFolder := t.TempDir()
	s := newTestScraper(server.URL, saveFolder)

	summary, err := s.DownloadAll(context.Background(), "johndoe")
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Downloaded)
	assert.Equal(t, 1, summary.Failed)
}

func TestDownloadAllUnknownUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state := `{
			"resourceResponses": [
				{"name": "UserProfileBaseResource", "response": {
					"status": "failure", "http_status": 404, "data": null,
					"error": {"message": "API ERROR - {\"message\": \"User not found.\"}"}
				}}
			]
		}`
		fmt.Fprintf(w,
			`<html><body><script id="initial-state" type="application/json">%s</script></body></html>`,
			state)
	}))
	defer server.Close()

	s := newTestScraper(server.URL, t.TempDir())

	_, err := s.DownloadAll(context.Background(), "nosuchuser")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "User not found.")
}

func TestFilename(t *testing.T) {
	image := pinterest.Resource{Kind: pinterest.KindImage, ID: "p1", SourceURL: "https://cdn/x/p1_orig.png"}
	assert.Equal(t, "p1.png", Filename(image))

	video := pinterest.Resource{Kind: pinterest.KindVideo, ID: "p2", SourceURL: "https://cdn/v/index.m3u8"}
	assert.Equal(t, "p2.ts", Filename(video))
}
