// Package hls resolves adaptive-streaming playlists into ordered
// segment URL lists.
package hls

import (
	"bufio"
	"context"
	"net/http"
	"strings"

	"pinscraper/pkg/errors"
	"pinscraper/pkg/logger"
)

const (
	// variantSuffix marks lines referencing a variant sub-playlist
	variantSuffix = "m3u8"
	// segmentSuffix marks lines referencing a media segment
	segmentSuffix = "ts"
)

// Getter issues a streaming GET and returns the response with an open body
type Getter interface {
	Download(ctx context.Context, url string) (*http.Response, error)
}

// Resolver expands a playlist URL into the segment URLs of its
// best-quality variant
type Resolver struct {
	client Getter
	logger logger.Logger
}

// NewResolver creates a playlist resolver
func NewResolver(client Getter, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Resolver{client: client, logger: log}
}

// SegmentURLs fetches the playlist at playlistURL, selects the variant
// sub-playlist (the last variant line wins; variants are listed in
// ascending quality), fetches it, and returns the segment URLs in
// encounter order. An empty result is valid and means there is nothing
// to download.
func (r *Resolver) SegmentURLs(ctx context.Context, playlistURL string) ([]string, error) {
	variant, err := r.selectVariant(ctx, playlistURL)
	if err != nil {
		return nil, err
	}

	variantURL := replaceLastSegment(playlistURL, variant)

	r.logger.DebugWithFields("selected variant playlist", map[string]interface{}{
		"playlist": playlistURL,
		"variant":  variantURL,
	})

	return r.collectSegments(ctx, variantURL)
}

// selectVariant scans the primary manifest and keeps the last line that
// references a variant sub-playlist
func (r *Resolver) selectVariant(ctx context.Context, playlistURL string) (string, error) {
	resp, err := r.client.Download(ctx, playlistURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	variant := ""
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || !strings.HasSuffix(line, variantSuffix) {
			continue
		}
		variant = line
	}
	if err := scanner.Err(); err != nil {
		return "", errors.Newf(errors.ErrorTypeNetwork, "failed to read playlist: %v", err)
	}

	if variant == "" {
		return "", errors.Newf(errors.ErrorTypeParse, "no variant playlist found in %s", playlistURL)
	}

	return variant, nil
}

// collectSegments scans a variant playlist and builds the segment URLs
// in encounter order
func (r *Resolver) collectSegments(ctx context.Context, variantURL string) ([]string, error) {
	resp, err := r.client.Download(ctx, variantURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var segments []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || !strings.HasSuffix(line, segmentSuffix) {
			continue
		}
		segments = append(segments, replaceLastSegment(variantURL, line))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Newf(errors.ErrorTypeNetwork, "failed to read variant playlist: %v", err)
	}

	return segments, nil
}

// replaceLastSegment swaps the final path segment of u for name
func replaceLastSegment(u, name string) string {
	parts := strings.Split(u, "/")
	parts[len(parts)-1] = name
	return strings.Join(parts, "/")
}
