package proxy

import (
	"context"
	"net/url"
)

// qualityLadder is the fixed set of qualities reported per video, lowest
// first. Missing rungs relay as null.
var qualityLadder = []string{"144p", "240p", "360p", "480p", "720p", "1080p"}

// VideoInfo is the public shape of a resolved video.
type VideoInfo struct {
	Title     string             `json:"title"`
	Thumbnail string             `json:"thumbnail"`
	Links     map[string]*string `json:"links"`
}

// ResolveYouTube asks the resolver mirror for a video's metadata and
// download links, normalized onto the fixed quality ladder.
func (c *Client) ResolveYouTube(ctx context.Context, videoURL string) (*VideoInfo, error) {
	if err := ValidateMediaURL(videoURL); err != nil {
		return nil, err
	}

	var upstream struct {
		Title     string `json:"title"`
		Thumbnail string `json:"thumbnail"`
		Formats   []struct {
			Quality string `json:"quality"`
			URL     string `json:"url"`
		} `json:"formats"`
	}
	if err := c.getJSON(ctx, c.endpoints.YouTube, url.Values{"url": {videoURL}}, &upstream); err != nil {
		c.logger.Error("youtube resolve failed", "error", err)
		return nil, err
	}

	info := &VideoInfo{
		Title:     upstream.Title,
		Thumbnail: upstream.Thumbnail,
		Links:     make(map[string]*string, len(qualityLadder)),
	}
	for _, q := range qualityLadder {
		info.Links[q] = nil
	}
	for _, f := range upstream.Formats {
		if _, ok := info.Links[f.Quality]; ok && f.URL != "" {
			u := f.URL
			info.Links[f.Quality] = &u
		}
	}
	return info, nil
}
