package proxy

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Platform identifies one supported social media source.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformFacebook  Platform = "facebook"
	PlatformTwitter   Platform = "twitter"
)

// ParsePlatform normalizes a path segment into a Platform.
func ParsePlatform(raw string) (Platform, error) {
	switch Platform(strings.ToLower(strings.TrimSpace(raw))) {
	case PlatformInstagram:
		return PlatformInstagram, nil
	case PlatformTikTok:
		return PlatformTikTok, nil
	case PlatformFacebook:
		return PlatformFacebook, nil
	case PlatformTwitter:
		return PlatformTwitter, nil
	default:
		return "", fmt.Errorf("unsupported platform %q", raw)
	}
}

// mirrorField is the single JSON field each scraping mirror exposes the
// direct media URL under.
var mirrorField = map[Platform]string{
	PlatformInstagram: "media",
	PlatformTikTok:    "play",
	PlatformFacebook:  "url",
}

func (c *Client) mirrorEndpoint(platform Platform) string {
	switch platform {
	case PlatformInstagram:
		return c.endpoints.Instagram
	case PlatformTikTok:
		return c.endpoints.TikTok
	case PlatformFacebook:
		return c.endpoints.Facebook
	default:
		return ""
	}
}

// ResolveMedia returns the direct media URL for a post on the given
// platform. Instagram, TikTok and Facebook go through scraping mirrors;
// Twitter spawns the external downloader binary instead.
func (c *Client) ResolveMedia(ctx context.Context, platform Platform, postURL string) (string, error) {
	if err := ValidateMediaURL(postURL); err != nil {
		return "", err
	}

	if platform == PlatformTwitter {
		return c.resolveViaDownloader(ctx, postURL)
	}

	endpoint := c.mirrorEndpoint(platform)
	if endpoint == "" {
		return "", fmt.Errorf("unsupported platform %q", platform)
	}

	var payload map[string]interface{}
	if err := c.getJSON(ctx, endpoint, url.Values{"url": {postURL}}, &payload); err != nil {
		c.logger.Error("media resolve failed", "platform", platform, "error", err)
		return "", err
	}

	media, _ := payload[mirrorField[platform]].(string)
	if media == "" {
		return "", fmt.Errorf("no media url in %s response", platform)
	}
	return media, nil
}
