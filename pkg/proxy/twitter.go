package proxy

import (
	"context"
	"fmt"
	"strings"
)

// resolveViaDownloader shells out to the media downloader binary to obtain
// a direct URL. The URL travels as one argv element behind a "--" guard,
// never through a shell, so it cannot inject options or commands.
func (c *Client) resolveViaDownloader(ctx context.Context, postURL string) (string, error) {
	args := []string{"--get-url", "--no-warnings", "--", postURL}

	res, err := c.runner.Run(ctx, c.downloader, args)
	if err != nil {
		c.logger.Error("downloader failed", "error", err)
		return "", err
	}

	for _, line := range strings.Split(res.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line, nil
		}
	}
	return "", fmt.Errorf("downloader produced no url")
}
