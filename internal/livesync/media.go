package livesync

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
)

// categoryPathSuffix maps a media category to the URL path suffix the
// Skype API expects appended before the content can be fetched.
var categoryPathSuffix = map[string]string{
	"":      "/views/imgpsh_fullsize",
	"image": "/views/imgpsh_fullsize",
	"audio": "/views/audio",
	"video": "/views/video",
}

// cacheDirTag is the marker file that lets external tools (and humans)
// recognize a directory as a disposable cache, per the CACHEDIR.TAG
// convention.
const cacheDirTag = "Signature: 8a477f597d28d172789f06886806bc55\n" +
	"# This file is a cache directory tag created by skyperious.\n" +
	"# For information about cache directory tags see https://bford.info/cachedir/\n"

// GetAPIContent fetches url (after appending the category-specific path
// suffix), consulting cacheDir first if non-empty, and persists the
// result to cacheDir on a cache miss, writing a CACHEDIR.TAG marker the
// first time the directory is used.
func (e *Engine) GetAPIContent(ctx context.Context, rawURL, category, cacheDir string) ([]byte, error) {
	fullURL := rawURL + categoryPathSuffix[category]

	if cacheDir != "" {
		if data, ok := readCache(cacheDir, fullURL); ok {
			return data, nil
		}
	}

	var body []byte
	err := e.call(ctx, func() error {
		data, status, innerErr := e.Client.Get(ctx, fullURL)
		if innerErr != nil {
			return innerErr
		}
		if status == 429 {
			return &HTTPStatusError{StatusCode: status, Err: errHTTPRateLimited}
		}
		body = data
		return nil
	})
	if err != nil {
		return nil, err
	}

	if cacheDir != "" {
		writeCache(cacheDir, fullURL, body)
	}
	return body, nil
}

var errHTTPRateLimited = httpError("rate limited")

type httpError string

func (e httpError) Error() string { return string(e) }

func cacheFilePath(cacheDir, rawURL string) string {
	return filepath.Join(cacheDir, url.QueryEscape(rawURL))
}

func readCache(cacheDir, rawURL string) ([]byte, bool) {
	data, err := os.ReadFile(cacheFilePath(cacheDir, rawURL))
	if err != nil {
		return nil, false
	}
	return data, true
}

func writeCache(cacheDir, rawURL string, data []byte) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return
	}
	tagPath := filepath.Join(cacheDir, "CACHEDIR.TAG")
	if _, err := os.Stat(tagPath); os.IsNotExist(err) {
		_ = os.WriteFile(tagPath, []byte(cacheDirTag), 0o644)
	}
	_ = os.WriteFile(cacheFilePath(cacheDir, rawURL), data, 0o644)
}
