package publisher

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxUploadSize is the largest file the bot will re-upload to Discord.
const maxUploadSize = 24 * 1024 * 1024

var errTooLarge = errors.New("file exceeds the upload size limit")

// download fetches a file into memory, giving up as soon as the body exceeds
// the upload ceiling.
func (p *Publisher) download(rawURL string) ([]byte, error) {
	resp, err := p.httpClient.Get(rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, rawURL)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxUploadSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxUploadSize {
		return nil, errTooLarge
	}
	return data, nil
}

// contentLength asks the server for a file's size without fetching it.
func (p *Publisher) contentLength(rawURL string) (int64, error) {
	resp, err := p.httpClient.Head(rawURL)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d checking %s", resp.StatusCode, rawURL)
	}
	return resp.ContentLength, nil
}

// isImageURL reports whether the URL serves an image content type.
func (p *Publisher) isImageURL(rawURL string) bool {
	resp, err := p.httpClient.Head(rawURL)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}
	return strings.HasPrefix(resp.Header.Get("Content-Type"), "image/")
}

// fileExtension extracts a lowercase filename extension from a URL.
func fileExtension(rawURL string) string {
	ext := stripQuery(rawURL)
	if i := strings.LastIndex(ext, "."); i >= 0 {
		ext = ext[i+1:]
	}
	return strings.ToLower(ext)
}

func stripQuery(rawURL string) string {
	if i := strings.Index(rawURL, "?"); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}
