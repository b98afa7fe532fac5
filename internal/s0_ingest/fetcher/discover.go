package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoArchiveLink means the source page links to no .zip file
var ErrNoArchiveLink = errors.New("no archive link on source page")

// Discover fetches an HTML page and returns the first linked .zip URL, resolved
// against the page URL
func Discover(ctx context.Context, client Getter, pageURL string) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse page url: %w", err)
	}

	resp, err := client.Get(ctx, pageURL)
	if err != nil {
		return "", fmt.Errorf("fetch source page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch source page: unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse source page: %w", err)
	}

	var found string
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return true
		}
		if !strings.HasSuffix(strings.ToLower(ref.Path), ".zip") {
			return true
		}
		found = base.ResolveReference(ref).String()
		return false
	})

	if found == "" {
		return "", ErrNoArchiveLink
	}
	return found, nil
}

// Source names where the archive lives: a fixed URL, or a page that links to it.
// PageURL wins when both are set.
type Source struct {
	URL     string
	PageURL string
	Client  Getter
}

// Resolve returns the archive URL for this run
func (s Source) Resolve(ctx context.Context) (string, error) {
	if s.PageURL == "" {
		if s.URL == "" {
			return "", errors.New("no source url configured")
		}
		return s.URL, nil
	}
	return Discover(ctx, s.Client, s.PageURL)
}
