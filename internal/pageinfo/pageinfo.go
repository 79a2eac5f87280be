// Package pageinfo reads the title and preview image of a web page.
package pageinfo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"
)

type Info struct {
	Title   string
	OGImage string
}

type Fetcher struct {
	httpClient *resty.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		httpClient: resty.New().SetHeader("User-Agent", "notesync"),
	}
}

// Fetch downloads pageURL and extracts its metadata.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (Info, error) {
	res, err := f.httpClient.R().
		SetContext(ctx).
		SetHeader("Accept", "text/html").
		Get(pageURL)
	if err != nil {
		return Info{}, fmt.Errorf("client.R.Get > %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return Info{}, fmt.Errorf("status code: %d", res.StatusCode())
	}
	return Parse(bytes.NewReader(res.Body()))
}

// Parse extracts og:title (falling back to <title>) and og:image.
func Parse(r io.Reader) (Info, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return Info{}, fmt.Errorf("html.Parse > %w", err)
	}

	var info Info
	var ogTitle string
	walk(doc, func(n *html.Node) {
		switch n.Data {
		case "title":
			if info.Title == "" {
				info.Title = strings.TrimSpace(nodeText(n))
			}
		case "meta":
			property := attr(n, "property")
			if property == "" {
				property = attr(n, "name")
			}
			content := strings.TrimSpace(attr(n, "content"))
			switch property {
			case "og:title":
				ogTitle = content
			case "og:image":
				if info.OGImage == "" {
					info.OGImage = content
				}
			}
		}
	})
	if ogTitle != "" {
		info.Title = ogTitle
	}
	return info, nil
}

func walk(n *html.Node, visit func(*html.Node)) {
	if n.Type == html.ElementNode {
		visit(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}
