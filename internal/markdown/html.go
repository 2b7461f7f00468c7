package markdown

import (
	"bytes"

	"golang.org/x/net/html"
)

// htmlLinks tokenizes a raw HTML fragment and returns anchor hrefs and image sources.
func htmlLinks(raw []byte) []Link {
	var links []Link
	z := html.NewTokenizer(bytes.NewReader(raw))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return links
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		tok := z.Token()
		var attr string
		kind := LinkKindHTML
		switch tok.Data {
		case "a":
			attr = "href"
		case "img":
			attr = "src"
			kind = LinkKindImage
		default:
			continue
		}
		for _, a := range tok.Attr {
			if a.Key == attr && a.Val != "" {
				links = append(links, Link{Kind: kind, Destination: a.Val})
			}
		}
	}
}
