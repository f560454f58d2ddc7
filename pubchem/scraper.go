package pubchem

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

const notAvailable = "N/A"

// GeneralResult is one compound listed on the NCBI search page
type GeneralResult struct {
	CID  string `json:"cid"`
	Name string `json:"name"`
}

// parseSearchPage pairs each result title (p.title > a) with its id block
// (dl.rprtid > dd), in page order, up to the shorter of the two lists
func parseSearchPage(r io.Reader) ([]GeneralResult, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search page: %w", err)
	}

	var titles, ids []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "p" && hasClass(n, "title"):
				titles = append(titles, n)
			case n.Data == "dl" && hasClass(n, "rprtid"):
				ids = append(ids, n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	count := min(len(titles), len(ids))
	results := make([]GeneralResult, 0, count)
	for i := 0; i < count; i++ {
		results = append(results, GeneralResult{
			CID:  textOf(findElement(ids[i], "dd")),
			Name: textOf(findElement(titles[i], "a")),
		})
	}
	return results, nil
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key == "class" {
			return slices.Contains(strings.Fields(attr.Val), class)
		}
	}
	return false
}

// findElement returns the first descendant element with the given tag
func findElement(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// textOf returns the trimmed text content of n, or "N/A" when n is nil
func textOf(n *html.Node) string {
	if n == nil {
		return notAvailable
	}
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.TrimSpace(sb.String())
}
