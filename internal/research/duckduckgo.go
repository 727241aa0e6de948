package research

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/arqvlabs/arqv30/internal/analysis"
)

const duckDuckGoBaseURL = "https://html.duckduckgo.com/html/"

// searchDuckDuckGo scrapes the HTML (no-JS) DuckDuckGo results page
// for a query.
func (c *Client) searchDuckDuckGo(ctx context.Context, query string) ([]analysis.ResearchFinding, error) {
	u := c.searchBase + "?q=" + url.QueryEscape(query)

	body, err := c.doGet(ctx, u, map[string]string{"Accept": "text/html"})
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, err
	}

	var findings []analysis.ResearchFinding
	doc.Find(".result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		link := sel.Find("a.result__a")
		title := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		snippet := strings.TrimSpace(sel.Find(".result__snippet").Text())

		if title == "" || href == "" {
			return true
		}
		findings = append(findings, analysis.ResearchFinding{
			Query:   query,
			Title:   title,
			URL:     resolveRedirect(href),
			Snippet: snippet,
		})
		return len(findings) < c.maxPerQuery
	})

	return findings, nil
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg= redirect links to the
// target URL. Non-redirect links pass through unchanged.
func resolveRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}
