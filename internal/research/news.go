package research

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/arqvlabs/arqv30/internal/analysis"
)

const googleNewsBaseURL = "https://news.google.com/rss/search"

// newsHeadlines pulls recent Brazilian news headlines for the segment
// from Google News RSS.
func (c *Client) newsHeadlines(ctx context.Context, segment string) ([]analysis.ResearchFinding, error) {
	query := segment + " mercado Brasil"
	u := c.newsBase + "?q=" + url.QueryEscape(query) + "&hl=pt-BR&gl=BR&ceid=BR:pt-419"

	body, err := c.doGet(ctx, u, map[string]string{"Accept": "application/rss+xml, application/xml"})
	if err != nil {
		return nil, err
	}
	defer body.Close()

	feed, err := c.feed.Parse(body)
	if err != nil {
		return nil, err
	}

	var findings []analysis.ResearchFinding
	for _, item := range feed.Items {
		if len(findings) >= c.maxPerQuery {
			break
		}
		if item.Title == "" {
			continue
		}
		findings = append(findings, analysis.ResearchFinding{
			Query:   query,
			Title:   item.Title,
			URL:     item.Link,
			Snippet: cleanHTML(item.Description),
		})
	}

	return findings, nil
}

// cleanHTML strips HTML tags from a string using goquery.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}
