package datasource

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/devashah/stockscope/pkg/models"
	"github.com/devashah/stockscope/pkg/utils"
)

// DefaultNewsFeedURL is the Yahoo Finance RSS headline feed. The %s
// placeholder takes the ticker symbol.
const DefaultNewsFeedURL = "https://feeds.finance.yahoo.com/rss/2.0/headline?s=%s&region=US&lang=en-US"

// NewsSource fetches recent headlines for a ticker from an RSS feed.
type NewsSource struct {
	// FeedURL is a format string with one %s for the ticker.
	FeedURL string

	parser *gofeed.Parser
	cache  *Cache
}

// NewNewsSource creates a news source reading the Yahoo Finance RSS feed.
func NewNewsSource(cacheTTL time.Duration) *NewsSource {
	if cacheTTL <= 0 {
		cacheTTL = 15 * time.Minute
	}
	parser := gofeed.NewParser()
	parser.UserAgent = DefaultUserAgent
	return &NewsSource{
		FeedURL: DefaultNewsFeedURL,
		parser:  parser,
		cache:   NewCache(cacheTTL),
	}
}

// GetNews fetches up to limit recent articles for the ticker, newest first.
func (n *NewsSource) GetNews(ctx context.Context, ticker string, limit int) ([]models.NewsArticle, error) {
	ticker = utils.NormalizeTicker(ticker)
	if limit <= 0 {
		limit = 10
	}

	cacheKey := fmt.Sprintf("news:%s:%d", ticker, limit)
	if cached, ok := n.cache.Get(cacheKey); ok {
		return cached.([]models.NewsArticle), nil
	}

	feed, err := n.parser.ParseURLWithContext(fmt.Sprintf(n.FeedURL, ticker), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse news feed for %s: %w", ticker, err)
	}

	articles := make([]models.NewsArticle, 0, limit)
	for _, item := range feed.Items {
		if len(articles) >= limit {
			break
		}
		article := models.NewsArticle{
			Title:   strings.TrimSpace(item.Title),
			Link:    item.Link,
			Summary: stripHTML(item.Description),
		}
		if item.PublishedParsed != nil {
			article.PublishedAt = item.PublishedParsed.UTC()
		}
		if item.Author != nil {
			article.Source = item.Author.Name
		}
		if article.Title == "" {
			continue
		}
		articles = append(articles, article)
	}

	n.cache.Set(cacheKey, articles)
	return articles, nil
}

// stripHTML removes markup from feed descriptions, which Yahoo sometimes
// embeds as HTML fragments.
func stripHTML(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !strings.Contains(s, "<") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}
