package kb

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ganot/helpdesk-mcp/internal/errs"
)

// DefaultTTL is how long knowledge-base lookups stay cached. Articles
// change rarely relative to tickets; a short TTL keeps repeat lookups
// cheap without serving stale content for long.
const DefaultTTL = 5 * time.Minute

// snippetLength bounds article bodies in search results.
const snippetLength = 500

// Service handles knowledge-base lookups through a read-through TTL
// cache.
type Service struct {
	source Source
	cache  *ttlCache
	logger *slog.Logger
}

// NewService creates a new knowledge-base service. A non-positive ttl
// falls back to DefaultTTL.
func NewService(source Source, ttl time.Duration, logger *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		source: source,
		cache:  newTTLCache(ttl),
		logger: logger,
	}
}

// SearchArticles searches help-center articles. Results carry body
// snippets rather than full bodies and deduplicate on article ID. A
// repeat of the same search within the TTL is served from cache.
func (s *Service) SearchArticles(ctx context.Context, opts SearchOptions) (*SearchResult, error) {
	if opts.Query == "" {
		return nil, errs.Validation("query", "search query cannot be empty")
	}
	if opts.PerPage <= 0 {
		opts.PerPage = 25
	}
	if opts.PerPage > MaxPageSize {
		opts.PerPage = MaxPageSize
	}
	if opts.SortBy == "" {
		opts.SortBy = "relevance"
	}

	key := searchKey(opts)
	if cached, ok := s.cache.get(key); ok {
		result := *cached.(*SearchResult)
		result.Cached = true
		return &result, nil
	}

	articles, hasMore, err := s.source.SearchArticles(ctx, opts)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{}, len(articles))
	deduped := make([]Article, 0, len(articles))
	for _, article := range articles {
		if _, dup := seen[article.ID]; dup {
			continue
		}
		seen[article.ID] = struct{}{}
		article.Snippet = snippet(article.Body)
		article.Body = ""
		deduped = append(deduped, article)
		if len(deduped) == opts.PerPage {
			if len(articles) > opts.PerPage {
				hasMore = true
			}
			break
		}
	}

	result := &SearchResult{
		Articles:  deduped,
		Count:     len(deduped),
		Query:     opts.Query,
		Labels:    opts.Labels,
		SectionID: opts.SectionID,
		SortBy:    opts.SortBy,
		HasMore:   hasMore,
	}
	s.cache.set(key, result)
	return result, nil
}

// Article fetches one article with its full body, cached per article
// and locale.
func (s *Service) Article(ctx context.Context, id int64, locale string) (*Article, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	key := fmt.Sprintf("article|%d|%s", id, locale)
	if cached, ok := s.cache.get(key); ok {
		return cached.(*Article), nil
	}

	article, err := s.source.GetArticle(ctx, id, locale)
	if err != nil {
		return nil, err
	}
	s.cache.set(key, article)
	return article, nil
}

// SectionList lists all help-center sections for a locale.
func (s *Service) SectionList(ctx context.Context, locale string) (*SectionList, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	key := "sections|" + locale
	if cached, ok := s.cache.get(key); ok {
		return cached.(*SectionList), nil
	}

	sections, err := s.source.Sections(ctx, locale)
	if err != nil {
		return nil, err
	}
	list := &SectionList{
		Sections: sections,
		Count:    len(sections),
		Locale:   locale,
	}
	s.cache.set(key, list)
	return list, nil
}

func searchKey(opts SearchOptions) string {
	section := ""
	if opts.SectionID != nil {
		section = strconv.FormatInt(*opts.SectionID, 10)
	}
	return strings.Join([]string{
		"search", opts.Query, strings.Join(opts.Labels, ","),
		section, opts.Locale, strconv.Itoa(opts.PerPage), opts.SortBy,
	}, "|")
}

// snippet truncates an article body, backing off to a rune boundary so
// a multi-byte character is never split.
func snippet(body string) string {
	if len(body) <= snippetLength {
		return body
	}
	cut := snippetLength
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut] + "..."
}
