package kb

import "context"

// Source provides the help-center reads behind the cache.
type Source interface {
	SearchArticles(ctx context.Context, opts SearchOptions) ([]Article, bool, error)
	GetArticle(ctx context.Context, id int64, locale string) (*Article, error)
	Sections(ctx context.Context, locale string) ([]Section, error)
}
