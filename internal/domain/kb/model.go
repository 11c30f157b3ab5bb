// Package kb exposes the help-center knowledge base: article search,
// article retrieval, and section listings, with a read-through cache in
// front of the slow upstream endpoints.
package kb

import "time"

// Article is a help-center article. Body holds the full HTML body on
// direct retrieval; search results carry a snippet instead.
type Article struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	Body             string    `json:"body,omitempty"`
	Snippet          string    `json:"body_snippet,omitempty"`
	URL              string    `json:"html_url,omitempty"`
	SectionID        *int64    `json:"section_id,omitempty"`
	Labels           []string  `json:"label_names,omitempty"`
	AuthorID         *int64    `json:"author_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	VoteSum          int       `json:"vote_sum"`
	VoteCount        int       `json:"vote_count,omitempty"`
	CommentsDisabled bool      `json:"comments_disabled,omitempty"`
	Draft            bool      `json:"draft,omitempty"`
	Promoted         bool      `json:"promoted,omitempty"`
}

// Section is a help-center section.
type Section struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"html_url,omitempty"`
	Position    int       `json:"position"`
	CategoryID  *int64    `json:"category_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SearchResult is an article search response.
type SearchResult struct {
	Articles  []Article `json:"articles"`
	Count     int       `json:"count"`
	Query     string    `json:"query,omitempty"`
	Labels    []string  `json:"label_names,omitempty"`
	SectionID *int64    `json:"section_id,omitempty"`
	SortBy    string    `json:"sort_by,omitempty"`
	HasMore   bool      `json:"has_more"`
	Cached    bool      `json:"cached"`
}

// SectionList is a section listing response.
type SectionList struct {
	Sections []Section `json:"sections"`
	Count    int       `json:"count"`
	Locale   string    `json:"locale"`
}
