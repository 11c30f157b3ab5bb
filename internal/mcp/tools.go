package mcp

// ToolDefinition describes a callable tool.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		// Tickets
		{
			Name:        "get_ticket",
			Description: "Get one ticket by ID, including its SLA metric set when available",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"ticket_id": map[string]any{
						"type":        "integer",
						"description": "Ticket ID",
					},
				},
				"required": []string{"ticket_id"},
			},
		},
		{
			Name:        "get_tickets",
			Description: "Get multiple tickets by ID in one call; unknown IDs are silently absent from the result",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"ticket_ids": map[string]any{
						"type":        "array",
						"description": "Ticket IDs to fetch",
						"items":       map[string]any{"type": "integer"},
					},
				},
				"required": []string{"ticket_ids"},
			},
		},
		{
			Name:        "get_ticket_comments",
			Description: "Get the full comment thread of a ticket in chronological order",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"ticket_id": map[string]any{
						"type":        "integer",
						"description": "Ticket ID",
					},
				},
				"required": []string{"ticket_id"},
			},
		},

		// Search
		{
			Name:        "search_tickets",
			Description: "Search tickets with the native query grammar. Capped at 1000 results by the upstream; use search_tickets_export for more",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Search query (e.g. 'status:open priority:high')",
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum results to return (default 100, max 1000)",
					},
					"sort_by": map[string]any{
						"type":        "string",
						"description": "Sort field",
						"enum":        []string{"created_at", "updated_at", "priority", "status", "ticket_type"},
					},
					"sort_order": map[string]any{
						"type": "string",
						"enum": []string{"asc", "desc"},
					},
				},
				"required": []string{"query"},
			},
		},
		{
			Name:        "search_tickets_export",
			Description: "Search tickets through the export API with no 1000 result cap. Sorting is applied client-side after retrieval",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Search query",
					},
					"max_results": map[string]any{
						"type":        "integer",
						"description": "Stop after this many results (omit or 0 for all)",
					},
					"sort_by": map[string]any{
						"type": "string",
						"enum": []string{"created_at", "updated_at", "priority", "status"},
					},
					"sort_order": map[string]any{
						"type": "string",
						"enum": []string{"asc", "desc"},
					},
				},
				"required": []string{"query"},
			},
		},
		{
			Name:        "search_tickets_enhanced",
			Description: "Search with client-side regex, fuzzy, and proximity filters the native grammar cannot express",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Base search query executed upstream before filtering",
					},
					"regex_pattern": map[string]any{
						"type":        "string",
						"description": "Case-insensitive regular expression applied to the searched fields",
					},
					"fuzzy_term": map[string]any{
						"type":        "string",
						"description": "Term matched approximately against field words",
					},
					"fuzzy_threshold": map[string]any{
						"type":        "number",
						"description": "Similarity floor between 0.0 and 1.0 (default 0.7, inclusive)",
					},
					"proximity_terms": map[string]any{
						"type":        "array",
						"description": "Two or more terms that must appear near each other",
						"items":       map[string]any{"type": "string"},
					},
					"proximity_distance": map[string]any{
						"type":        "integer",
						"description": "Maximum word distance between proximity terms (default 5)",
					},
					"search_fields": map[string]any{
						"type":        "array",
						"description": "Fields to inspect (default subject and description)",
						"items": map[string]any{
							"type": "string",
							"enum": []string{"subject", "description"},
						},
					},
					"sort_by":    map[string]any{"type": "string"},
					"sort_order": map[string]any{"type": "string", "enum": []string{"asc", "desc"}},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum matches to return (default 100)",
					},
				},
				"required": []string{"query"},
			},
		},
		{
			Name:        "build_search_query",
			Description: "Build a native query string from structured filters without executing it",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"status":       map[string]any{"type": "string", "description": "Ticket status (new, open, pending, hold, solved, closed)"},
					"priority":     map[string]any{"type": "string", "description": "Ticket priority (low, normal, high, urgent)"},
					"assignee":     map[string]any{"type": "string", "description": "Assignee email, ID, or 'none' for unassigned"},
					"requester":    map[string]any{"type": "string", "description": "Requester email or ID"},
					"organization": map[string]any{"type": "string", "description": "Organization name"},
					"tags": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
					"tags_logic": map[string]any{
						"type":        "string",
						"description": "How included tags combine (default OR)",
						"enum":        []string{"AND", "OR"},
					},
					"exclude_tags": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
					"created_after":  map[string]any{"type": "string", "description": "ISO date (YYYY-MM-DD)"},
					"created_before": map[string]any{"type": "string", "description": "ISO date (YYYY-MM-DD)"},
					"updated_after":  map[string]any{"type": "string", "description": "ISO date (YYYY-MM-DD)"},
					"updated_before": map[string]any{"type": "string", "description": "ISO date (YYYY-MM-DD)"},
					"solved_after":   map[string]any{"type": "string", "description": "ISO date (YYYY-MM-DD)"},
					"solved_before":  map[string]any{"type": "string", "description": "ISO date (YYYY-MM-DD)"},
					"due_after":      map[string]any{"type": "string", "description": "ISO date (YYYY-MM-DD)"},
					"due_before":     map[string]any{"type": "string", "description": "ISO date (YYYY-MM-DD)"},
					"custom_fields": map[string]any{
						"type":        "object",
						"description": "Custom field values keyed by numeric field ID",
					},
					"subject_contains":     map[string]any{"type": "string"},
					"description_contains": map[string]any{"type": "string"},
					"comment_contains":     map[string]any{"type": "string"},
				},
			},
		},
		{
			Name:        "batch_search_tickets",
			Description: "Run multiple search queries concurrently with optional cross-query deduplication. Failed queries report errors in place without aborting the batch",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"queries": map[string]any{
						"type":        "array",
						"description": "Search queries to execute",
						"items":       map[string]any{"type": "string"},
					},
					"deduplicate": map[string]any{
						"type":        "boolean",
						"description": "Merge results removing duplicate tickets (first occurrence wins)",
					},
					"sort_by":    map[string]any{"type": "string"},
					"sort_order": map[string]any{"type": "string", "enum": []string{"asc", "desc"}},
					"limit_per_query": map[string]any{
						"type":        "integer",
						"description": "Maximum results per query (default 100)",
					},
				},
				"required": []string{"queries"},
			},
		},
		{
			Name:        "search_by_date_range",
			Description: "Search tickets within a date window on a chosen date field, or a relative period like last_30_days",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"date_field": map[string]any{
						"type":        "string",
						"description": "Which date to filter on (default created)",
						"enum":        []string{"created", "updated", "solved", "due"},
					},
					"start_date": map[string]any{"type": "string", "description": "ISO date (YYYY-MM-DD)"},
					"end_date":   map[string]any{"type": "string", "description": "ISO date (YYYY-MM-DD)"},
					"relative_period": map[string]any{
						"type":        "string",
						"description": "Relative period resolved against today (overrides start/end dates)",
						"enum":        []string{"last_7_days", "last_30_days", "this_month", "last_month", "this_quarter", "last_quarter"},
					},
					"sort_by":    map[string]any{"type": "string"},
					"sort_order": map[string]any{"type": "string", "enum": []string{"asc", "desc"}},
					"limit":      map[string]any{"type": "integer"},
				},
			},
		},
		{
			Name:        "search_by_tags_advanced",
			Description: "Search tickets by tags with AND/OR include logic and unconditional exclusions",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"tags": map[string]any{
						"type":        "array",
						"description": "Tags to include",
						"items":       map[string]any{"type": "string"},
					},
					"logic": map[string]any{
						"type":        "string",
						"description": "How included tags combine (default OR)",
						"enum":        []string{"AND", "OR"},
					},
					"exclude_tags": map[string]any{
						"type":        "array",
						"description": "Tags that must not be present",
						"items":       map[string]any{"type": "string"},
					},
					"sort_by":    map[string]any{"type": "string"},
					"sort_order": map[string]any{"type": "string", "enum": []string{"asc", "desc"}},
					"limit":      map[string]any{"type": "integer"},
				},
				"required": []string{"tags"},
			},
		},
		{
			Name:        "search_by_source",
			Description: "Search tickets created through a specific channel, such as email, web, api, or chat",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"channel": map[string]any{
						"type":        "string",
						"description": "Creation channel (e.g. email, web, api, chat, voice)",
					},
					"sort_by":    map[string]any{"type": "string"},
					"sort_order": map[string]any{"type": "string", "enum": []string{"asc", "desc"}},
					"limit":      map[string]any{"type": "integer"},
				},
				"required": []string{"channel"},
			},
		},

		// Analytics
		{
			Name:        "get_search_statistics",
			Description: "Aggregate a search result set into status, priority, assignee, and tag distributions with resolution time stats",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Search query defining the ticket population",
					},
					"sort_by":    map[string]any{"type": "string"},
					"sort_order": map[string]any{"type": "string", "enum": []string{"asc", "desc"}},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum tickets to analyze (default 1000)",
					},
				},
				"required": []string{"query"},
			},
		},
		{
			Name:        "get_case_volume_analytics",
			Description: "Zero-filled case volume time series with per-technician, tag, channel, and custom field breakdowns plus response and resolution time statistics",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"start_date": map[string]any{
						"type":        "string",
						"description": "ISO date (default 12 weeks / 12 months before end_date)",
					},
					"end_date": map[string]any{
						"type":        "string",
						"description": "ISO date (default today)",
					},
					"max_results": map[string]any{
						"type":        "integer",
						"description": "Cap on tickets retrieved for analysis",
					},
					"time_bucket": map[string]any{
						"type":        "string",
						"description": "Bucket granularity (default weekly)",
						"enum":        []string{"daily", "weekly", "monthly"},
					},
					"filter_status": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
					"filter_priority": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
					"filter_tags": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
				},
			},
		},

		// Relationships
		{
			Name:        "find_related_tickets",
			Description: "Find tickets related by subject terms, same requester, or same organization, scored by relevance",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"ticket_id": map[string]any{
						"type":        "integer",
						"description": "Reference ticket ID",
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum related tickets to return (default 20)",
					},
				},
				"required": []string{"ticket_id"},
			},
		},
		{
			Name:        "find_duplicate_tickets",
			Description: "Find likely duplicates of a ticket by subject similarity combined with a shared requester or organization",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"ticket_id": map[string]any{
						"type":        "integer",
						"description": "Reference ticket ID",
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum candidates to return (default 10)",
					},
				},
				"required": []string{"ticket_id"},
			},
		},
		{
			Name:        "find_ticket_thread",
			Description: "Reconstruct the full follow-up chain a ticket belongs to, walking ancestors to the root and collecting children and siblings",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"ticket_id": map[string]any{
						"type":        "integer",
						"description": "Any ticket in the chain",
					},
				},
				"required": []string{"ticket_id"},
			},
		},
		{
			Name:        "get_ticket_relationships",
			Description: "Get a ticket's one-hop follow-up relationships: parent, children, and siblings",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"ticket_id": map[string]any{
						"type":        "integer",
						"description": "Ticket ID",
					},
				},
				"required": []string{"ticket_id"},
			},
		},

		// SLA
		{
			Name:        "get_sla_policies",
			Description: "List all SLA policies configured upstream",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        "get_sla_policy",
			Description: "Get one SLA policy with its metric targets",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"policy_id": map[string]any{
						"type":        "integer",
						"description": "Policy ID",
					},
				},
				"required": []string{"policy_id"},
			},
		},
		{
			Name:        "get_ticket_sla_status",
			Description: "Evaluate a ticket's SLA health (ok, at_risk, or breached) from its metric event history",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"ticket_id": map[string]any{
						"type":        "integer",
						"description": "Ticket ID",
					},
				},
				"required": []string{"ticket_id"},
			},
		},
		{
			Name:        "search_tickets_with_sla_breaches",
			Description: "Find tickets that have breached SLA, optionally filtered by breach metric, status, and priority",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"breach_type": map[string]any{
						"type":        "string",
						"description": "Only breaches of this metric (e.g. first_reply_time, requester_wait_time)",
					},
					"status":   map[string]any{"type": "string"},
					"priority": map[string]any{"type": "string"},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum tickets to return (default 100)",
					},
				},
			},
		},
		{
			Name:        "get_tickets_at_risk_of_breach",
			Description: "Find unsolved tickets showing SLA risk signals that have not breached yet",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"status":   map[string]any{"type": "string"},
					"priority": map[string]any{"type": "string"},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum tickets to return (default 50)",
					},
				},
			},
		},

		// Knowledge base
		{
			Name:        "search_kb_articles",
			Description: "Search help center articles. Results carry body snippets; repeated searches are served from a short-lived cache",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Article search query",
					},
					"labels": map[string]any{
						"type":        "array",
						"description": "Restrict to articles carrying these labels",
						"items":       map[string]any{"type": "string"},
					},
					"section_id": map[string]any{
						"type":        "integer",
						"description": "Restrict to one section",
					},
					"locale": map[string]any{
						"type":        "string",
						"description": "Article locale (default en-us)",
					},
					"per_page": map[string]any{
						"type":        "integer",
						"description": "Results per page (default 25, max 100)",
					},
					"sort_by": map[string]any{
						"type": "string",
						"enum": []string{"relevance", "created_at", "updated_at"},
					},
				},
				"required": []string{"query"},
			},
		},
		{
			Name:        "get_kb_article",
			Description: "Get one help center article with its full body",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"article_id": map[string]any{
						"type":        "integer",
						"description": "Article ID",
					},
					"locale": map[string]any{
						"type":        "string",
						"description": "Article locale (default en-us)",
					},
				},
				"required": []string{"article_id"},
			},
		},
		{
			Name:        "list_kb_sections",
			Description: "List all help center sections for a locale",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"locale": map[string]any{
						"type":        "string",
						"description": "Section locale (default en-us)",
					},
				},
			},
		},

		// Incremental export
		{
			Name:        "incremental_tickets",
			Description: "Fetch tickets changed since a Unix timestamp, resuming from the persisted cursor when one is ahead of the requested start",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"start_time": map[string]any{
						"type":        "integer",
						"description": "Unix timestamp (seconds) to start from",
					},
					"max_results": map[string]any{
						"type":        "integer",
						"description": "Stop after this many results (omit or 0 for one full pass)",
					},
				},
				"required": []string{"start_time"},
			},
		},
		{
			Name:        "incremental_ticket_events",
			Description: "Fetch the audit event stream for tickets changed since a Unix timestamp",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"start_time": map[string]any{
						"type":        "integer",
						"description": "Unix timestamp (seconds) to start from",
					},
					"max_results": map[string]any{
						"type":        "integer",
						"description": "Stop after this many results (omit or 0 for one full pass)",
					},
				},
				"required": []string{"start_time"},
			},
		},
		{
			Name:        "incremental_ticket_metric_events",
			Description: "Fetch SLA metric events across all tickets changed since a Unix timestamp, for account-wide SLA analysis",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"start_time": map[string]any{
						"type":        "integer",
						"description": "Unix timestamp (seconds) to start from",
					},
					"max_results": map[string]any{
						"type":        "integer",
						"description": "Stop after this many results (omit or 0 for one full pass)",
					},
				},
				"required": []string{"start_time"},
			},
		},
	}
}
