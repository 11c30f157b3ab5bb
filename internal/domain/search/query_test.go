package search_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ganot/helpdesk-mcp/internal/domain/search"
)

func TestBuildQuery_Empty(t *testing.T) {
	require.Equal(t, "*", search.BuildQuery(search.QuerySpec{}))
}

func TestBuildQuery_BasicFilters(t *testing.T) {
	query := search.BuildQuery(search.QuerySpec{
		Status:   "open",
		Priority: "high",
		Assignee: "agent@example.com",
	})
	require.Equal(t, "status:open priority:high assignee:agent@example.com", query)
}

func TestBuildQuery_UnassignedAssignee(t *testing.T) {
	require.Equal(t, "assignee:none", search.BuildQuery(search.QuerySpec{Assignee: "None"}))
}

func TestBuildQuery_OrganizationQuoted(t *testing.T) {
	query := search.BuildQuery(search.QuerySpec{Organization: "Acme Corp"})
	require.Equal(t, `organization:"Acme Corp"`, query)
}

func TestBuildQuery_TagLogic(t *testing.T) {
	spec := search.QuerySpec{Tags: []string{"bug", "urgent"}}

	spec.TagLogic = search.TagLogicAND
	require.Equal(t, "tags:bug tags:urgent", search.BuildQuery(spec))

	// OR emits the same terms; the grammar treats adjacent terms as OR
	// within one clause.
	spec.TagLogic = search.TagLogicOR
	require.Equal(t, "tags:bug tags:urgent", search.BuildQuery(spec))
}

func TestBuildQuery_ExcludeTags(t *testing.T) {
	query := search.BuildQuery(search.QuerySpec{
		Tags:        []string{"bug"},
		ExcludeTags: []string{"spam", "duplicate"},
	})
	require.Equal(t, "tags:bug -tags:spam -tags:duplicate", query)
}

func TestBuildQuery_DateRanges(t *testing.T) {
	query := search.BuildQuery(search.QuerySpec{
		CreatedAfter:  "2024-01-01",
		CreatedBefore: "2024-02-01",
		SolvedAfter:   "2024-01-15",
	})
	require.Equal(t, "created>=2024-01-01 created<=2024-02-01 solved>=2024-01-15", query)
}

func TestBuildQuery_CustomFieldsDeterministicOrder(t *testing.T) {
	spec := search.QuerySpec{
		CustomFields: map[int64]any{
			900: "west",
			100: "billing",
			500: 42,
		},
	}
	want := "custom_field_100:billing custom_field_500:42 custom_field_900:west"
	for i := 0; i < 20; i++ {
		require.Equal(t, want, search.BuildQuery(spec))
	}
}

func TestBuildQuery_CustomFieldValueWithSpacesQuoted(t *testing.T) {
	query := search.BuildQuery(search.QuerySpec{
		CustomFields: map[int64]any{7: "us west"},
	})
	require.Equal(t, `custom_field_7:"us west"`, query)
}

func TestBuildQuery_TextPredicates(t *testing.T) {
	query := search.BuildQuery(search.QuerySpec{
		SubjectContains:     "login",
		DescriptionContains: "password reset",
	})
	require.Equal(t, `subject:"login" description:"password reset"`, query)
}

func TestBuild_IncludesExamplesAndSpec(t *testing.T) {
	built := search.Build(search.QuerySpec{Status: "open"})
	require.Equal(t, "status:open", built.Query)
	require.NotEmpty(t, built.Examples)
	require.Equal(t, "Generated query: status:open", built.Examples[0])
	require.Equal(t, "open", built.Spec.Status)
}
