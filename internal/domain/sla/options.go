package sla

// BreachSearchOptions configures a breach search. BreachType narrows to
// one metric (first_reply_time, next_reply_time, resolution_time).
type BreachSearchOptions struct {
	BreachType string
	Status     string
	Priority   string
	Limit      int
}

// AtRiskOptions configures an at-risk listing. When Status is empty the
// search defaults to unsolved tickets.
type AtRiskOptions struct {
	Status   string
	Priority string
	Limit    int
}

// PolicyList is the policy listing response.
type PolicyList struct {
	Policies []Policy `json:"sla_policies"`
	Count    int      `json:"count"`
}
