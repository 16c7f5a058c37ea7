package model

// Controlled predicate vocabulary for semantic facts.
const (
	PredicateMustProvide       = "must_provide"
	PredicateMustCompleteBy    = "must_be_completed_by"
	PredicateMustComplyWith    = "must_comply_with"
	PredicateCanContact        = "can_contact"
	PredicateAppliesFrom       = "applies_from"
	PredicateIsRegulatedBy     = "is_regulated_by"
	PredicateHasPenalty        = "has_penalty"
	PredicateReferencesWebsite = "references_website"
)

// Fact is a subject-predicate-object triple derived from canonical entities
// and classification context. IDs are deterministic content hashes so the
// same input always yields the same fact set.
type Fact struct {
	ID        string `json:"id"`
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
	Condition string `json:"condition,omitempty"`
	Source    string `json:"source"`
}

// FactSummary aggregates the extraction outcome for reporting.
type FactSummary struct {
	TotalFacts  int            `json:"total_facts" yaml:"total_facts"`
	ByPredicate map[string]int `json:"by_predicate,omitempty" yaml:"by_predicate,omitempty"`
}
