package model

// DomainGeneral is the fallback domain assigned when no keyword table
// produces a hit, and the specialization route below the mid threshold.
const DomainGeneral = "general"

// Routing is the decision bundle derived from classification confidence.
// It is computed once per document and never revisited in the same run.
type Routing struct {
	SkipEntityExtraction bool   `json:"skip_entity_extraction" yaml:"skip_entity_extraction"`
	EnableDeepExtraction bool   `json:"enable_deep_extraction" yaml:"enable_deep_extraction"`
	SpecializationRoute  string `json:"specialization_route" yaml:"specialization_route"`
	ProceedToEnrichment  bool   `json:"proceed_to_enrichment" yaml:"proceed_to_enrichment"`
	ProceedToExtraction  bool   `json:"proceed_to_extraction" yaml:"proceed_to_extraction"`
}

// Classification is the domain/doctype scoring result.
// Scores are percentages over the domains with nonzero hits.
type Classification struct {
	Domains                  map[string]float64 `json:"domains" yaml:"domains"`
	DocTypes                 map[string]float64 `json:"doc_types" yaml:"doc_types"`
	PrimaryDomain            string             `json:"primary_domain" yaml:"primary_domain"`
	PrimaryDomainConfidence  float64            `json:"primary_domain_confidence" yaml:"primary_domain_confidence"`
	PrimaryDocType           string             `json:"primary_doc_type" yaml:"primary_doc_type"`
	PrimaryDocTypeConfidence float64            `json:"primary_doc_type_confidence" yaml:"primary_doc_type_confidence"`
	Routing                  Routing            `json:"routing" yaml:"routing"`
	EarlyTermination         bool               `json:"early_termination" yaml:"early_termination"`
	EarlyTerminationReason   string             `json:"early_termination_reason,omitempty" yaml:"early_termination_reason,omitempty"`
}

// ScreenFlags are the cheap boolean content signals computed once over the
// raw markdown and consumed by later stages.
type ScreenFlags struct {
	HasTables     bool `json:"has_tables" yaml:"has_tables"`
	HasImages     bool `json:"has_images" yaml:"has_images"`
	HasCodeBlocks bool `json:"has_code_blocks" yaml:"has_code_blocks"`
	HasLinks      bool `json:"has_links" yaml:"has_links"`
	WordCount     int  `json:"word_count" yaml:"word_count"`
}
