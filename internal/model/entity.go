package model

// EntityType tags an extracted entity with its semantic kind.
type EntityType string

// Global entity kinds, always attempted regardless of domain confidence.
const (
	EntityPerson      EntityType = "PERSON"
	EntityOrg         EntityType = "ORG"
	EntityLocation    EntityType = "LOCATION"
	EntityGPE         EntityType = "GPE"
	EntityDate        EntityType = "DATE"
	EntityTime        EntityType = "TIME"
	EntityMoney       EntityType = "MONEY"
	EntityPercent     EntityType = "PERCENT"
	EntityPhone       EntityType = "PHONE"
	EntityURL         EntityType = "URL"
	EntityRegulation  EntityType = "REGULATION"
	EntityMeasurement EntityType = "MEASUREMENT"
)

// Domain-specific entity kinds, extracted only when deep extraction is
// enabled by the classification routing decision.
const (
	EntitySafetyEquipment EntityType = "SAFETY_EQUIPMENT"
	EntityHazard          EntityType = "HAZARD_TYPE"
	EntityInjury          EntityType = "INJURY_TYPE"
	EntityStandardsBody   EntityType = "STANDARDS_BODY"
	EntityAgency          EntityType = "REGULATORY_AGENCY"
	EntityPenalty         EntityType = "PENALTY_AMOUNT"
	EntityFinInstrument   EntityType = "FINANCIAL_INSTRUMENT"
	EntityContractTerm    EntityType = "CONTRACT_TERM"
	EntityMedicalTerm     EntityType = "MEDICAL_TERM"
)

// Extraction scopes recorded on each entity.
const (
	ScopeGlobal = "global"
	ScopeDomain = "domain"
)

// Span locates a substring in the source markdown by character offsets.
type Span struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Measurement is the canonical unit form attached to MEASUREMENT entities.
type Measurement struct {
	Value    float64 `json:"value" yaml:"value"`
	Unit     string  `json:"unit" yaml:"unit"`
	Category string  `json:"category" yaml:"category"`
}

// GovernmentInfo carries reference-KB enrichment for organization entities
// that match a known government entity.
type GovernmentInfo struct {
	FormalName   string `json:"formal_name" yaml:"formal_name"`
	Abbreviation string `json:"abbreviation,omitempty" yaml:"abbreviation,omitempty"`
	Website      string `json:"website,omitempty" yaml:"website,omitempty"`
	Mission      string `json:"mission,omitempty" yaml:"mission,omitempty"`
	ParentAgency string `json:"parent_agency,omitempty" yaml:"parent_agency,omitempty"`
}

// Entity is a raw extracted entity. Text is whitespace-normalized; Span
// indexes the original (unnormalized) markdown.
type Entity struct {
	Text               string          `json:"text"`
	Type               EntityType      `json:"type"`
	Span               Span            `json:"span"`
	Scope              string          `json:"scope"`
	Confidence         float64         `json:"confidence,omitempty"`
	Measurement        *Measurement    `json:"measurement,omitempty"`
	IsGovernmentEntity bool            `json:"is_government_entity,omitempty"`
	Government         *GovernmentInfo `json:"government,omitempty"`
}

// NormalizedValue is the structured canonical form of an entity value.
// Exactly one shape is populated depending on Kind; a failed normalization
// sets Error and keeps the surface text, it never drops the entity.
type NormalizedValue struct {
	Kind       string  `json:"kind"`
	Text       string  `json:"text"`
	Amount     float64 `json:"amount,omitempty"`
	Currency   string  `json:"currency,omitempty"`
	Date       string  `json:"date,omitempty"`
	Normalized bool    `json:"normalized"`
	Value      float64 `json:"value,omitempty"`
	Unit       string  `json:"unit,omitempty"`
	Category   string  `json:"category,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// Mention records one occurrence of a canonical entity in the document.
type Mention struct {
	Text    string `json:"text"`
	Context string `json:"context,omitempty"`
	Span    Span   `json:"span"`
}

// CanonicalEntity is the merged representation of one real-world entity
// across all of its surface-form mentions.
type CanonicalEntity struct {
	ID         string          `json:"id"`
	Type       EntityType      `json:"type"`
	Value      string          `json:"value"`
	Normalized NormalizedValue `json:"normalized"`
	Aliases    []string        `json:"aliases"`
	Count      int             `json:"count"`
	Mentions   []Mention       `json:"mentions"`
	Government *GovernmentInfo `json:"government,omitempty"`
}
