package extract

import (
	"regexp"

	"github.com/docfuse/docfuse/internal/model"
)

// deepKind is one domain-specific entity kind with its pattern.
type deepKind struct {
	kind    model.EntityType
	pattern *regexp.Regexp
}

// deepKindsByDomain maps a specialization route to its additional entity
// kinds. Each deep kind follows the same span/dedup/cap contract as the
// global kinds.
var deepKindsByDomain = map[string][]deepKind{
	"safety": {
		{model.EntitySafetyEquipment, regexp.MustCompile(`(?i)\b(?:hard hats?|safety (?:glasses|goggles|vests?|harness(?:es)?|boots?)|respirators?|ear\s?plugs|face shields?|gloves|fall protection|protective equipment|ppe)\b`)},
		{model.EntityHazard, regexp.MustCompile(`(?i)\b(?:fall hazards?|electrical hazards?|chemical (?:exposure|hazards?)|fire hazards?|confined spaces?|asbestos|radiation|excessive noise|slip(?:s|ping)? hazards?|trip(?:ping)? hazards?)\b`)},
		{model.EntityInjury, regexp.MustCompile(`(?i)\b(?:lacerations?|fractures?|burns?|sprains?|strains?|amputations?|concussions?|electrocution|hearing loss|repetitive strain)\b`)},
	},
	"regulatory": {
		{model.EntityStandardsBody, regexp.MustCompile(`\b(?:ISO|ANSI|ASTM|NFPA|IEC|IEEE|NIST|UL)\b`)},
		{model.EntityAgency, regexp.MustCompile(`\b(?:OSHA|EPA|FDA|CDC|NIOSH|FAA|FTC|SEC|DOT|DOL)\b`)},
		{model.EntityPenalty, regexp.MustCompile(`(?i)(?:penalt(?:y|ies)|fine[sd]?)\s+(?:of\s+|up to\s+)?[$€£]\s?\d[\d,]*(?:\.\d+)?`)},
	},
	"financial": {
		{model.EntityFinInstrument, regexp.MustCompile(`(?i)\b(?:invoices?|purchase orders?|loans?|mortgages?|bonds?|equit(?:y|ies)|dividends?|credit lines?|letters? of credit)\b`)},
		{model.EntityPenalty, regexp.MustCompile(`(?i)(?:penalt(?:y|ies)|late fees?)\s+(?:of\s+)?[$€£]\s?\d[\d,]*(?:\.\d+)?`)},
	},
	"legal": {
		{model.EntityContractTerm, regexp.MustCompile(`(?i)\b(?:indemnification|force majeure|arbitration|confidentiality|non-compete|severability|governing law|limitation of liability|termination clause)\b`)},
	},
	"medical": {
		{model.EntityMedicalTerm, regexp.MustCompile(`(?i)\b(?:diagnos(?:is|es)|prognosis|contraindications?|dosages?|symptoms?|patholog(?:y|ies)|prescriptions?|immunizations?)\b`)},
	},
}

// extractDomain runs the deep kinds for the routed domain. Returns the
// entities and the kind names attempted, so the enrichment section records
// which vocabularies ran even when they found nothing.
func (e *Extractor) extractDomain(text, domain string) ([]model.Entity, []string) {
	kinds, ok := deepKindsByDomain[domain]
	if !ok {
		return nil, nil
	}

	var out []model.Entity
	names := make([]string, 0, len(kinds))
	for _, dk := range kinds {
		names = append(names, string(dk.kind))
		found := extractByPatterns(text, dk.kind, []*regexp.Regexp{dk.pattern})
		out = append(out, e.finalize(found, model.ScopeDomain)...)
	}
	return out, names
}
