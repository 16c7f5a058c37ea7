package facts

import (
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/docfuse/docfuse/internal/model"
)

func testExtractor() *Extractor {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return New(log.WithField("test", true))
}

func TestExtract_Empty(t *testing.T) {
	e := testExtractor()

	factList, summary := e.Extract(nil)
	if len(factList) != 0 {
		t.Errorf("expected no facts, got %d", len(factList))
	}
	if summary.TotalFacts != 0 {
		t.Errorf("expected empty summary, got %+v", summary)
	}
}

func TestExtract_MoneyNearTraining(t *testing.T) {
	e := testExtractor()
	canonicals := []model.CanonicalEntity{
		{
			ID:         "ent-m1",
			Type:       model.EntityMoney,
			Value:      "$250",
			Normalized: model.NormalizedValue{Kind: "money", Amount: 250, Currency: "USD", Normalized: true},
			Mentions: []model.Mention{
				{Text: "$250", Context: "must provide safety training at $250 per employee"},
			},
		},
	}

	factList, summary := e.Extract(canonicals)

	if len(factList) != 1 {
		t.Fatalf("expected 1 fact, got %d", len(factList))
	}
	f := factList[0]
	if f.Subject != "Employers" || f.Predicate != model.PredicateMustProvide {
		t.Errorf("unexpected fact: %+v", f)
	}
	if f.Object != "training at $250" {
		t.Errorf("unexpected object: %q", f.Object)
	}
	if f.Source == "" {
		t.Error("facts must carry provenance")
	}
	if summary.ByPredicate[model.PredicateMustProvide] != 1 {
		t.Errorf("summary should count by predicate: %+v", summary)
	}
}

func TestExtract_MoneyWithoutTriggerYieldsNothing(t *testing.T) {
	e := testExtractor()
	canonicals := []model.CanonicalEntity{
		{
			ID:       "ent-m2",
			Type:     model.EntityMoney,
			Value:    "$99",
			Mentions: []model.Mention{{Text: "$99", Context: "the widget costs $99 at retail"}},
		},
	}

	factList, _ := e.Extract(canonicals)
	if len(factList) != 0 {
		t.Errorf("money without an obligation context must not become a fact: %+v", factList)
	}
}

func TestExtract_DateRules(t *testing.T) {
	e := testExtractor()
	canonicals := []model.CanonicalEntity{
		{
			ID:         "ent-d1",
			Type:       model.EntityDate,
			Value:      "March 1, 2025",
			Normalized: model.NormalizedValue{Kind: "date", Date: "2025-03-01", Normalized: true},
			Mentions: []model.Mention{
				{Text: "March 1, 2025", Context: "training must be completed by March 1, 2025"},
			},
		},
		{
			ID:         "ent-d2",
			Type:       model.EntityDate,
			Value:      "July 4, 2025",
			Normalized: model.NormalizedValue{Kind: "date", Date: "2025-07-04", Normalized: true},
			Mentions: []model.Mention{
				{Text: "July 4, 2025", Context: "this policy is effective July 4, 2025"},
			},
		},
	}

	factList, summary := e.Extract(canonicals)

	if summary.ByPredicate[model.PredicateMustCompleteBy] != 1 {
		t.Errorf("expected a completion deadline fact: %+v", factList)
	}
	if summary.ByPredicate[model.PredicateAppliesFrom] != 1 {
		t.Errorf("expected an effective-date fact: %+v", factList)
	}
	for _, f := range factList {
		if f.Predicate == model.PredicateMustCompleteBy && f.Object != "2025-03-01" {
			t.Errorf("deadline object should be the normalized date, got %q", f.Object)
		}
	}
}

func TestExtract_RegulationAndPhone(t *testing.T) {
	e := testExtractor()
	canonicals := []model.CanonicalEntity{
		{
			ID:       "ent-r1",
			Type:     model.EntityRegulation,
			Value:    "29 CFR 1910.132",
			Mentions: []model.Mention{{Text: "29 CFR 1910.132", Context: "per 29 CFR 1910.132"}},
		},
		{
			ID:       "ent-p1",
			Type:     model.EntityPhone,
			Value:    "(555) 123-4567",
			Mentions: []model.Mention{{Text: "(555) 123-4567", Context: "report hazards at (555) 123-4567"}},
		},
	}

	_, summary := e.Extract(canonicals)

	if summary.ByPredicate[model.PredicateMustComplyWith] != 1 {
		t.Errorf("expected a compliance fact: %+v", summary)
	}
	if summary.ByPredicate[model.PredicateCanContact] != 1 {
		t.Errorf("expected a contact fact: %+v", summary)
	}
}

func TestExtract_GovernmentEntityFacts(t *testing.T) {
	e := testExtractor()
	canonicals := []model.CanonicalEntity{
		{
			ID:    "ent-g1",
			Type:  model.EntityOrg,
			Value: "Occupational Safety and Health Administration",
			Government: &model.GovernmentInfo{
				FormalName: "Occupational Safety and Health Administration",
				Website:    "https://www.osha.gov",
			},
			Mentions: []model.Mention{{Text: "OSHA", Context: "OSHA enforces standards"}},
		},
	}

	_, summary := e.Extract(canonicals)

	if summary.ByPredicate[model.PredicateIsRegulatedBy] != 1 {
		t.Errorf("expected a regulator fact: %+v", summary)
	}
	if summary.ByPredicate[model.PredicateReferencesWebsite] != 1 {
		t.Errorf("expected a website fact: %+v", summary)
	}
}

func TestExtract_DeterministicIDsAndOrder(t *testing.T) {
	e := testExtractor()
	canonicals := []model.CanonicalEntity{
		{
			ID:       "ent-r1",
			Type:     model.EntityRegulation,
			Value:    "29 CFR 1926.501",
			Mentions: []model.Mention{{Text: "29 CFR 1926.501"}},
		},
		{
			ID:       "ent-p2",
			Type:     model.EntityPenalty,
			Value:    "penalty of $14,502",
			Mentions: []model.Mention{{Text: "penalty of $14,502"}},
		},
	}

	first, _ := e.Extract(canonicals)
	second, _ := e.Extract(canonicals)

	if len(first) != len(second) {
		t.Fatalf("fact counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("fact %d id differs: %s vs %s", i, first[i].ID, second[i].ID)
		}
	}
}

func TestExtract_DuplicateFactsCollapse(t *testing.T) {
	e := testExtractor()
	same := model.CanonicalEntity{
		ID:       "ent-r1",
		Type:     model.EntityRegulation,
		Value:    "29 CFR 1910.132",
		Mentions: []model.Mention{{Text: "29 CFR 1910.132"}},
	}

	factList, _ := e.Extract([]model.CanonicalEntity{same, same})
	if len(factList) != 1 {
		t.Errorf("identical facts should dedupe, got %d", len(factList))
	}
}
