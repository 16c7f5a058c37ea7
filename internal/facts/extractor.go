// Package facts derives subject-predicate-object triples from canonical
// entities and their mention contexts. The predicate vocabulary is closed;
// anything that does not match a rule produces no fact rather than a
// free-form one.
package facts

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/docfuse/docfuse/internal/model"
)

// Extractor turns canonical entities into semantic facts.
type Extractor struct {
	log *logrus.Entry
}

// New creates a fact extractor.
func New(log *logrus.Entry) *Extractor {
	return &Extractor{log: log}
}

// Subjects used by the rule set. The rules are obligation-centric: money and
// dates become obligations on the responsible party, contact details become
// affordances for the reader.
const (
	subjectEmployer = "Employers"
	subjectTraining = "Training"
	subjectDocument = "This document"
	subjectReader   = "Readers"
)

// Extract runs every rule over the canonical entities and returns the fact
// set with its summary. An empty input yields an empty, well-formed result,
// never an error.
func (e *Extractor) Extract(canonicals []model.CanonicalEntity) ([]model.Fact, model.FactSummary) {
	var out []model.Fact
	for _, c := range canonicals {
		out = append(out, e.factsFor(c)...)
	}

	out = dedupe(out)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Predicate != out[j].Predicate {
			return out[i].Predicate < out[j].Predicate
		}
		return out[i].Object < out[j].Object
	})

	summary := model.FactSummary{TotalFacts: len(out)}
	if len(out) > 0 {
		summary.ByPredicate = make(map[string]int)
		for _, f := range out {
			summary.ByPredicate[f.Predicate]++
		}
	}
	if e.log != nil {
		e.log.WithField("facts", len(out)).Debug("fact extraction complete")
	}
	return out, summary
}

func (e *Extractor) factsFor(c model.CanonicalEntity) []model.Fact {
	var out []model.Fact
	switch c.Type {
	case model.EntityMoney:
		if ctx, ok := mentionContextContaining(c, "training", "train"); ok {
			out = append(out, newFact(subjectEmployer, model.PredicateMustProvide,
				"training at "+c.Value, "", sourceTag(c, ctx)))
		}
	case model.EntityDate:
		object := c.Value
		if c.Normalized.Normalized && c.Normalized.Date != "" {
			object = c.Normalized.Date
		}
		if ctx, ok := mentionContextContaining(c, "completed", "complete", "deadline", "due"); ok {
			out = append(out, newFact(subjectTraining, model.PredicateMustCompleteBy,
				object, "", sourceTag(c, ctx)))
		}
		if ctx, ok := mentionContextContaining(c, "effective", "takes effect", "in force"); ok {
			out = append(out, newFact(subjectDocument, model.PredicateAppliesFrom,
				object, "", sourceTag(c, ctx)))
		}
	case model.EntityRegulation:
		out = append(out, newFact(subjectEmployer, model.PredicateMustComplyWith,
			c.Value, "", sourceTag(c, "")))
	case model.EntityPhone:
		condition := ""
		if ctx, ok := mentionContextContaining(c, "question", "report", "emergency", "contact"); ok {
			condition = conditionFrom(ctx)
		}
		out = append(out, newFact(subjectReader, model.PredicateCanContact,
			c.Value, condition, sourceTag(c, "")))
	case model.EntityAgency, model.EntityOrg:
		if c.Government != nil {
			out = append(out, newFact(subjectEmployer, model.PredicateIsRegulatedBy,
				c.Government.FormalName, "", sourceTag(c, "")))
			if c.Government.Website != "" {
				out = append(out, newFact(subjectDocument, model.PredicateReferencesWebsite,
					c.Government.Website, "", sourceTag(c, "")))
			}
		}
	case model.EntityPenalty:
		out = append(out, newFact(subjectDocument, model.PredicateHasPenalty,
			c.Value, "", sourceTag(c, "")))
	}
	return out
}

// mentionContextContaining scans the canonical entity's mention contexts for
// any of the trigger words. The first matching context wins, so fact order
// follows document order.
func mentionContextContaining(c model.CanonicalEntity, triggers ...string) (string, bool) {
	for _, m := range c.Mentions {
		lower := strings.ToLower(m.Context)
		for _, t := range triggers {
			if strings.Contains(lower, t) {
				return m.Context, true
			}
		}
	}
	return "", false
}

// conditionFrom condenses a mention context into a short condition clause.
func conditionFrom(ctx string) string {
	words := strings.Fields(ctx)
	if len(words) > 8 {
		words = words[:8]
	}
	return strings.Join(words, " ")
}

// sourceTag records provenance: the canonical entity id plus, when a context
// trigger fired, a trimmed excerpt of the triggering context.
func sourceTag(c model.CanonicalEntity, ctx string) string {
	if ctx == "" {
		return "entity:" + c.ID
	}
	excerpt := ctx
	if len(excerpt) > 60 {
		excerpt = excerpt[:60]
	}
	return fmt.Sprintf("entity:%s ctx:%q", c.ID, excerpt)
}

// newFact builds a fact with a deterministic id hashed from its content.
func newFact(subject, predicate, object, condition, source string) model.Fact {
	sum := sha256.Sum256([]byte(subject + "|" + predicate + "|" + object + "|" + condition))
	return model.Fact{
		ID:        "fact-" + hex.EncodeToString(sum[:4]),
		Subject:   subject,
		Predicate: predicate,
		Object:    object,
		Condition: condition,
		Source:    source,
	}
}

func dedupe(in []model.Fact) []model.Fact {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, f := range in {
		if _, ok := seen[f.ID]; ok {
			continue
		}
		seen[f.ID] = struct{}{}
		out = append(out, f)
	}
	return out
}
