// Package classify assigns confidence-scored domain and document-type labels
// to raw text using keyword frequency counting, and derives the routing
// decision that gates the expensive entity and fact stages.
package classify

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/docfuse/docfuse/internal/model"
	"github.com/docfuse/docfuse/internal/refdata"
)

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// Classifier scores text against fixed domain and doctype keyword tables.
// It is immutable after construction and safe for concurrent use.
type Classifier struct {
	domains    map[string][]string
	docTypes   map[string][]string
	thresholds model.ClassifyConfig
}

// New creates a classifier over the given keyword tables and thresholds.
func New(tables *refdata.KeywordTables, thresholds model.ClassifyConfig) *Classifier {
	return &Classifier{
		domains:    tables.Domains,
		docTypes:   tables.DocTypes,
		thresholds: thresholds,
	}
}

// Classify scores the text and derives the routing decision. Empty or
// whitespace-only input yields the default "general" 100% result, never an
// error. The decision is made once per document and never revisited.
func (c *Classifier) Classify(text string) *model.Classification {
	freq := wordFrequencies(text)

	domains := scoreTables(c.domains, freq)
	docTypes := scoreTables(c.docTypes, freq)

	primaryDomain, domainConf := primary(domains)
	primaryType, typeConf := primary(docTypes)

	result := &model.Classification{
		Domains:                  domains,
		DocTypes:                 docTypes,
		PrimaryDomain:            primaryDomain,
		PrimaryDomainConfidence:  domainConf,
		PrimaryDocType:           primaryType,
		PrimaryDocTypeConfidence: typeConf,
	}

	skip := domainConf < c.thresholds.LowThreshold
	result.Routing = model.Routing{
		SkipEntityExtraction: skip,
		EnableDeepExtraction: domainConf >= c.thresholds.HighThreshold,
		SpecializationRoute:  model.DomainGeneral,
		ProceedToEnrichment:  !skip,
		ProceedToExtraction:  !skip,
	}
	if domainConf >= c.thresholds.MidThreshold {
		result.Routing.SpecializationRoute = primaryDomain
	}
	if skip {
		result.EarlyTermination = true
		result.EarlyTerminationReason = fmt.Sprintf(
			"primary domain %q confidence %.1f%% below low threshold %.1f%%",
			primaryDomain, domainConf, c.thresholds.LowThreshold)
	}
	return result
}

// wordFrequencies tokenizes the lowercased text on word boundaries and counts
// token occurrences. Token matching (not substring matching) is what keeps
// "art" from scoring inside "start".
func wordFrequencies(text string) map[string]int {
	freq := make(map[string]int)
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		freq[tok]++
	}
	return freq
}

// scoreTables counts keyword hits per category and normalizes the counts into
// a percentage distribution across categories with nonzero hits. A zero-hit
// text gets the "general" fallback at 100%.
func scoreTables(tables map[string][]string, freq map[string]int) map[string]float64 {
	hits := make(map[string]int)
	total := 0
	for category, keywords := range tables {
		count := 0
		for _, kw := range keywords {
			count += keywordHits(kw, freq)
		}
		if count > 0 {
			hits[category] = count
			total += count
		}
	}
	if total == 0 {
		return map[string]float64{model.DomainGeneral: 100}
	}
	scores := make(map[string]float64, len(hits))
	for category, count := range hits {
		scores[category] = float64(count) / float64(total) * 100
	}
	return scores
}

// keywordHits scores one keyword against the token frequencies. Multi-word
// keywords require every constituent word present and score as the minimum
// per-word frequency.
func keywordHits(keyword string, freq map[string]int) int {
	words := strings.Fields(strings.ToLower(keyword))
	if len(words) == 1 {
		return freq[words[0]]
	}
	minCount := -1
	for _, w := range words {
		n := freq[w]
		if n == 0 {
			return 0
		}
		if minCount < 0 || n < minCount {
			minCount = n
		}
	}
	return minCount
}

// primary returns the argmax of a score distribution. Ties break
// alphabetically so classification stays deterministic.
func primary(scores map[string]float64) (string, float64) {
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)

	best := ""
	bestScore := -1.0
	for _, name := range names {
		if scores[name] > bestScore {
			best = name
			bestScore = scores[name]
		}
	}
	return best, bestScore
}
