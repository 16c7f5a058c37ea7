package extract

import "regexp"

// Pattern-backed global entity kinds. Patterns run against the original
// markdown so match offsets double as entity spans.
var (
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sep|sept|oct|nov|dec)\.?\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}\b`),
		regexp.MustCompile(`\b\d{1,2}\s+(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{4}\b`),
		regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
		regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`),
	}

	timePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}(?::\d{2})?\s*(?:a\.?m\.?|p\.?m\.?)?\b`),
		regexp.MustCompile(`(?i)\b\d{1,2}\s*(?:a\.?m\.?|p\.?m\.?)\b`),
	}

	moneyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)[$€£¥]\s?\d[\d,]*(?:\.\d+)?\s*(?:thousand|million|billion|[kmb]\b)?`),
		regexp.MustCompile(`(?i)\b\d[\d,]*(?:\.\d+)?\s*(?:thousand|million|billion)?\s*(?:dollars|usd|euros?|eur|gbp|pounds sterling)\b`),
	}

	percentPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s?(?:%|percent|pct)`),
	}

	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\(?\d{3}\)?[-.\s]\d{3}[-.\s]\d{4}\b`),
		regexp.MustCompile(`\b1[-.\s]\d{3}[-.\s]\d{3}[-.\s]\d{4}\b`),
	}

	urlPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\bhttps?://[^\s<>()\[\]"']+`),
		regexp.MustCompile(`\bwww\.[^\s<>()\[\]"']+`),
	}

	regulationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d+\s+(?:C\.?F\.?R\.?|U\.?S\.?C\.?)\s*(?:§+\s*)?\d+(?:\.\d+)*\b`),
		regexp.MustCompile(`§+\s*\d+(?:\.\d+)*(?:\([a-z0-9]+\))*`),
		regexp.MustCompile(`\b(?:ISO|IEC|ANSI|ASTM|NFPA|EN)\s?\d{2,5}(?:[-:]\d+)?\b`),
		regexp.MustCompile(`(?i)\bsection\s+\d+(?:\.\d+)+\b`),
	}

	// Capitalized sequences ending in an organizational suffix. The match
	// must open on a capitalized word, but lowercase connectors are allowed
	// inside the name ("Occupational Safety and Health Administration").
	orgSuffixPattern = regexp.MustCompile(`\b[A-Z][A-Za-z&']+(?:\s+(?:[A-Z][A-Za-z&']+|and|of|for|the)){0,5}\s+(?:Inc\.?|Corp\.?|LLC|Ltd\.?|Co\.?|Company|Corporation|Administration|Agency|Department|Commission|Institute|Institution|Association|Authority|Bureau|University|Laboratories|Group)\b`)

	// Bare all-caps acronyms; accepted as ORG only when the government
	// knowledge base recognizes them, which keeps document headers and
	// random acronyms out.
	acronymPattern = regexp.MustCompile(`\b[A-Z]{2,6}\b`)

	// Capitalized names following a locational preposition.
	locationPattern = regexp.MustCompile(`\b(?:in|at|near|from|to)\s+((?:[A-Z][a-z]+)(?:\s+[A-Z][a-z]+){0,2})\b`)
)

// gpeNames is the fixed geo-political entity vocabulary: countries, US
// states, and a few major cities. Checked via O(1) lookup against
// capitalized token runs.
var gpeNames = map[string]struct{}{}

func init() {
	for _, name := range []string{
		"United States", "United Kingdom", "Canada", "Mexico", "Germany",
		"France", "Italy", "Spain", "Japan", "China", "India", "Brazil",
		"Australia", "Russia", "Netherlands", "Switzerland", "Sweden",
		"Norway", "Ireland", "Poland", "South Korea",
		"Alabama", "Alaska", "Arizona", "Arkansas", "California", "Colorado",
		"Connecticut", "Delaware", "Florida", "Georgia", "Hawaii", "Idaho",
		"Illinois", "Indiana", "Iowa", "Kansas", "Kentucky", "Louisiana",
		"Maine", "Maryland", "Massachusetts", "Michigan", "Minnesota",
		"Mississippi", "Missouri", "Montana", "Nebraska", "Nevada",
		"New Hampshire", "New Jersey", "New Mexico", "New York",
		"North Carolina", "North Dakota", "Ohio", "Oklahoma", "Oregon",
		"Pennsylvania", "Rhode Island", "South Carolina", "South Dakota",
		"Tennessee", "Texas", "Utah", "Vermont", "Virginia", "Washington",
		"West Virginia", "Wisconsin", "Wyoming",
		"Chicago", "Houston", "Philadelphia", "Phoenix", "San Antonio",
		"San Diego", "Dallas", "Boston", "Seattle", "Denver", "Atlanta",
		"London", "Paris", "Berlin", "Tokyo", "Sydney", "Toronto",
	} {
		gpeNames[name] = struct{}{}
	}
}
