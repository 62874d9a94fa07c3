package nlp

import "strings"

var faqTriggers = func() []string {
	out := make([]string, len(faqTable))
	for i, e := range faqTable {
		out[i] = e.trigger
	}
	return out
}()

// MatchFAQ returns the canned answer for the first FAQ trigger contained in
// text. Without a substring hit the whole text is fuzzy matched against the
// triggers with DefaultCutoff.
func MatchFAQ(text string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return "", false
	}

	for _, e := range faqTable {
		if strings.Contains(lower, e.trigger) {
			return e.answer, true
		}
	}

	trigger, ok := BestMatch(lower, faqTriggers, DefaultCutoff)
	if !ok {
		return "", false
	}
	for _, e := range faqTable {
		if e.trigger == trigger {
			return e.answer, true
		}
	}
	return "", false
}
