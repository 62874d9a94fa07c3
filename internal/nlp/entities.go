package nlp

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	numberPattern = `(\d+(?:[.,]\d+)?)`
	// unitEnd stops a unit word at the end of the text or at a non-letter,
	// non-digit, non-apostrophe rune. Go's \b only knows ASCII words.
	unitEnd = `(?:$|[^\p{L}\p{N}'])`
)

type numericPattern struct {
	field Field
	re    *regexp.Regexp
}

func unitPattern(units string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + numberPattern + `\s*(?:` + units + `)` + unitEnd)
}

// numericPatterns are independent: every one that matches contributes a field.
var numericPatterns = []numericPattern{
	{FieldAge, unitPattern(`ans?`)},
	{FieldWeeks, unitPattern(`semaines?|sa`)},
	{FieldMonths, unitPattern(`mois`)},
	{FieldWeightKg, unitPattern(`kg|kilos?|kilogrammes?`)},
	{FieldHeightCm, unitPattern(`cm|centimètres?`)},
	{FieldTemperature, unitPattern(`degrés?|degres?|°\s*c?|celsius|c`)},
}

// parseNumber applies the decimal rule: a literal containing a decimal
// separator is a float, anything else an integer. Literals that do not fit
// are rejected.
func parseNumber(literal string) (Value, bool) {
	if strings.ContainsAny(literal, ".,") {
		f, err := strconv.ParseFloat(strings.Replace(literal, ",", ".", 1), 64)
		if err != nil {
			return Value{}, false
		}
		return FloatValue(f), true
	}
	n, err := strconv.Atoi(literal)
	if err != nil {
		return Value{}, false
	}
	return IntValue(n), true
}

// ExtractEntities returns the numeric fields found in text. For each field only
// the first match is used.
func ExtractEntities(text string) Entities {
	out := Entities{}
	if text == "" {
		return out
	}
	for _, p := range numericPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v, ok := parseNumber(m[1]); ok {
			out[p.field] = v
		}
	}
	return out
}

// ExtractMedical returns the symptom and pain location categories found in
// text. The first matching bucket of each table wins.
func ExtractMedical(text string) Entities {
	out := Entities{}
	lower := strings.ToLower(text)
	if lower == "" {
		return out
	}
	if name, ok := firstBucket(lower, symptomBuckets); ok {
		out[FieldSymptom] = TextValue(name)
	}
	if name, ok := firstBucket(lower, locationBuckets); ok {
		out[FieldPainLocation] = TextValue(name)
	}
	return out
}

func firstBucket(lower string, buckets []bucket) (string, bool) {
	for _, b := range buckets {
		if containsAny(lower, b.keywords) {
			return b.name, true
		}
	}
	return "", false
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
