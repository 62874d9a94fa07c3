package nlp

import (
	"regexp"
	"strings"
)

var trimesterRegex = regexp.MustCompile(`(?i)(premier|1er|1re|1ère|1|deuxième|deuxieme|second|seconde|2ème|2eme|2e|2|troisième|troisieme|dernier|3ème|3eme|3e|3)\s*trimestre`)

var trimesterOrdinals = map[string]Stage{
	"premier": StageFirstTrimester, "1er": StageFirstTrimester, "1re": StageFirstTrimester,
	"1ère": StageFirstTrimester, "1": StageFirstTrimester,
	"deuxième": StageSecondTrimester, "deuxieme": StageSecondTrimester, "second": StageSecondTrimester,
	"seconde": StageSecondTrimester, "2ème": StageSecondTrimester, "2eme": StageSecondTrimester,
	"2e": StageSecondTrimester, "2": StageSecondTrimester,
	"troisième": StageThirdTrimester, "troisieme": StageThirdTrimester, "dernier": StageThirdTrimester,
	"3ème": StageThirdTrimester, "3eme": StageThirdTrimester, "3e": StageThirdTrimester,
	"3": StageThirdTrimester,
}

// StageFromWeeks maps a gestational week count to a trimester:
// up to 12 is the first, up to 28 the second, beyond that the third.
func StageFromWeeks(weeks float64) Stage {
	switch {
	case weeks <= 12:
		return StageFirstTrimester
	case weeks <= 28:
		return StageSecondTrimester
	default:
		return StageThirdTrimester
	}
}

// StageFromMonths maps a pregnancy month count to a trimester.
func StageFromMonths(months float64) Stage {
	switch {
	case months <= 3:
		return StageFirstTrimester
	case months <= 6:
		return StageSecondTrimester
	default:
		return StageThirdTrimester
	}
}

// DetectStage infers the trimester from an explicit "trimestre" mention in
// text, otherwise from the week count in known, otherwise from its month count.
func DetectStage(text string, known Entities) Stage {
	if m := trimesterRegex.FindStringSubmatch(text); m != nil {
		if s, ok := trimesterOrdinals[strings.ToLower(m[1])]; ok {
			return s
		}
	}
	if weeks, ok := known.Number(FieldWeeks); ok {
		return StageFromWeeks(weeks)
	}
	if months, ok := known.Number(FieldMonths); ok {
		return StageFromMonths(months)
	}
	return StageUnknown
}
