package risk

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCategory is matched by every InvalidCategoryError.
var ErrInvalidCategory = errors.New("invalid category")

// InvalidCategoryError reports a categorical value without an encoding.
type InvalidCategoryError struct {
	Field string
	Value string
}

func (e *InvalidCategoryError) Error() string {
	return fmt.Sprintf("valeur invalide pour %s : %q", e.Field, e.Value)
}

// Is makes errors.Is(err, ErrInvalidCategory) hold.
func (e *InvalidCategoryError) Is(target error) bool {
	return target == ErrInvalidCategory
}

// category is one closed enumeration: accepted spellings mapped to a code.
type category[T ~int] struct {
	field   string
	names   []string
	aliases map[string]T
}

func (c category[T]) parse(v string) (T, error) {
	if code, ok := c.aliases[strings.ToLower(v)]; ok {
		return code, nil
	}
	return 0, &InvalidCategoryError{Field: c.field, Value: v}
}

func (c category[T]) name(code T) string {
	if int(code) < 0 || int(code) >= len(c.names) {
		return fmt.Sprintf("%s(%d)", c.field, int(code))
	}
	return c.names[code]
}

// Activity is the physical activity level. The value is the model encoding.
type Activity int

const (
	ActivityLow      Activity = 0
	ActivityModerate Activity = 1
	ActivityHigh     Activity = 2
)

var activities = category[Activity]{
	field: "activity_level",
	names: []string{"faible", "modérée", "élevée"},
	aliases: map[string]Activity{
		"faible": ActivityLow, "low": ActivityLow,
		"modérée": ActivityModerate, "moderate": ActivityModerate,
		"élevée": ActivityHigh, "high": ActivityHigh,
	},
}

// ParseActivity matches v case-insensitively against the known spellings.
func ParseActivity(v string) (Activity, error) { return activities.parse(v) }

func (a Activity) String() string { return activities.name(a) }

// Diet is the diet type.
type Diet int

const (
	DietOmnivore   Diet = 0
	DietVegetarian Diet = 1
	DietOther      Diet = 2
)

var diets = category[Diet]{
	field: "diet_type",
	names: []string{"omnivore", "végétarien", "autre"},
	aliases: map[string]Diet{
		"omnivore":   DietOmnivore,
		"végétarien": DietVegetarian, "vegetarian": DietVegetarian,
		"autre": DietOther, "other": DietOther,
	},
}

// ParseDiet matches v case-insensitively against the known spellings.
func ParseDiet(v string) (Diet, error) { return diets.parse(v) }

func (d Diet) String() string { return diets.name(d) }

// MedicalHistory is the relevant medical antecedent.
type MedicalHistory int

const (
	HistoryAsthma       MedicalHistory = 0
	HistoryNone         MedicalHistory = 1
	HistoryOther        MedicalHistory = 2
	HistoryDiabetes     MedicalHistory = 3
	HistoryHypertension MedicalHistory = 4
)

var histories = category[MedicalHistory]{
	field: "medical_history",
	names: []string{"asthme", "aucun", "autre", "diabète", "hypertension"},
	aliases: map[string]MedicalHistory{
		"asthme": HistoryAsthma, "asthma": HistoryAsthma,
		"aucun": HistoryNone, "none": HistoryNone,
		"autre": HistoryOther, "other": HistoryOther,
		"diabète": HistoryDiabetes, "diabetes": HistoryDiabetes,
		"hypertension": HistoryHypertension,
	},
}

// ParseMedicalHistory matches v case-insensitively against the known spellings.
func ParseMedicalHistory(v string) (MedicalHistory, error) { return histories.parse(v) }

func (h MedicalHistory) String() string { return histories.name(h) }

// Symptom is the current main symptom.
type Symptom int

const (
	SymptomNone    Symptom = 0
	SymptomPain    Symptom = 1
	SymptomFatigue Symptom = 2
	SymptomNausea  Symptom = 3
)

var symptoms = category[Symptom]{
	field: "current_symptom",
	names: []string{"aucun", "douleur", "fatigue", "nausée"},
	aliases: map[string]Symptom{
		"aucun": SymptomNone, "none": SymptomNone,
		"douleur": SymptomPain, "pain": SymptomPain,
		"fatigue": SymptomFatigue,
		"nausée":  SymptomNausea, "nausea": SymptomNausea,
	},
}

// ParseSymptom matches v case-insensitively against the known spellings.
func ParseSymptom(v string) (Symptom, error) { return symptoms.parse(v) }

func (s Symptom) String() string { return symptoms.name(s) }
