package knowledge

import (
	"fmt"
	"strings"

	"github.com/edgard/grossessebot/internal/nlp"
)

// Advice is the per-trimester guidance.
type Advice struct {
	General     string
	Nutrition   string
	Precautions string
}

var trimesterAdvice = map[nlp.Stage]Advice{
	nlp.StageFirstTrimester: {
		General:     "Au 1er trimestre, votre corps s'adapte. Les nausées et la fatigue sont normales.",
		Nutrition:   "Prenez de l'acide folique et mangez équilibré malgré les nausées.",
		Precautions: "Évitez l'alcool, le tabac et les médicaments non prescrits.",
	},
	nlp.StageSecondTrimester: {
		General:     "Le 2ème trimestre est souvent le plus agréable. Vous devriez sentir les premiers mouvements.",
		Nutrition:   "Augmentez vos apports en fer et calcium. Continuez une alimentation variée.",
		Precautions: "Attention à votre posture et évitez de dormir sur le dos.",
	},
	nlp.StageThirdTrimester: {
		General:     "Au 3ème trimestre, préparez-vous à l'accouchement. Le bébé grandit rapidement.",
		Nutrition:   "Mangez de petits repas fréquents pour éviter les reflux.",
		Precautions: "Surveillez les contractions et préparez votre valise de maternité.",
	},
}

// TrimesterAdvice returns the advice for a known stage.
func TrimesterAdvice(stage nlp.Stage) (Advice, bool) {
	a, ok := trimesterAdvice[stage]
	return a, ok
}

type catalogEntry struct {
	name        string
	description string
}

// symptomCatalog lists common symptoms per trimester.
var symptomCatalog = []struct {
	stage   nlp.Stage
	entries []catalogEntry
}{
	{nlp.StageFirstTrimester, []catalogEntry{
		{"Nausées", "Les nausées matinales touchent 70% des femmes enceintes. Elles disparaissent généralement vers 12-14 semaines."},
		{"Fatigue", "La fatigue est normale au 1er trimestre due aux changements hormonaux. Reposez-vous davantage."},
		{"Seins tendus", "Les seins peuvent devenir sensibles et plus volumineux dès les premières semaines."},
		{"Fréquence urinaire", "Le besoin d'uriner plus souvent est normal, l'utérus appuie sur la vessie."},
	}},
	{nlp.StageSecondTrimester, []catalogEntry{
		{"Mouvements du bébé", "Vous devriez sentir les premiers mouvements entre 18-22 semaines."},
		{"Douleurs ligamentaires", "Des douleurs dans le bas-ventre peuvent survenir lors de l'étirement des ligaments."},
		{"Reflux", "Les brûlures d'estomac peuvent commencer à cause de la pression sur l'estomac."},
	}},
	{nlp.StageThirdTrimester, []catalogEntry{
		{"Essoufflement", "L'essoufflement est normal, le bébé appuie sur le diaphragme."},
		{"Jambes lourdes", "Les jambes lourdes et gonflées sont fréquentes. Surélevez vos jambes."},
		{"Contractions de Braxton-Hicks", "Les contractions de Braxton-Hicks (fausses contractions) préparent l'utérus."},
		{"Insomnie", "Les troubles du sommeil sont courants. Utilisez des coussins pour vous soutenir."},
	}},
}

// SearchResult is one catalogue hit.
type SearchResult struct {
	Stage       nlp.Stage
	Name        string
	Description string
}

// String formats the hit as "Name: description".
func (r SearchResult) String() string {
	return r.Name + ": " + r.Description
}

// SearchSymptoms returns the catalogue entries whose name or description
// contains term, case-insensitively. A blank term matches nothing.
func SearchSymptoms(term string) []SearchResult {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}

	var results []SearchResult
	for _, group := range symptomCatalog {
		for _, e := range group.entries {
			if strings.Contains(strings.ToLower(e.name), term) || strings.Contains(strings.ToLower(e.description), term) {
				results = append(results, SearchResult{Stage: group.stage, Name: e.name, Description: e.description})
			}
		}
	}
	return results
}

var emergencySigns = []string{
	"saignements vaginaux abondants",
	"douleurs abdominales intenses",
	"contractions régulières avant 37 semaines",
	"perte de liquide amniotique",
	"maux de tête sévères avec vision trouble",
	"vomissements persistants empêchant l'alimentation",
}

var quickConsultSigns = []string{
	"fièvre supérieure à 38°C",
	"brûlures en urinant",
	"diminution des mouvements fœtaux",
	"gonflement soudain des mains et du visage",
	"douleurs pelviennes persistantes",
}

// EmergencyInfo summarises the warning signs that need an immediate call and
// those that need a quick consultation.
func EmergencyInfo() string {
	return fmt.Sprintf("🚨 SIGNES D'URGENCE (appelez immédiatement) : %s...\n⚠️ CONSULTATION RAPIDE : %s...",
		strings.Join(emergencySigns[:3], ", "),
		strings.Join(quickConsultSigns[:3], ", "))
}

// Category names a block of general information.
type Category string

const (
	CategoryPregnancy Category = "pregnancy"
	CategoryNutrition Category = "nutrition"
	CategoryExercise  Category = "exercise"
	CategoryDelivery  Category = "delivery"
	CategoryWellbeing Category = "wellbeing"
	CategoryCheckups  Category = "checkups"
	CategoryWarnings  Category = "warning_signs"
)

type infoLine struct {
	key   string
	value string
}

var generalInfo = map[Category][]infoLine{
	CategoryPregnancy: {
		{"Durée", "Une grossesse dure environ 9 mois (40 semaines) à partir de la dernière menstruation."},
		{"Trimestres", "La grossesse est divisée en 3 trimestres : 1er (0-12 semaines), 2ème (13-28 semaines), 3ème (29-40 semaines)."},
		{"Développement", "Le bébé se développe progressivement : formation des organes au 1er trimestre, croissance au 2ème, maturation au 3ème."},
		{"Suivi", "Un suivi médical régulier est essentiel avec des consultations mensuelles puis plus fréquentes."},
	},
	CategoryNutrition: {
		{"Aliments conseillés", "fruits et légumes frais (5 portions par jour), protéines bien cuites, produits laitiers pasteurisés, céréales complètes, eau (1,5-2L par jour)."},
		{"Aliments à éviter", "viandes et poissons crus, fromages au lait cru, alcool, café au-delà de 1-2 tasses par jour, œufs crus."},
		{"Acide folique", "400μg par jour avant la conception et pendant le 1er trimestre pour prévenir les malformations."},
		{"Fer", "souvent prescrit en cas d'anémie, surtout au 2ème et 3ème trimestre."},
		{"Vitamine D", "importante pour le développement osseux du bébé."},
		{"Calcium", "1000mg par jour pour la formation des os et dents du bébé."},
	},
	CategoryExercise: {
		{"Recommandations", "30 minutes d'exercice modéré par jour sont recommandées sauf contre-indication médicale."},
		{"Activités conseillées", "marche, natation, yoga prénatal, pilates adapté, vélo stationnaire."},
		{"Activités à éviter", "sports de contact, équitation, ski alpin, plongée sous-marine, sports à risque de chute."},
	},
	CategoryDelivery: {
		{"Signes du travail", "contractions régulières et douloureuses, perte du bouchon muqueux, rupture de la poche des eaux, douleurs dans le bas du dos."},
		{"Préparation", "Les cours de préparation à l'accouchement aident à comprendre le processus et gérer la douleur."},
		{"Valise de maternité", "documents (carte vitale, dossier médical), vêtements pour maman et bébé, articles de toilette, serviettes hygiéniques post-partum."},
	},
	CategoryWellbeing: {
		{"Sommeil", "Dormez sur le côté gauche pour améliorer la circulation. Utilisez des coussins de grossesse."},
		{"Stress", "Pratiquez la relaxation, la méditation ou le yoga pour gérer le stress."},
		{"Travail", "Vous avez droit à des pauses et aménagements. Le congé maternité commence 6 semaines avant l'accouchement."},
		{"Voyage", "Les voyages sont possibles jusqu'au 7ème mois, privilégiez le train ou la voiture avec pauses."},
	},
	CategoryCheckups: {
		{"Échographies", "3 échographies obligatoires : 12SA, 22SA, 32SA pour surveiller le développement."},
		{"Prises de sang", "Surveillance de l'anémie, diabète gestationnel, infections."},
		{"Monitoring", "Surveillance du rythme cardiaque fœtal en fin de grossesse."},
	},
	CategoryWarnings: {
		{"Urgences", strings.Join(emergencySigns, ", ") + "."},
		{"Consultation rapide", strings.Join(quickConsultSigns, ", ") + "."},
	},
}

// GeneralInfo returns the information block of a category, one "key: value"
// line per entry.
func GeneralInfo(c Category) (string, bool) {
	lines, ok := generalInfo[c]
	if !ok {
		return "", false
	}
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.key + " : " + l.value
	}
	return strings.Join(parts, "\n"), true
}
