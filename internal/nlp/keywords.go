package nlp

// Keyword tables. All entries are lowercase and written in the form produced
// by text.Normalize (hyphens become spaces). Order is significant: the first
// matching entry wins wherever a table is scanned.

type intentKeywords struct {
	intent   Intent
	keywords []string
}

// emergencyKeywords pre-empt every other intent. Bare "travail", "sang",
// "accouchement" and "chaud" are left out: they match "je travaille",
// "prise de sang", "préparer l'accouchement" and "il fait chaud".
var emergencyKeywords = []string{
	"saignement", "saignements", "saigne", "hémorragie", "du sang", "perte de sang", "beaucoup de sang",
	"douleur intense", "douleurs intenses", "très mal", "insupportable", "mal au ventre",
	"contractions", "en travail", "début de travail", "accoucher",
	"fièvre", "température", "frissons",
	"vision floue", "mal de tête", "maux de tête", "migraine",
	"vomissements", "vomir", "ne peux plus manger",
	"perte des eaux", "liquide", "poche des eaux",
	"urgent", "urgence", "grave",
}

// alarmPhrases feed the independent emergency detector.
var alarmPhrases = []string{
	"saignement abondant", "saignements abondants", "beaucoup de sang",
	"douleur insupportable", "très mal",
	"contractions régulières", "en travail",
	"perte des eaux", "perte de liquide",
	"fièvre élevée", "plus de 38",
	"vision floue", "maux de tête sévères",
	"vomissements incessants",
}

// intentTable is scanned in declaration order after the emergency check.
var intentTable = []intentKeywords{
	{IntentGreeting, []string{"bonjour", "bonsoir", "salut", "hello", "coucou", "hey"}},
	{IntentThanks, []string{"merci", "thanks", "thank you"}},
	{IntentFarewell, []string{"au revoir", "bye", "à bientôt", "salut", "tchao"}},
	{IntentGeneralQuestion, []string{
		"qu'est ce que", "c'est quoi", "comment", "pourquoi", "quand",
		"où", "quel", "quelle", "combien",
	}},
	{IntentAdviceRequest, []string{
		"aide", "aider", "help", "problème", "souci", "inquiète", "inquiet",
		"conseil", "que faire", "recommandation", "suggestion",
	}},
	{IntentSymptomInquiry, []string{
		"j'ai mal", "je ressens", "je sens", "douleur", "symptôme", "normal",
	}},
	{IntentRiskEvaluation, []string{
		"risque", "évaluation", "évaluer", "analyser", "prédire", "diagnostic",
	}},
}

var positiveWords = []string{
	"bien", "bon", "bonne", "super", "génial", "parfait",
	"heureux", "heureuse", "content", "contente", "joie",
}

var negativeWords = []string{
	"mal", "mauvais", "terrible", "horrible", "inquiet",
	"inquiète", "peur", "stress", "angoisse", "problème",
}

type faqEntry struct {
	trigger string
	answer  string
}

// faqTable maps short trigger phrases to canned answers.
var faqTable = []faqEntry{
	{"congé maternité", "Le congé maternité commence 6 semaines avant la date prévue d'accouchement."},
	{"test grossesse", "Les tests de grossesse sont fiables dès le premier jour de retard des règles."},
	{"test de grossesse", "Les tests de grossesse sont fiables dès le premier jour de retard des règles."},
	{"premier rdv", "Le premier rendez-vous se fait généralement vers 6-8 semaines de grossesse."},
	{"premier rendez vous", "Le premier rendez-vous se fait généralement vers 6-8 semaines de grossesse."},
	{"échographie", "3 échographies sont obligatoires : 12SA, 22SA et 32SA."},
	{"poids grossesse", "Une prise de poids de 9-12 kg est normale pendant la grossesse."},
	{"alcool", "L'alcool est strictement interdit pendant toute la grossesse."},
	{"café", "Limitez le café à 1-2 tasses par jour maximum."},
	{"voyage", "Les voyages sont possibles jusqu'au 7ème mois, privilégiez le train."},
	{"travail", "Vous pouvez généralement travailler jusqu'au congé maternité sauf contre-indication."},
	{"suis je enceinte", "Si vous pensez être enceinte, faites un test de grossesse et consultez un médecin pour confirmer."},
}

type bucket struct {
	name     string
	keywords []string
}

// Symptom categories recorded under FieldSymptom.
const (
	SymptomNausea       = "nausea"
	SymptomFatigue      = "fatigue"
	SymptomPain         = "pain"
	SymptomBleeding     = "bleeding"
	SymptomContractions = "contractions"
	SymptomFever        = "fever"
)

// Pain locations recorded under FieldPainLocation.
const (
	LocationAbdomen = "abdomen"
	LocationBack    = "back"
	LocationHead    = "head"
	LocationChest   = "chest"
	LocationLegs    = "legs"
)

var symptomBuckets = []bucket{
	{SymptomNausea, []string{"nausée", "nausées", "envie de vomir", "mal au cœur", "mal au coeur", "vomissement"}},
	{SymptomFatigue, []string{"fatigue", "fatiguée", "épuisée", "crevée"}},
	{SymptomPain, []string{"douleur", "j'ai mal", "mal au", "mal à", "mal de", "souffre", "fait mal"}},
	{SymptomBleeding, []string{"saignement", "saigne", "sang", "pertes"}},
	{SymptomContractions, []string{"contraction", "ventre dur"}},
	{SymptomFever, []string{"fièvre", "température", "chaud", "frissons"}},
}

var locationBuckets = []bucket{
	{LocationAbdomen, []string{"ventre", "abdomen", "estomac"}},
	{LocationBack, []string{"dos", "reins", "lombaire"}},
	{LocationHead, []string{"tête", "crâne", "migraine"}},
	{LocationChest, []string{"seins", "poitrine"}},
	{LocationLegs, []string{"jambes", "pieds", "chevilles"}},
}
