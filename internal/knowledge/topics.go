package knowledge

import "strings"

// TopicID identifies a knowledge topic.
type TopicID string

const (
	TopicNausea       TopicID = "nausea"
	TopicFatigue      TopicID = "fatigue"
	TopicDiet         TopicID = "diet"
	TopicExercise     TopicID = "exercise"
	TopicPain         TopicID = "pain"
	TopicBaby         TopicID = "baby"
	TopicDelivery     TopicID = "delivery"
	TopicSymptoms     TopicID = "symptoms"
	TopicWellbeing    TopicID = "wellbeing"
	TopicCheckups     TopicID = "checkups"
	TopicWarningSigns TopicID = "warning_signs"
)

// Topic is a static knowledge entry. Name is the French identifier used for
// fuzzy matching; Keywords trigger the topic by substring.
type Topic struct {
	ID       TopicID
	Name     string
	Keywords []string
	respond  func(lower string) string
}

func fixed(s string) func(string) string {
	return func(string) string { return s }
}

// topics is scanned in declaration order, then keyword order.
var topics = []Topic{
	{
		ID:       TopicNausea,
		Name:     "nausées",
		Keywords: []string{"nausée", "nausées", "vomissement", "vomissements", "mal au cœur", "mal au coeur", "envie de vomir"},
		respond: fixed("Les nausées sont très courantes pendant la grossesse, surtout au 1er trimestre. " +
			"Voici quelques conseils : mangez de petits repas fréquents, évitez les odeurs fortes, " +
			"buvez du thé au gingembre, et reposez-vous. Si les vomissements sont très fréquents, " +
			"consultez votre médecin."),
	},
	{
		ID:       TopicFatigue,
		Name:     "fatigue",
		Keywords: []string{"fatigue", "fatiguée", "épuisée", "sommeil", "dormir", "énergie"},
		respond: fixed("La fatigue est normale pendant la grossesse, surtout au 1er et 3ème trimestre. " +
			"Conseils : dormez 8-9h par nuit, faites des siestes si possible, mangez équilibré, " +
			"et pratiquez une activité physique douce. N'hésitez pas à demander de l'aide."),
	},
	{
		ID:       TopicDiet,
		Name:     "alimentation",
		Keywords: []string{"manger", "aliment", "nourriture", "régime", "nutrition", "vitamines"},
		respond: func(lower string) string {
			if strings.Contains(lower, "éviter") || strings.Contains(lower, "interdit") {
				return "Aliments à éviter : viandes crues, poissons crus, fromages au lait cru, " +
					"alcool (strictement interdit), œufs crus, et limiter le café. " +
					"Privilégiez les aliments bien cuits et les produits pasteurisés."
			}
			return "Une alimentation équilibrée est essentielle : 5 fruits et légumes par jour, " +
				"protéines (viandes cuites, poissons, œufs), produits laitiers pasteurisés, " +
				"céréales complètes. Prenez de l'acide folique et buvez 1,5-2L d'eau par jour."
		},
	},
	{
		ID:       TopicExercise,
		Name:     "exercice",
		Keywords: []string{"sport", "exercice", "activité", "natation", "yoga", "piscine", "marcher"},
		respond: fixed("L'exercice est bénéfique pendant la grossesse : marche, natation, yoga prénatal. " +
			"Évitez les sports de contact et à risque de chute. 30 minutes d'activité modérée " +
			"par jour sont recommandées, sauf contre-indication médicale."),
	},
	{
		ID:       TopicPain,
		Name:     "douleur",
		Keywords: []string{"douleur", "j'ai mal", "mal au", "mal à", "mal de", "souffrance", "contractions", "crampes"},
		respond: func(lower string) string {
			if strings.Contains(lower, "ventre") || strings.Contains(lower, "abdomen") {
				return "Les douleurs abdominales peuvent être normales (étirement des ligaments) " +
					"ou nécessiter une consultation. Si les douleurs sont intenses, persistantes " +
					"ou accompagnées de saignements, consultez rapidement."
			}
			return "Différents types de douleurs peuvent survenir pendant la grossesse. " +
				"La plupart sont normales mais certaines nécessitent une consultation. " +
				"Décrivez-moi plus précisément votre douleur pour vous aider davantage."
		},
	},
	{
		ID:       TopicBaby,
		Name:     "bébé",
		Keywords: []string{"bébé", "fœtus", "foetus", "enfant", "mouvements", "bouger", "bouge"},
		respond: func(lower string) string {
			if strings.Contains(lower, "mouvement") || strings.Contains(lower, "bouge") {
				return "Les premiers mouvements se sentent entre 18-22 semaines. Au 3ème trimestre, " +
					"comptez les mouvements : au moins 10 mouvements en 2 heures. Si vous notez " +
					"une diminution, consultez rapidement."
			}
			return "Le développement du bébé se fait progressivement : formation des organes " +
				"au 1er trimestre, croissance rapide au 2ème, maturation au 3ème. " +
				"Les échographies permettent de suivre son développement."
		},
	},
	{
		ID:       TopicDelivery,
		Name:     "accouchement",
		Keywords: []string{"accouchement", "naissance", "travail", "contractions", "maternité"},
		respond: fixed("Signes du travail : contractions régulières et douloureuses, perte du bouchon " +
			"muqueux, rupture de la poche des eaux. Les cours de préparation vous aideront " +
			"à mieux comprendre le processus et gérer la douleur."),
	},
	{
		ID:       TopicSymptoms,
		Name:     "symptômes",
		Keywords: []string{"symptôme", "signe", "problème", "inquiétude", "normal"},
		respond: fixed("De nombreux symptômes sont normaux pendant la grossesse : nausées, fatigue, " +
			"seins tendus, fréquence urinaire... Cependant, certains signes nécessitent " +
			"une consultation : saignements, douleurs intenses, fièvre, maux de tête sévères."),
	},
	{
		ID:       TopicWellbeing,
		Name:     "bien être",
		Keywords: []string{"stress", "relaxation", "détente", "moral", "voyage", "voyager"},
		respond: fixed("Pour votre bien-être : dormez sur le côté gauche pour améliorer la circulation " +
			"et utilisez des coussins de grossesse. Pratiquez la relaxation, la méditation ou le yoga " +
			"pour gérer le stress. Les voyages sont possibles jusqu'au 7ème mois, privilégiez le train " +
			"ou la voiture avec des pauses."),
	},
	{
		ID:       TopicCheckups,
		Name:     "examens",
		Keywords: []string{"examen", "échographie", "prise de sang", "prises de sang", "consultation", "suivi", "monitoring"},
		respond: fixed("Le suivi comprend 3 échographies obligatoires (12SA, 22SA, 32SA) pour surveiller " +
			"le développement, des prises de sang pour dépister l'anémie, le diabète gestationnel et " +
			"les infections, puis un monitoring du rythme cardiaque fœtal en fin de grossesse."),
	},
	{
		ID:       TopicWarningSigns,
		Name:     "signes d'alerte",
		Keywords: []string{"alerte", "danger", "dangereux", "quand consulter", "quand appeler"},
		respond: func(string) string {
			return "Appelez immédiatement en cas de : " + strings.Join(emergencySigns, ", ") + ". " +
				"Consultez rapidement en cas de : " + strings.Join(quickConsultSigns, ", ") + "."
		},
	},
}
