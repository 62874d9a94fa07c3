package chatbot

import (
	"math/rand/v2"

	"github.com/edgard/grossessebot/internal/nlp"
)

// Rand picks an index in [0, n). Implementations must be safe for concurrent
// use when the Engine is shared between sessions.
type Rand interface {
	IntN(n int) int
}

// globalRand draws from the auto-seeded, concurrency-safe math/rand/v2 source.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand returns the process-wide random source.
func DefaultRand() Rand { return globalRand{} }

func pick(r Rand, pool []string) string {
	return pool[r.IntN(len(pool))]
}

var greetings = []string{
	"Bonjour ! Je suis votre assistant spécialisé en grossesse. Comment puis-je vous aider aujourd'hui ?",
	"Salut ! Je suis là pour répondre à toutes vos questions sur la grossesse. Que souhaitez-vous savoir ?",
	"Bonjour ! En tant qu'expert en grossesse, je peux vous conseiller sur tous les aspects de cette période. Posez-moi vos questions !",
}

const personalGreeting = "Bonjour ! Je vois que vous êtes à %s semaines de grossesse (%s). Comment vous sentez-vous aujourd'hui ?"

var thanksReplies = []string{
	"Je vous en prie ! N'hésitez pas si vous avez d'autres questions.",
	"C'est avec plaisir ! Je suis là pour vous accompagner pendant votre grossesse.",
	"De rien ! Votre bien-être et celui de votre bébé sont importants.",
}

var farewellReplies = []string{
	"Au revoir ! Prenez soin de vous et de votre bébé. À bientôt !",
	"À bientôt ! N'hésitez pas à revenir si vous avez des questions.",
	"Bonne journée ! Je reste disponible pour vous accompagner.",
}

// EmergencyAdvisory is the fixed answer to any message detected as an emergency.
const EmergencyAdvisory = "🚨 ATTENTION : Votre message indique une situation qui pourrait nécessiter une consultation médicale urgente.\n\n" +
	"CONTACTEZ IMMÉDIATEMENT :\n" +
	"• Votre médecin ou sage-femme\n" +
	"• Les urgences maternité de votre hôpital\n" +
	"• Le 15 (SAMU) si c'est très urgent\n\n" +
	"Signes d'urgence : saignements abondants, douleurs intenses, contractions régulières avant terme, " +
	"perte de liquide, fièvre élevée, maux de tête sévères avec troubles visuels.\n\n" +
	"En attendant, reposez-vous et ne restez pas seule."

const (
	symptomCaveat = "\n\n⚠️ Consultez votre médecin si les symptômes s'aggravent ou persistent."
	stageNote     = "\n\nℹ️ Au %s: %s"

	symptomClarify = "Je comprends votre inquiétude concernant vos symptômes. " +
		"Pouvez-vous me décrire plus précisément ce que vous ressentez ? " +
		"Par exemple : nausées, fatigue, douleurs, etc. " +
		"Cela m'aidera à vous donner des conseils plus adaptés."

	riskNeedsInfo = "Pour évaluer votre profil de risque, j'ai besoin de quelques informations :\n\n"
	riskReady     = "J'ai toutes les informations nécessaires. Voulez-vous que j'évalue votre profil de risque ?"

	weightGainAnswer = "Une prise de poids normale pendant la grossesse est de 9-12 kg pour un IMC normal. " +
		"Cela dépend de votre poids initial. Votre médecin vous donnera des recommandations personnalisées."
	deliveryTimingAnswer = "L'accouchement a généralement lieu entre 37 et 42 semaines. " +
		"Signes du travail : contractions régulières, perte du bouchon muqueux, rupture de la poche des eaux. " +
		"Chaque grossesse est unique !"

	// FallbackMenu is returned when no FAQ entry, override or topic matches.
	FallbackMenu = "Je n'ai pas trouvé d'information spécifique sur votre question, mais je peux vous aider avec :\n\n" +
		"• Symptômes de grossesse (nausées, fatigue, douleurs...)\n" +
		"• Alimentation et nutrition\n" +
		"• Exercice et activité physique\n" +
		"• Développement du bébé\n" +
		"• Préparation à l'accouchement\n" +
		"• Signes d'alerte\n\n" +
		"Pouvez-vous reformuler votre question ou choisir un de ces sujets ?"

	empathyCloser = "\n\n💝 N'hésitez pas à me poser d'autres questions. Vous n'êtes pas seule dans cette aventure !"
	followUpGlyph = "❓ "

	// EmptySummary is the summary of a session without messages.
	EmptySummary = "Aucune conversation en cours."
)

var empathyOpeners = []string{
	"Je comprends votre inquiétude. ",
	"C'est normal de se poser des questions. ",
	"Votre préoccupation est légitime. ",
	"Je suis là pour vous rassurer. ",
}

var encouragements = []string{
	"\n\n😊 C'est merveilleux de voir votre enthousiasme !",
	"\n\n🌟 Votre attitude positive est excellente pour vous et votre bébé !",
	"\n\n💕 Continuez comme ça, vous êtes sur la bonne voie !",
}

var healthTips = []string{
	"💧 N'oubliez pas de boire 1,5-2L d'eau par jour !",
	"🚶‍♀️ Une marche de 30 minutes par jour est excellente pendant la grossesse.",
	"🥬 Mangez 5 fruits et légumes par jour pour les vitamines.",
	"😴 Dormez sur le côté gauche pour améliorer la circulation.",
	"🧘‍♀️ Pratiquez la relaxation pour gérer le stress.",
	"📱 Téléchargez une app pour suivre le développement de bébé !",
	"👥 Rejoignez un cours de préparation à l'accouchement.",
	"📋 Tenez un carnet de grossesse pour noter vos questions.",
}

// fieldLabels names the risk fields in the missing information list.
var fieldLabels = map[nlp.Field]string{
	nlp.FieldAge:      "votre âge",
	nlp.FieldWeeks:    "le nombre de semaines de grossesse",
	nlp.FieldWeightKg: "votre poids",
	nlp.FieldHeightCm: "votre taille",
}
