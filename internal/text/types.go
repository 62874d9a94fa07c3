// Package text provides the normalization applied to every inbound user message
// before it reaches the rule-based analyzers.
package text

import "strings"

// keptPunctuation lists the punctuation marks that survive normalization.
const keptPunctuation = ".?!,'"

// unicodeReplacer folds typographic variants onto the characters the keyword
// tables are written with, and splits hyphenated words.
var unicodeReplacer = strings.NewReplacer(
	// Apostrophes and primes
	"’", "'", // Right Single Quotation Mark
	"‘", "'", // Left Single Quotation Mark
	"ʼ", "'", // Modifier Letter Apostrophe
	"′", "'", // Prime
	"`", "'",

	// Hyphens and dashes separate words
	"-", " ",
	"\u2010", " ", // Hyphen
	"\u2011", " ", // Non-Breaking Hyphen
	"–", " ", // En Dash
	"—", " ", // Em Dash

	// Invisible format characters
	"\u200B", "", // Zero Width Space
	"\u200C", "", // Zero Width Non-Joiner
	"\u200D", "", // Zero Width Joiner
	"\u2060", "", // Word Joiner
	"\uFEFF", "", // Byte Order Mark
	"\u00AD", "", // Soft Hyphen

	// Ellipsis keeps its dots
	"…", "...",
)
