package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler is one bot command: its handler, the middleware wrapped
// around it and the description shown in the Telegram command menu. Commands
// without a description stay out of the menu.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Description string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

func command(pattern, description string, handler tgbot.HandlerFunc, mw ...tgbot.Middleware) RegisteredHandler {
	return RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     pattern,
		Description: description,
		Handler:     handler,
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  mw,
	}
}

// RegisterAllCommands returns every bot command keyed by its slash form.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	return map[string]RegisteredHandler{
		"/start":    command("start", "Présentation de l'assistante", NewStartHandler(deps)),
		"/help":     command("help", "Liste des commandes", NewHelpHandler(deps)),
		"/reset":    command("reset", "Recommencer la conversation", NewResetHandler(deps)),
		"/resume":   command("resume", "Résumé de la conversation", NewSummaryHandler(deps)),
		"/astuce":   command("astuce", "Un conseil santé", NewHealthTipHandler(deps)),
		"/urgence":  command("urgence", "Les signes qui doivent alerter", NewEmergencyHandler(deps)),
		"/symptome": command("symptome", "Rechercher un symptôme", NewSymptomHandler(deps)),
		"/stats":    command("stats", "", NewStatsHandler(deps), AdminOnly(deps)),
	}
}
