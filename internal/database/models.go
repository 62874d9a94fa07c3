package database

import "time"

// ConversationTurn is one processed chat message and the reply it got.
type ConversationTurn struct {
	ID          int64     `db:"id" json:"id"`
	SessionID   string    `db:"session_id" json:"session_id"`
	UserMessage string    `db:"user_message" json:"user_message"`
	Intent      string    `db:"intent" json:"intent"`
	Sentiment   string    `db:"sentiment" json:"sentiment"`
	IsEmergency bool      `db:"is_emergency" json:"is_emergency"`
	Response    string    `db:"response" json:"response"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// RiskEvaluation records the inputs and output of one completed risk
// prediction. Rows are written for auditing and admin statistics only.
type RiskEvaluation struct {
	ID             int64     `db:"id" json:"id"`
	EvaluationID   string    `db:"evaluation_id" json:"evaluation_id"`
	SessionID      string    `db:"session_id" json:"session_id"`
	Age            float64   `db:"age" json:"age"`
	DurationMonths float64   `db:"duration_months" json:"duration_months"`
	WeightKg       float64   `db:"weight_kg" json:"weight_kg"`
	HeightCm       float64   `db:"height_cm" json:"height_cm"`
	Activity       string    `db:"activity" json:"activity"`
	Diet           string    `db:"diet" json:"diet"`
	History        string    `db:"history" json:"history"`
	Symptom        string    `db:"symptom" json:"symptom"`
	RiskLabel      string    `db:"risk_label" json:"risk_label"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
