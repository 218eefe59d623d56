package response_models

import (
	"recovery/internal/models/db_models"
	"recovery/internal/progress"
)

// SaveResponse is the body the journal page script expects after a save.
type SaveResponse struct {
	Success              bool   `json:"success"`
	CompletionPercentage int    `json:"completion_percentage,omitempty"`
	IsCompleted          bool   `json:"is_completed,omitempty"`
	Message              string `json:"message,omitempty"`
	Error                string `json:"error,omitempty"`
}

type EntryResponse struct {
	DayNumber            int    `json:"day_number"`
	DailyReflection      string `json:"daily_reflection"`
	GratitudeList        string `json:"gratitude_list"`
	Challenges           string `json:"challenges"`
	Wins                 string `json:"wins"`
	Goals                string `json:"goals"`
	TriggerNotes         string `json:"trigger_notes"`
	CopingStrategies     string `json:"coping_strategies"`
	SupportConnections   string `json:"support_connections"`
	MoodRating           *int   `json:"mood_rating"`
	EnergyRating         *int   `json:"energy_rating"`
	SleepRating          *int   `json:"sleep_rating"`
	DrawingData          string `json:"drawing_data,omitempty"`
	Completed            bool   `json:"completed"`
	CompletionPercentage int    `json:"completion_percentage"`
	UpdatedAt            int64  `json:"updated_at"`
}

func NewEntryResponse(e *db_models.JournalEntry) EntryResponse {
	return EntryResponse{
		DayNumber:            e.DayNumber,
		DailyReflection:      e.DailyReflection,
		GratitudeList:        e.GratitudeList,
		Challenges:           e.Challenges,
		Wins:                 e.Wins,
		Goals:                e.Goals,
		TriggerNotes:         e.TriggerNotes,
		CopingStrategies:     e.CopingStrategies,
		SupportConnections:   e.SupportConnections,
		MoodRating:           e.MoodRating,
		EnergyRating:         e.EnergyRating,
		SleepRating:          e.SleepRating,
		DrawingData:          e.DrawingData,
		Completed:            e.Completed,
		CompletionPercentage: progress.CompletionPercentage(e),
		UpdatedAt:            e.UpdatedAt,
	}
}

type JournalDayResponse struct {
	Entry      EntryResponse `json:"entry"`
	CurrentDay int           `json:"current_day"`
	TotalDays  int           `json:"total_days"`
}

type DashboardResponse struct {
	Profile           ProfileResponse `json:"profile"`
	Entries           []EntryResponse `json:"entries"`
	TotalDays         int             `json:"total_days"`
	OverallPercentage int             `json:"overall_percentage"`
	Settings          map[string]string `json:"settings"`
}

type AnnotationResponse struct {
	PageNumber  int    `json:"page_number"`
	Notes       string `json:"notes"`
	DrawingData string `json:"drawing_data,omitempty"`
	TotalPages  int    `json:"total_pages"`
	UpdatedAt   int64  `json:"updated_at"`
}

func NewAnnotationResponse(a *db_models.PDFAnnotation) AnnotationResponse {
	return AnnotationResponse{
		PageNumber:  a.PageNumber,
		Notes:       a.Notes,
		DrawingData: a.DrawingData,
		TotalPages:  progress.TotalPages,
		UpdatedAt:   a.UpdatedAt,
	}
}
