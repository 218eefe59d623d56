package request_models

import "recovery/internal/progress"

// SaveEntryRequest mirrors the journal form. Ratings left blank bind to 0
// and are stored as absent.
type SaveEntryRequest struct {
	DailyReflection    string  `json:"daily_reflection" form:"daily_reflection"`
	GratitudeList      string  `json:"gratitude_list" form:"gratitude_list"`
	Challenges         string  `json:"challenges" form:"challenges"`
	Wins               string  `json:"wins" form:"wins"`
	Goals              string  `json:"goals" form:"goals"`
	TriggerNotes       string  `json:"trigger_notes" form:"trigger_notes"`
	CopingStrategies   string  `json:"coping_strategies" form:"coping_strategies"`
	SupportConnections string  `json:"support_connections" form:"support_connections"`
	MoodRating         *int    `json:"mood_rating" form:"mood_rating"`
	EnergyRating       *int    `json:"energy_rating" form:"energy_rating"`
	SleepRating        *int    `json:"sleep_rating" form:"sleep_rating"`
	DrawingData        *string `json:"drawing_data" form:"drawing_data"`
}

func (r SaveEntryRequest) ToInput() progress.EntryInput {
	return progress.EntryInput{
		DailyReflection:    r.DailyReflection,
		GratitudeList:      r.GratitudeList,
		Challenges:         r.Challenges,
		Wins:               r.Wins,
		Goals:              r.Goals,
		TriggerNotes:       r.TriggerNotes,
		CopingStrategies:   r.CopingStrategies,
		SupportConnections: r.SupportConnections,
		MoodRating:         r.MoodRating,
		EnergyRating:       r.EnergyRating,
		SleepRating:        r.SleepRating,
		DrawingData:        r.DrawingData,
	}
}

type SaveAnnotationRequest struct {
	Notes       string  `json:"notes" form:"notes"`
	DrawingData *string `json:"drawing_data" form:"drawing_data"`
}
