package models

import "fmt"

// Model describes a Gemini model the bot can be pointed at
type Model struct {
	ID          string
	Name        string
	Description string
	MaxTokens   int
	IsDefault   bool
}

// AvailableModels lists the Gemini text models known to work with the
// single-prompt exchange.
var AvailableModels = []Model{
	{
		ID:          "gemini-1.5-flash-latest",
		Name:        "Gemini 1.5 Flash (latest)",
		Description: "Fast, inexpensive model and the CampusBot default",
		MaxTokens:   1048576,
		IsDefault:   true,
	},
	{
		ID:          "gemini-1.5-flash",
		Name:        "Gemini 1.5 Flash",
		Description: "Pinned 1.5 Flash release",
		MaxTokens:   1048576,
	},
	{
		ID:          "gemini-1.5-pro",
		Name:        "Gemini 1.5 Pro",
		Description: "Higher quality answers for long Q&A sheets",
		MaxTokens:   2097152,
	},
	{
		ID:          "gemini-2.0-flash",
		Name:        "Gemini 2.0 Flash",
		Description: "Second generation fast model",
		MaxTokens:   1048576,
	},
	{
		ID:          "gemini-2.5-flash",
		Name:        "Gemini 2.5 Flash",
		Description: "Latest fast model with improved reasoning",
		MaxTokens:   1048576,
	},
}

// GetModelByID returns a model by its ID
func GetModelByID(id string) (*Model, error) {
	for _, model := range AvailableModels {
		if model.ID == id {
			return &model, nil
		}
	}
	return nil, fmt.Errorf("model with ID '%s' not found", id)
}

// GetDefaultModel returns the default model
func GetDefaultModel() *Model {
	for _, model := range AvailableModels {
		if model.IsDefault {
			return &model
		}
	}
	// Fallback to first model if no default is set
	return &AvailableModels[0]
}

// IsKnown reports whether id is in the catalogue.
func IsKnown(id string) bool {
	_, err := GetModelByID(id)
	return err == nil
}

// IDs returns the model IDs in catalogue order.
func IDs() []string {
	ids := make([]string, len(AvailableModels))
	for i, model := range AvailableModels {
		ids[i] = model.ID
	}
	return ids
}

// FormatTokens renders a context window size for display.
func FormatTokens(tokens int) string {
	if tokens >= 1000000 {
		return fmt.Sprintf("%.1fM", float64(tokens)/1000000)
	} else if tokens >= 1000 {
		return fmt.Sprintf("%.1fK", float64(tokens)/1000)
	}
	return fmt.Sprintf("%d", tokens)
}
