package web

import (
	"campusbot/internal/assistant"
	"campusbot/internal/schema"
	"campusbot/internal/transcript"
)

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message string `json:"message" jsonschema:"required,minLength=1" jsonschema_description:"The visitor's question"`
}

// ChatResponse is returned by POST /api/chat.
type ChatResponse struct {
	Outcome  assistant.Outcome    `json:"outcome" jsonschema:"enum=answered,enum=rejected,enum=unavailable,enum=failed,enum=empty,enum=canceled"`
	Reply    string               `json:"reply,omitempty" jsonschema_description:"Assistant text recorded for this turn"`
	Error    string               `json:"error,omitempty"`
	Messages []transcript.Message `json:"messages,omitempty" jsonschema_description:"Full transcript after the turn"`
}

// TranscriptResponse is returned by GET /api/transcript.
type TranscriptResponse struct {
	Session  string               `json:"session"`
	Messages []transcript.Message `json:"messages"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status    string `json:"status"`
	Knowledge string `json:"knowledge"`
	Entries   int    `json:"entries"`
	Sessions  int    `json:"sessions"`
	Model     string `json:"model,omitempty"`
}

func apiSchemas() schema.Document {
	return schema.Document{
		"chat_request":        schema.Generate[ChatRequest](),
		"chat_response":       schema.Generate[ChatResponse](),
		"transcript_response": schema.Generate[TranscriptResponse](),
		"health_response":     schema.Generate[HealthResponse](),
	}
}
