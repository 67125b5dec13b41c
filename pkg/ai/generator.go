package ai

import (
	"context"
	"encoding/json"
)

// MediaGenerator issues one media generation call. GeminiClient implements it;
// tests substitute fakes.
type MediaGenerator interface {
	GenerateMedia(ctx context.Context, model, prompt string, modalities []Modality) (MediaResult, error)
}

// SpeechGenerator issues one text-to-speech call returning raw PCM.
type SpeechGenerator interface {
	GenerateSpeech(ctx context.Context, model, voice, prompt string) (SpeechResult, error)
}

// StructuredGenerator issues one JSON-mode generation call.
type StructuredGenerator interface {
	GenerateStructured(ctx context.Context, model, prompt string, schema json.RawMessage, out any) error
}

// Client is the full outbound surface the orchestration layer depends on.
type Client interface {
	MediaGenerator
	SpeechGenerator
	StructuredGenerator
}
