// Package app holds the generation orchestration layer: per-modality
// generators over the Gemini client plus the story composer.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"visually/pkg/ai"
	"visually/pkg/audio"
	"visually/pkg/domain"
)

const (
	defaultImageModel  = "gemini-2.0-flash-preview-image-generation"
	defaultSpeechModel = "gemini-2.5-flash-preview-tts"
	defaultSpeechVoice = "Algenib"
	defaultStoryModel  = "gemini-2.0-flash"
	defaultVideoModel  = "veo-2.0-generate-001"
)

const (
	logoPromptTemplate    = "Create a professional, minimalist, and iconic logo for: %s. The logo should be on a clean, solid background."
	faviconPromptTemplate = "Create a simple, modern, and iconic favicon for a website about: %s. The favicon should be clear at small sizes, square, and on a solid background."
	storyPromptTemplate   = "Generate a short story based on the following prompt: %s. Also generate a title and an image prompt for the story."
)

// storySchema constrains the story text call to {title, story, imagePrompt}.
var storySchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"title": {"type": "string"},
		"story": {"type": "string"},
		"imagePrompt": {"type": "string"}
	},
	"required": ["title", "story", "imagePrompt"]
}`)

// Config holds runtime configuration for the core application.
type Config struct {
	Client      ai.Client
	ImageModel  string
	SpeechModel string
	SpeechVoice string
	StoryModel  string
	VideoModel  string
}

// App is the core application service wiring the model client into the
// per-modality generation flows.
type App struct {
	client      ai.Client
	imageModel  string
	speechModel string
	speechVoice string
	storyModel  string
	videoModel  string
}

// New constructs the application around an explicit model client.
func New(cfg Config) (*App, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("model client required")
	}
	return &App{
		client:      cfg.Client,
		imageModel:  defaultString(cfg.ImageModel, defaultImageModel),
		speechModel: defaultString(cfg.SpeechModel, defaultSpeechModel),
		speechVoice: defaultString(cfg.SpeechVoice, defaultSpeechVoice),
		storyModel:  defaultString(cfg.StoryModel, defaultStoryModel),
		videoModel:  defaultString(cfg.VideoModel, defaultVideoModel),
	}, nil
}

// GenerateImages issues count concurrent generation calls and returns the
// media URIs that came back, preserving request-slot order. Slots for which
// the provider declined media are dropped; an all-empty batch returns an
// empty slice, not an error.
func (a *App) GenerateImages(ctx context.Context, prompt string, count int) ([]string, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("prompt required")
	}
	if count < 1 {
		count = 1
	}
	slots := make([]string, count)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < count; i++ {
		i := i
		g.Go(func() error {
			result, err := a.client.GenerateMedia(gctx, a.imageModel, prompt, []ai.Modality{ai.ModalityText, ai.ModalityImage})
			if err != nil {
				return err
			}
			slots[i] = result.MediaURI
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("generate images: %w", err)
	}
	urls := make([]string, 0, count)
	for _, uri := range slots {
		if uri != "" {
			urls = append(urls, uri)
		}
	}
	return urls, nil
}

// GenerateLogos wraps the prompt in the logo template before generating.
func (a *App) GenerateLogos(ctx context.Context, prompt string, count int) ([]string, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("prompt required")
	}
	return a.GenerateImages(ctx, fmt.Sprintf(logoPromptTemplate, prompt), count)
}

// GenerateFavicons wraps the prompt in the favicon template before generating.
func (a *App) GenerateFavicons(ctx context.Context, prompt string, count int) ([]string, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("prompt required")
	}
	return a.GenerateImages(ctx, fmt.Sprintf(faviconPromptTemplate, prompt), count)
}

// GenerateVideo issues exactly one generation call and returns the single
// media URI. Unlike the batch flows, no media is a hard failure.
func (a *App) GenerateVideo(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt required")
	}
	result, err := a.client.GenerateMedia(ctx, a.videoModel, prompt, nil)
	if err != nil {
		return "", fmt.Errorf("generate video: %w", err)
	}
	if result.MediaURI == "" {
		return "", fmt.Errorf("generate video: %w", ErrNoMedia)
	}
	return result.MediaURI, nil
}

// GenerateSpeech synthesizes the prompt, wraps the raw PCM in a WAV container
// and returns it as a playable data URI.
func (a *App) GenerateSpeech(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt required")
	}
	result, err := a.client.GenerateSpeech(ctx, a.speechModel, a.speechVoice, prompt)
	if err != nil {
		return "", fmt.Errorf("generate speech: %w", err)
	}
	if len(result.PCM) == 0 {
		return "", fmt.Errorf("generate speech: %w", ErrNoMedia)
	}
	audioURL, err := audio.EncodeWAVDataURI(result.PCM)
	if err != nil {
		return "", fmt.Errorf("encode speech audio: %w", err)
	}
	return audioURL, nil
}

type storyText struct {
	Title       string `json:"title"`
	Story       string `json:"story"`
	ImagePrompt string `json:"imagePrompt"`
}

// GenerateStory runs the structured text generation, then the cover image and
// the narration concurrently, and merges the results. If either dependent
// branch yields no media the whole composition fails; there is no partial
// story result.
func (a *App) GenerateStory(ctx context.Context, prompt string) (domain.Story, error) {
	if strings.TrimSpace(prompt) == "" {
		return domain.Story{}, fmt.Errorf("prompt required")
	}

	var text storyText
	if err := a.client.GenerateStructured(ctx, a.storyModel, fmt.Sprintf(storyPromptTemplate, prompt), storySchema, &text); err != nil {
		return domain.Story{}, fmt.Errorf("generate story text: %w", err)
	}
	if text.Title == "" || text.Story == "" || text.ImagePrompt == "" {
		return domain.Story{}, fmt.Errorf("generate story text: %w", ErrStoryIncomplete)
	}

	var (
		imageURL string
		audioURL string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		urls, err := a.GenerateImages(gctx, text.ImagePrompt, 1)
		if err != nil {
			return err
		}
		if len(urls) == 0 {
			return fmt.Errorf("story cover image: %w", ErrNoMedia)
		}
		imageURL = urls[0]
		return nil
	})
	g.Go(func() error {
		url, err := a.GenerateSpeech(gctx, text.Title+". "+text.Story)
		if err != nil {
			return err
		}
		audioURL = url
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.Story{}, fmt.Errorf("generate story: %w", err)
	}

	return domain.Story{
		Title:       text.Title,
		Story:       text.Story,
		ImagePrompt: text.ImagePrompt,
		ImageURL:    imageURL,
		AudioURL:    audioURL,
	}, nil
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
