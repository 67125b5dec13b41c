package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Modality selects the media types a generation call may return.
type Modality string

const (
	ModalityText  Modality = "TEXT"
	ModalityImage Modality = "IMAGE"
	ModalityAudio Modality = "AUDIO"
)

// MediaResult is the outcome of a single generation call. A successful call
// may still carry an empty MediaURI when the provider declined to produce
// media; callers decide whether that is fatal.
type MediaResult struct {
	MediaURI string
	Text     string
}

// SpeechResult carries the raw audio payload of a TTS call. The payload is
// linear PCM as emitted by the speech model, not a playable container.
type SpeechResult struct {
	PCM      []byte
	MimeType string
}

// GeminiClient calls the Google AI Studio (Gemini) API.
type GeminiClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// ClientOption customizes a GeminiClient.
type ClientOption func(*GeminiClient)

// WithBaseURL overrides the API base URL (used by tests).
func WithBaseURL(baseURL string) ClientOption {
	return func(c *GeminiClient) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *GeminiClient) {
		c.httpClient = httpClient
	}
}

// NewGeminiClient constructs a client with the provided API key.
func NewGeminiClient(apiKey string, options ...ClientOption) (*GeminiClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key required")
	}
	c := &GeminiClient{
		apiKey:     apiKey,
		baseURL:    defaultGeminiBaseURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
	for _, option := range options {
		if option != nil {
			option(c)
		}
	}
	return c, nil
}

// GenerateMedia issues one generation call and returns the first media part as
// a data URI (or provider file URI) plus any text part. Empty modalities leave
// the response format to the model default.
func (c *GeminiClient) GenerateMedia(ctx context.Context, model, prompt string, modalities []Modality) (MediaResult, error) {
	reqBody := generateRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: prompt}}},
		},
	}
	if len(modalities) > 0 {
		reqBody.GenerationConfig = &generationConfig{ResponseModalities: modalities}
	}
	var resp generateResponse
	if err := c.doJSON(ctx, c.generateURL(model), reqBody, &resp); err != nil {
		return MediaResult{}, err
	}
	return resultFromResponse(resp), nil
}

// GenerateSpeech issues one TTS call and returns the raw PCM payload.
func (c *GeminiClient) GenerateSpeech(ctx context.Context, model, voice, prompt string) (SpeechResult, error) {
	reqBody := generateRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: prompt}}},
		},
		GenerationConfig: &generationConfig{
			ResponseModalities: []Modality{ModalityAudio},
			SpeechConfig: &speechConfig{
				VoiceConfig: voiceConfig{
					PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: voice},
				},
			},
		},
	}
	var resp generateResponse
	if err := c.doJSON(ctx, c.generateURL(model), reqBody, &resp); err != nil {
		return SpeechResult{}, err
	}
	for _, p := range candidateParts(resp) {
		if p.InlineData == nil || p.InlineData.Data == "" {
			continue
		}
		pcm, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
		if err != nil {
			return SpeechResult{}, fmt.Errorf("decode audio payload: %w", err)
		}
		return SpeechResult{PCM: pcm, MimeType: p.InlineData.MimeType}, nil
	}
	return SpeechResult{}, fmt.Errorf("no audio returned from model %s", model)
}

// GenerateStructured issues one JSON-mode generation call and unmarshals the
// model output into out. schema follows the API's responseSchema format.
func (c *GeminiClient) GenerateStructured(ctx context.Context, model, prompt string, schema json.RawMessage, out any) error {
	reqBody := generateRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: prompt}}},
		},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   schema,
		},
	}
	var resp generateResponse
	if err := c.doJSON(ctx, c.generateURL(model), reqBody, &resp); err != nil {
		return err
	}
	raw := ""
	for _, p := range candidateParts(resp) {
		if p.Text != "" {
			raw = p.Text
			break
		}
	}
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("empty structured response from model %s", model)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("parse structured response: %w", err)
	}
	return nil
}

// GenerateText returns the generated response for a prompt.
func (c *GeminiClient) GenerateText(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	reqBody := generateRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: userPrompt}}},
		},
	}
	if strings.TrimSpace(systemPrompt) != "" {
		reqBody.SystemInstruction = &content{
			Parts: []part{{Text: systemPrompt}},
		}
	}
	var resp generateResponse
	if err := c.doJSON(ctx, c.generateURL(model), reqBody, &resp); err != nil {
		return "", err
	}
	parts := candidateParts(resp)
	if len(parts) == 0 || parts[0].Text == "" {
		return "", fmt.Errorf("empty response from gemini")
	}
	return parts[0].Text, nil
}

func (c *GeminiClient) generateURL(model string) string {
	return fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, normalizeModel(model), c.apiKey)
}

func normalizeModel(model string) string {
	model = strings.TrimSpace(model)
	model = strings.TrimPrefix(model, "models/")
	return model
}

func (c *GeminiClient) doJSON(ctx context.Context, url string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var errResp errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error.Message != "" {
			return fmt.Errorf("gemini api error: %s", errResp.Error.Message)
		}
		return fmt.Errorf("gemini api error: %s", resp.Status)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return err
	}
	return nil
}

func candidateParts(resp generateResponse) []part {
	if len(resp.Candidates) == 0 {
		return nil
	}
	return resp.Candidates[0].Content.Parts
}

// resultFromResponse keeps the first media part and the first text part; any
// further parts are ignored.
func resultFromResponse(resp generateResponse) MediaResult {
	var result MediaResult
	for _, p := range candidateParts(resp) {
		switch {
		case result.MediaURI == "" && p.InlineData != nil && p.InlineData.Data != "":
			result.MediaURI = fmt.Sprintf("data:%s;base64,%s", p.InlineData.MimeType, p.InlineData.Data)
		case result.MediaURI == "" && p.FileData != nil && p.FileData.FileURI != "":
			result.MediaURI = p.FileData.FileURI
		case result.Text == "" && p.Text != "":
			result.Text = p.Text
		}
	}
	return result
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
	FileData   *fileData   `json:"fileData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type fileData struct {
	MimeType string `json:"mimeType,omitempty"`
	FileURI  string `json:"fileUri"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseModalities []Modality      `json:"responseModalities,omitempty"`
	ResponseMimeType   string          `json:"responseMimeType,omitempty"`
	ResponseSchema     json.RawMessage `json:"responseSchema,omitempty"`
	SpeechConfig       *speechConfig   `json:"speechConfig,omitempty"`
}

type speechConfig struct {
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}
