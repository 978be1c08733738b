package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// ChatResult is the agent's answer to one conversation turn. Every field is
// optional; a turn with neither audio URL nor fallback text simply ends
// silently.
type ChatResult struct {
	Transcription string `json:"transcription"`
	LLMText       string `json:"llm_text"`
	MurfAudioURL  string `json:"murf_audio_url"`
	FallbackText  string `json:"fallback_text"`
}

// UploadResult describes an archived recording.
type UploadResult struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// APIError is a backend-reported failure, carrying the detail string the
// backend wants shown to the user.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error: status=%d detail=%s", e.StatusCode, e.Detail)
}

// Client talks to the voice agent backend.
type Client struct {
	BaseURL string
	// ChatClient performs agent chat requests. It deliberately carries no
	// timeout: the backend bounds nothing on its side and a slow turn must
	// not be cut off mid-answer.
	ChatClient *http.Client
	HTTPClient *http.Client
}

// New constructs a backend client for the given base URL.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		ChatClient: &http.Client{},
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// AgentChat submits one recorded turn and returns the agent's response.
// Exactly one request is made per finalized recording; there is no retry.
func (c *Client) AgentChat(ctx context.Context, sessionID string, audio []byte, filename string) (ChatResult, error) {
	body, contentType, err := multipartFile("file", filename, audio)
	if err != nil {
		return ChatResult{}, err
	}

	endpoint := fmt.Sprintf("%s/agent/chat/%s", c.BaseURL, sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return ChatResult{}, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.ChatClient.Do(req)
	if err != nil {
		return ChatResult{}, fmt.Errorf("agent chat: %w", err)
	}
	defer resp.Body.Close()

	if err := errorFromResponse(resp); err != nil {
		return ChatResult{}, err
	}
	var result ChatResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ChatResult{}, fmt.Errorf("agent chat: decode response: %w", err)
	}
	return result, nil
}

// GenerateVoice synthesizes speech for typed text and returns a playable
// audio reference.
func (c *Client) GenerateVoice(ctx context.Context, text, voiceID string) (string, error) {
	payload, _ := json.Marshal(struct {
		Text    string `json:"text"`
		VoiceID string `json:"voiceId"`
	}{Text: text, VoiceID: voiceID})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/generate-voice", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate voice: %w", err)
	}
	defer resp.Body.Close()

	if err := errorFromResponse(resp); err != nil {
		return "", err
	}
	var result struct {
		AudioFile string `json:"audioFile"`
		Detail    string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("generate voice: decode response: %w", err)
	}
	if result.AudioFile == "" {
		// success status but no audio: surface the backend's own message
		detail := result.Detail
		if detail == "" {
			detail = "no audio file in response"
		}
		return "", &APIError{StatusCode: resp.StatusCode, Detail: detail}
	}
	return result.AudioFile, nil
}

// UploadAudio archives a named recording, independent of the turn loop.
func (c *Client) UploadAudio(ctx context.Context, filename string, audio []byte) (UploadResult, error) {
	body, contentType, err := multipartFile("file", filename, audio)
	if err != nil {
		return UploadResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/upload-audio", body)
	if err != nil {
		return UploadResult{}, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return UploadResult{}, fmt.Errorf("upload audio: %w", err)
	}
	defer resp.Body.Close()

	if err := errorFromResponse(resp); err != nil {
		return UploadResult{}, err
	}
	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return UploadResult{}, fmt.Errorf("upload audio: decode response: %w", err)
	}
	return result, nil
}

func multipartFile(field, filename string, data []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		return nil, "", fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("build multipart body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("build multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// errorFromResponse maps a non-2xx response to an APIError, keeping the
// backend's detail string when the payload carries one.
func errorFromResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	apiErr := &APIError{StatusCode: resp.StatusCode}
	b, err := io.ReadAll(resp.Body)
	if err == nil {
		var payload struct {
			Detail string `json:"detail"`
		}
		if jsonErr := json.Unmarshal(b, &payload); jsonErr == nil && payload.Detail != "" {
			apiErr.Detail = payload.Detail
		}
	}
	if apiErr.Detail == "" {
		apiErr.Detail = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
