package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// aiChatClient 封装对 OpenAI / DeepSeek Chat Completions 接口的调用。
// 平台与密钥取自系统设置，测试时可通过 SetHTTPClient 注入桩客户端。
type aiChatClient struct {
	settings   *SystemSettingService
	httpClient httpDoer
}

func newAIChatClient(settings *SystemSettingService) *aiChatClient {
	return &aiChatClient{
		settings:   settings,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *aiChatClient) SetHTTPClient(client httpDoer) {
	if client == nil {
		c.httpClient = &http.Client{Timeout: 60 * time.Second}
		return
	}
	c.httpClient = client
}

// chatMessagePart 表示多模态消息中的一个片段（文本或图片）。
type chatMessagePart struct {
	Type     string            `json:"type"`
	Text     string            `json:"text,omitempty"`
	ImageURL *chatImagePayload `json:"image_url,omitempty"`
}

type chatImagePayload struct {
	URL string `json:"url"`
}

// chatRequestMessage 的 Content 可为纯文本或多模态片段数组。
type chatRequestMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type chatResponseFormat struct {
	Type string `json:"type"`
}

type chatCompletionRequest struct {
	Model          string               `json:"model"`
	Messages       []chatRequestMessage `json:"messages"`
	Temperature    float64              `json:"temperature,omitempty"`
	MaxTokens      int                  `json:"max_tokens,omitempty"`
	ResponseFormat *chatResponseFormat  `json:"response_format,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// textMessage 构造纯文本消息。
func textMessage(role, content string) chatRequestMessage {
	return chatRequestMessage{Role: role, Content: content}
}

// visionMessage 构造携带图片的用户消息，图片以 data URL 形式内联。
func visionMessage(text, imageDataURL string) chatRequestMessage {
	parts := []chatMessagePart{{Type: "text", Text: text}}
	if imageDataURL != "" {
		parts = append(parts, chatMessagePart{
			Type:     "image_url",
			ImageURL: &chatImagePayload{URL: imageDataURL},
		})
	}
	return chatRequestMessage{Role: "user", Content: parts}
}

type chatCallOptions struct {
	temperature float64
	maxTokens   int
	jsonOutput  bool
	visionModel bool
}

// complete 发起一次补全请求并返回首个回复内容。
func (c *aiChatClient) complete(ctx context.Context, messages []chatRequestMessage, opts chatCallOptions) (string, error) {
	settings, err := c.settings.GetSettings()
	if err != nil {
		return "", err
	}

	endpoint := ""
	apiKey := ""
	model := ""
	switch settings.AIProvider {
	case AIProviderDeepSeek:
		endpoint = strings.TrimRight(c.settings.deepSeekBaseURL, "/") + "/chat/completions"
		apiKey = settings.DeepSeekAPIKey
		model = "deepseek-chat"
	default:
		endpoint = strings.TrimRight(c.settings.openAIBaseURL, "/") + "/chat/completions"
		apiKey = settings.OpenAIAPIKey
		if opts.visionModel {
			model = "gpt-4o"
		} else {
			model = "gpt-4o-mini"
		}
	}

	if strings.TrimSpace(apiKey) == "" {
		return "", ErrAIAPIKeyMissing
	}

	reqBody := chatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: opts.temperature,
		MaxTokens:   opts.maxTokens,
	}
	if opts.jsonOutput {
		reqBody.ResponseFormat = &chatResponseFormat{Type: "json_object"}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	client := c.httpClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call chat completion: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}

	if resp.StatusCode >= 400 {
		if parsed.Error != nil && parsed.Error.Message != "" {
			return "", fmt.Errorf("chat completion failed: %s", parsed.Error.Message)
		}
		return "", fmt.Errorf("chat completion failed: %s", resp.Status)
	}

	if len(parsed.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}
