package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/nutritrack/internal/db"
)

func TestSystemSettingServiceDefaults(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewSystemSettingService(db.DB)

	settings, err := svc.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings returned error: %v", err)
	}
	if settings.AIProvider != AIProviderOpenAI {
		t.Fatalf("unexpected default provider: %s", settings.AIProvider)
	}
	if settings.OpenAIAPIKey != "" || settings.DeepSeekAPIKey != "" {
		t.Fatal("expected empty keys by default")
	}
}

func TestSystemSettingServiceUpdateRoundTrip(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewSystemSettingService(db.DB)

	if _, err := svc.UpdateSettings(SystemSettingsInput{
		AIProvider:     "DeepSeek",
		DeepSeekAPIKey: "  sk-deep  ",
		AdvisorPrompt:  "Be extra concise.",
	}); err != nil {
		t.Fatalf("UpdateSettings returned error: %v", err)
	}

	settings, err := svc.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings returned error: %v", err)
	}
	if settings.AIProvider != AIProviderDeepSeek {
		t.Fatalf("unexpected provider: %s", settings.AIProvider)
	}
	if settings.DeepSeekAPIKey != "sk-deep" {
		t.Fatalf("expected trimmed key, got %q", settings.DeepSeekAPIKey)
	}
	if settings.AdvisorPrompt != "Be extra concise." {
		t.Fatalf("unexpected prompt: %s", settings.AdvisorPrompt)
	}

	// 再次保存覆盖旧值而非追加
	if _, err := svc.UpdateSettings(SystemSettingsInput{AIProvider: "openai"}); err != nil {
		t.Fatalf("UpdateSettings returned error: %v", err)
	}
	settings, err = svc.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings returned error: %v", err)
	}
	if settings.AIProvider != AIProviderOpenAI || settings.DeepSeekAPIKey != "" {
		t.Fatalf("unexpected settings after overwrite: %+v", settings)
	}

	var count int64
	if err := db.DB.Model(&db.SystemSetting{}).Count(&count).Error; err != nil {
		t.Fatalf("count settings: %v", err)
	}
	if count != int64(len(settingKeys)) {
		t.Fatalf("expected %d setting rows, got %d", len(settingKeys), count)
	}
}

func TestSystemSettingServiceUnknownProviderFallsBack(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewSystemSettingService(db.DB)

	settings, err := svc.UpdateSettings(SystemSettingsInput{AIProvider: "gemini"})
	if err != nil {
		t.Fatalf("UpdateSettings returned error: %v", err)
	}
	if settings.AIProvider != AIProviderOpenAI {
		t.Fatalf("unexpected provider fallback: %s", settings.AIProvider)
	}
}

func TestTestAIConnection(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewSystemSettingService(db.DB)

	if err := svc.TestAIConnection(context.Background(), AIProviderOpenAI, "   "); !errors.Is(err, ErrAIAPIKeyMissing) {
		t.Fatalf("expected missing key error, got %v", err)
	}

	var requested *http.Request
	svc.SetHTTPClient(&fakeHTTPClient{handler: func(req *http.Request) (*http.Response, error) {
		requested = req
		return jsonResponse(http.StatusOK, `{"data":[]}`), nil
	}})

	if err := svc.TestAIConnection(context.Background(), AIProviderDeepSeek, "sk-deep"); err != nil {
		t.Fatalf("TestAIConnection returned error: %v", err)
	}
	if requested == nil {
		t.Fatal("expected HTTP request")
	}
	if requested.URL.String() != "https://api.deepseek.com/v1/models" {
		t.Fatalf("unexpected endpoint: %s", requested.URL)
	}
	if requested.Header.Get("Authorization") != "Bearer sk-deep" {
		t.Fatalf("unexpected authorization header: %s", requested.Header.Get("Authorization"))
	}

	svc.SetHTTPClient(&fakeHTTPClient{handler: func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusUnauthorized, `{"error":{"message":"invalid key"}}`), nil
	}})
	if err := svc.TestAIConnection(context.Background(), AIProviderOpenAI, "sk-bad"); err == nil {
		t.Fatal("expected error for rejected key")
	}
}
