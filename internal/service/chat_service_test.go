package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/nutritrack/internal/db"
)

type stubAnalyzer struct {
	result    AdvisorResult
	err       error
	lastInput AdvisorInput
	calls     int
}

func (s *stubAnalyzer) Analyze(_ context.Context, input AdvisorInput) (AdvisorResult, error) {
	s.lastInput = input
	s.calls++
	return s.result, s.err
}

func newTestChatService(analyzer FoodAnalyzer) *ChatService {
	logs := NewLogService(db.DB)
	profiles := NewProfileService(db.DB)
	return NewChatService(db.DB, logs, profiles, analyzer)
}

func TestChatServiceHistoryReturnsLocalizedGreeting(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := newTestChatService(&stubAnalyzer{})

	// 默认档案语言为印尼语
	messages, err := svc.History()
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("expected 1 greeting message, got %d", len(messages))
	}
	if messages[0].Text != greetingIndonesian {
		t.Fatalf("unexpected greeting: %s", messages[0].Text)
	}

	profiles := NewProfileService(db.DB)
	input := validProfileInput()
	input.Language = "en"
	if _, err := profiles.Update(input); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	messages, err = svc.History()
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if messages[0].Text != greetingEnglish {
		t.Fatalf("unexpected english greeting: %s", messages[0].Text)
	}
}

func TestChatServiceSendPersistsProposal(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	analyzer := &stubAnalyzer{result: AdvisorResult{
		Message: "Nice choice! **Nasi goreng** is about 600 kcal.",
		IsFood:  true,
		Food: &db.FoodItem{
			Name:        "Nasi Goreng",
			Portion:     "1 plate",
			Calories:    600,
			Protein:     20,
			Carbs:       80,
			Fat:         20,
			AIGenerated: true,
		},
	}}
	svc := newTestChatService(analyzer)

	messages, err := svc.Send(context.Background(), "nasi goreng satu piring", "")
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected user and assistant messages, got %d", len(messages))
	}
	if messages[0].Role != db.ChatRoleUser || messages[1].Role != db.ChatRoleAssistant {
		t.Fatalf("unexpected roles: %s/%s", messages[0].Role, messages[1].Role)
	}
	if messages[1].Food == nil || messages[1].Food.Name != "Nasi Goreng" {
		t.Fatalf("expected food proposal on assistant message: %+v", messages[1].Food)
	}
	if messages[1].HTML == "" || !strings.Contains(messages[1].HTML, "<strong>") {
		t.Fatalf("expected rendered markdown, got %q", messages[1].HTML)
	}

	// 消息与提案均已持久化
	history, err := svc.History()
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 persisted messages, got %d", len(history))
	}
	if history[1].Food == nil {
		t.Fatal("expected persisted food proposal")
	}
}

func TestChatServiceSendRejectsEmptyInput(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := newTestChatService(&stubAnalyzer{})

	if _, err := svc.Send(context.Background(), "   ", ""); !errors.Is(err, ErrChatEmptyMessage) {
		t.Fatalf("expected empty message error, got %v", err)
	}
}

func TestChatServiceSendApologizesOnTransportFailure(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	analyzer := &stubAnalyzer{err: errors.New("connection reset")}
	svc := newTestChatService(analyzer)

	messages, err := svc.Send(context.Background(), "ayam bakar", "")
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if messages[1].Text != apologyIndonesian {
		t.Fatalf("unexpected apology: %s", messages[1].Text)
	}
}

func TestChatServiceSendSurfacesMissingAPIKey(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	analyzer := &stubAnalyzer{err: ErrAIAPIKeyMissing}
	svc := newTestChatService(analyzer)

	if _, err := svc.Send(context.Background(), "ayam bakar", ""); !errors.Is(err, ErrAIAPIKeyMissing) {
		t.Fatalf("expected missing key error, got %v", err)
	}
}

func TestChatServiceTruncatesToFiftyMessages(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := newTestChatService(&stubAnalyzer{})

	for i := 0; i < maxChatMessages+5; i++ {
		msg := db.ChatMessage{
			ID:   newEntryID(),
			Role: db.ChatRoleUser,
			Text: fmt.Sprintf("message %d", i),
		}
		if err := svc.appendMessage(&msg); err != nil {
			t.Fatalf("appendMessage returned error: %v", err)
		}
	}

	var count int64
	if err := db.DB.Model(&db.ChatMessage{}).Count(&count).Error; err != nil {
		t.Fatalf("count chat messages: %v", err)
	}
	if count != maxChatMessages {
		t.Fatalf("expected %d messages, got %d", maxChatMessages, count)
	}

	// 裁剪的是最早的消息
	messages, err := svc.History()
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if messages[0].Text != "message 5" {
		t.Fatalf("unexpected oldest message: %s", messages[0].Text)
	}
	if messages[len(messages)-1].Text != fmt.Sprintf("message %d", maxChatMessages+4) {
		t.Fatalf("unexpected newest message: %s", messages[len(messages)-1].Text)
	}
}

func TestChatServiceLogFood(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	analyzer := &stubAnalyzer{result: AdvisorResult{
		Message: "Logged-worthy!",
		IsFood:  true,
		Food:    &db.FoodItem{Name: "Sate Ayam", Portion: "10 sticks", Calories: 350, Protein: 30, Carbs: 10, Fat: 20, AIGenerated: true},
	}}
	svc := newTestChatService(analyzer)

	messages, err := svc.Send(context.Background(), "sate ayam", "")
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	assistantID := messages[1].ID

	entry, err := svc.LogFood(assistantID, "Dinner")
	if err != nil {
		t.Fatalf("LogFood returned error: %v", err)
	}
	if entry.Food.Name != "Sate Ayam" || entry.MealType != db.MealDinner {
		t.Fatalf("unexpected ledger entry: %+v", entry)
	}
	if entry.Date != Today() {
		t.Fatalf("unexpected entry date: %s", entry.Date)
	}

	history, err := svc.History()
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if !history[1].Logged {
		t.Fatal("expected assistant message to be marked logged")
	}

	// 无提案的消息不可入账
	if _, err := svc.LogFood(messages[0].ID, "Dinner"); !errors.Is(err, ErrChatNoFoodData) {
		t.Fatalf("expected no food data error, got %v", err)
	}
	if _, err := svc.LogFood("missing-id", "Dinner"); !errors.Is(err, ErrChatMessageNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestChatServiceClear(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := newTestChatService(&stubAnalyzer{result: AdvisorResult{Message: "ok"}})

	if _, err := svc.Send(context.Background(), "hello", ""); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	welcome, err := svc.Clear()
	if err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if welcome.Text != clearedNotice {
		t.Fatalf("unexpected cleared notice: %s", welcome.Text)
	}

	var count int64
	if err := db.DB.Model(&db.ChatMessage{}).Count(&count).Error; err != nil {
		t.Fatalf("count chat messages: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty chat history, got %d", count)
	}
}

func TestChatServiceSendPassesContextToAnalyzer(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	logs := NewLogService(db.DB)
	if _, err := logs.Add(LogInput{Date: Today(), MealType: "Breakfast", Food: testFood("Oatmeal", 300, 10, 50, 5)}); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	analyzer := &stubAnalyzer{result: AdvisorResult{Message: "ok"}}
	svc := newTestChatService(analyzer)

	if _, err := svc.Send(context.Background(), "lunch ideas?", ""); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if len(analyzer.lastInput.TodayEntries) != 1 {
		t.Fatalf("expected today's log in analyzer input, got %d entries", len(analyzer.lastInput.TodayEntries))
	}
	if len(analyzer.lastInput.History) != 1 || analyzer.lastInput.History[0].Text != "lunch ideas?" {
		t.Fatalf("expected pending user message in history: %+v", analyzer.lastInput.History)
	}
	if analyzer.lastInput.Profile.Name == "" {
		t.Fatal("expected profile in analyzer input")
	}
}
