package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nutritrack/internal/db"
	"github.com/nutritrack/internal/locale"
	"gorm.io/gorm"
)

// maxChatMessages 限制留存的聊天消息条数，超出后裁剪最早的消息。
const maxChatMessages = 50

const (
	greetingIndonesian = "Halo! Aku NutriTrack AI. Ceritakan apa yang kamu makan atau kirim fotonya ya. Aku juga bisa kasih tips kesehatan lho! 😊"
	greetingEnglish    = "Hi! I'm NutriTrack AI. Tell me what you ate or snap a photo. I can also give you health tips! 😊"
	apologyIndonesian  = "Maaf, ada masalah koneksi. Coba lagi ya? 🙏"
	apologyEnglish     = "Sorry, I had trouble connecting. Please try again."
	clearedNotice      = "Chat cleared. Let's start fresh! 🌱"
)

var (
	// ErrChatEmptyMessage 在既无文本也无图片时返回
	ErrChatEmptyMessage = errors.New("empty chat message")
	// ErrChatMessageNotFound 在指定消息不存在时返回
	ErrChatMessageNotFound = errors.New("chat message not found")
	// ErrChatNoFoodData 在消息不含可入账的营养提案时返回
	ErrChatNoFoodData = errors.New("chat message has no food data")
)

// ChatService 负责营养师对话：持久化消息、调用 AI 分析并把提案写入台账。
type ChatService struct {
	db       *gorm.DB
	logs     *LogService
	profiles *ProfileService
	analyzer FoodAnalyzer
}

// ChatMessageView 是对外暴露的消息视图，内嵌的营养提案已展开为结构化字段。
type ChatMessageView struct {
	ID        string       `json:"id"`
	Role      string       `json:"role"`
	Text      string       `json:"text"`
	Image     string       `json:"image,omitempty"`
	HTML      string       `json:"html,omitempty"`
	Food      *db.FoodItem `json:"foodData,omitempty"`
	Logged    bool         `json:"isLogged"`
	CreatedAt time.Time    `json:"createdAt"`
}

// NewChatService 构造 ChatService。
func NewChatService(gdb *gorm.DB, logs *LogService, profiles *ProfileService, analyzer FoodAnalyzer) *ChatService {
	return &ChatService{db: gdb, logs: logs, profiles: profiles, analyzer: analyzer}
}

// History 按时间升序返回聊天记录；记录为空时返回一条本地化欢迎语（不落库）。
func (s *ChatService) History() ([]ChatMessageView, error) {
	profile, err := s.profiles.Get()
	if err != nil {
		return nil, err
	}

	messages, err := s.loadMessages()
	if err != nil {
		return nil, err
	}

	if len(messages) == 0 {
		return []ChatMessageView{welcomeView(profile.Language)}, nil
	}

	views := make([]ChatMessageView, 0, len(messages))
	for _, msg := range messages {
		views = append(views, toView(msg))
	}
	return views, nil
}

// Send 保存用户消息、调用 AI 分析并保存助手回复。
// AI 调用失败时回复本地化致歉文案而非报错；缺少 API Key 则直接返回错误。
func (s *ChatService) Send(ctx context.Context, text, imageDataURL string) ([]ChatMessageView, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" && strings.TrimSpace(imageDataURL) == "" {
		return nil, ErrChatEmptyMessage
	}

	profile, err := s.profiles.Get()
	if err != nil {
		return nil, err
	}

	normalizedImage := ""
	if strings.TrimSpace(imageDataURL) != "" {
		normalizedImage, err = NormalizeImageDataURL(imageDataURL)
		if err != nil {
			return nil, err
		}
		if trimmed == "" {
			trimmed = "Analyze this image"
		}
	}

	history, err := s.loadMessages()
	if err != nil {
		return nil, err
	}

	userMsg := db.ChatMessage{
		ID:    newEntryID(),
		Role:  db.ChatRoleUser,
		Text:  trimmed,
		Image: normalizedImage,
	}
	if err := s.appendMessage(&userMsg); err != nil {
		return nil, err
	}

	todayEntries, err := s.logs.ListByDate(Today())
	if err != nil {
		return nil, err
	}

	result, err := s.analyzer.Analyze(ctx, AdvisorInput{
		Text:         trimmed,
		ImageDataURL: normalizedImage,
		History:      append(history, userMsg),
		Profile:      profile,
		TodayEntries: todayEntries,
	})
	if err != nil {
		if errors.Is(err, ErrAIAPIKeyMissing) {
			return nil, err
		}
		aiMsg := db.ChatMessage{
			ID:   newEntryID(),
			Role: db.ChatRoleAssistant,
			Text: apologyText(profile.Language),
		}
		if appendErr := s.appendMessage(&aiMsg); appendErr != nil {
			return nil, appendErr
		}
		return []ChatMessageView{toView(userMsg), toView(aiMsg)}, nil
	}

	aiMsg := db.ChatMessage{
		ID:   newEntryID(),
		Role: db.ChatRoleAssistant,
		Text: result.Message,
	}
	if result.Food != nil {
		food := *result.Food
		food.Image = normalizedImage
		payload, marshalErr := json.Marshal(food)
		if marshalErr != nil {
			return nil, fmt.Errorf("marshal food proposal: %w", marshalErr)
		}
		aiMsg.FoodJSON = string(payload)
	}
	if err := s.appendMessage(&aiMsg); err != nil {
		return nil, err
	}

	return []ChatMessageView{toView(userMsg), toView(aiMsg)}, nil
}

// LogFood 把消息中的营养提案复制进台账并将消息标记为已入账。
// 重复调用会产生重复台账记录，与提案按钮的交互语义一致。
func (s *ChatService) LogFood(messageID, mealType string) (*db.FoodLogEntry, error) {
	var msg db.ChatMessage
	if err := s.db.First(&msg, "id = ?", messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatMessageNotFound
		}
		return nil, fmt.Errorf("load chat message: %w", err)
	}

	if strings.TrimSpace(msg.FoodJSON) == "" {
		return nil, ErrChatNoFoodData
	}

	var food db.FoodItem
	if err := json.Unmarshal([]byte(msg.FoodJSON), &food); err != nil {
		return nil, fmt.Errorf("decode food proposal: %w", err)
	}

	entry, err := s.logs.Add(LogInput{
		Date:     Today(),
		MealType: mealType,
		Food:     food,
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(&db.ChatMessage{}).
		Where("id = ?", messageID).
		Update("logged", true).Error; err != nil {
		return nil, fmt.Errorf("mark chat message logged: %w", err)
	}

	return entry, nil
}

// Clear 清空聊天记录并返回一条重新开始的提示消息（不落库）。
func (s *ChatService) Clear() (ChatMessageView, error) {
	if err := s.db.Where("1 = 1").Delete(&db.ChatMessage{}).Error; err != nil {
		return ChatMessageView{}, fmt.Errorf("clear chat messages: %w", err)
	}
	return ChatMessageView{
		ID:        "welcome",
		Role:      db.ChatRoleAssistant,
		Text:      clearedNotice,
		HTML:      RenderMarkdown(clearedNotice),
		CreatedAt: time.Now(),
	}, nil
}

func (s *ChatService) loadMessages() ([]db.ChatMessage, error) {
	var messages []db.ChatMessage
	if err := s.db.Order("created_at ASC, id ASC").Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	return messages, nil
}

// appendMessage 写入一条消息并裁剪超出容量的最早记录。
func (s *ChatService) appendMessage(msg *db.ChatMessage) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return fmt.Errorf("create chat message: %w", err)
		}

		var count int64
		if err := tx.Model(&db.ChatMessage{}).Count(&count).Error; err != nil {
			return fmt.Errorf("count chat messages: %w", err)
		}
		if count <= maxChatMessages {
			return nil
		}

		var stale []db.ChatMessage
		if err := tx.Order("created_at ASC, id ASC").
			Limit(int(count) - maxChatMessages).
			Find(&stale).Error; err != nil {
			return fmt.Errorf("find stale chat messages: %w", err)
		}
		ids := make([]string, 0, len(stale))
		for _, m := range stale {
			ids = append(ids, m.ID)
		}
		if err := tx.Where("id IN ?", ids).Delete(&db.ChatMessage{}).Error; err != nil {
			return fmt.Errorf("trim chat messages: %w", err)
		}
		return nil
	})
}

func welcomeView(language string) ChatMessageView {
	text := greetingEnglish
	if locale.Fallback(language) == locale.LanguageIndonesian {
		text = greetingIndonesian
	}
	return ChatMessageView{
		ID:        "welcome",
		Role:      db.ChatRoleAssistant,
		Text:      text,
		HTML:      RenderMarkdown(text),
		CreatedAt: time.Now(),
	}
}

func apologyText(language string) string {
	if locale.Fallback(language) == locale.LanguageIndonesian {
		return apologyIndonesian
	}
	return apologyEnglish
}

func toView(msg db.ChatMessage) ChatMessageView {
	view := ChatMessageView{
		ID:        msg.ID,
		Role:      msg.Role,
		Text:      msg.Text,
		Image:     msg.Image,
		Logged:    msg.Logged,
		CreatedAt: msg.CreatedAt,
	}
	if msg.Role == db.ChatRoleAssistant {
		view.HTML = RenderMarkdown(msg.Text)
	}
	if strings.TrimSpace(msg.FoodJSON) != "" {
		var food db.FoodItem
		if err := json.Unmarshal([]byte(msg.FoodJSON), &food); err == nil {
			view.Food = &food
		}
	}
	return view
}
