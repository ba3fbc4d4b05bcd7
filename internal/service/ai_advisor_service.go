package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nutritrack/internal/db"
	"github.com/nutritrack/internal/locale"
)

// ErrAdvisorEmptyReply 表示 AI 返回了空内容。
var ErrAdvisorEmptyReply = errors.New("advisor returned empty reply")

// AdvisorInput 汇总一次食物分析所需的全部上下文。
type AdvisorInput struct {
	Text         string
	ImageDataURL string
	History      []db.ChatMessage
	Profile      db.UserProfile
	TodayEntries []db.FoodLogEntry
}

// AdvisorResult 表示 AI 顾问的结构化回复。
// Food 仅在 IsFood 为真且营养数据通过校验时非空。
type AdvisorResult struct {
	Message string
	IsFood  bool
	Food    *db.FoodItem
}

// FoodAnalyzer 抽象食物分析能力，便于在测试中用桩实现替换真实 AI 调用。
type FoodAnalyzer interface {
	Analyze(ctx context.Context, input AdvisorInput) (AdvisorResult, error)
}

// AdvisorService 基于 Chat Completions 实现 FoodAnalyzer。
type AdvisorService struct {
	client *aiChatClient
}

// NewAdvisorService 构造 AdvisorService。
func NewAdvisorService(settings *SystemSettingService) *AdvisorService {
	return &AdvisorService{client: newAIChatClient(settings)}
}

// SetHTTPClient 替换底层 HTTP 客户端，面向测试场景。
func (s *AdvisorService) SetHTTPClient(client httpDoer) {
	s.client.SetHTTPClient(client)
}

// historyWindow 控制提示词中携带的最近对话轮数。
const historyWindow = 5

// Analyze 调用 AI 平台分析用户输入，返回结构化的回复与可选营养提案。
func (s *AdvisorService) Analyze(ctx context.Context, input AdvisorInput) (AdvisorResult, error) {
	prompt := buildAdvisorPrompt(input)

	systemPrompt := advisorSystemPrompt(input.Profile.Language)
	if settings, err := s.client.settings.GetSettings(); err == nil && settings.AdvisorPrompt != "" {
		systemPrompt += "\n\nADDITIONAL INSTRUCTIONS:\n" + settings.AdvisorPrompt
	}

	messages := []chatRequestMessage{
		textMessage("system", systemPrompt),
	}
	if input.ImageDataURL != "" {
		messages = append(messages, visionMessage(prompt, input.ImageDataURL))
	} else {
		messages = append(messages, textMessage("user", prompt))
	}

	logAIExchange("ADVISOR", "prompt", prompt)

	raw, err := s.client.complete(ctx, messages, chatCallOptions{
		temperature: 0.7,
		maxTokens:   1024,
		jsonOutput:  true,
		visionModel: input.ImageDataURL != "",
	})
	if err != nil {
		return AdvisorResult{}, err
	}
	logAIExchange("ADVISOR", "response", raw)

	return parseAdvisorReply(raw)
}

// advisorSystemPrompt 返回顾问人设提示词，语言指令随档案语言切换。
func advisorSystemPrompt(language string) string {
	languageInstruction := "Respond in English."
	if locale.Fallback(language) == locale.LanguageIndonesian {
		languageInstruction = "ALWAYS Respond in Indonesian (Bahasa Indonesia). Gunakan bahasa yang gaul, ramah, tapi tetap sopan."
	}

	return fmt.Sprintf(`You are NutriTrack, a smart, friendly, and empathetic nutritionist AI.
%s

YOUR PERSONALITY:
- Friendly and encouraging (like a supportive coach).
- If the user eats something unhealthy, gently suggest a healthier alternative for next time or suggest a small activity (e.g., "Maybe take a 10-minute walk?"), but NEVER judge or shame them.
- If they eat well, praise them!
- Be proactive: Suggest what they might need next based on their macros (e.g., "You're low on protein, how about chicken for dinner?").
- Remember previous context from the chat history.

YOUR TASKS:
1. Analyze the user's input (Text or Image).
2. Identify if it is food.
3. If it IS food, estimate the nutrition strictly.
4. If it is NOT food, just chat conversationally about health/diet.

OUTPUT FORMAT:
Return JSON ONLY, with this shape:
{
  "message": "your friendly, conversational response including advice/critique",
  "isFood": true or false,
  "foodData": {
    "name": "short descriptive name of the food",
    "portion": "estimated portion (e.g., 1 bowl, 200g)",
    "calories": 0,
    "protein": 0,
    "carbs": 0,
    "fat": 0,
    "micros": { "vitaminA": 0, "vitaminC": 0, "calcium": 0, "iron": 0 }
  }
}
foodData is required only when isFood is true. Micros are approximate %% of daily value.`, languageInstruction)
}

// buildAdvisorPrompt 拼装用户上下文、近况台账与最近对话。
func buildAdvisorPrompt(input AdvisorInput) string {
	var consumedCals, consumedProtein float64
	for _, entry := range input.TodayEntries {
		consumedCals += entry.Food.Calories
		consumedProtein += entry.Food.Protein
	}
	remainingCals := float64(input.Profile.TargetCalories) - consumedCals

	var meals strings.Builder
	for _, entry := range input.TodayEntries {
		fmt.Fprintf(&meals, "- %s (%.0fkcal)\n", entry.Food.Name, entry.Food.Calories)
	}

	history := input.History
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	var transcript strings.Builder
	for _, msg := range history {
		speaker := "AI"
		if msg.Role == db.ChatRoleUser {
			speaker = "User"
		}
		fmt.Fprintf(&transcript, "%s: %s\n", speaker, msg.Text)
	}

	attachment := ""
	if input.ImageDataURL != "" {
		attachment = "[Image Attached]"
	}

	return fmt.Sprintf(`HISTORY OF CONVERSATION:
%s
CURRENT USER CONTEXT:
- Name: %s
- Goal: %s
- Daily Target: %d kcal
- Consumed Today: %.0f kcal (%.0f left)
- Protein Consumed: %.0fg (Target: %dg)

RECENT MEALS LOGGED TODAY:
%s
CURRENT USER INPUT:
%s
%s`,
		transcript.String(),
		input.Profile.Name,
		input.Profile.Goal,
		input.Profile.TargetCalories,
		consumedCals,
		remainingCals,
		consumedProtein,
		input.Profile.TargetProtein,
		meals.String(),
		input.Text,
		attachment,
	)
}

type advisorReplyPayload struct {
	Message  string `json:"message"`
	IsFood   bool   `json:"isFood"`
	FoodData *struct {
		Name     string  `json:"name"`
		Portion  string  `json:"portion"`
		Calories float64 `json:"calories"`
		Protein  float64 `json:"protein"`
		Carbs    float64 `json:"carbs"`
		Fat      float64 `json:"fat"`
		Micros   struct {
			VitaminA *float64 `json:"vitaminA"`
			VitaminC *float64 `json:"vitaminC"`
			Calcium  *float64 `json:"calcium"`
			Iron     *float64 `json:"iron"`
		} `json:"micros"`
	} `json:"foodData"`
}

// parseAdvisorReply 解析模型输出。缺失必填字段的营养提案会被整体丢弃，
// 只保留对话文本，不让半成品数据进入台账。
func parseAdvisorReply(raw string) (AdvisorResult, error) {
	cleaned := stripCodeFences(raw)
	if cleaned == "" {
		return AdvisorResult{}, ErrAdvisorEmptyReply
	}

	var payload advisorReplyPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return AdvisorResult{}, fmt.Errorf("decode advisor reply: %w", err)
	}
	if strings.TrimSpace(payload.Message) == "" {
		return AdvisorResult{}, ErrAdvisorEmptyReply
	}

	result := AdvisorResult{Message: payload.Message, IsFood: payload.IsFood}

	if payload.IsFood && payload.FoodData != nil && validFoodData(payload.FoodData.Name, payload.FoodData.Portion, payload.FoodData.Calories) {
		result.Food = &db.FoodItem{
			Name:        strings.TrimSpace(payload.FoodData.Name),
			Portion:     strings.TrimSpace(payload.FoodData.Portion),
			Calories:    payload.FoodData.Calories,
			Protein:     payload.FoodData.Protein,
			Carbs:       payload.FoodData.Carbs,
			Fat:         payload.FoodData.Fat,
			AIGenerated: true,
			Micros: db.MicroNutrients{
				VitaminA: payload.FoodData.Micros.VitaminA,
				VitaminC: payload.FoodData.Micros.VitaminC,
				Calcium:  payload.FoodData.Micros.Calcium,
				Iron:     payload.FoodData.Micros.Iron,
			},
		}
	} else {
		result.IsFood = false
	}

	return result, nil
}

func validFoodData(name, portion string, calories float64) bool {
	return strings.TrimSpace(name) != "" && strings.TrimSpace(portion) != "" && calories >= 0
}

// stripCodeFences 去除模型偶尔包裹的 Markdown 代码栅栏。
func stripCodeFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}
	return cleaned
}
