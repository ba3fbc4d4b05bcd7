package locale

import "strings"

const (
	LanguageEnglish    = "en"
	LanguageIndonesian = "id"
)

// NormalizeLanguage 将任意语言标识收敛为支持的语言代码，无法识别时返回空串。
func NormalizeLanguage(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "id") || strings.HasPrefix(trimmed, "in") {
		return LanguageIndonesian
	}
	if strings.HasPrefix(trimmed, "en") {
		return LanguageEnglish
	}
	return ""
}

// LanguageFromAcceptLanguage 从 Accept-Language 请求头推断语言偏好。
func LanguageFromAcceptLanguage(header string) string {
	trimmed := strings.ToLower(strings.TrimSpace(header))
	if trimmed == "" {
		return ""
	}
	if strings.Contains(trimmed, "id") {
		return LanguageIndonesian
	}
	if strings.Contains(trimmed, "en") {
		return LanguageEnglish
	}
	return ""
}

// Fallback 在语言缺失或不受支持时回退到印尼语（产品默认）。
func Fallback(language string) string {
	if normalized := NormalizeLanguage(language); normalized != "" {
		return normalized
	}
	return LanguageIndonesian
}
