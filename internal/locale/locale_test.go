package locale

import "testing"

func TestNormalizeLanguage(t *testing.T) {
	cases := map[string]string{
		"id":    LanguageIndonesian,
		"ID":    LanguageIndonesian,
		"in-ID": LanguageIndonesian,
		"en":    LanguageEnglish,
		"en-US": LanguageEnglish,
		"fr":    "",
		"":      "",
		"  ":    "",
	}
	for input, want := range cases {
		if got := NormalizeLanguage(input); got != want {
			t.Fatalf("NormalizeLanguage(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestLanguageFromAcceptLanguage(t *testing.T) {
	if got := LanguageFromAcceptLanguage("id-ID,id;q=0.9,en;q=0.8"); got != LanguageIndonesian {
		t.Fatalf("unexpected language: %q", got)
	}
	if got := LanguageFromAcceptLanguage("en-GB,en;q=0.9"); got != LanguageEnglish {
		t.Fatalf("unexpected language: %q", got)
	}
	if got := LanguageFromAcceptLanguage("fr-FR"); got != "" {
		t.Fatalf("unexpected language: %q", got)
	}
}

func TestFallback(t *testing.T) {
	if got := Fallback(""); got != LanguageIndonesian {
		t.Fatalf("unexpected fallback: %q", got)
	}
	if got := Fallback("en"); got != LanguageEnglish {
		t.Fatalf("unexpected fallback: %q", got)
	}
	if got := Fallback("xx"); got != LanguageIndonesian {
		t.Fatalf("unexpected fallback: %q", got)
	}
}
