package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("invalid_type", nil); msg == "invalid_type" || msg == "" {
		t.Fatalf("expected a human message, got %q", msg)
	}

	SetLanguage("ja")
	if msg := T("invalid_type", nil); msg == "invalid type" {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_ValidationCodes(t *testing.T) {
	codes := []string{
		"unique_violation", "unresolved_ref", "combinator_failed",
		"unknown_property", "enum_mismatch", "pattern_mismatch",
	}
	for _, c := range codes {
		if msg := T(c, nil); msg == c {
			t.Fatalf("expected a translated message for %q, got the code back unchanged", c)
		}
	}

	SetLanguage("ja")
	for _, c := range codes {
		if msg := T(c, nil); msg == c {
			t.Fatalf("expected a japanese message for %q, got the code back unchanged", c)
		}
	}
	SetLanguage("en")
}
