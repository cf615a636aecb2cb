package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_type":
			return "型が不正です"
		case "required":
			return "必須プロパティが不足しています"
		case "unknown_key":
			return "未知のキーです"
		case "duplicate_key":
			return "キーが重複しています"
		case "too_short":
			return "短すぎます"
		case "too_long":
			return "長すぎます"
		case "parse_error":
			return "解析エラー"
		case "truncated":
			return "打ち切られました"
		case "dependency_unavailable":
			return "依存先サービスが利用できません"
		case "unique_violation":
			return "要素が重複しています"
		case "unresolved_ref":
			return "$ref を解決できません"
		case "combinator_failed":
			return "スキーマの組み合わせ条件を満たしません"
		case "unknown_property":
			return "未知のプロパティです"
		case "enum_mismatch":
			return "enum のいずれにも一致しません"
		case "pattern_mismatch":
			return "pattern に一致しません"
		case "missing_required_key":
			return "必須プロパティが不足しています"
		case "too_few_items":
			return "要素数が少なすぎます"
		case "too_many_items":
			return "要素数が多すぎます"
		case "type_mismatch":
			return "型が一致しません"
		case "invalid_format":
			return "format に一致しません"
		case "cyclic_ref":
			return "$ref が循環しています"
		case "invalid_schema_keyword":
			return "スキーマのキーワードが不正です"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			return "invalid type"
		case "required":
			return "required property missing"
		case "unknown_key":
			return "unknown key"
		case "duplicate_key":
			return "duplicate key"
		case "too_short":
			return "too short"
		case "too_long":
			return "too long"
		case "parse_error":
			return "parse error"
		case "truncated":
			return "truncated"
		case "dependency_unavailable":
			return "dependency unavailable"
		case "unique_violation":
			return "duplicate item in a uniqueItems array"
		case "unresolved_ref":
			return "unresolved $ref"
		case "combinator_failed":
			return "failed a schema combinator (allOf/anyOf/oneOf/not)"
		case "unknown_property":
			return "unknown property"
		case "enum_mismatch":
			return "value not in enum"
		case "pattern_mismatch":
			return "value does not match pattern"
		case "missing_required_key":
			return "missing required property"
		case "too_few_items":
			return "too few items"
		case "too_many_items":
			return "too many items"
		case "type_mismatch":
			return "type mismatch"
		case "invalid_format":
			return "value does not match format"
		case "cyclic_ref":
			return "cyclic $ref"
		case "invalid_schema_keyword":
			return "invalid schema keyword"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
