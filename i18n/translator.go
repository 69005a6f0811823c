package i18n

import "strings"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var messages = map[string]map[string]string{
	"en": {
		"invalid_type":     "invalid type",
		"required":         "required field missing",
		"unknown_key":      "unknown key",
		"too_small":        "too small",
		"too_big":          "too big",
		"invalid_enum":     "value is not one of the allowed values",
		"invalid_format":   "invalid format",
		"parse_error":      "parse error",
		"missing_timezone": "timezone info should be passed",
		"not_future":       "UTC datetime should be later than now",
		"custom":           "rule failed",
	},
	"ja": {
		"invalid_type":     "型が不正です",
		"required":         "必須フィールドが不足しています",
		"unknown_key":      "未知のキーです",
		"too_small":        "小さすぎます",
		"too_big":          "大きすぎます",
		"invalid_enum":     "許可された値ではありません",
		"invalid_format":   "形式が不正です",
		"parse_error":      "解析エラー",
		"missing_timezone": "タイムゾーン情報が必要です",
		"not_future":       "現在より後の UTC 日時である必要があります",
		"custom":           "ルール違反です",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := messages[t.lang][code]
	if !ok {
		return code
	}
	// "{expected}"-style placeholders are filled from data when present.
	for k, v := range data {
		msg = strings.ReplaceAll(msg, "{"+k+"}", v)
	}
	return msg
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
