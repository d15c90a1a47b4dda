// internal/model/translation.go
package model

// 解析結果の種別
const (
	ResultTypeWord        = "word"
	ResultTypeInvalidWord = "invalid_word"
	ResultTypeSentence    = "sentence"
)

// AnalyzeRequest は /translate, /grammar のリクエストDTO
type AnalyzeRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}

// TranslationResult は生成AIによるテキスト解析の結果です。
// Type により有効なフィールドが変わります:
//   - word:         Word, Meaning, PartOfSpeech, Level, Phonetic, Example, ExampleTranslation
//   - invalid_word: Word, Suggestions
//   - sentence:     Original, Translation
type TranslationResult struct {
	Type               string   `json:"type"`
	Word               string   `json:"word,omitempty"`
	Meaning            string   `json:"meaning,omitempty"`
	PartOfSpeech       string   `json:"part_of_speech,omitempty"`
	Level              string   `json:"level,omitempty"`
	Phonetic           string   `json:"phonetic,omitempty"`
	Example            string   `json:"example,omitempty"`
	ExampleTranslation string   `json:"example_translation,omitempty"`
	Suggestions        []string `json:"suggestions,omitempty"`
	Original           string   `json:"original,omitempty"`
	Translation        string   `json:"translation,omitempty"`
}

// GrammarVariations は文体バリエーションです
type GrammarVariations struct {
	Formal   string `json:"formal"`
	Friendly string `json:"friendly"`
}

// GrammarResult は文法チェックの結果です
type GrammarResult struct {
	IsCorrect   bool              `json:"is_correct"`
	Correction  string            `json:"correction"`
	Explanation string            `json:"explanation"`
	Variations  GrammarVariations `json:"variations"`
}
