package dto

// Suggestion is the normalized scoring recommendation.
type Suggestion string

const (
	SuggestionStrongBuy Suggestion = "strong-buy"
	SuggestionBuy       Suggestion = "buy"
	SuggestionWatch     Suggestion = "watch"
	SuggestionAvoid     Suggestion = "avoid"
)

// Suggestions lists every valid suggestion.
var Suggestions = []Suggestion{SuggestionStrongBuy, SuggestionBuy, SuggestionWatch, SuggestionAvoid}

const ReasonUnavailable = "unavailable"

// ScoreResult is the validated output of the scoring service.
type ScoreResult struct {
	Score      int        `json:"score"`
	Reason     string     `json:"reason"`
	Suggestion Suggestion `json:"suggestion"`
	// Degraded is set when the service failed and the neutral default was used.
	Degraded bool `json:"degraded"`
}

// DefaultScoreResult is returned whenever scoring fails.
func DefaultScoreResult() ScoreResult {
	return ScoreResult{Score: 0, Reason: ReasonUnavailable, Suggestion: SuggestionWatch, Degraded: true}
}

// ScoringPrompt is the rendered request for the scoring service.
type ScoringPrompt struct {
	Symbol string `json:"symbol"`
	System string `json:"system"`
	User   string `json:"user"`
}

// OpenAIChatRequest is the chat-completions request body.
type OpenAIChatRequest struct {
	Model          string              `json:"model"`
	Messages       []OpenAIChatMessage `json:"messages"`
	Temperature    float64             `json:"temperature"`
	MaxTokens      int                 `json:"max_tokens,omitempty"`
	ResponseFormat *OpenAIFormat       `json:"response_format,omitempty"`
}

// OpenAIChatMessage is a single chat message.
type OpenAIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OpenAIFormat requests JSON output.
type OpenAIFormat struct {
	Type string `json:"type"`
}

// OpenAIChatResponse is the subset of the chat-completions response that is read.
type OpenAIChatResponse struct {
	Choices []struct {
		Message OpenAIChatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}
