package reasoner

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// defaultEncoding is the tokenizer used by general-purpose chat models.
const defaultEncoding = "cl100k_base"

// TrimToTokenBudget drops the oldest lines from logs until the joined
// text fits within maxTokens, so a large log batch can never blow a
// reasoner's context window.
func TrimToTokenBudget(logs []string, maxTokens int) []string {
	enc, err := tiktoken.GetEncoding(defaultEncoding)
	if err != nil {
		return logs
	}

	trimmed := logs
	for len(trimmed) > 0 {
		joined := strings.Join(trimmed, "\n")
		if len(enc.Encode(joined, nil, nil)) <= maxTokens {
			break
		}
		trimmed = trimmed[1:]
	}
	return trimmed
}
