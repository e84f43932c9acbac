package chat

import (
	"fmt"

	"github.com/tiktoken-go/tokenizer"
)

// TokenCounter estimates the token count of a prompt.
type TokenCounter interface {
	Count(s string) int
}

// TiktokenCounter counts tokens with a tiktoken encoding. Anthropic models use their
// own tokenizer, so the number is an estimate.
type TiktokenCounter struct {
	codec tokenizer.Codec
}

// NewTiktokenCounter loads the cl100k_base encoding.
func NewTiktokenCounter() (*TiktokenCounter, error) {
	codec, err := tokenizer.Get(tokenizer.Cl100kBase)
	if err != nil {
		return nil, fmt.Errorf("chat: load tokenizer: %w", err)
	}
	return &TiktokenCounter{codec: codec}, nil
}

// Count returns the token count of s, or -1 if encoding fails.
func (c *TiktokenCounter) Count(s string) int {
	ids, _, err := c.codec.Encode(s)
	if err != nil {
		return -1
	}
	return len(ids)
}
