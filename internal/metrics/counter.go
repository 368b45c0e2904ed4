package metrics

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultTiktokenModel is the model whose encoding the tiktoken estimator uses.
const DefaultTiktokenModel = "gpt-3.5-turbo"

// Counter measures dumped text.
type Counter interface {
	// Count returns the number of bytes, tokens, and lines in the given text
	Count(text string) (bytes, tokens, lines int)
}

// NewCounter returns the counter for an estimator name: "simple" (bytes/4) or
// "tiktoken". An unusable tiktoken encoding falls back to the simple counter.
func NewCounter(estimator string) (Counter, error) {
	switch estimator {
	case "", "simple":
		return &SimpleCounter{}, nil
	case "tiktoken":
		c, err := NewTiktokenCounter(DefaultTiktokenModel)
		if err != nil {
			return &SimpleCounter{}, nil
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown token estimator: %s", estimator)
	}
}

// SimpleCounter estimates tokens as bytes/4.
type SimpleCounter struct{}

// Count returns bytes, estimated tokens, and lines for the given text
func (c *SimpleCounter) Count(text string) (int, int, int) {
	return len(text), estimateTokenCountSimple(text), countLines(text)
}

// TiktokenCounter counts tokens with a model's BPE encoding.
type TiktokenCounter struct {
	model string

	mu  sync.Mutex // OutputMetrics workers share one encoder
	enc *tiktoken.Tiktoken
}

// NewTiktokenCounter creates a new TiktokenCounter for the given model
func NewTiktokenCounter(model string) (*TiktokenCounter, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("unsupported model for tiktoken: %s", model)
	}
	return &TiktokenCounter{model: model, enc: enc}, nil
}

// Count returns bytes, tokens (using tiktoken), and lines for the given text
func (c *TiktokenCounter) Count(text string) (int, int, int) {
	c.mu.Lock()
	tokens := len(c.enc.Encode(strings.TrimSpace(text), nil, nil))
	c.mu.Unlock()
	return len(text), tokens, countLines(text)
}

// estimateTokenCountSimple approximates ~4 bytes per token for English text.
func estimateTokenCountSimple(text string) int {
	return len(text) / 4
}

func countLines(text string) int {
	return bytes.Count([]byte(text), []byte{'\n'}) + 1
}
