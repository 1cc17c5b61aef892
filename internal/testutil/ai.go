package testutil

import (
	"context"
	"sync"

	"github.com/GenkiNakashima/systemst/internal/ai"
)

// FakeFactChecker returns a canned verdict or error and records its inputs.
type FakeFactChecker struct {
	mu      sync.Mutex
	Flagged bool
	Reason  string
	Err     error
	Calls   []string
}

func (f *FakeFactChecker) FactCheck(_ context.Context, content string) (ai.Verdict, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, content)
	if f.Err != nil {
		return ai.Verdict{}, f.Err
	}
	return ai.Verdict{Flagged: f.Flagged, Reason: f.Reason}, nil
}

// CallCount reports how many times FactCheck ran.
func (f *FakeFactChecker) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}

// ResponseCall is one recorded GenerateResponse invocation.
type ResponseCall struct {
	Question string
	Context  string
}

// FakeResponseGenerator returns Answer or Err and records its inputs.
type FakeResponseGenerator struct {
	mu     sync.Mutex
	Answer string
	Err    error
	Calls  []ResponseCall
}

func (f *FakeResponseGenerator) GenerateResponse(_ context.Context, question, conversationContext string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, ResponseCall{Question: question, Context: conversationContext})
	if f.Err != nil {
		return "", f.Err
	}
	return f.Answer, nil
}

// CallCount reports how many times GenerateResponse ran.
func (f *FakeResponseGenerator) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}
