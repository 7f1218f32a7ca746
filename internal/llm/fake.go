package llm

import (
	"context"
	"errors"
	"sync"
)

// ErrScriptExhausted is returned by FakeClient when no response is left.
var ErrScriptExhausted = errors.New("fake llm: no scripted response left")

// Reply is one scripted FakeClient answer.
type Reply struct {
	Text string
	Err  error
}

// FakeClient replays scripted replies in order and records every request.
// It stands in for a real model in pipeline and handler tests.
type FakeClient struct {
	mu       sync.Mutex
	replies  []Reply
	Requests []Request
}

func NewFakeClient(replies ...Reply) *FakeClient {
	return &FakeClient{replies: replies}
}

// Texts is a shorthand for successful replies.
func Texts(texts ...string) []Reply {
	out := make([]Reply, len(texts))
	for i, t := range texts {
		out[i] = Reply{Text: t}
	}
	return out
}

func (f *FakeClient) Complete(ctx context.Context, req Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Requests = append(f.Requests, req)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(f.replies) == 0 {
		return "", ErrScriptExhausted
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r.Text, r.Err
}

// Calls reports how many requests were made.
func (f *FakeClient) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Requests)
}
