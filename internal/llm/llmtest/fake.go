// Package llmtest provides a scripted llm.Client for tests.
package llmtest

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/nao1215/brochure/internal/llm"
)

// ErrNoReply is returned when no scripted reply matches a request.
var ErrNoReply = errors.New("llmtest: no scripted reply")

// Reply is a scripted answer.
type Reply struct {
	// Content is returned when Err is nil.
	Content string

	// Err is returned instead of Content when set.
	Err error
}

// Rule returns a reply when Match accepts the request.
type Rule struct {
	Match func(llm.Request) bool
	Reply Reply
}

// ScriptedClient answers requests from rules, in rule order, and records
// every request it receives. It is safe for concurrent use.
type ScriptedClient struct {
	mu       sync.Mutex
	rules    []Rule
	requests []llm.Request
}

// NewScriptedClient creates a client answering with rules.
func NewScriptedClient(rules ...Rule) *ScriptedClient {
	return &ScriptedClient{rules: rules}
}

// On adds a rule matching requests whose user message contains substr.
func (c *ScriptedClient) On(substr string, reply Reply) *ScriptedClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules = append(c.rules, Rule{
		Match: func(r llm.Request) bool { return strings.Contains(r.User, substr) },
		Reply: reply,
	})
	return c
}

// OnSystem adds a rule matching requests whose system message contains substr.
func (c *ScriptedClient) OnSystem(substr string, reply Reply) *ScriptedClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules = append(c.rules, Rule{
		Match: func(r llm.Request) bool { return strings.Contains(r.System, substr) },
		Reply: reply,
	})
	return c
}

// Complete implements llm.Client.
func (c *ScriptedClient) Complete(ctx context.Context, req llm.Request) (string, error) {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	rules := c.rules
	c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	for _, rule := range rules {
		if rule.Match(req) {
			return rule.Reply.Content, rule.Reply.Err
		}
	}
	return "", ErrNoReply
}

// Requests returns a copy of the received requests, in arrival order.
func (c *ScriptedClient) Requests() []llm.Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]llm.Request, len(c.requests))
	copy(out, c.requests)
	return out
}

// Count returns how many received requests satisfy match.
func (c *ScriptedClient) Count(match func(llm.Request) bool) int {
	n := 0
	for _, r := range c.Requests() {
		if match(r) {
			n++
		}
	}
	return n
}
