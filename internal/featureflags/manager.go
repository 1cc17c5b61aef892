// Package featureflags gates the AI features per user.
package featureflags

import (
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Flags consulted by the services.
const (
	AIFactCheck = "ai_fact_check"
	AIReplies   = "ai_replies"
)

// rule is a parsed flag value. percent is 0..100; on/off map to 100 and 0.
type rule struct {
	percent int
}

// Manager holds the rollout rules read from FEATURE_FLAGS,
// e.g. "ai_fact_check=on,ai_replies=25%".
type Manager struct {
	rules map[string]rule
}

// NewManager parses a comma-separated list of name=value pairs.
// Pairs with an unrecognised value are ignored, which leaves the flag off.
func NewManager(raw string) *Manager {
	rules := make(map[string]rule)
	for _, pair := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		name = key(name)
		if name == "" {
			continue
		}
		if r, ok := parseRule(key(value)); ok {
			rules[name] = r
		}
	}
	return &Manager{rules: rules}
}

func parseRule(value string) (rule, bool) {
	switch value {
	case "on", "true", "1":
		return rule{percent: 100}, true
	case "off", "false", "0":
		return rule{percent: 0}, true
	}
	digits, ok := strings.CutSuffix(value, "%")
	if !ok {
		return rule{}, false
	}
	pct, err := strconv.Atoi(digits)
	if err != nil {
		return rule{}, false
	}
	return rule{percent: min(max(pct, 0), 100)}, true
}

// Enabled reports whether flag name is on for userID. Partial rollouts
// bucket users deterministically and never include the anonymous user.
// A nil Manager has every flag off.
func (m *Manager) Enabled(name string, userID uuid.UUID) bool {
	if m == nil {
		return false
	}
	r, ok := m.rules[key(name)]
	if !ok {
		return false
	}
	switch {
	case r.percent >= 100:
		return true
	case r.percent <= 0, userID == uuid.Nil:
		return false
	}
	return bucket(key(name), userID) < r.percent
}

// Len returns the number of recognised flags.
func (m *Manager) Len() int {
	if m == nil {
		return 0
	}
	return len(m.rules)
}

func key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func bucket(name string, userID uuid.UUID) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	_, _ = h.Write(userID[:])
	return int(h.Sum32() % 100)
}
