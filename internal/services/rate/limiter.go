package rate

import (
	"context"
	"fmt"
	"time"
)

type Action string

const (
	ActionRegister      Action = "register"
	ActionSwipe         Action = "swipe"
	ActionMessage       Action = "message"
	ActionProfileUpdate Action = "profile_update"
	ActionAPIGeneral    Action = "api_general"
	ActionAPIUnauth     Action = "api_unauth"
)

type Policy struct {
	Max    int
	Window time.Duration
}

func DefaultPolicies() map[Action]Policy {
	return map[Action]Policy{
		ActionRegister:      {Max: 10, Window: time.Hour},
		ActionSwipe:         {Max: 200, Window: time.Hour},
		ActionMessage:       {Max: 100, Window: time.Hour},
		ActionProfileUpdate: {Max: 20, Window: time.Hour},
		ActionAPIGeneral:    {Max: 300, Window: time.Minute},
		ActionAPIUnauth:     {Max: 300, Window: time.Minute},
	}
}

type WindowStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	WindowState(ctx context.Context, key string) (int64, time.Duration, error)
}

type Decision struct {
	Allowed       bool
	Limit         int
	Remaining     int64
	RetryAfterSec int64
}

type Limiter struct {
	store    WindowStore
	policies map[Action]Policy
}

func NewLimiter(store WindowStore, policies map[Action]Policy) *Limiter {
	if policies == nil {
		policies = DefaultPolicies()
	}
	return &Limiter{
		store:    store,
		policies: policies,
	}
}

// Allow records one hit for subject under action. Actions without a policy are always allowed.
func (l *Limiter) Allow(ctx context.Context, action Action, subject string) (Decision, error) {
	if subject == "" {
		return Decision{}, fmt.Errorf("rate subject is required")
	}
	policy, ok := l.policies[action]
	if !ok || policy.Max <= 0 || policy.Window <= 0 {
		return Decision{Allowed: true}, nil
	}
	if l.store == nil {
		return Decision{}, fmt.Errorf("rate limiter store is nil")
	}

	count, ttl, err := l.store.IncrementWindow(ctx, key(action, subject), policy.Window)
	if err != nil {
		return Decision{}, err
	}

	decision := Decision{
		Allowed:   count <= int64(policy.Max),
		Limit:     policy.Max,
		Remaining: maxInt64(0, int64(policy.Max)-count),
	}
	if !decision.Allowed {
		decision.RetryAfterSec = ceilSeconds(ttl)
	}
	return decision, nil
}

// RetryAfter reports how long subject must wait before action is allowed again, without counting a hit.
func (l *Limiter) RetryAfter(ctx context.Context, action Action, subject string) (int64, error) {
	policy, ok := l.policies[action]
	if !ok || policy.Max <= 0 {
		return 0, nil
	}
	if l.store == nil {
		return 0, fmt.Errorf("rate limiter store is nil")
	}

	count, ttl, err := l.store.WindowState(ctx, key(action, subject))
	if err != nil {
		return 0, err
	}
	if count >= int64(policy.Max) {
		return ceilSeconds(ttl), nil
	}
	return 0, nil
}

func key(action Action, subject string) string {
	return "rate:" + string(action) + ":" + subject
}

func ceilSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 1
	}
	sec := int64(d / time.Second)
	if d%time.Second != 0 {
		sec++
	}
	return sec
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
