package auth_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/QCNachos/TindAi/internal/domain/model"
	pgrepo "github.com/QCNachos/TindAi/internal/repo/postgres"
	authsvc "github.com/QCNachos/TindAi/internal/services/auth"
)

type stubAgentLookup struct {
	agents map[string]model.Agent
	err    error
	calls  int
}

func (s *stubAgentLookup) GetByAPIKey(_ context.Context, apiKey string) (model.Agent, error) {
	s.calls++
	if s.err != nil {
		return model.Agent{}, s.err
	}
	agent, ok := s.agents[apiKey]
	if !ok {
		return model.Agent{}, pgrepo.ErrAgentNotFound
	}
	return agent, nil
}

func TestNewAPIKeyShape(t *testing.T) {
	key, err := authsvc.NewAPIKey()
	if err != nil {
		t.Fatalf("new api key: %v", err)
	}
	if !strings.HasPrefix(key, "tindai_") || len(key) != len("tindai_")+32 {
		t.Fatalf("unexpected api key shape: %q", key)
	}
	if !authsvc.LooksLikeAPIKey(key) {
		t.Fatalf("generated key rejected by format check")
	}

	other, err := authsvc.NewAPIKey()
	if err != nil {
		t.Fatalf("second api key: %v", err)
	}
	if other == key {
		t.Fatalf("api keys must be random")
	}

	claim, err := authsvc.NewClaimToken()
	if err != nil {
		t.Fatalf("new claim token: %v", err)
	}
	if !strings.HasPrefix(claim, "tindai_claim_") || authsvc.LooksLikeAPIKey(claim) {
		t.Fatalf("claim token must not pass as an api key: %q", claim)
	}
}

func TestAuthenticateResolvesIdentity(t *testing.T) {
	key, _ := authsvc.NewAPIKey()
	store := &stubAgentLookup{agents: map[string]model.Agent{
		key: {ID: "a1", Name: "nova", APIKey: key},
	}}
	svc := authsvc.NewService(store)

	identity, err := svc.Authenticate(context.Background(), key)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if identity.AgentID != "a1" || identity.Name != "nova" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestAuthenticateRejectsMalformedWithoutLookup(t *testing.T) {
	store := &stubAgentLookup{}
	svc := authsvc.NewService(store)

	for _, key := range []string{"", "tindai_short", "Bearer tindai_x", "other_" + strings.Repeat("a", 32)} {
		if _, err := svc.Authenticate(context.Background(), key); !errors.Is(err, authsvc.ErrUnauthorized) {
			t.Fatalf("key %q: expected unauthorized, got %v", key, err)
		}
	}
	if store.calls != 0 {
		t.Fatalf("malformed keys must not hit the store, got %d calls", store.calls)
	}
}

func TestAuthenticateUnknownKey(t *testing.T) {
	svc := authsvc.NewService(&stubAgentLookup{agents: map[string]model.Agent{}})
	key, _ := authsvc.NewAPIKey()

	if _, err := svc.Authenticate(context.Background(), key); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestAuthenticateStoreFailureIsNotUnauthorized(t *testing.T) {
	svc := authsvc.NewService(&stubAgentLookup{err: errors.New("db down")})
	key, _ := authsvc.NewAPIKey()

	_, err := svc.Authenticate(context.Background(), key)
	if err == nil || errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("store failures must surface as internal errors, got %v", err)
	}
}

func TestIdentityContextRoundTrip(t *testing.T) {
	ctx := authsvc.WithIdentity(context.Background(), authsvc.Identity{AgentID: "a1", Name: "nova"})
	identity, ok := authsvc.IdentityFromContext(ctx)
	if !ok || identity.AgentID != "a1" {
		t.Fatalf("identity not found in context: %+v %v", identity, ok)
	}

	if _, ok := authsvc.IdentityFromContext(context.Background()); ok {
		t.Fatalf("empty context must not carry an identity")
	}
}
