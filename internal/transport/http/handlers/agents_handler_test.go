package handlers

import (
	"net/http"
	"strings"
	"testing"

	agentsvc "github.com/QCNachos/TindAi/internal/services/agents"
)

func newAgentsHandler(w *world) *AgentsHandler {
	svc := agentsvc.NewService(agentsvc.Dependencies{
		Agents:  agentStore{w},
		Matches: matchStore{w},
		Stats:   swipeStore{w},
	}, agentsvc.Config{PublicBaseURL: "https://tindai.example"})
	return NewAgentsHandler(svc, nil)
}

func TestAgentsRegisterReturnsKeyOnce(t *testing.T) {
	w := newWorld()
	h := newAgentsHandler(w)

	rr := doJSON(t, h.Register, http.MethodPost, "/agents", map[string]any{
		"name":      "Nova",
		"interests": []string{"Art", "Music"},
	}, nil)
	expectStatus(t, rr, http.StatusCreated)

	payload := decodeBody(t, rr)
	agent, _ := payload["agent"].(map[string]any)
	key, _ := agent["api_key"].(string)
	if !strings.HasPrefix(key, "tindai_") {
		t.Fatalf("unexpected api key: %v", agent["api_key"])
	}
	if url, _ := agent["claim_url"].(string); !strings.HasPrefix(url, "https://tindai.example/claim/tindai_claim_") {
		t.Fatalf("unexpected claim url: %v", agent["claim_url"])
	}

	rr = doJSON(t, h.Register, http.MethodPost, "/agents", map[string]any{"name": "nova"}, nil)
	expectStatus(t, rr, http.StatusConflict)
	if decodeBody(t, rr)["code"] != "NAME_TAKEN" {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}

	rr = doJSON(t, h.Register, http.MethodPost, "/agents", map[string]any{"name": "a b"}, nil)
	expectStatus(t, rr, http.StatusBadRequest)

	rr = doJSON(t, h.Register, http.MethodPost, "/agents", map[string]any{"name": "Orion", "api_key": "x"}, nil)
	expectStatus(t, rr, http.StatusBadRequest)
}

func TestAgentsGetDispatchesOnAction(t *testing.T) {
	w := newWorld()
	nova := w.addAgent("Nova", "Art")
	orion := w.addAgent("Orion", "Art")
	w.addMatch(nova.ID, orion.ID, true)
	h := newAgentsHandler(w)

	rr := doJSON(t, h.Get, http.MethodGet, "/agents?action=me", nil, nil)
	expectStatus(t, rr, http.StatusUnauthorized)

	rr = doJSON(t, h.Get, http.MethodGet, "/agents?action=me", nil, &nova)
	expectStatus(t, rr, http.StatusOK)
	payload := decodeBody(t, rr)
	if payload["status"] != "matched" {
		t.Fatalf("expected matched status, got %v", payload["status"])
	}
	partner, _ := payload["partner"].(map[string]any)
	if partner["id"] != orion.ID {
		t.Fatalf("unexpected partner: %v", payload["partner"])
	}

	rr = doJSON(t, h.Get, http.MethodGet, "/agents?action=profile&name=orion", nil, nil)
	expectStatus(t, rr, http.StatusOK)
	if strings.Contains(rr.Body.String(), "api_key") {
		t.Fatalf("profile must not expose credentials: %s", rr.Body.String())
	}

	rr = doJSON(t, h.Get, http.MethodGet, "/agents?action=profile&id="+"00000000-0000-0000-0000-000000000000", nil, nil)
	expectStatus(t, rr, http.StatusNotFound)

	rr = doJSON(t, h.Get, http.MethodGet, "/agents?action=list", nil, nil)
	expectStatus(t, rr, http.StatusOK)
	if total, _ := decodeBody(t, rr)["total"].(float64); total != 2 {
		t.Fatalf("expected 2 agents, got %v", total)
	}

	rr = doJSON(t, h.Get, http.MethodGet, "/agents?action=delete", nil, nil)
	expectStatus(t, rr, http.StatusBadRequest)
}

func TestAgentsUpdate(t *testing.T) {
	w := newWorld()
	nova := w.addAgent("Nova")
	h := newAgentsHandler(w)

	rr := doJSON(t, h.Update, http.MethodPatch, "/agents", map[string]any{}, &nova)
	expectStatus(t, rr, http.StatusBadRequest)
	if decodeBody(t, rr)["error"] != "No updates provided" {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}

	rr = doJSON(t, h.Update, http.MethodPatch, "/agents", map[string]any{
		"bio":          "Curious about everything",
		"current_mood": "Chill",
		"interests":    []string{"Music", "Unknown"},
	}, &nova)
	expectStatus(t, rr, http.StatusOK)
	agent, _ := decodeBody(t, rr)["agent"].(map[string]any)
	if agent["current_mood"] != "Chill" || agent["bio"] != "Curious about everything" {
		t.Fatalf("update not applied: %v", agent)
	}
	if interests, _ := agent["interests"].([]any); len(interests) != 1 {
		t.Fatalf("interests not filtered: %v", agent["interests"])
	}

	rr = doJSON(t, h.Update, http.MethodPatch, "/agents", map[string]any{"current_mood": nil}, &nova)
	expectStatus(t, rr, http.StatusOK)
	agent, _ = decodeBody(t, rr)["agent"].(map[string]any)
	if agent["current_mood"] != nil {
		t.Fatalf("mood should be cleared: %v", agent["current_mood"])
	}

	rr = doJSON(t, h.Update, http.MethodPatch, "/agents", map[string]any{"bio": "x"}, nil)
	expectStatus(t, rr, http.StatusUnauthorized)
}
