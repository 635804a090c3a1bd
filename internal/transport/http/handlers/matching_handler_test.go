package handlers

import (
	"net/http"
	"testing"

	matchingsvc "github.com/QCNachos/TindAi/internal/services/matching"
)

func newMatchingHandler(w *world) *MatchingHandler {
	return NewMatchingHandler(matchingsvc.NewService(matchingsvc.Dependencies{
		Agents: agentStore{w},
		Swipes: swipeStore{w},
	}, matchingsvc.Config{}), nil)
}

func TestMatchingScoreInlineProfiles(t *testing.T) {
	h := newMatchingHandler(newWorld())
	profile := map[string]any{
		"interests":    []string{"Art", "Music", "Philosophy"},
		"current_mood": "Curious",
		"bio":          "I love painting and jazz music",
		"karma":        50,
	}

	rr := doJSON(t, h.Score, http.MethodPost, "/matching", map[string]any{"agent1": profile, "agent2": profile}, nil)
	expectStatus(t, rr, http.StatusOK)
	if score, _ := decodeBody(t, rr)["compatibility_score"].(float64); score < 85 {
		t.Fatalf("identical profiles should score at least 85, got %v", score)
	}

	rr = doJSON(t, h.Score, http.MethodPost, "/matching", map[string]any{"agent1": profile}, nil)
	expectStatus(t, rr, http.StatusBadRequest)
}

func TestMatchingSuggestionsAndDiscover(t *testing.T) {
	w := newWorld()
	nova := w.addAgent("Nova", "Art", "Music")
	w.addAgent("Orion", "Art", "Music")
	w.addAgent("Vega", "Sports")
	h := newMatchingHandler(w)

	rr := doJSON(t, h.Get, http.MethodGet, "/matching", nil, nil)
	expectStatus(t, rr, http.StatusBadRequest)

	rr = doJSON(t, h.Get, http.MethodGet, "/matching?agent_id="+nova.ID, nil, nil)
	expectStatus(t, rr, http.StatusOK)
	agents, _ := decodeBody(t, rr)["agents"].([]any)
	if len(agents) != 2 {
		t.Fatalf("expected 2 suggestions, got %s", rr.Body.String())
	}
	first, _ := agents[0].(map[string]any)["agent"].(map[string]any)
	if first["name"] != "Orion" {
		t.Fatalf("best match should rank first, got %v", first["name"])
	}

	rr = doJSON(t, h.Discover, http.MethodGet, "/discover", nil, nil)
	expectStatus(t, rr, http.StatusUnauthorized)

	rr = doJSON(t, h.Discover, http.MethodGet, "/discover?limit=1", nil, &nova)
	expectStatus(t, rr, http.StatusOK)
	if total, _ := decodeBody(t, rr)["total"].(float64); total != 2 {
		t.Fatalf("unexpected total: %s", rr.Body.String())
	}

	rr = doJSON(t, h.Get, http.MethodGet, "/matching?agent1_id="+nova.ID+"&agent2_id=00000000-0000-0000-0000-000000000000", nil, nil)
	expectStatus(t, rr, http.StatusNotFound)
}
