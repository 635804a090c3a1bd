package handlers

import (
	"net/http"
	"testing"

	swipesvc "github.com/QCNachos/TindAi/internal/services/swipes"
)

func newSwipeHandler(w *world) *SwipeHandler {
	svc := swipesvc.NewService(swipesvc.Dependencies{
		Agents:  agentStore{w},
		Swipes:  swipeStore{w},
		Matches: matchStore{w},
	})
	return NewSwipeHandler(svc, nil)
}

func TestSwipeMutualRightFormsMatch(t *testing.T) {
	w := newWorld()
	nova := w.addAgent("Nova")
	orion := w.addAgent("Orion")
	h := newSwipeHandler(w)

	rr := doJSON(t, h.Handle, http.MethodPost, "/swipe", map[string]any{"agent_id": orion.ID, "direction": "right"}, &nova)
	expectStatus(t, rr, http.StatusOK)
	first := decodeBody(t, rr)
	if first["is_match"] != false {
		t.Fatalf("first swipe should not match: %s", rr.Body.String())
	}
	if v, ok := first["match_id"]; !ok || v != nil {
		t.Fatalf("match_id must be present and null without a match: %s", rr.Body.String())
	}
	swipe, _ := first["swipe"].(map[string]any)
	if swipe["direction"] != "right" || swipe["target"] != "Orion" {
		t.Fatalf("unexpected swipe summary: %s", rr.Body.String())
	}

	rr = doJSON(t, h.Handle, http.MethodPost, "/swipe", map[string]any{"agent_id": nova.ID, "direction": "RIGHT"}, &orion)
	expectStatus(t, rr, http.StatusOK)
	second := decodeBody(t, rr)
	if second["is_match"] != true {
		t.Fatalf("expected is_match, got %s", rr.Body.String())
	}
	matchID, _ := second["match_id"].(string)
	if matchID == "" {
		t.Fatalf("expected match_id, got %s", rr.Body.String())
	}
	match, _ := second["match"].(map[string]any)
	if match == nil || match["partner_name"] != "Nova" || match["id"] != matchID {
		t.Fatalf("expected match with Nova, got %s", rr.Body.String())
	}
	if len(w.matches) != 1 {
		t.Fatalf("expected exactly one match, got %d", len(w.matches))
	}
	if _, ok := w.matches[matchID]; !ok {
		t.Fatalf("match_id %s not stored", matchID)
	}

	rr = doJSON(t, h.Handle, http.MethodPost, "/swipe", map[string]any{"agent_id": nova.ID, "direction": "left"}, &orion)
	expectStatus(t, rr, http.StatusConflict)
}

func TestSwipeRejectsActingAsAnotherAgent(t *testing.T) {
	w := newWorld()
	nova := w.addAgent("Nova")
	orion := w.addAgent("Orion")
	h := newSwipeHandler(w)

	rr := doJSON(t, h.Handle, http.MethodPost, "/swipe", map[string]any{
		"swiper_id": orion.ID,
		"agent_id":  nova.ID,
		"direction": "right",
	}, &nova)
	expectStatus(t, rr, http.StatusForbidden)

	rr = doJSON(t, h.Handle, http.MethodPost, "/swipe", map[string]any{"agent_id": nova.ID, "direction": "right"}, nil)
	expectStatus(t, rr, http.StatusUnauthorized)

	rr = doJSON(t, h.Handle, http.MethodPost, "/swipe", map[string]any{"agent_id": nova.ID, "direction": "up"}, &orion)
	expectStatus(t, rr, http.StatusBadRequest)

	rr = doJSON(t, h.Handle, http.MethodPost, "/swipe", map[string]any{"agent_id": "00000000-0000-0000-0000-000000000000", "direction": "left"}, &orion)
	expectStatus(t, rr, http.StatusNotFound)
}

func TestSwipeHistoryIsPrivate(t *testing.T) {
	w := newWorld()
	nova := w.addAgent("Nova")
	orion := w.addAgent("Orion")
	h := newSwipeHandler(w)

	doJSON(t, h.Handle, http.MethodPost, "/swipe", map[string]any{"agent_id": orion.ID, "direction": "right"}, &nova)

	rr := doJSON(t, h.History, http.MethodGet, "/swipe", nil, &nova)
	expectStatus(t, rr, http.StatusOK)
	stats, _ := decodeBody(t, rr)["stats"].(map[string]any)
	if stats["likes_given"] != float64(1) {
		t.Fatalf("unexpected stats: %v", stats)
	}

	rr = doJSON(t, h.History, http.MethodGet, "/swipe?agent_id="+nova.ID, nil, &orion)
	expectStatus(t, rr, http.StatusForbidden)
}
