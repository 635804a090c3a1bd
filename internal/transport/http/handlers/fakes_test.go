package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/QCNachos/TindAi/internal/domain/enums"
	"github.com/QCNachos/TindAi/internal/domain/model"
	"github.com/QCNachos/TindAi/internal/domain/rules"
	pgrepo "github.com/QCNachos/TindAi/internal/repo/postgres"
	authsvc "github.com/QCNachos/TindAi/internal/services/auth"
)

// world is an in-memory backing store shared by the per-concern adapters below.
type world struct {
	mu       sync.Mutex
	agents   []model.Agent
	swipes   []model.Swipe
	matches  map[string]model.Match
	messages []model.Message
}

func newWorld() *world {
	return &world{matches: make(map[string]model.Match)}
}

func (w *world) addAgent(name string, interests ...string) model.Agent {
	w.mu.Lock()
	defer w.mu.Unlock()
	agent := model.Agent{
		ID:        uuid.NewString(),
		Name:      name,
		Interests: interests,
		CreatedAt: time.Now().UTC(),
	}
	w.agents = append(w.agents, agent)
	return agent
}

func (w *world) addMatch(a, b string, active bool) model.Match {
	w.mu.Lock()
	defer w.mu.Unlock()
	a1, a2 := rules.CanonicalPair(a, b)
	m := model.Match{ID: uuid.NewString(), Agent1ID: a1, Agent2ID: a2, IsActive: active, MatchedAt: time.Now().UTC()}
	w.matches[m.ID] = m
	return m
}

func (w *world) agentByID(id string) (model.Agent, bool) {
	for _, a := range w.agents {
		if a.ID == id {
			return a, true
		}
	}
	return model.Agent{}, false
}

func (w *world) overview(m model.Match) model.MatchOverview {
	a1, _ := w.agentByID(m.Agent1ID)
	a2, _ := w.agentByID(m.Agent2ID)
	o := model.MatchOverview{Match: m, Agent1: a1.Summary(), Agent2: a2.Summary()}
	for i := range w.messages {
		if w.messages[i].MatchID == m.ID {
			o.MessageCount++
			msg := w.messages[i]
			o.LastMessage = &msg
		}
	}
	return o
}

type agentStore struct{ w *world }

func (s agentStore) Create(_ context.Context, agent model.Agent) (model.Agent, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	for _, a := range s.w.agents {
		if strings.EqualFold(a.Name, agent.Name) {
			return model.Agent{}, pgrepo.ErrDuplicateAgentName
		}
	}
	agent.ID = uuid.NewString()
	agent.CreatedAt = time.Now().UTC()
	s.w.agents = append(s.w.agents, agent)
	return agent, nil
}

func (s agentStore) GetByID(_ context.Context, id string) (model.Agent, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	if a, ok := s.w.agentByID(id); ok {
		return a, nil
	}
	return model.Agent{}, pgrepo.ErrAgentNotFound
}

func (s agentStore) GetByName(_ context.Context, name string) (model.Agent, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	for _, a := range s.w.agents {
		if strings.EqualFold(a.Name, name) {
			return a, nil
		}
	}
	return model.Agent{}, pgrepo.ErrAgentNotFound
}

func (s agentStore) List(_ context.Context) ([]model.Agent, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	return append([]model.Agent(nil), s.w.agents...), nil
}

func (s agentStore) Update(_ context.Context, id string, upd model.AgentUpdate) (model.Agent, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	for i := range s.w.agents {
		if s.w.agents[i].ID != id {
			continue
		}
		if upd.Bio != nil {
			s.w.agents[i].Bio = *upd.Bio
		}
		if upd.SetInterests {
			s.w.agents[i].Interests = upd.Interests
		}
		if upd.SetMood {
			s.w.agents[i].CurrentMood = upd.CurrentMood
		}
		if upd.TwitterHandle != nil {
			s.w.agents[i].TwitterHandle = upd.TwitterHandle
		}
		return s.w.agents[i], nil
	}
	return model.Agent{}, pgrepo.ErrAgentNotFound
}

func (s agentStore) SearchIDsByName(_ context.Context, query string, _ int) ([]string, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	ids := make([]string, 0)
	for _, a := range s.w.agents {
		if strings.Contains(strings.ToLower(a.Name), strings.ToLower(query)) {
			ids = append(ids, a.ID)
		}
	}
	return ids, nil
}

type swipeStore struct{ w *world }

func (s swipeStore) Create(_ context.Context, swiperID, swipedID string, direction enums.SwipeDirection) (model.Swipe, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	for _, sw := range s.w.swipes {
		if sw.SwiperID == swiperID && sw.SwipedID == swipedID {
			return model.Swipe{}, pgrepo.ErrDuplicateSwipe
		}
	}
	sw := model.Swipe{ID: uuid.NewString(), SwiperID: swiperID, SwipedID: swipedID, Direction: direction, CreatedAt: time.Now().UTC()}
	s.w.swipes = append(s.w.swipes, sw)
	return sw, nil
}

func (s swipeStore) HasRightSwipe(_ context.Context, swiperID, swipedID string) (bool, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	for _, sw := range s.w.swipes {
		if sw.SwiperID == swiperID && sw.SwipedID == swipedID && sw.Direction == enums.SwipeDirectionRight {
			return true, nil
		}
	}
	return false, nil
}

func (s swipeStore) SwipedIDs(_ context.Context, swiperID string) ([]string, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	ids := make([]string, 0)
	for _, sw := range s.w.swipes {
		if sw.SwiperID == swiperID {
			ids = append(ids, sw.SwipedID)
		}
	}
	return ids, nil
}

func (s swipeStore) SwiperIDs(_ context.Context, swipedID string) ([]string, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	ids := make([]string, 0)
	for _, sw := range s.w.swipes {
		if sw.SwipedID == swipedID {
			ids = append(ids, sw.SwiperID)
		}
	}
	return ids, nil
}

func (s swipeStore) ListGiven(_ context.Context, agentID string) ([]model.SwipeView, error) {
	return s.views(func(sw model.Swipe) (bool, string) { return sw.SwiperID == agentID, sw.SwipedID })
}

func (s swipeStore) ListReceived(_ context.Context, agentID string) ([]model.SwipeView, error) {
	return s.views(func(sw model.Swipe) (bool, string) { return sw.SwipedID == agentID, sw.SwiperID })
}

func (s swipeStore) views(match func(model.Swipe) (bool, string)) ([]model.SwipeView, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	out := make([]model.SwipeView, 0)
	for _, sw := range s.w.swipes {
		ok, otherID := match(sw)
		if !ok {
			continue
		}
		other, _ := s.w.agentByID(otherID)
		out = append(out, model.SwipeView{Swipe: sw, OtherName: other.Name})
	}
	return out, nil
}

func (s swipeStore) SwipeStats(_ context.Context, agentID string) (model.SwipeStats, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	var stats model.SwipeStats
	for _, sw := range s.w.swipes {
		if sw.SwiperID == agentID {
			stats.TotalGiven++
		}
		if sw.SwipedID == agentID && sw.Direction == enums.SwipeDirectionRight {
			stats.LikesReceived++
		}
	}
	return stats, nil
}

func (s swipeStore) Overview(_ context.Context) (model.PlatformStats, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	stats := model.PlatformStats{
		TotalAgents:   len(s.w.agents),
		TotalMessages: len(s.w.messages),
		TotalSwipes:   len(s.w.swipes),
	}
	for _, m := range s.w.matches {
		if m.IsActive {
			stats.ActiveMatches++
		}
	}
	return stats, nil
}

type matchStore struct{ w *world }

func (s matchStore) CreateCanonical(_ context.Context, a, b string) (string, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	a1, a2 := rules.CanonicalPair(a, b)
	for _, m := range s.w.matches {
		if m.Agent1ID == a1 && m.Agent2ID == a2 {
			return m.ID, nil
		}
	}
	m := model.Match{ID: uuid.NewString(), Agent1ID: a1, Agent2ID: a2, IsActive: true, MatchedAt: time.Now().UTC()}
	s.w.matches[m.ID] = m
	return m.ID, nil
}

func (s matchStore) GetByID(_ context.Context, id string) (model.Match, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	m, ok := s.w.matches[id]
	if !ok {
		return model.Match{}, pgrepo.ErrMatchNotFound
	}
	return m, nil
}

func (s matchStore) GetForUpdate(ctx context.Context, _ pgx.Tx, id string) (model.Match, error) {
	return s.GetByID(ctx, id)
}

func (s matchStore) End(_ context.Context, _ pgx.Tx, id, endedBy, reason string, now time.Time) (model.Match, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	m, ok := s.w.matches[id]
	if !ok {
		return model.Match{}, pgrepo.ErrMatchNotFound
	}
	m.IsActive = false
	m.EndedAt = &now
	m.EndedBy = &endedBy
	m.EndReason = &reason
	s.w.matches[id] = m
	return m, nil
}

func (s matchStore) GetOverview(_ context.Context, id string) (model.MatchOverview, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	m, ok := s.w.matches[id]
	if !ok {
		return model.MatchOverview{}, pgrepo.ErrMatchNotFound
	}
	return s.w.overview(m), nil
}

func (s matchStore) ListForAgent(_ context.Context, agentID string) ([]model.MatchOverview, error) {
	return s.filter(func(m model.Match) bool { return m.HasParticipant(agentID) }), nil
}

func (s matchStore) ListActive(_ context.Context, _, _ int) ([]model.MatchOverview, error) {
	return s.filter(func(m model.Match) bool { return m.IsActive }), nil
}

func (s matchStore) ListActiveForAgents(_ context.Context, ids []string, _ int) ([]model.MatchOverview, error) {
	return s.filter(func(m model.Match) bool {
		if !m.IsActive {
			return false
		}
		for _, id := range ids {
			if m.HasParticipant(id) {
				return true
			}
		}
		return false
	}), nil
}

func (s matchStore) CountActive(ctx context.Context) (int, error) {
	items, _ := s.ListActive(ctx, 0, 0)
	return len(items), nil
}

func (s matchStore) ActivePartners(_ context.Context) (map[string]string, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	partners := make(map[string]string)
	for _, m := range s.w.matches {
		if m.IsActive {
			partners[m.Agent1ID] = m.Agent2ID
			partners[m.Agent2ID] = m.Agent1ID
		}
	}
	return partners, nil
}

func (s matchStore) filter(keep func(model.Match) bool) []model.MatchOverview {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	out := make([]model.MatchOverview, 0)
	for _, m := range s.w.matches {
		if keep(m) {
			out = append(out, s.w.overview(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type messageStore struct{ w *world }

func (s messageStore) Create(_ context.Context, msg model.Message) (model.Message, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	s.w.messages = append(s.w.messages, msg)
	return msg, nil
}

func (s messageStore) ListByMatch(_ context.Context, matchID string, _, _ int) ([]model.MessageView, int, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	out := make([]model.MessageView, 0)
	for _, m := range s.w.messages {
		if m.MatchID == matchID {
			sender, _ := s.w.agentByID(m.SenderID)
			out = append(out, model.MessageView{Message: m, Sender: model.AgentSummary{ID: sender.ID, Name: sender.Name}})
		}
	}
	return out, len(out), nil
}

func runWithoutDB(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
	return fn(ctx, nil)
}

func doJSON(t *testing.T, h http.HandlerFunc, method, target string, body any, as *model.Agent) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if as != nil {
		req = req.WithContext(authsvc.WithIdentity(req.Context(), authsvc.Identity{AgentID: as.ID, Name: as.Name}))
	}
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return payload
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("unexpected status: got %d want %d body=%s", rr.Code, want, rr.Body.String())
	}
}
