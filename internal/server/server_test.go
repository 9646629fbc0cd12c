package server

import (
	"bytes"
	"encoding/json"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/challenge"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/evaluate"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/imagebank"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/llm"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/riddle"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/session"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/store"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/story"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

var bankRiddles = []riddle.Riddle{{Riddle: "Inshyushyu itagira umuriro", Answer: "amazi"}}

func newTestRouter(t *testing.T, genProvider llm.Provider, riddles []riddle.Riddle, withImage bool) *gin.Engine {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	dir := t.TempDir()
	if withImage {
		if err := os.WriteFile(filepath.Join(dir, "hill.png"), []byte("png"), 0o644); err != nil {
			t.Fatalf("write sample image: %v", err)
		}
	}

	gen := challenge.NewGenerator(challenge.Deps{
		Provider: genProvider,
		Riddles:  riddle.NewBank(riddles, nil),
		Images:   imagebank.New(dir, nil),
		Stories:  story.NewEngine(genProvider, zerolog.Nop()),
		RNG:      rand.New(rand.NewPCG(1, 2)),
		Logger:   zerolog.Nop(),
	}, challenge.DefaultConfig())

	eval := evaluate.New(llm.NewMockProvider(), evaluate.DefaultConfig(), zerolog.Nop())
	svc := session.NewService(st, gen, eval, rand.New(rand.NewPCG(3, 4)), zerolog.Nop())
	return New(svc, Config{ImageDir: dir}, zerolog.Nop()).Router()
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		rdr = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return m
}

func TestGetChallengeStaticFallback(t *testing.T) {
	router := newTestRouter(t, llm.NewMockProvider(), bankRiddles, true)

	w := doRequest(t, router, http.MethodGet, "/api/challenge", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["challenge_id"] == "" {
		t.Error("expected a challenge id")
	}
	typ, _ := body["challenge_type"].(string)
	if typ != "kin_to_eng_proverb" && typ != "eng_to_kin_phrase" {
		t.Errorf("unexpected challenge type %q", typ)
	}
	if _, leaked := body["target_text"]; leaked {
		t.Error("target_text must not reach the client")
	}

	var sessionCookie *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "session_id" {
			sessionCookie = ck
		}
	}
	if sessionCookie == nil || sessionCookie.Value == "" {
		t.Error("expected a session_id cookie on first contact")
	}
}

func TestGetChallengeInvalidMode(t *testing.T) {
	router := newTestRouter(t, llm.NewMockProvider(), bankRiddles, true)

	w := doRequest(t, router, http.MethodGet, "/api/challenge?game_mode=karaoke", nil, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if msg := decodeBody(t, w)["error_message"]; msg != "Invalid 'game_mode' parameter." {
		t.Errorf("unexpected error message %q", msg)
	}
}

func TestGetChallengeInvalidDifficulty(t *testing.T) {
	router := newTestRouter(t, llm.NewMockProvider(), bankRiddles, true)

	w := doRequest(t, router, http.MethodGet, "/api/challenge?difficulty=hard", nil, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestGetChallengeEmptyRiddleBank(t *testing.T) {
	router := newTestRouter(t, llm.NewMockProvider(), nil, true)

	w := doRequest(t, router, http.MethodGet, "/api/challenge?game_mode=sakwe", nil, nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
	if msg := decodeBody(t, w)["error_message"]; msg != "Riddle database is empty." {
		t.Errorf("unexpected error message %q", msg)
	}
}

func TestGetChallengeEmptyImageDir(t *testing.T) {
	router := newTestRouter(t, llm.NewMockProvider(), bankRiddles, false)

	w := doRequest(t, router, http.MethodGet, "/api/challenge?game_mode=image", nil, nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
	msg, _ := decodeBody(t, w)["error_message"].(string)
	if !strings.HasPrefix(msg, "No images found in the ") {
		t.Errorf("unexpected error message %q", msg)
	}
}

func TestSomaWithoutPendingRiddle(t *testing.T) {
	router := newTestRouter(t, llm.NewMockProvider(), bankRiddles, true)

	w := doRequest(t, router, http.MethodPost, "/api/soma", nil, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
	if msg := decodeBody(t, w)["error_message"]; msg != "No pending riddle." {
		t.Errorf("unexpected error message %q", msg)
	}
}

func TestRiddleRoundTrip(t *testing.T) {
	router := newTestRouter(t, llm.NewMockProvider(), bankRiddles, true)

	// Announce the round; the riddle stays server-side.
	w := doRequest(t, router, http.MethodGet, "/api/challenge?game_mode=sakwe", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("announce status = %d, body %s", w.Code, w.Body.String())
	}
	announce := decodeBody(t, w)
	if announce["source_text"] != "Sakwe sakwe!" {
		t.Errorf("unexpected announcement %q", announce["source_text"])
	}
	cookies := w.Result().Cookies()

	// Soma reveals the riddle as a playable challenge.
	w = doRequest(t, router, http.MethodPost, "/api/soma", nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("soma status = %d, body %s", w.Code, w.Body.String())
	}
	revealed := decodeBody(t, w)
	if revealed["challenge_type"] != "gusakuza" {
		t.Errorf("challenge_type = %q, want gusakuza", revealed["challenge_type"])
	}
	if revealed["source_text"] != "Inshyushyu itagira umuriro" {
		t.Errorf("unexpected riddle text %q", revealed["source_text"])
	}

	// A normalized answer scores.
	w = doRequest(t, router, http.MethodPost, "/api/answer", map[string]any{
		"challenge_id": revealed["challenge_id"],
		"answer":       "  Amazi!",
	}, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("answer status = %d, body %s", w.Code, w.Body.String())
	}
	result := decodeBody(t, w)
	if result["is_correct"] != true {
		t.Errorf("expected a correct verdict, got %v", result)
	}
	if result["message"] != "Correct!" {
		t.Errorf("message = %q", result["message"])
	}
	if result["new_total_score"] != float64(10) {
		t.Errorf("new_total_score = %v, want 10", result["new_total_score"])
	}
}

func TestSubmitAnswerUnknownChallenge(t *testing.T) {
	router := newTestRouter(t, llm.NewMockProvider(), bankRiddles, true)

	w := doRequest(t, router, http.MethodPost, "/api/answer", map[string]any{
		"challenge_id": "missing",
		"answer":       "Mwaramutse",
	}, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if msg := decodeBody(t, w)["error_message"]; msg != "Challenge not found." {
		t.Errorf("unexpected error message %q", msg)
	}
}

func TestSubmitAnswerMalformedBody(t *testing.T) {
	router := newTestRouter(t, llm.NewMockProvider(), bankRiddles, true)

	req := httptest.NewRequest(http.MethodPost, "/api/answer", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestHintStaticFallback(t *testing.T) {
	router := newTestRouter(t, llm.NewMockProvider(), bankRiddles, true)

	w := doRequest(t, router, http.MethodGet, "/api/challenge", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("challenge status = %d", w.Code)
	}
	id := decodeBody(t, w)["challenge_id"]

	w = doRequest(t, router, http.MethodPost, "/api/hint", map[string]any{"challenge_id": id}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("hint status = %d, body %s", w.Code, w.Body.String())
	}
	hint := decodeBody(t, w)["hint"]
	if hint != "Say the phrase out loud and listen for a word you already know." {
		t.Errorf("unexpected fallback hint %q", hint)
	}
}

func TestHintUnknownChallenge(t *testing.T) {
	router := newTestRouter(t, llm.NewMockProvider(), bankRiddles, true)

	w := doRequest(t, router, http.MethodPost, "/api/hint", map[string]any{"challenge_id": "missing"}, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestFeedback(t *testing.T) {
	router := newTestRouter(t, llm.NewMockProvider(), bankRiddles, true)

	w := doRequest(t, router, http.MethodGet, "/api/challenge", nil, nil)
	id := decodeBody(t, w)["challenge_id"]

	w = doRequest(t, router, http.MethodPost, "/api/feedback", map[string]any{
		"challenge_id": id,
		"rating":       5,
		"comment":      "Byiza cyane",
	}, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204, body %s", w.Code, w.Body.String())
	}

	w = doRequest(t, router, http.MethodPost, "/api/feedback", map[string]any{
		"challenge_id": id,
		"rating":       9,
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if msg := decodeBody(t, w)["error_message"]; msg != "Rating must be between 1 and 5." {
		t.Errorf("unexpected error message %q", msg)
	}
}

func TestStateFreshSession(t *testing.T) {
	router := newTestRouter(t, llm.NewMockProvider(), bankRiddles, true)

	w := doRequest(t, router, http.MethodGet, "/api/state", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["lives"] != float64(3) || body["score"] != float64(0) {
		t.Errorf("unexpected counters: %v", body)
	}
	if body["game_mode"] != "translation" {
		t.Errorf("game_mode = %q", body["game_mode"])
	}
	if body["has_pending_riddle"] != false {
		t.Error("fresh session reports a pending riddle")
	}
	if body["total_score"] != float64(0) {
		t.Errorf("total_score = %v", body["total_score"])
	}
}

func TestStateDoesNotLeakRiddleAnswer(t *testing.T) {
	router := newTestRouter(t, llm.NewMockProvider(), bankRiddles, true)

	w := doRequest(t, router, http.MethodGet, "/api/challenge?game_mode=sakwe", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("announce status = %d", w.Code)
	}
	cookies := w.Result().Cookies()

	w = doRequest(t, router, http.MethodGet, "/api/state", nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("state status = %d", w.Code)
	}
	if decodeBody(t, w)["has_pending_riddle"] != true {
		t.Error("expected a pending riddle after the announcement")
	}
	if strings.Contains(w.Body.String(), "amazi") {
		t.Error("state response leaks the riddle answer")
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, llm.NewMockProvider(), bankRiddles, true)

	w := doRequest(t, router, http.MethodGet, "/healthz", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestMetricsExposed(t *testing.T) {
	router := newTestRouter(t, llm.NewMockProvider(), bankRiddles, true)

	w := doRequest(t, router, http.MethodGet, "/metrics", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "bavuga_challenge_fallbacks_total") {
		t.Error("expected bavuga metrics in the exposition")
	}
}

func TestImagesServed(t *testing.T) {
	router := newTestRouter(t, llm.NewMockProvider(), bankRiddles, true)

	w := doRequest(t, router, http.MethodGet, "/images/hill.png", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Body.String() != "png" {
		t.Errorf("unexpected image body %q", w.Body.String())
	}
}
