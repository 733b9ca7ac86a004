package study

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/flashmaster/internal/appstate"
	"github.com/abhisek/flashmaster/internal/deck"
	"github.com/abhisek/flashmaster/internal/quiz"
	"github.com/abhisek/flashmaster/internal/screen"
	"github.com/abhisek/flashmaster/internal/session"
	"github.com/abhisek/flashmaster/internal/store"
)

var quietLog = slog.New(slog.NewTextHandler(io.Discard, nil))

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// stubGenerator returns a fixed result and records the key it was given.
type stubGenerator struct {
	result quiz.Result
	calls  int
	key    string
}

func (g *stubGenerator) Generate(_ context.Context, _ deck.Deck, apiKey string) quiz.Result {
	g.calls++
	g.key = apiKey
	return g.result
}

func testServices(t *testing.T, cards int) (Services, deck.Deck, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	st := appstate.Load(context.Background(), mem, appstate.WithLogger(quietLog))
	t.Cleanup(func() { st.Close(context.Background()) })

	st.AddDeck("Spanish")
	d := st.State().Decks[0]
	for i := range cards {
		st.AddCard(d.ID, "q"+string(rune('a'+i)), "a"+string(rune('a'+i)))
	}
	d, _ = st.Deck(d.ID)

	svc := Services{
		State:   st,
		Auditor: quiz.NewAuditor(mem, quietLog),
	}
	return svc, d, mem
}

func update(t *testing.T, s screen.Screen, msgs ...tea.Msg) screen.Screen {
	t.Helper()
	for _, m := range msgs {
		s, _ = s.Update(m)
	}
	return s
}

func TestFlip_NoCards(t *testing.T) {
	svc, d, _ := testServices(t, 0)
	s := NewFlip(svc, d)
	if !strings.Contains(s.View(80, 24), "Add cards") {
		t.Error("expected empty-deck hint")
	}
	if _, cmd := s.Update(specialKey(tea.KeyEscape)); cmd == nil {
		t.Error("expected Esc to pop")
	}
}

func TestFlip_RevealAndGrade(t *testing.T) {
	svc, d, _ := testServices(t, 3)
	s := NewFlip(svc, d)

	update(t, s, keyPress(' '))
	if !s.revealed {
		t.Fatal("expected card to flip")
	}
	update(t, s, keyPress('y'))
	if s.revealed {
		t.Error("next card should start face down")
	}
	if s.engine.Current() != 1 || s.engine.Counters().Correct != 1 {
		t.Fatalf("counters = %+v", s.engine.Counters())
	}
	if svc.State.State().Coins != 1 {
		t.Errorf("coins = %d, want 1", svc.State.State().Coins)
	}

	update(t, s, keyPress('y'), keyPress('n'))
	if s.engine.Phase() != session.PhaseFinished {
		t.Fatal("expected finish after last card")
	}
	hist := svc.State.State().TestHistory
	if len(hist) != 1 || hist[0].Score != 67 || hist[0].BestStreak != 2 {
		t.Fatalf("history = %+v", hist)
	}
	if svc.State.State().Coins != 3 {
		t.Errorf("coins = %d, want 3", svc.State.State().Coins)
	}
	if !strings.Contains(s.View(80, 24), "Score: 67%") {
		t.Error("summary missing score")
	}
}

func TestFlip_ThreeMissesEndTest(t *testing.T) {
	svc, d, _ := testServices(t, 10)
	s := NewFlip(svc, d)
	update(t, s, keyPress('n'), keyPress('n'), keyPress('n'))

	if s.engine.Phase() != session.PhaseFinished {
		t.Fatal("expected finish on third miss")
	}
	r := svc.State.State().TestHistory[0]
	if r.Wrong != 3 || r.Total != 10 || r.Score != 0 {
		t.Fatalf("result = %+v", r)
	}
}

func TestFlip_ExitConfirm(t *testing.T) {
	svc, d, _ := testServices(t, 5)
	s := NewFlip(svc, d)
	update(t, s, keyPress('y'), specialKey(tea.KeyEscape))
	if !s.confirmQuit {
		t.Fatal("expected quit confirmation")
	}
	update(t, s, keyPress('n'))
	if s.confirmQuit || s.engine.Phase() == session.PhaseFinished {
		t.Fatal("N should dismiss the dialog and keep going")
	}

	update(t, s, specialKey(tea.KeyEscape), keyPress('y'))
	hist := svc.State.State().TestHistory
	if len(hist) != 1 || hist[0].Correct != 1 || hist[0].Score != 20 {
		t.Fatalf("history = %+v", hist)
	}
}

func TestFlip_Retake(t *testing.T) {
	svc, d, _ := testServices(t, 1)
	s := NewFlip(svc, d)
	update(t, s, keyPress('y'), keyPress('r'))
	if s.engine.Phase() != session.PhaseInProgress || s.engine.Current() != 0 {
		t.Fatal("expected retake to restart the test")
	}
	update(t, s, keyPress('n'))
	if n := len(svc.State.State().TestHistory); n != 2 {
		t.Fatalf("history length = %d, want 2", n)
	}
}

func testQuizResult() quiz.Result {
	return quiz.Result{
		Source: quiz.SourceAI,
		Questions: []quiz.Question{
			{Question: "Hola?", Choices: []string{"Hello", "Bye", "Cat", "Dog"}, CorrectIndex: 0},
			{Question: "Gato?", Choices: []string{"Dog", "Cat", "Cow", "Pig"}, CorrectIndex: 1},
		},
	}
}

func TestQuiz_LoadingThenAnswer(t *testing.T) {
	svc, d, mem := testServices(t, 2)
	s := NewQuiz(svc, d)
	s.Init()

	if !s.loading || !strings.Contains(s.View(80, 24), "Generating quiz") {
		t.Fatal("expected loading state")
	}

	update(t, s, quizReadyMsg{gen: s.gen, result: testQuizResult()})
	if s.loading || s.quiz == nil {
		t.Fatal("expected quiz to start")
	}

	update(t, s, keyPress('1'))
	if !s.feedback {
		t.Fatal("expected feedback after answering")
	}
	update(t, s, feedbackDoneMsg{index: 0})
	if s.feedback || s.quiz.Current() != 1 {
		t.Fatalf("expected next question, current=%d", s.quiz.Current())
	}

	update(t, s, keyPress('3'), keyPress(' '))
	r, ok := s.quiz.Result()
	if !ok {
		t.Fatal("expected quiz to finish")
	}
	if r.Score != 50 || r.Correct != 1 || r.Wrong != 1 {
		t.Fatalf("result = %+v", r)
	}
	if _, ok := mem.Value(quiz.AttemptKey(d.ID, r.EndedAt)); !ok {
		t.Error("expected audit record")
	}
	if !strings.Contains(s.View(80, 24), "Score: 50%") {
		t.Error("summary missing score")
	}
}

func TestQuiz_DropsStaleResult(t *testing.T) {
	svc, d, _ := testServices(t, 2)
	s := NewQuiz(svc, d)
	s.Init()
	stale := s.gen
	s.Init()

	update(t, s, quizReadyMsg{gen: stale, result: testQuizResult()})
	if !s.loading || s.quiz != nil {
		t.Fatal("stale result should be ignored")
	}
}

func TestQuiz_DisposedIgnoresResult(t *testing.T) {
	svc, d, _ := testServices(t, 2)
	s := NewQuiz(svc, d)
	s.Init()
	s.Dispose()

	update(t, s, quizReadyMsg{gen: s.gen, result: testQuizResult()})
	if s.quiz != nil {
		t.Fatal("result after dispose should be ignored")
	}
}

func TestQuiz_EscWhileLoadingPops(t *testing.T) {
	svc, d, _ := testServices(t, 2)
	s := NewQuiz(svc, d)
	s.Init()
	_, cmd := s.Update(specialKey(tea.KeyEscape))
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if !s.disposed {
		t.Error("expected generation to be abandoned")
	}
}

func TestQuiz_GeneratorGetsKey(t *testing.T) {
	svc, d, _ := testServices(t, 2)
	g := &stubGenerator{result: testQuizResult()}
	svc.Generator = g
	svc.APIKey = func() string { return "sk-test" }

	s := NewQuiz(svc, d)
	batch, ok := s.Init()().(tea.BatchMsg)
	if !ok || len(batch) == 0 {
		t.Fatal("expected a batch command")
	}
	msg := batch[0]()
	ready, ok := msg.(quizReadyMsg)
	if !ok {
		t.Fatalf("first command returned %T", msg)
	}
	if g.calls != 1 || g.key != "sk-test" {
		t.Fatalf("calls=%d key=%q", g.calls, g.key)
	}
	update(t, s, ready)
	if s.quiz == nil {
		t.Fatal("expected quiz to start")
	}
}

func TestQuiz_FallbackNotice(t *testing.T) {
	svc, d, _ := testServices(t, 2)
	s := NewQuiz(svc, d)
	s.Init()

	res := quiz.Result{Questions: quiz.Fallback(d), Source: quiz.SourceFallback, Notice: "HTTP 503"}
	update(t, s, quizReadyMsg{gen: s.gen, result: res})
	if !strings.Contains(s.View(120, 30), "HTTP 503") {
		t.Error("expected failure notice in view")
	}
}

func TestQuiz_ExitRecordsPartial(t *testing.T) {
	svc, d, _ := testServices(t, 2)
	s := NewQuiz(svc, d)
	s.Init()
	update(t, s, quizReadyMsg{gen: s.gen, result: testQuizResult()})
	update(t, s, keyPress('1'), feedbackDoneMsg{index: 0}, specialKey(tea.KeyEscape), keyPress('y'))

	hist := svc.State.State().TestHistory
	if len(hist) != 1 || hist[0].Correct != 1 || hist[0].Total != 2 {
		t.Fatalf("history = %+v", hist)
	}
}
