package ngram

import (
	"errors"
	"slices"
	"testing"

	"github.com/samcharles93/ngram/internal/logger"
	"github.com/samcharles93/ngram/internal/tokenizer"
)

// firstChooser always picks the best-ranked candidate.
var firstChooser = ChooserFunc(func(int) int { return 0 })

// recordingChooser remembers the sizes it was asked to choose from.
type recordingChooser struct {
	sizes []int
	pick  func(n int) int
}

func (r *recordingChooser) Choose(n int) int {
	r.sizes = append(r.sizes, n)
	if r.pick != nil {
		return r.pick(n)
	}
	return n - 1
}

func newTestModel(t *testing.T, cfg Config, opts ...Option) *Model {
	t.Helper()
	opts = append([]Option{WithLogger(logger.Discard())}, opts...)
	m, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	return m
}

func marked(text string) []string {
	return tokenizer.Mark(tokenizer.Tokenize(text))
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"default", DefaultConfig(), true},
		{"bigram narrow", Config{ContextSize: 1, SamplingFraction: 0.1}, true},
		{"zero context", Config{ContextSize: 0, SamplingFraction: 1}, false},
		{"negative context", Config{ContextSize: -2, SamplingFraction: 1}, false},
		{"zero fraction", Config{ContextSize: 1, SamplingFraction: 0}, false},
		{"fraction above one", Config{ContextSize: 1, SamplingFraction: 1.5}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			_, newErr := New(tc.cfg)
			if (newErr == nil) != tc.ok {
				t.Fatalf("New error mismatch: %v", newErr)
			}
		})
	}
}

func TestTrainCountsAccumulate(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, Config{ContextSize: 1, SamplingFraction: 1})
	corpus := [][]string{marked("the cat sat")}
	if err := m.Train(corpus); err != nil {
		t.Fatalf("train: %v", err)
	}
	counts, ok := m.Table().Get([]string{"the"})
	if !ok || counts["cat"] != 1 {
		t.Fatalf("after first train: %v %v", counts, ok)
	}

	for i := 2; i <= 3; i++ {
		if err := m.Train(corpus); err != nil {
			t.Fatalf("train: %v", err)
		}
		counts, _ = m.Table().Get([]string{"the"})
		if counts["cat"] != uint64(i) {
			t.Fatalf("after train %d: got %d", i, counts["cat"])
		}
	}

	m.Table().Range(func(ctx []string, counts Counts) bool {
		if len(ctx) != 1 {
			t.Fatalf("stored context %q has wrong length", ctx)
		}
		for tok, n := range counts {
			if n < 1 {
				t.Fatalf("count for %q after %q is %d", tok, ctx, n)
			}
		}
		return true
	})
}

func TestTrainDoesNotMark(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, Config{ContextSize: 1, SamplingFraction: 1})
	if err := m.Train([][]string{{"a", "b"}}); err != nil {
		t.Fatalf("train: %v", err)
	}
	if _, ok := m.Table().Get([]string{tokenizer.Start}); ok {
		t.Fatal("training added a start sentinel")
	}
	if m.Stats().Observations != 1 {
		t.Fatalf("expected a single observation, got %+v", m.Stats())
	}
}

func TestTrainRejectsShortSequenceAtomically(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, Config{ContextSize: 3, SamplingFraction: 1})
	err := m.Train([][]string{
		marked("the quick brown fox"),
		marked("hi"),
	})
	if !errors.Is(err, ErrSequenceTooShort) {
		t.Fatalf("expected ErrSequenceTooShort, got %v", err)
	}
	if m.Stats().Contexts != 0 {
		t.Fatalf("failed training mutated the table: %+v", m.Stats())
	}
}

func TestReset(t *testing.T) {
	t.Parallel()

	cfg := Config{ContextSize: 2, Smoothing: true, SamplingFraction: 0.5}
	m := newTestModel(t, cfg)
	if err := m.Train([][]string{marked("a b c")}); err != nil {
		t.Fatalf("train: %v", err)
	}
	m.Reset()
	if m.Stats().Contexts != 0 {
		t.Fatalf("reset left entries: %+v", m.Stats())
	}
	if m.Config() != cfg {
		t.Fatalf("reset changed config: %+v", m.Config())
	}
	if got := m.Predict([]string{"a", "b"}); got != tokenizer.End {
		t.Fatalf("reset model predicted %q", got)
	}
}

func TestStats(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, Config{ContextSize: 1, SamplingFraction: 1})
	if err := m.Train([][]string{marked("a b a b")}); err != nil {
		t.Fatalf("train: %v", err)
	}
	// __sos__>a, a>b x2, b>a, b>__eos__
	want := Stats{ContextSize: 1, Contexts: 3, Continuations: 4, Observations: 5}
	if got := m.Stats(); got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestResolveExactAndBackoff(t *testing.T) {
	t.Parallel()

	cfg := Config{ContextSize: 2, Smoothing: true, SamplingFraction: 1}
	m := newTestModel(t, cfg)
	if err := m.Train([][]string{marked("the cat sat"), marked("a dog sat")}); err != nil {
		t.Fatalf("train: %v", err)
	}

	match, ok := m.Resolve([]string{"ignored", "the", "cat"})
	if !ok || !slices.Equal(match.Context, []string{"the", "cat"}) || match.Counts["sat"] != 1 {
		t.Fatalf("exact match: %+v %v", match, ok)
	}

	// "my cat" was never seen, "cat" was.
	match, ok = m.Resolve([]string{"my", "cat"})
	if !ok || !slices.Equal(match.Context, []string{"cat"}) {
		t.Fatalf("suffix backoff: %+v %v", match, ok)
	}

	// Only the empty context is left; it holds every observed token.
	match, ok = m.Resolve([]string{"my", "hamster"})
	if !ok || len(match.Context) != 0 {
		t.Fatalf("empty-context backoff: %+v %v", match, ok)
	}
	if match.Counts["sat"] != 2 || match.Counts[tokenizer.End] != 2 {
		t.Fatalf("unexpected unigram counts %v", match.Counts)
	}
}

func TestResolveWithoutSmoothing(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, Config{ContextSize: 2, SamplingFraction: 1})
	if err := m.Train([][]string{marked("the cat sat")}); err != nil {
		t.Fatalf("train: %v", err)
	}
	if _, ok := m.Resolve([]string{"the", "cat"}); !ok {
		t.Fatal("exact context should resolve")
	}
	if _, ok := m.Resolve([]string{"my", "cat"}); ok {
		t.Fatal("resolved an unseen context with smoothing disabled")
	}
	if _, ok := m.Resolve([]string{"cat"}); ok {
		t.Fatal("resolved a short context with smoothing disabled")
	}
}

func TestCut(t *testing.T) {
	t.Parallel()

	tokens := []string{"a", "b", "c"}
	if got := cut(tokens, 2); !slices.Equal(got, []string{"b", "c"}) {
		t.Fatalf("cut 2: %q", got)
	}
	if got := cut(tokens, 5); !slices.Equal(got, tokens) {
		t.Fatalf("cut 5: %q", got)
	}
}

func TestPredictUntrainedReturnsEnd(t *testing.T) {
	t.Parallel()

	for _, smoothing := range []bool{false, true} {
		m := newTestModel(t, Config{ContextSize: 2, Smoothing: smoothing, SamplingFraction: 1})
		for _, tokens := range [][]string{nil, {"a"}, {"a", "b", "c"}} {
			if got := m.Predict(tokens); got != tokenizer.End {
				t.Fatalf("smoothing=%v tokens=%q: got %q", smoothing, tokens, got)
			}
		}
	}
}

func TestPredictBigram(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, Config{ContextSize: 1, SamplingFraction: 1}, WithSeed(7))
	if err := m.Train([][]string{{tokenizer.Start, "the", "cat", "sat", tokenizer.End}}); err != nil {
		t.Fatalf("train: %v", err)
	}
	for range 20 {
		if got := m.Predict([]string{"the"}); got != "cat" {
			t.Fatalf("predict(the): got %q want cat", got)
		}
	}
}

func TestPredictSmoothingDisabledUnseen(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, Config{ContextSize: 2, SamplingFraction: 1})
	if err := m.Train([][]string{marked("the cat sat")}); err != nil {
		t.Fatalf("train: %v", err)
	}
	if got := m.Predict([]string{"my", "cat"}); got != tokenizer.End {
		t.Fatalf("got %q want %q", got, tokenizer.End)
	}
}

func TestPredictSmoothingUsesShorterContext(t *testing.T) {
	t.Parallel()

	chooser := &recordingChooser{pick: func(n int) int { return n - 1 }}
	m := newTestModel(t, Config{ContextSize: 2, Smoothing: true, SamplingFraction: 1}, WithChooser(chooser))
	if err := m.Train([][]string{
		marked("the cat sat"),
		marked("a cat ran"),
		marked("a cat ran"),
	}); err != nil {
		t.Fatalf("train: %v", err)
	}

	// "my cat" is unseen; "cat" continues with ran (2) or sat (1).
	seen := map[string]bool{}
	for _, pick := range []func(int) int{
		func(int) int { return 0 },
		func(n int) int { return n - 1 },
	} {
		chooser.pick = pick
		seen[m.Predict([]string{"my", "cat"})] = true
	}
	if !seen["ran"] || !seen["sat"] || len(seen) != 2 {
		t.Fatalf("expected draws from the [cat] distribution, got %v", seen)
	}
	if chooser.sizes[0] != 2 {
		t.Fatalf("expected 2 eligible candidates, got %v", chooser.sizes)
	}
}

func TestPredictRankingAndFraction(t *testing.T) {
	t.Parallel()

	corpus := [][]string{
		{"x", "a"}, {"x", "a"}, {"x", "a"},
		{"x", "b"}, {"x", "b"},
		{"x", "c"}, {"x", "d"},
	}

	tests := []struct {
		fraction float64
		k        int
	}{
		{1, 4},
		{0.5, 2},
		{0.6, 2},
		{0.25, 1},
		{0.01, 1},
	}
	for _, tc := range tests {
		chooser := &recordingChooser{}
		m := newTestModel(t, Config{ContextSize: 1, SamplingFraction: tc.fraction}, WithChooser(chooser))
		if err := m.Train(corpus); err != nil {
			t.Fatalf("train: %v", err)
		}
		got := m.Predict([]string{"x"})
		if chooser.sizes[0] != tc.k {
			t.Fatalf("fraction %v: eligible %d want %d", tc.fraction, chooser.sizes[0], tc.k)
		}
		ranked := m.Rank([]string{"x"})
		if got != ranked[tc.k-1].Token {
			t.Fatalf("fraction %v: predicted %q, want rank %d (%q)", tc.fraction, got, tc.k-1, ranked[tc.k-1].Token)
		}
	}
}

func TestRankTieBreak(t *testing.T) {
	t.Parallel()

	got := rank(Counts{"pear": 1, "apple": 1, "fig": 3, "date": 1})
	want := []Candidate{{"fig", 3}, {"apple", 1}, {"date", 1}, {"pear", 1}}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestPredictClampsBadChooser(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, Config{ContextSize: 1, SamplingFraction: 1}, WithChooser(ChooserFunc(func(n int) int { return n + 10 })))
	if err := m.Train([][]string{{"x", "a"}, {"x", "a"}, {"x", "b"}}); err != nil {
		t.Fatalf("train: %v", err)
	}
	if got := m.Predict([]string{"x"}); got != "a" {
		t.Fatalf("got %q want the top candidate", got)
	}
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, Config{ContextSize: 1, SamplingFraction: 1}, WithChooser(firstChooser))
	if err := m.Train([][]string{marked("the cat sat")}); err != nil {
		t.Fatalf("train: %v", err)
	}

	got := m.Generate([]string{tokenizer.Start}, 10)
	want := []string{tokenizer.Start, "the", "cat", "sat", tokenizer.End}
	if !slices.Equal(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}

	short := m.Generate([]string{tokenizer.Start}, 2)
	if !slices.Equal(short, want[:3]) {
		t.Fatalf("max steps not honoured: %q", short)
	}

	if same := m.Generate([]string{"the"}, 0); !slices.Equal(same, []string{"the"}) {
		t.Fatalf("zero steps changed the sequence: %q", same)
	}
}

func TestGenerateStopsAtEndOnUntrainedModel(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, DefaultConfig())
	got := m.Generate([]string{tokenizer.Start, "hello"}, 50)
	if len(got) != 3 || got[2] != tokenizer.End {
		t.Fatalf("got %q", got)
	}
}

func TestGenerateBoundWithCycle(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, Config{ContextSize: 1, SamplingFraction: 1}, WithSeed(1))
	if err := m.Train([][]string{{"a", "b", "a", "b", "a"}}); err != nil {
		t.Fatalf("train: %v", err)
	}
	got := m.Generate([]string{"a"}, 7)
	if len(got) != 8 {
		t.Fatalf("expected exactly 7 new tokens, got %q", got)
	}
	for _, tok := range got {
		if tok == tokenizer.End {
			t.Fatalf("unexpected end sentinel in %q", got)
		}
	}
}
