package scoring

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inBounds(t *testing.T, s Scores) {
	t.Helper()
	for k, v := range s.Map() {
		assert.GreaterOrEqualf(t, v, Min, "%s below range", k)
		assert.LessOrEqualf(t, v, Max, "%s above range", k)
	}
}

func TestInitial(t *testing.T) {
	for _, v := range Initial().Map() {
		assert.Equal(t, Baseline, v)
	}
}

func TestApplyClamps(t *testing.T) {
	s := Initial().Apply(Delta{Financial: 80, Ethical: -90})
	assert.Equal(t, 100, s.Financial)
	assert.Equal(t, 0, s.Ethical)
	assert.Equal(t, 50, s.Reputational)

	// clamping happens per step, not once at the end
	s = Initial().Apply(Delta{Financial: 80}).Apply(Delta{Financial: -30})
	assert.Equal(t, 70, s.Financial)
}

func TestClampRandomDeltas(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	deltas := make([]Delta, 1000)
	for i := range deltas {
		deltas[i] = Delta{
			Financial:             rng.Intn(201) - 100,
			Reputational:          rng.Intn(201) - 100,
			Ethical:               rng.Intn(201) - 100,
			StakeholderConfidence: rng.Intn(201) - 100,
			LongTermStability:     rng.Intn(201) - 100,
		}
	}

	for _, snap := range Replay(deltas) {
		inBounds(t, snap)
		total := Total(snap)
		assert.GreaterOrEqual(t, total, Min)
		assert.LessOrEqual(t, total, Max)
	}
	inBounds(t, Final(deltas))
}

func TestReplayDeterministic(t *testing.T) {
	deltas := []Delta{
		{Financial: 10, Ethical: -5},
		{Reputational: 30, LongTermStability: -60},
		{StakeholderConfidence: 55, Ethical: 70},
	}

	first := Replay(deltas)
	second := Replay(deltas)
	require.Len(t, first, 3)
	assert.Equal(t, first, second)
	assert.Equal(t, first[2], Final(deltas))
	assert.Equal(t, Scores{60, 80, 100, 100, 0}, first[2])
}

func TestWeightsSumToOne(t *testing.T) {
	sum := 0
	for _, w := range Weights {
		sum += w
	}
	assert.Equal(t, 100, sum)
	assert.Len(t, Weights, len(Dimensions))
}

func TestTotalUsesWeights(t *testing.T) {
	// a single dimension at Max contributes exactly its weight
	for i, dim := range Dimensions {
		m := map[string]int{}
		for _, d := range Dimensions {
			m[d] = 0
		}
		m[dim] = Max
		s := Scores{
			Financial:             m[Financial],
			Reputational:          m[Reputational],
			Ethical:               m[Ethical],
			StakeholderConfidence: m[StakeholderConfidence],
			LongTermStability:     m[LongTermStability],
		}
		assert.Equalf(t, Weights[i], Total(s), "dimension %s", dim)
	}
}

func TestTotal(t *testing.T) {
	tests := []struct {
		name   string
		scores Scores
		want   int
	}{
		{"baseline", Initial(), 50},
		{"all max", Scores{100, 100, 100, 100, 100}, 100},
		{"all min", Scores{}, 0},
		{"ethical 70", Scores{50, 50, 70, 50, 50}, 55},
		{"half rounds up", Scores{50, 50, 52, 50, 50}, 51},
		{"below half rounds down", Scores{51, 50, 50, 50, 50}, 50},
		{"long term only", Scores{0, 0, 0, 0, 100}, 15},
		{"ethical only", Scores{0, 0, 10, 0, 0}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Total(tt.scores))
		})
	}
}

func TestGradeBreakpoints(t *testing.T) {
	tests := map[int]string{
		100: "A+", 90: "A+", 89: "A", 85: "A", 84: "A-", 80: "A-",
		79: "B+", 75: "B+", 74: "B", 70: "B", 69: "B-", 65: "B-",
		64: "C+", 60: "C+", 59: "C", 55: "C", 54: "C-", 50: "C-",
		49: "D", 0: "D",
	}
	for total, want := range tests {
		assert.Equalf(t, want, Grade(total), "total=%d", total)
	}
}

func TestGradeMonotonic(t *testing.T) {
	rank := map[string]int{"D": 0, "C-": 1, "C": 2, "C+": 3, "B-": 4, "B": 5, "B+": 6, "A-": 7, "A": 8, "A+": 9}
	prev := -1
	for total := 0; total <= 100; total++ {
		r, ok := rank[Grade(total)]
		require.True(t, ok)
		assert.GreaterOrEqual(t, r, prev, "grade dropped at total=%d", total)
		prev = r
	}
}

func TestTwoEthicalDecisions(t *testing.T) {
	final := Finalize(Final([]Delta{{Ethical: 10}, {Ethical: 10}}))
	assert.Equal(t, 70, final.Ethical)
	assert.Equal(t, 50, final.Financial)
	assert.Equal(t, 55, final.Total)
	assert.Equal(t, "C", final.Grade)

	m := final.Map()
	assert.Equal(t, 55, m["total"])
	assert.Equal(t, "C", m["grade"])
	assert.Equal(t, 70, m[Ethical])
}

func TestParseDelta(t *testing.T) {
	d, err := ParseDelta(map[string]int{Ethical: 5, Financial: -3})
	require.NoError(t, err)
	assert.Equal(t, Delta{Financial: -3, Ethical: 5}, d)

	_, err = ParseDelta(map[string]int{"morale": 4, "charisma": 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "charisma, morale")
}

func TestIsGrade(t *testing.T) {
	for total := 0; total <= 100; total++ {
		assert.True(t, IsGrade(Grade(total)))
	}
	assert.False(t, IsGrade("E"))
	assert.False(t, IsGrade(""))
}
