package eligibility

import (
	"math"
)

// Default scoring configuration constants.
const (
	defaultMaxLoanAmount = 50_000
	amountStep           = 1_000
	percentScale         = 100
)

// Partial credit by distance between the chosen and the correct option.
const (
	adjacentCredit = 0.5
	twoAwayCredit  = 0.25
)

// RiskTier is a coarse eligibility bucket derived from the score.
type RiskTier string

// Risk tiers, best first.
const (
	RiskLow      RiskTier = "Low"
	RiskModerate RiskTier = "Moderate"
	RiskHigh     RiskTier = "High"
	RiskVeryHigh RiskTier = "VeryHigh"
)

// band maps a minimum score to a tier and its indicative rate.
type band struct {
	minScore    float64
	tier        RiskTier
	rate        float64
	description string
}

// bands is ordered by descending minScore; the last band catches everything.
var bands = []band{ //nolint:gochecknoglobals // fixed lookup table
	{85, RiskLow, 5.75, "Excellent profile with strong eligibility for competitive rates."},
	{65, RiskModerate, 8.25, "Good profile with reasonable eligibility for standard loan products."},
	{40, RiskHigh, 12.5, "Several factors affecting eligibility. Consider improving your financial profile."},
	{math.Inf(-1), RiskVeryHigh, 18.75, "Significant challenges for loan approval. Focus on improving credit and financial situation."},
}

// Result is the outcome of scoring one AnswerSet. It is derived data and can
// be recomputed at any time from the quiz and the answers.
type Result struct {
	Score           float64   `json:"score"`
	MaxScore        float64   `json:"max_score"`
	EligibleAmount  int       `json:"eligible_amount"`
	RiskTier        RiskTier  `json:"risk_tier"`
	RiskDescription string    `json:"risk_description"`
	SuggestedRate   float64   `json:"suggested_rate"`
	Breakdown       []float64 `json:"breakdown"`
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithMaxLoanAmount sets the eligible amount at a score of 100.
func WithMaxLoanAmount(amount int) Option {
	return func(s *Scorer) {
		if amount > 0 {
			s.maxLoanAmount = amount
		}
	}
}

// Scorer computes eligibility. It holds configuration only and is safe for
// concurrent use.
type Scorer struct {
	maxLoanAmount int
}

// NewScorer creates a scorer with configuration options.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{maxLoanAmount: defaultMaxLoanAmount}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxLoanAmount returns the configured ceiling.
func (s *Scorer) MaxLoanAmount() int { return s.maxLoanAmount }

// Score rates answers against quiz. Unanswered questions and options that are
// not part of the question contribute nothing; Score never fails.
func (s *Scorer) Score(quiz Quiz, answers AnswerSet) Result {
	breakdown := make([]float64, len(quiz.questions))
	var score float64
	for i, q := range quiz.questions {
		breakdown[i] = credit(q, answers[i])
		score += breakdown[i]
	}
	score = math.Max(0, math.Min(quiz.totalWeight, score))

	b := bandFor(score)
	return Result{
		Score:           score,
		MaxScore:        quiz.totalWeight,
		EligibleAmount:  s.eligibleAmount(score),
		RiskTier:        b.tier,
		RiskDescription: b.description,
		SuggestedRate:   b.rate,
		Breakdown:       breakdown,
	}
}

// credit returns the points one answer earns.
func credit(q Question, answer string) float64 {
	if answer == "" {
		return 0
	}
	if answer == q.CorrectAnswer {
		return q.Weight
	}
	chosen := q.optionIndex(answer)
	if chosen < 0 {
		return 0
	}
	switch absInt(chosen - q.optionIndex(q.CorrectAnswer)) {
	case 1:
		return q.Weight * adjacentCredit
	case 2:
		return q.Weight * twoAwayCredit
	default:
		return 0
	}
}

// eligibleAmount rounds maxLoanAmount*score/100 to the nearest thousand and
// keeps it within [0, maxLoanAmount].
func (s *Scorer) eligibleAmount(score float64) int {
	ceiling := (s.maxLoanAmount / amountStep) * amountStep
	amount := int(math.Round(float64(s.maxLoanAmount)*score/percentScale/amountStep)) * amountStep
	switch {
	case amount < 0:
		return 0
	case amount > ceiling:
		return ceiling
	default:
		return amount
	}
}

// TierFor returns the risk tier for a score.
func TierFor(score float64) RiskTier { return bandFor(score).tier }

// RateFor returns the suggested interest rate, in percent, for a score.
func RateFor(score float64) float64 { return bandFor(score).rate }

func bandFor(score float64) band {
	for _, b := range bands {
		if score >= b.minScore {
			return b
		}
	}
	return bands[len(bands)-1]
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
