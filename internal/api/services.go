package api

import (
	"context"
	"time"

	"driveup-workers/internal/common/logger"
	verifyauthchallenge "driveup-workers/internal/workers/auth/verify-auth-challenge"
	querycarcatalogue "driveup-workers/internal/workers/catalogue/query-car-catalogue"
	searchcarmodels "driveup-workers/internal/workers/catalogue/search-car-models"
	bookconsultation "driveup-workers/internal/workers/consultation/book-consultation"
	checkquestionquota "driveup-workers/internal/workers/drivebot/check-question-quota"
	querydrivebotdata "driveup-workers/internal/workers/drivebot/query-drivebot-data"
	summarizecaranswer "driveup-workers/internal/workers/drivebot/summarize-car-answer"
	translatecarquestion "driveup-workers/internal/workers/drivebot/translate-car-question"
	queryfuelprices "driveup-workers/internal/workers/fuel/query-fuel-prices"
	parsecarpreferences "driveup-workers/internal/workers/recommendation/parse-car-preferences"
	rankcarrecommendations "driveup-workers/internal/workers/recommendation/rank-car-recommendations"
)

// The gateway drives the same handlers the Zeebe workers use, one interface
// per task.

type PreferenceParser interface {
	Execute(ctx context.Context, input *parsecarpreferences.Input) (*parsecarpreferences.Output, error)
}

type Ranker interface {
	Execute(ctx context.Context, input *rankcarrecommendations.Input) (*rankcarrecommendations.Output, error)
}

type CatalogueReader interface {
	Execute(ctx context.Context, input *querycarcatalogue.Input) (*querycarcatalogue.Output, error)
}

type ModelSearcher interface {
	Execute(ctx context.Context, input *searchcarmodels.Input) (*searchcarmodels.Output, error)
}

type QuotaChecker interface {
	Execute(ctx context.Context, input *checkquestionquota.Input) (*checkquestionquota.Output, error)
}

type QuestionTranslator interface {
	Execute(ctx context.Context, input *translatecarquestion.Input) (*translatecarquestion.Output, error)
}

type DataQuerier interface {
	Execute(ctx context.Context, input *querydrivebotdata.Input) (*querydrivebotdata.Output, error)
}

type AnswerSummarizer interface {
	Execute(ctx context.Context, input *summarizecaranswer.Input) (*summarizecaranswer.Output, error)
}

type FuelPriceReader interface {
	Execute(ctx context.Context, input *queryfuelprices.Input) (*queryfuelprices.Output, error)
}

type ChallengeVerifier interface {
	Execute(ctx context.Context, input *verifyauthchallenge.Input) (*verifyauthchallenge.Output, error)
}

type ConsultationBooker interface {
	Execute(ctx context.Context, input *bookconsultation.Input) (*bookconsultation.Output, error)
}

// ReadinessCheck reports whether one backing store is reachable.
type ReadinessCheck func(ctx context.Context) error

type Services struct {
	Preferences   PreferenceParser
	Ranker        Ranker
	Catalogue     CatalogueReader
	Search        ModelSearcher
	Quota         QuotaChecker
	Translator    QuestionTranslator
	Data          DataQuerier
	Summarizer    AnswerSummarizer
	FuelPrices    FuelPriceReader
	Challenge     ChallengeVerifier
	Consultations ConsultationBooker
}

type Options struct {
	Services       Services
	Checks         map[string]ReadinessCheck
	RequestTimeout time.Duration
	Logger         logger.Logger
}
