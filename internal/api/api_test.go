package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "driveup-workers/internal/common/errors"
	"driveup-workers/internal/common/logger"
	"driveup-workers/internal/recommendation"
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

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ==========================
// Test doubles
// ==========================

type fakePreferences struct{ err error }

func (f fakePreferences) Execute(_ context.Context, in *parsecarpreferences.Input) (*parsecarpreferences.Output, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := in.RawPreferences["bodyType"].(string)
	return &parsecarpreferences.Output{Preferences: recommendation.UserPreferences{BodyType: body}}, nil
}

type fakeRanker struct {
	got *rankcarrecommendations.Input
}

func (f *fakeRanker) Execute(_ context.Context, in *rankcarrecommendations.Input) (*rankcarrecommendations.Output, error) {
	f.got = in
	return &rankcarrecommendations.Output{
		Recommendations: []recommendation.ScoredCandidate{{CarVariant: recommendation.CarVariant{VariantID: "creta-sx"}, Score: 50}},
		CandidateCount:  4,
	}, nil
}

type fakeCatalogue struct {
	got *querycarcatalogue.Input
}

func (f *fakeCatalogue) Execute(_ context.Context, in *querycarcatalogue.Input) (*querycarcatalogue.Output, error) {
	f.got = in
	if querycarcatalogue.QueryType(in.QueryType).RequiresModelID() && in.ModelID == "" {
		return nil, apperrors.NewMissingModelIDError()
	}
	return &querycarcatalogue.Output{Data: []string{"creta"}, RowCount: 1}, nil
}

type fakeSearch struct {
	got *searchcarmodels.Input
}

func (f *fakeSearch) Execute(_ context.Context, in *searchcarmodels.Input) (*searchcarmodels.Output, error) {
	f.got = in
	return &searchcarmodels.Output{TotalHits: 0, Results: []searchcarmodels.SearchResult{}}, nil
}

type fakeQuota struct {
	allowed bool
	got     string
}

func (f *fakeQuota) Execute(_ context.Context, in *checkquestionquota.Input) (*checkquestionquota.Output, error) {
	f.got = in.SessionID
	if f.allowed {
		return &checkquestionquota.Output{Allowed: true, Used: 1, Remaining: 4, Limit: 5}, nil
	}
	return &checkquestionquota.Output{Allowed: false, Used: 6, Limit: 5}, nil
}

type fakeTranslator struct{ err error }

func (f fakeTranslator) Execute(_ context.Context, _ *translatecarquestion.Input) (*translatecarquestion.Output, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &translatecarquestion.Output{SQL: "SELECT model FROM car_drivebot"}, nil
}

type fakeData struct{ got string }

func (f *fakeData) Execute(_ context.Context, in *querydrivebotdata.Input) (*querydrivebotdata.Output, error) {
	f.got = in.SQL
	return &querydrivebotdata.Output{Rows: []map[string]interface{}{{"model": "Creta"}}, RowCount: 1}, nil
}

type fakeSummarizer struct{}

func (fakeSummarizer) Execute(_ context.Context, in *summarizecaranswer.Input) (*summarizecaranswer.Output, error) {
	return &summarizecaranswer.Output{Summary: "The Creta fits."}, nil
}

type fakeFuel struct {
	got *queryfuelprices.Input
}

func (f *fakeFuel) Execute(_ context.Context, in *queryfuelprices.Input) (*queryfuelprices.Output, error) {
	f.got = in
	return &queryfuelprices.Output{City: in.City, FuelType: in.FuelType}, nil
}

type fakeChallenge struct{ valid bool }

func (f fakeChallenge) Execute(_ context.Context, in *verifyauthchallenge.Input) (*verifyauthchallenge.Output, error) {
	if !f.valid || in.Token == "" {
		return &verifyauthchallenge.Output{Valid: false, Reason: "INVALID_TOKEN"}, nil
	}
	return &verifyauthchallenge.Output{Valid: true, Reason: "OK"}, nil
}

type fakeBooker struct {
	got *bookconsultation.Input
}

func (f *fakeBooker) Execute(_ context.Context, in *bookconsultation.Input) (*bookconsultation.Output, error) {
	f.got = in
	return &bookconsultation.Output{ConsultationID: "c-1", Status: bookconsultation.StatusBooked}, nil
}

type fixture struct {
	router    *gin.Engine
	ranker    *fakeRanker
	catalogue *fakeCatalogue
	search    *fakeSearch
	quota     *fakeQuota
	data      *fakeData
	fuel      *fakeFuel
	booker    *fakeBooker
}

func newFixture(t *testing.T, mutate func(*Services)) *fixture {
	f := &fixture{
		ranker:    &fakeRanker{},
		catalogue: &fakeCatalogue{},
		search:    &fakeSearch{},
		quota:     &fakeQuota{allowed: true},
		data:      &fakeData{},
		fuel:      &fakeFuel{},
		booker:    &fakeBooker{},
	}
	services := Services{
		Preferences:   fakePreferences{},
		Ranker:        f.ranker,
		Catalogue:     f.catalogue,
		Search:        f.search,
		Quota:         f.quota,
		Translator:    fakeTranslator{},
		Data:          f.data,
		Summarizer:    fakeSummarizer{},
		FuelPrices:    f.fuel,
		Challenge:     fakeChallenge{valid: true},
		Consultations: f.booker,
	}
	if mutate != nil {
		mutate(&services)
	}

	f.router = NewServer(Options{
		Services: services,
		Checks: map[string]ReadinessCheck{
			"postgres": func(context.Context) error { return nil },
		},
		Logger: logger.NewTestLogger(t),
	}).Router()
	return f
}

func (f *fixture) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Error
}

// ==========================
// Tests
// ==========================

func TestRecommendations(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(http.MethodPost, "/api/cars/recommendations", map[string]interface{}{
		"bodyType":  "SUV",
		"sessionId": "s-9",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Recommendations []recommendation.ScoredCandidate `json:"recommendations"`
		CandidateCount  int                              `json:"candidateCount"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "creta-sx", body.Recommendations[0].VariantID)
	assert.Equal(t, 4, body.CandidateCount)
	assert.Equal(t, "SUV", f.ranker.got.Preferences.BodyType)
	assert.Equal(t, "s-9", f.ranker.got.SessionID)
}

func TestRecommendations_BadBody(t *testing.T) {
	f := newFixture(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/cars/recommendations", bytes.NewBufferString("[1,2]"))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decodeError(t, rec).Code)
}

func TestRecommendations_InvalidPreferences(t *testing.T) {
	f := newFixture(t, func(s *Services) {
		s.Preferences = fakePreferences{err: parsecarpreferences.ErrInvalidPreferences}
	})

	rec := f.do(http.MethodPost, "/api/cars/recommendations", map[string]interface{}{"budget": 7})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, f.ranker.got)
}

func TestCatalogueRoutes(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(http.MethodGet, "/api/cars/models", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "car_models", f.catalogue.got.QueryType)

	rec = f.do(http.MethodGet, "/api/cars/variants?model_id=creta", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "model_variants", f.catalogue.got.QueryType)
	assert.Equal(t, "creta", f.catalogue.got.ModelID)

	rec = f.do(http.MethodGet, "/api/cars/variant-details", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MISSING_MODEL_ID", decodeError(t, rec).Code)
}

func TestSearch(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(http.MethodGet, "/api/cars/search?q=creta&bodyType=SUV&fuel=Petrol&maxPrice=2000000&size=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "creta", f.search.got.Query)
	assert.Equal(t, "SUV", f.search.got.BodyType)
	assert.Nil(t, f.search.got.MinPrice)
	require.NotNil(t, f.search.got.MaxPrice)
	assert.Equal(t, 2000000.0, *f.search.got.MaxPrice)
	assert.Equal(t, 5, f.search.got.Size)

	rec = f.do(http.MethodGet, "/api/cars/search?minPrice=cheap", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDriveBotQuery(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(http.MethodPost, "/api/cars/drivebot-query", map[string]interface{}{
		"userQuery": "Which SUV has the best mileage?",
		"sessionId": "s-1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "The Creta fits.", body["summary"])
	assert.EqualValues(t, 4, body["remainingQuestions"])
	assert.Equal(t, "s-1", f.quota.got)
	assert.Equal(t, "SELECT model FROM car_drivebot", f.data.got)
}

func TestDriveBotQuery_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Services)
		body   map[string]interface{}
		status int
		code   string
	}{
		{
			name:   "missing question",
			body:   map[string]interface{}{"userQuery": "  "},
			status: http.StatusBadRequest,
			code:   "INVALID_INPUT",
		},
		{
			name:   "quota exhausted",
			mutate: func(s *Services) { s.Quota = &fakeQuota{allowed: false} },
			body:   map[string]interface{}{"userQuery": "mileage?"},
			status: http.StatusTooManyRequests,
			code:   "QUESTION_QUOTA_EXCEEDED",
		},
		{
			name:   "unsafe sql",
			mutate: func(s *Services) { s.Translator = fakeTranslator{err: apperrors.NewUnsafeSQLError("DROP")} },
			body:   map[string]interface{}{"userQuery": "drop everything"},
			status: http.StatusUnprocessableEntity,
			code:   "UNSAFE_SQL",
		},
		{
			name:   "genai down",
			mutate: func(s *Services) { s.Translator = fakeTranslator{err: apperrors.NewSQLGenerationFailedError(errors.New("502"))} },
			body:   map[string]interface{}{"userQuery": "mileage?"},
			status: http.StatusInternalServerError,
			code:   "SQL_GENERATION_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.mutate)
			rec := f.do(http.MethodPost, "/api/cars/drivebot-query", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			apiErr := decodeError(t, rec)
			assert.Equal(t, tt.code, apiErr.Code)
			if tt.status >= 500 {
				assert.Empty(t, apiErr.Details)
			}
		})
	}
}

func TestFuelPrices(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(http.MethodGet, "/api/fuel-prices/pune?days=30", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pune", f.fuel.got.City)
	assert.Equal(t, "petrol", f.fuel.got.FuelType)
	assert.Equal(t, 30, f.fuel.got.Days)

	rec = f.do(http.MethodGet, "/api/fuel-prices/pune?days=week", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConsultations(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(http.MethodPost, "/api/consultations", map[string]interface{}{
		"token":   "tok",
		"name":    "Asha",
		"email":   "asha@example.com",
		"mode":    "email",
		"concern": "Creta or Seltos?",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Asha", f.booker.got.Name)
	assert.Equal(t, "email", f.booker.got.Mode)
}

func TestConsultations_ChallengeRejected(t *testing.T) {
	f := newFixture(t, func(s *Services) { s.Challenge = fakeChallenge{valid: false} })

	rec := f.do(http.MethodPost, "/api/consultations", map[string]interface{}{"token": "bot"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	apiErr := decodeError(t, rec)
	assert.Equal(t, "CHALLENGE_REJECTED", apiErr.Code)
	assert.Equal(t, "INVALID_TOKEN", apiErr.Details)
	assert.Nil(t, f.booker.got)
}

func TestHealthReadyMetrics(t *testing.T) {
	f := newFixture(t, nil)

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/ready", nil).Code)

	rec := f.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestReady_FailingCheck(t *testing.T) {
	router := NewServer(Options{
		Checks: map[string]ReadinessCheck{
			"redis": func(context.Context) error { return errors.New("dial tcp: refused") },
		},
	}).Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "refused")
}
