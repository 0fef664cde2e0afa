package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	apperrors "driveup-workers/internal/common/errors"
	"driveup-workers/internal/common/genai"
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
)

// POST /api/cars/recommendations
func (s *Server) recommend(c *gin.Context) {
	var raw map[string]interface{}
	if err := c.ShouldBindJSON(&raw); err != nil || raw == nil {
		RespondError(c, http.StatusBadRequest, string(apperrors.ErrCodeInvalidInput), errBadBody)
		return
	}
	sessionID, _ := raw["sessionId"].(string)
	delete(raw, "sessionId")

	ctx, cancel := s.requestContext(c)
	defer cancel()

	parsed, err := s.services.Preferences.Execute(ctx, &parsecarpreferences.Input{RawPreferences: raw})
	if err != nil {
		if errors.Is(err, parsecarpreferences.ErrInvalidPreferences) {
			RespondError(c, http.StatusBadRequest, string(apperrors.ErrCodeInvalidInput), err)
			return
		}
		RespondAppError(c, err)
		return
	}

	ranked, err := s.services.Ranker.Execute(ctx, &rankcarrecommendations.Input{
		Preferences: parsed.Preferences,
		SessionID:   sessionID,
	})
	if err != nil {
		RespondAppError(c, err)
		return
	}

	RespondOK(c, gin.H{
		"recommendations": ranked.Recommendations,
		"candidateCount":  ranked.CandidateCount,
		"droppedFields":   parsed.DroppedFields,
	})
}

// GET /api/cars/models
func (s *Server) listModels(c *gin.Context) {
	s.catalogue(c, querycarcatalogue.QueryTypeCarModels)
}

// GET /api/cars/variants?model_id=
func (s *Server) listVariants(c *gin.Context) {
	s.catalogue(c, querycarcatalogue.QueryTypeModelVariants)
}

// GET /api/cars/variant-details?model_id=
func (s *Server) variantDetails(c *gin.Context) {
	s.catalogue(c, querycarcatalogue.QueryTypeVariantDetails)
}

func (s *Server) catalogue(c *gin.Context, queryType querycarcatalogue.QueryType) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	out, err := s.services.Catalogue.Execute(ctx, &querycarcatalogue.Input{
		QueryType: string(queryType),
		ModelID:   strings.TrimSpace(c.Query("model_id")),
	})
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, out)
}

// GET /api/cars/search?q=&bodyType=&fuel=&minPrice=&maxPrice=&size=
func (s *Server) searchModels(c *gin.Context) {
	input := &searchcarmodels.Input{
		Query:    c.Query("q"),
		BodyType: c.Query("bodyType"),
		Fuel:     c.Query("fuel"),
	}

	var err error
	if input.MinPrice, err = floatParam(c, "minPrice"); err != nil {
		RespondError(c, http.StatusBadRequest, string(apperrors.ErrCodeInvalidInput), err)
		return
	}
	if input.MaxPrice, err = floatParam(c, "maxPrice"); err != nil {
		RespondError(c, http.StatusBadRequest, string(apperrors.ErrCodeInvalidInput), err)
		return
	}
	if v := c.Query("size"); v != "" {
		if input.Size, err = strconv.Atoi(v); err != nil {
			RespondError(c, http.StatusBadRequest, string(apperrors.ErrCodeInvalidInput), errors.New("size must be an integer"))
			return
		}
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	out, err := s.services.Search.Execute(ctx, input)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, out)
}

func floatParam(c *gin.Context, name string) (*float64, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, errors.New(name + " must be a number")
	}
	return &f, nil
}

type driveBotRequest struct {
	UserQuery string          `json:"userQuery"`
	History   []genai.Message `json:"history"`
	SessionID string          `json:"sessionId"`
}

// POST /api/cars/drivebot-query
func (s *Server) driveBotQuery(c *gin.Context) {
	var req driveBotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, string(apperrors.ErrCodeInvalidInput), errBadBody)
		return
	}
	if strings.TrimSpace(req.UserQuery) == "" {
		RespondError(c, http.StatusBadRequest, string(apperrors.ErrCodeInvalidInput), errors.New("userQuery is required"))
		return
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = c.ClientIP()
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	quota, err := s.services.Quota.Execute(ctx, &checkquestionquota.Input{SessionID: sessionID})
	if err != nil {
		RespondAppError(c, err)
		return
	}
	if !quota.Allowed {
		RespondAppError(c, apperrors.NewQuestionQuotaExceededError(quota.Limit))
		return
	}

	translated, err := s.services.Translator.Execute(ctx, &translatecarquestion.Input{
		UserQuery: req.UserQuery,
		History:   req.History,
		SessionID: sessionID,
	})
	if err != nil {
		RespondAppError(c, err)
		return
	}

	data, err := s.services.Data.Execute(ctx, &querydrivebotdata.Input{SQL: translated.SQL})
	if err != nil {
		RespondAppError(c, err)
		return
	}

	summary, err := s.services.Summarizer.Execute(ctx, &summarizecaranswer.Input{
		Rows:      data.Rows,
		SessionID: sessionID,
	})
	if err != nil {
		RespondAppError(c, err)
		return
	}

	RespondOK(c, gin.H{
		"summary":            summary.Summary,
		"remainingQuestions": quota.Remaining,
	})
}

// GET /api/fuel-prices/:city?fuelType=&days=
func (s *Server) fuelPrices(c *gin.Context) {
	input := &queryfuelprices.Input{
		City:     c.Param("city"),
		FuelType: c.DefaultQuery("fuelType", "petrol"),
	}
	if v := c.Query("days"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			RespondError(c, http.StatusBadRequest, string(apperrors.ErrCodeInvalidInput), errors.New("days must be an integer"))
			return
		}
		input.Days = days
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	out, err := s.services.FuelPrices.Execute(ctx, input)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, out)
}

type consultationRequest struct {
	bookconsultation.Input
	Token string `json:"token"`
}

// POST /api/consultations
func (s *Server) bookConsultation(c *gin.Context) {
	var req consultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, string(apperrors.ErrCodeInvalidConsultation), errBadBody)
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	verdict, err := s.services.Challenge.Execute(ctx, &verifyauthchallenge.Input{
		Token:    req.Token,
		RemoteIP: c.ClientIP(),
		Action:   "consultation",
	})
	if err != nil {
		RespondAppError(c, err)
		return
	}
	if !verdict.Valid {
		RespondAppError(c, apperrors.NewChallengeRejectedError(verdict.Reason))
		return
	}

	out, err := s.services.Consultations.Execute(ctx, &req.Input)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}
