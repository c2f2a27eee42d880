package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/sweeplab/leaderboard/internal/app"
	"github.com/sweeplab/leaderboard/internal/metrics"
	"github.com/sweeplab/leaderboard/internal/models"
)

type ScoreHandler struct {
	service  *app.Service
	validate *validator.Validate
}

func NewScoreHandler(service *app.Service) *ScoreHandler {
	validate := validator.New()
	// report json field names in validation errors, not Go ones
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &ScoreHandler{
		service:  service,
		validate: validate,
	}
}

// submitPayload is the exact field set /submit accepts. The decoder
// rejects unknown fields; pointer fields distinguish a missing value
// from a legitimate zero.
type submitPayload struct {
	Name           *string `json:"name" validate:"required,max=255"`
	Difficulty     *string `json:"difficulty" validate:"required,oneof=Beginner Intermediate Expert"`
	Seconds        *int64  `json:"seconds" validate:"required,gte=0"`
	UnixTime       *int64  `json:"unix_time" validate:"required,gte=0"`
	UUID           *string `json:"uuid_str" validate:"required,uuid"`
	RecaptchaToken *string `json:"recaptchaToken"`
	TestOnly       *bool   `json:"testOnlyDoNotSave"`
}

func (h *ScoreHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusOK
	defer func() {
		duration := time.Since(start).Seconds()
		metrics.APIRequestDuration.WithLabelValues(
			r.URL.Path,
			r.Method,
			strconv.Itoa(status),
		).Observe(duration)
	}()

	if r.Method != http.MethodPost {
		status = http.StatusMethodNotAllowed
		writeError(w, status, "The method is not allowed for the requested URL.")
		return
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var payload submitPayload
	if err := dec.Decode(&payload); err != nil {
		status = http.StatusBadRequest
		writeError(w, status, fmt.Sprintf("Bad arguments: %v", err))
		return
	}

	testOnly := payload.TestOnly != nil && *payload.TestOnly

	// abuse gate; integration tests and test-mode deployments skip it
	if !h.service.Config.Server.TestMode && !testOnly {
		if !h.service.Limiter.Allow(r.Context(), remoteIP(r)) {
			metrics.GateRejectionsTotal.WithLabelValues("rate_limit").Inc()
			status = http.StatusTooManyRequests
			writeError(w, status, "Too many submissions from this address. Slow down and try again.")
			return
		}

		if h.service.Config.Captcha.Enabled {
			if payload.RecaptchaToken == nil {
				status = http.StatusBadRequest
				writeError(w, status, "Required recaptchaToken was not sent")
				return
			}

			if rejection := h.service.Verifier.Verify(r.Context(), *payload.RecaptchaToken, remoteIP(r)); rejection != "" {
				metrics.GateRejectionsTotal.WithLabelValues("captcha").Inc()
				writeJSON(w, http.StatusOK, app.SubmitResult{OK: 0, Description: rejection})
				return
			}
		}
	}

	if err := h.validate.Struct(payload); err != nil {
		status = http.StatusBadRequest
		writeError(w, status, fmt.Sprintf("Bad arguments: %s", describeValidationError(err)))
		return
	}

	score := &models.Score{
		Name:       *payload.Name,
		Difficulty: *payload.Difficulty,
		Seconds:    *payload.Seconds,
		UnixTime:   *payload.UnixTime,
		UUID:       *payload.UUID,
	}

	result, err := h.service.SubmitScore(score, testOnly)
	if err != nil {
		logger.Error.Printf("Failed to submit score %s: %v", score.UUID, err)
		status = http.StatusInternalServerError
		writeError(w, status, "Internal Server Error")
		return
	}

	outcome := "saved"
	switch {
	case testOnly:
		outcome = "test_only"
	case result.OK == 0:
		outcome = "duplicate"
	}
	metrics.SubmissionsTotal.WithLabelValues(score.Difficulty, outcome).Inc()

	writeJSON(w, http.StatusOK, result)
}

func (h *ScoreHandler) HandleTopScores(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusOK
	defer func() {
		duration := time.Since(start).Seconds()
		metrics.APIRequestDuration.WithLabelValues(
			r.URL.Path,
			r.Method,
			strconv.Itoa(status),
		).Observe(duration)
	}()

	if r.Method != http.MethodGet {
		status = http.StatusMethodNotAllowed
		writeError(w, status, "The method is not allowed for the requested URL.")
		return
	}

	top, err := h.service.TopScores()
	if err != nil {
		logger.Error.Printf("Failed to fetch top scores: %v", err)
		status = http.StatusInternalServerError
		writeError(w, status, "Internal Server Error")
		return
	}

	response := map[string]interface{}{"ok": 1}
	for difficulty, scores := range top {
		response[difficulty] = scores
	}

	writeJSON(w, http.StatusOK, response)
}

// HandleNotFound normalizes every unrouted path to the JSON error envelope.
func (h *ScoreHandler) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(
		w,
		http.StatusNotFound,
		"The requested URL was not found on the server. If you entered the URL manually please check your spelling and try again.",
	)
}

func describeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("missing required field '%s'", fe.Field()))
		case "oneof":
			parts = append(parts, fmt.Sprintf("field '%s' must be one of: %s", fe.Field(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("field '%s' failed '%s' check", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

func remoteIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
