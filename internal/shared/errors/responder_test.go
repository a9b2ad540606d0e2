package errors

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSentinel = errors.New("sentinel")

func serve(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, ProblemDetail) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/things/:id", func(c *gin.Context) {
		c.Set(RequestIDKey, "req-1")
		handler(c)
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/things/1", nil))
	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return rec, problem
}

func TestResponder_UsesFirstMatchingMapper(t *testing.T) {
	responder := NewResponder(
		WithMapper(func(err error) (ProblemDetail, bool) {
			if errors.Is(err, errSentinel) {
				return NewValidationProblem("Invalid cashdesk"), true
			}
			return ProblemDetail{}, false
		}),
		WithMapper(func(error) (ProblemDetail, bool) {
			return NewNotFoundProblem("Payment not found"), true
		}),
	)

	rec, problem := serve(t, func(c *gin.Context) { responder.RespondError(c, errSentinel) })

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	assert.Equal(t, "Invalid cashdesk", problem.Detail)
	assert.Equal(t, "/api/things/1", problem.Instance)
	assert.Equal(t, "req-1", problem.Extensions["requestId"])
}

func TestResponder_HidesAndLogsUnmappedErrors(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	responder := NewResponder(WithBaseURI("https://payments.example"), WithLogger(logger))

	rec, problem := serve(t, func(c *gin.Context) { responder.RespondError(c, errors.New("pq: connection refused")) })

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "https://payments.example"+TypeInternal, problem.Type)
	assert.Equal(t, internalDetail, problem.Detail)
	assert.NotContains(t, rec.Body.String(), "connection refused")
	assert.Contains(t, logs.String(), "connection refused")
	assert.Contains(t, logs.String(), `"requestId":"req-1"`)
}

func TestResponder_PassesProblemErrorsThrough(t *testing.T) {
	responder := NewResponder()
	wrapped := fmt.Errorf("handler: %w", NewIdempotencyConflictProblem("abc"))

	rec, problem := serve(t, func(c *gin.Context) { responder.RespondError(c, wrapped) })

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, TypeIdempotencyConflict, problem.Type)
	assert.Equal(t, "abc", problem.Extensions["idempotencyKey"])
}

func TestWithExtension_DoesNotMutateTemplate(t *testing.T) {
	_ = NewIdempotencyConflictProblem("abc")
	assert.Nil(t, ErrIdempotencyConflict.Extensions)
}
