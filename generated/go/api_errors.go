package paymentsserver

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	paymentsapp "github.com/Apurer/go-gin-payments-api/internal/domains/payments/application"
	paymentsports "github.com/Apurer/go-gin-payments-api/internal/domains/payments/ports"
	apierrors "github.com/Apurer/go-gin-payments-api/internal/shared/errors"
)

// MsgMissingPaymentType is returned when a PATCH body does not name a payment type.
const MsgMissingPaymentType = "Missing 'paymentType'."

var responder = apierrors.NewResponder(apierrors.WithMapper(mapApplicationError))

// mapApplicationError turns the typed service errors into problem responses.
func mapApplicationError(err error) (apierrors.ProblemDetail, bool) {
	var validation *paymentsapp.ValidationError
	if errors.As(err, &validation) {
		return apierrors.NewValidationProblem(validation.Message), true
	}
	var notFound *paymentsapp.NotFoundError
	if errors.As(err, &notFound) {
		return apierrors.NewNotFoundProblem(notFound.Message), true
	}
	var conflict *paymentsports.IdempotencyConflictError
	if errors.As(err, &conflict) {
		return apierrors.NewIdempotencyConflictProblem(conflict.Key), true
	}
	if errors.Is(err, paymentsports.ErrIdempotencyConflict) {
		return apierrors.NewIdempotencyConflictProblem(""), true
	}
	return apierrors.ProblemDetail{}, false
}

func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	responder.Respond(c, problem)
}

func respondServiceError(c *gin.Context, err error) {
	responder.RespondError(c, err)
}

func respondBadRequest(c *gin.Context, err error) {
	responder.BadRequest(c, err.Error())
}

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		respondBadRequest(c, err)
		return 0, false
	}
	return id, true
}

func parseIntParam(c *gin.Context, name string) (int, bool) {
	value, err := strconv.Atoi(c.Param(name))
	if err != nil {
		respondBadRequest(c, err)
		return 0, false
	}
	return value, true
}
