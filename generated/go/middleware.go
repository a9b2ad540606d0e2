package paymentsserver

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apierrors "github.com/Apurer/go-gin-payments-api/internal/shared/errors"
)

// HeaderRequestID carries the correlation id of a request.
const HeaderRequestID = "X-Request-ID"

// RequestID propagates the caller's X-Request-ID or generates one, echoing it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(apierrors.RequestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}
