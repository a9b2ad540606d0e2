package errors

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// RequestIDKey is the gin context key under which the request id middleware stores its value.
const RequestIDKey = "requestId"

// internalDetail replaces the message of unmapped errors so storage and driver text never reaches clients.
const internalDetail = "An unexpected error occurred."

// ErrorMapper maps application errors to a ProblemDetail. It reports false for errors it does not know.
type ErrorMapper func(err error) (ProblemDetail, bool)

// Option configures a Responder.
type Option func(*Responder)

// WithBaseURI makes relative problem types absolute.
func WithBaseURI(uri string) Option {
	return func(r *Responder) { r.baseURI = uri }
}

// WithLogger sets the logger used for unmapped errors. Defaults to slog.Default at response time.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Responder) { r.logger = logger }
}

// WithMapper appends an error mapper. Mappers run in registration order.
func WithMapper(mapper ErrorMapper) Option {
	return func(r *Responder) {
		if mapper != nil {
			r.mappers = append(r.mappers, mapper)
		}
	}
}

// Responder writes Problem Details responses and aborts the gin chain.
type Responder struct {
	baseURI string
	logger  *slog.Logger
	mappers []ErrorMapper
}

// NewResponder builds a responder from opts.
func NewResponder(opts ...Option) *Responder {
	r := &Responder{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Respond sends problem with the problem+json content type.
// Instance defaults to the request path and the request id is attached when present.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.baseURI != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.baseURI + problem.Type
	}
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	if id := c.GetString(RequestIDKey); id != "" {
		problem = problem.WithExtension("requestId", id)
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.AbortWithStatusJSON(problem.Status, problem)
}

// RespondError maps err through the registered mappers. A ProblemDetail error is sent as is.
// Anything else is logged and answered with a generic 500.
func (r *Responder) RespondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			r.Respond(c, problem)
			return
		}
	}
	var problem ProblemDetail
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	r.log().ErrorContext(c.Request.Context(), "unhandled request error",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("requestId", c.GetString(RequestIDKey)),
		slog.String("error", err.Error()),
	)
	r.Respond(c, ErrInternal.WithDetail(internalDetail))
}

// BadRequest sends a 400 problem response for malformed input.
func (r *Responder) BadRequest(c *gin.Context, detail string) {
	r.Respond(c, ErrBadRequest.WithDetail(detail))
}

func (r *Responder) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return slog.Default()
}
