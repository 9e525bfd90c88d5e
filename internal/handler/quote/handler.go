package quote

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/solivagant/quote-api/internal/handler"
	"github.com/solivagant/quote-api/internal/middleware"
	"github.com/solivagant/quote-api/internal/model"
	"github.com/solivagant/quote-api/internal/service/pricing"
	apperrors "github.com/solivagant/quote-api/pkg/errors"
	"github.com/solivagant/quote-api/pkg/metrics"
	"github.com/solivagant/quote-api/pkg/validator"
)

type Handler struct {
	service pricing.PricingServicer
	metrics *metrics.Metrics
}

// NewHandler wires the quote endpoints to service. m may be nil.
func NewHandler(service pricing.PricingServicer, m *metrics.Metrics) (*Handler, error) {
	if err := validator.RegisterBindings(); err != nil {
		return nil, err
	}
	return &Handler{service: service, metrics: m}, nil
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/difprice", h.CreateQuote)
	for _, method := range []string{
		http.MethodGet,
		http.MethodHead,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
	} {
		r.Handle(method, "/difprice", handler.MethodNotAllowed)
	}

	r.GET("/prices", middleware.Cache(middleware.DefaultCacheConfig()), h.ListPrices)
}

type quoteResponse struct {
	Success bool    `json:"success"`
	Total   float64 `json:"total"`
	PM      float64 `json:"pm"`
}

func (h *Handler) CreateQuote(c *gin.Context) {
	var req model.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := validator.TranslateBindError(err)
		h.observe(appErr.Code.String())
		handler.RespondWithError(c, appErr)
		return
	}

	result, err := h.service.Quote(req)
	if err != nil {
		h.observe(outcome(err))
		log.Debug().
			Err(err).
			Str("request_id", c.GetString(middleware.ContextRequestID)).
			Strs("services", req.SelectedServices).
			Str("tier", req.SelectedTime).
			Msg("quote rejected")
		handler.RespondWithError(c, err)
		return
	}

	total := result.Total.InexactFloat64()
	h.observe("ok")
	if h.metrics != nil {
		h.metrics.QuoteAmount.Observe(total)
	}

	c.JSON(http.StatusOK, quoteResponse{
		Success: true,
		Total:   total,
		PM:      result.Prepayment.InexactFloat64(),
	})
}

func (h *Handler) ListPrices(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.service.Table().Rules()))
}

func outcome(err error) string {
	var appErr *apperrors.AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code.String()
	}
	return apperrors.ErrInternal.String()
}

func (h *Handler) observe(outcome string) {
	if h.metrics != nil {
		h.metrics.QuotesTotal.WithLabelValues(outcome).Inc()
	}
}
