package run_capture

import (
	"net/http"
	"strconv"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/api/handlers"
	capturePayments "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/usecase/capture_payments"
)

const (
	msgInvalidDryRun = "некорректное значение dryRun"
)

type Handler struct {
	useCase CaptureUseCase
	logger  Logger
}

func NewHandler(useCase CaptureUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/internal/capture/run
// Query params: dryRun (опционально). Доступ ограничен middleware.AdminOnly.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var opts capturePayments.RunOptions
	if raw := r.URL.Query().Get("dryRun"); raw != "" {
		dryRun, err := strconv.ParseBool(raw)
		if err != nil {
			h.logger.Warn("POST /internal/capture/run - Invalid dryRun: %s", raw)
			handlers.RespondBadRequest(w, msgInvalidDryRun)
			return
		}
		opts.DryRun = dryRun
	}

	report, err := h.useCase.Run(r.Context(), opts)
	if err != nil {
		h.logger.Error("POST /internal/capture/run - Capture run failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /internal/capture/run - Capture run finished: processed=%d, captured=%d, failed=%d, dryRun=%t",
		report.Processed, report.Captured, report.Failed, report.DryRun)
	handlers.RespondJSON(w, http.StatusOK, report)
}
