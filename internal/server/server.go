package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/iwvelando/exposure-advice/internal/config"
	"github.com/iwvelando/exposure-advice/internal/exposure"
	"github.com/iwvelando/exposure-advice/pkg/constants"
	"github.com/iwvelando/exposure-advice/pkg/mathutil"
	"github.com/iwvelando/exposure-advice/pkg/validation"
	"go.uber.org/zap"
)

type contextKey int

const requestIDKey contextKey = iota

type handler struct {
	logger      *zap.Logger
	advisor     *exposure.Advisor
	settings    config.AdvisorConfig
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler that serves the advice API.
func NewHandler(logger *zap.Logger, advisor *exposure.Advisor, settings config.AdvisorConfig, maxBodySize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:      logger,
		advisor:     advisor,
		settings:    settings,
		maxBodySize: maxBodySize,
		version:     trimmedVersion,
	}

	r := mux.NewRouter()
	r.Use(h.withRequestID)
	r.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/version", h.handleVersion).Methods(http.MethodGet)
	r.HandleFunc("/api/presets", h.handlePresets).Methods(http.MethodGet)
	r.HandleFunc("/api/advice", h.handleAdvice).Methods(http.MethodPost)

	return r
}

type adviceRequest struct {
	OffsetEV float64 `json:"offsetEV"`
	Shutter  int     `json:"shutter"`
	ISO      int     `json:"iso"`
	Shift    *int    `json:"shift,omitempty"`
}

type adviceResponse struct {
	exposure.Result
	Warnings  []string `json:"warnings,omitempty"`
	RequestID string   `json:"requestId"`
	Duration  string   `json:"duration"`
}

type presetsResponse struct {
	EV      []float64 `json:"ev"`
	Shutter []int     `json:"shutter"`
	ISO     []int     `json:"iso"`
}

func (h *handler) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set(constants.RequestIDHeader, id)
		h.logger.Debug("request received",
			zap.String("op", "server.withRequestID"),
			zap.String("requestId", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey).(string)
	return id
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := fmt.Fprintln(w, "OK"); err != nil {
		h.logger.Warn("failed to write health response", zap.Error(err))
	}
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handlePresets(w http.ResponseWriter, _ *http.Request) {
	presets := h.advisor.Presets()
	resp := presetsResponse{
		EV:      make([]float64, 0, len(presets.EV)),
		Shutter: make([]int, 0, len(presets.Shutter)),
		ISO:     make([]int, 0, len(presets.ISO)),
	}
	for _, ev := range presets.EV {
		resp.EV = append(resp.EV, mathutil.RoundStops(ev.Stops()))
	}
	for _, s := range presets.Shutter {
		resp.Shutter = append(resp.Shutter, int(s))
	}
	for _, iso := range presets.ISO {
		resp.ISO = append(resp.ISO, int(iso))
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleAdvice(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAdvice"
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	var req adviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxBodySize), op)
			return
		}
		h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return
	}

	if err := validation.ValidateOffset(req.OffsetEV); err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}
	if req.Shutter < 0 || req.ISO < 0 {
		h.respondError(w, r, http.StatusBadRequest, "shutter and iso must not be negative", op)
		return
	}

	shift := h.settings.Shift
	if req.Shift != nil {
		shift = *req.Shift
	}
	var warnings []string
	shift, warning := validation.ClampShift(shift, h.settings.ShiftMin, h.settings.ShiftMax)
	if warning != "" {
		warnings = append(warnings, warning)
	}

	manual := exposure.ExposureAdvice{Shutter: exposure.ShutterSpeed(req.Shutter), ISO: exposure.ISOValue(req.ISO)}
	presets := h.advisor.Presets()
	if presets.ShutterIndex(manual.Shutter) < 0 || presets.ISOIndex(manual.ISO) < 0 {
		warnings = append(warnings, fmt.Sprintf("manual setting %s is not on the preset lattice, starting from the first presets", manual))
	}

	result := h.advisor.Advise(req.OffsetEV, manual, shift)
	elapsed := time.Since(start)

	h.logger.Info("advice computed",
		zap.String("op", op),
		zap.String("requestId", requestID(r)),
		zap.Float64("offsetEV", req.OffsetEV),
		zap.Int("step", result.Step),
		zap.Int("advices", len(result.Advices)),
		zap.Bool("clamped", result.Clamped),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, adviceResponse{
		Result:    result,
		Warnings:  warnings,
		RequestID: requestID(r),
		Duration:  elapsed.String(),
	})
}

func (h *handler) respondError(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.logger.Error("advice request failed",
		zap.String("op", op),
		zap.String("requestId", requestID(r)),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
