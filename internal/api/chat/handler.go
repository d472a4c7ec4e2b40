package chat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/intellimulti/chat-backend/internal/entity"
	"github.com/intellimulti/chat-backend/internal/pkg/logger"
	"github.com/intellimulti/chat-backend/internal/pkg/response"
	"github.com/intellimulti/chat-backend/internal/pkg/validator"
	"github.com/intellimulti/chat-backend/internal/stream"
	usecase "github.com/intellimulti/chat-backend/internal/usecase/chat"
)

type Handler struct {
	usecase       ChatUsecase
	validator     *validator.Validator
	maxUploadSize int64
}

func NewHandler(
	uc ChatUsecase,
	validator *validator.Validator,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		usecase:       uc,
		validator:     validator,
		maxUploadSize: maxUploadSize,
	}
}

// HandleStream handles POST /api/chat/stream - streamed multimodal chat
func (h *Handler) HandleStream(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "HandleStream")

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid multipart form", err)
		return
	}

	input, err := h.parseStreamInput(r)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	events, err := h.usecase.Stream(ctx, *input)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	sw, err := stream.NewWriter(w)
	if err != nil {
		h.respondError(ctx, w, http.StatusInternalServerError, "streaming unsupported", err)
		return
	}

	for ev := range events {
		if err := sw.Send(ev); err != nil {
			// Client went away; the relay notices the cancelled
			// context and shuts the model stream down.
			ctxzap.Info(ctx, "client disconnected mid-stream", zap.Error(err))
			return
		}
	}
}

// parseStreamInput decodes the multipart fields and validates the
// attached files.
func (h *Handler) parseStreamInput(r *http.Request) (*usecase.StreamInput, error) {
	input := &usecase.StreamInput{}

	if err := decodeFormJSON(r.FormValue("content_blocks"), &input.ContentBlocks); err != nil {
		return nil, err
	}
	if err := decodeFormJSON(r.FormValue("history"), &input.History); err != nil {
		return nil, err
	}

	if fh := formFile(r, "image_file"); fh != nil {
		if err := h.validator.ValidateImage(fh); err != nil {
			return nil, err
		}
		att, err := readAttachment(fh)
		if err != nil {
			return nil, err
		}
		input.Image = att
	}

	if fh := formFile(r, "audio_file"); fh != nil {
		if err := h.validator.ValidateAudio(fh); err != nil {
			return nil, err
		}
		att, err := readAttachment(fh)
		if err != nil {
			return nil, err
		}
		input.Audio = att
	}

	if fh := formFile(r, "pdf_file"); fh != nil {
		if err := h.validator.ValidatePDF(fh); err != nil {
			return nil, err
		}
		att, err := readAttachment(fh)
		if err != nil {
			return nil, err
		}
		input.PDF = att
	}

	return input, nil
}

// HandleChat handles POST /api/chat - blocking chat without attachments
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "HandleChat")

	var req entity.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	resp, err := h.usecase.Chat(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// HandleHistory handles GET /api/chat/messages - recent conversation turns
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "HandleHistory")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.respondError(ctx, w, http.StatusBadRequest, "invalid limit parameter", err)
			return
		}
		limit = parsed
	}

	turns, err := h.usecase.History(ctx, limit)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"messages": turns,
	})
}

// decodeFormJSON parses an optional JSON form field, treating an empty
// field as an empty list.
func decodeFormJSON(raw string, out any) error {
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return entity.ErrInvalidFormat
	}
	return nil
}

func formFile(r *http.Request, field string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return nil
	}
	return files[0]
}

func readAttachment(fh *multipart.FileHeader) (*usecase.Attachment, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	return &usecase.Attachment{
		Filename: fh.Filename,
		Data:     data,
	}, nil
}

// Helper methods
func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	response.JSON(w, status, data)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	ctxzap.Error(ctx, message, zap.Error(err))
	response.Error(w, status, message)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, entity.ErrEmptyMessage) || errors.Is(err, entity.ErrMissingField) || errors.Is(err, entity.ErrInvalidFormat) {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request", err)
	} else if errors.Is(err, entity.ErrInvalidExtension) || errors.Is(err, entity.ErrFileTooLarge) || errors.Is(err, entity.ErrInvalidFile) {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid file", err)
	} else {
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
