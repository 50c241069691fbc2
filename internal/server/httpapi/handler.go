package httpapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/keijiban-app/keijiban/internal/api"
	"github.com/keijiban-app/keijiban/internal/common"
	"github.com/keijiban-app/keijiban/internal/logging"
	"github.com/keijiban-app/keijiban/internal/server/boards"
)

const maxBodyBytes = 8 << 20

type BoardService interface {
	Boards(ctx context.Context, withEntries bool) ([]boards.BoardWithEntries, error)
	Entries(ctx context.Context, boardID uuid.UUID, offsetCreatedAt *int64, count *int) ([]boards.Entry, error)
	Post(ctx context.Context, boardID uuid.UUID, images []boards.PostedImage, authorName, deleteKey string) (*boards.Entry, error)
	Delete(ctx context.Context, boardID, entryID uuid.UUID, deleteKey string) error
	Like(ctx context.Context, boardID, entryID uuid.UUID) (*boards.Entry, error)
}

type handler struct {
	svc    BoardService
	logger logging.Logger
}

// NewRouter builds the routes:
//
//	GET    /health
//	GET    /boards?withEntries=bool
//	GET    /boards/{boardID}/entries?offsetCreatedAt=&count=
//	POST   /boards/{boardID}/entries
//	DELETE /boards/{boardID}/entries/{entryID}
//	POST   /boards/{boardID}/entries/{entryID}/like
func NewRouter(svc BoardService, l logging.Logger) http.Handler {
	h := &handler{svc: svc, logger: l}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(l))

	r.Get("/health", h.health)
	r.Route("/boards", func(r chi.Router) {
		r.Get("/", h.listBoards)
		r.Route("/{boardID}/entries", func(r chi.Router) {
			r.Get("/", h.listEntries)
			r.Post("/", h.postEntry)
			r.Delete("/{entryID}", h.deleteEntry)
			r.Post("/{entryID}/like", h.likeEntry)
		})
	})
	return r
}

type deleteEntryRequest struct {
	DeleteKey string `json:"deleteKey"`
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) listBoards(w http.ResponseWriter, r *http.Request) {
	withEntries := false
	if v := r.URL.Query().Get(api.ParamWithEntries); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid "+api.ParamWithEntries)
			return
		}
		withEntries = b
	}

	list, err := h.svc.Boards(r.Context(), withEntries)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	out := make([]api.Board, len(list))
	for i, b := range list {
		id := b.ID
		out[i] = api.Board{ID: &id, Name: b.Name, Index: b.Index}
		if withEntries {
			out[i].Entries = toEntries(b.Entries)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) listEntries(w http.ResponseWriter, r *http.Request) {
	boardID, ok := pathUUID(w, r, "boardID")
	if !ok {
		return
	}

	q := r.URL.Query()
	var offset *int64
	if v := q.Get(api.ParamOffsetCreatedAt); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid "+api.ParamOffsetCreatedAt)
			return
		}
		offset = &n
	}
	var count *int
	if v := q.Get(api.ParamCount); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid "+api.ParamCount)
			return
		}
		count = &n
	}

	entries, err := h.svc.Entries(r.Context(), boardID, offset, count)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntries(entries))
}

func (h *handler) postEntry(w http.ResponseWriter, r *http.Request) {
	boardID, ok := pathUUID(w, r, "boardID")
	if !ok {
		return
	}

	var req api.PostEntryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	images := make([]boards.PostedImage, len(req.WordImages))
	for i, wi := range req.WordImages {
		data, err := base64.StdEncoding.DecodeString(wi.Base64EncodedImage)
		if err != nil {
			writeError(w, http.StatusBadRequest, "wordImages["+strconv.Itoa(i)+"] is not valid base64")
			return
		}
		images[i] = boards.PostedImage{Data: data, Index: wi.Index}
	}

	e, err := h.svc.Post(r.Context(), boardID, images, req.AuthorName, req.DeleteKey)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEntry(*e))
}

func (h *handler) deleteEntry(w http.ResponseWriter, r *http.Request) {
	boardID, ok := pathUUID(w, r, "boardID")
	if !ok {
		return
	}
	entryID, ok := pathUUID(w, r, "entryID")
	if !ok {
		return
	}

	var req deleteEntryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.Delete(r.Context(), boardID, entryID, req.DeleteKey); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) likeEntry(w http.ResponseWriter, r *http.Request) {
	boardID, ok := pathUUID(w, r, "boardID")
	if !ok {
		return
	}
	entryID, ok := pathUUID(w, r, "entryID")
	if !ok {
		return
	}

	e, err := h.svc.Like(r.Context(), boardID, entryID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntry(*e))
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, common.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, boards.ErrWrongDeleteKey):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func toEntries(list []boards.Entry) []api.Entry {
	out := make([]api.Entry, len(list))
	for i, e := range list {
		out[i] = toEntry(e)
	}
	return out
}

func toEntry(e boards.Entry) api.Entry {
	id, likes, created := e.ID, e.LikeCount, e.CreatedAt
	out := api.Entry{
		ID:         &id,
		BoardID:    e.BoardID,
		WordImages: make([]api.EntryWordImage, len(e.WordImages)),
		AuthorName: e.AuthorName,
		LikeCount:  &likes,
		CreatedAt:  &created,
	}
	for i, data := range e.WordImages {
		wid := uuid.NewSHA1(e.ID, []byte(strconv.Itoa(i)))
		out.WordImages[i] = api.EntryWordImage{
			ID:                 &wid,
			Base64EncodedImage: base64.StdEncoding.EncodeToString(data),
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, api.Error{Error: msg})
}
