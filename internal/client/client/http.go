package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/keijiban-app/keijiban/internal/api"
	"github.com/keijiban-app/keijiban/internal/client/models"
	"github.com/keijiban-app/keijiban/internal/common"
	"github.com/keijiban-app/keijiban/internal/logging"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Keijiban-Client/1.0"
)

// maxResponseBytes caps how much of a response body is read. Boards with
// their first page of entries carry inline thumbnails, so it sits well above
// the server's request limit.
var maxResponseBytes int64 = 32 << 20

// HTTPClient implements Gateway over the board service's JSON API.
type HTTPClient struct {
	baseURL *url.URL
	client  *http.Client
	log     logging.Logger
}

// NewHTTPClient validates baseURL and builds a client. An empty baseURL is
// reported as common.ErrMissingBaseURL; a zero timeout selects the default.
func NewHTTPClient(baseURL string, timeout time.Duration, log logging.Logger) (*HTTPClient, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, common.ErrMissingBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = logging.NewNop()
	}

	return &HTTPClient{
		baseURL: u,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConnsPerHost: 10,
			},
		},
		log: log,
	}, nil
}

func (h *HTTPClient) endpoint(query url.Values, elem ...string) string {
	u := h.baseURL.JoinPath(elem...)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (h *HTTPClient) do(ctx context.Context, method, endpoint string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("%w: build request: %w", common.ErrGateway, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	h.log.Debug(ctx, "sending request", "method", method, "url", endpoint)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w: %w", common.ErrGateway, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return fmt.Errorf("%w: read response: %w", common.ErrGateway, err)
	}
	if int64(len(data)) > maxResponseBytes {
		return fmt.Errorf("%w: %w: response exceeds %d bytes", common.ErrGateway, ErrMalformedPayload, maxResponseBytes)
	}

	h.log.Debug(ctx, "received response", "status", resp.StatusCode, "bytes", len(data))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, data)
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("%w: %w: %w", common.ErrGateway, ErrMalformedPayload, err)
		}
	}
	return nil
}

func statusError(code int, body []byte) error {
	kind := ErrRejected
	if code >= 500 {
		kind = ErrUnavailable
	}

	msg := http.StatusText(code)
	var apiErr api.Error
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		msg = apiErr.Error
	}
	return fmt.Errorf("%w: %w: status %d: %s", common.ErrGateway, kind, code, msg)
}

func (h *HTTPClient) getBoards(ctx context.Context, withEntries bool) ([]api.Board, error) {
	q := url.Values{}
	q.Set(api.ParamWithEntries, strconv.FormatBool(withEntries))

	var dtos []api.Board
	if err := h.do(ctx, http.MethodGet, h.endpoint(q, "boards"), nil, &dtos); err != nil {
		return nil, err
	}
	return dtos, nil
}

func (h *HTTPClient) FetchBoards(ctx context.Context) ([]models.Board, error) {
	dtos, err := h.getBoards(ctx, false)
	if err != nil {
		return nil, err
	}
	return DecodeBoards(dtos)
}

func (h *HTTPClient) FetchBoardsWithEntries(ctx context.Context) ([]models.FetchedBoard, error) {
	dtos, err := h.getBoards(ctx, true)
	if err != nil {
		return nil, err
	}
	return DecodeFetchedBoards(dtos)
}

func (h *HTTPClient) FetchEntries(ctx context.Context, boardID uuid.UUID, offsetCreatedAt *int64, count *int) ([]models.Entry, error) {
	q := url.Values{}
	if offsetCreatedAt != nil {
		q.Set(api.ParamOffsetCreatedAt, strconv.FormatInt(*offsetCreatedAt, 10))
	}
	if count != nil {
		q.Set(api.ParamCount, strconv.Itoa(*count))
	}

	var dtos []api.Entry
	if err := h.do(ctx, http.MethodGet, h.endpoint(q, "boards", boardID.String(), "entries"), nil, &dtos); err != nil {
		return nil, err
	}
	return DecodeEntries(dtos)
}

func (h *HTTPClient) PostEntry(ctx context.Context, boardID uuid.UUID, images [][]byte, authorName, deleteKey string) error {
	body := api.PostEntryRequest{
		WordImages: make([]api.PostWordImage, len(images)),
		AuthorName: authorName,
		DeleteKey:  deleteKey,
	}
	for i, img := range images {
		body.WordImages[i] = api.PostWordImage{
			Base64EncodedImage: base64.StdEncoding.EncodeToString(img),
			Index:              i,
		}
	}

	return h.do(ctx, http.MethodPost, h.endpoint(nil, "boards", boardID.String(), "entries"), body, nil)
}

func (h *HTTPClient) Ping(ctx context.Context) error {
	return h.do(ctx, http.MethodGet, h.endpoint(nil, "health"), nil, nil)
}
