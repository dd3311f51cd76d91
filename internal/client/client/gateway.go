package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dmitrijs2005/farmdash/internal/client/models"
	"github.com/dmitrijs2005/farmdash/internal/common"
	"github.com/dmitrijs2005/farmdash/internal/logging"
)

// Gateway is the remote REST API of the marketplace. Methods return raw
// wire records; normalization is the caller's business.
type Gateway interface {
	Login(ctx context.Context, mobile, password string) (string, error)

	ListCategories(ctx context.Context) ([]models.RawCategory, error)
	GetCategory(ctx context.Context, id string) (*models.RawCategory, error)
	CreateCategory(ctx context.Context, in models.CategoryInput) (*models.RawCategory, error)
	UpdateCategory(ctx context.Context, id string, patch models.CategoryPatch) error
	UpdateCategoryStatus(ctx context.Context, id string, active bool) error
	DeleteCategory(ctx context.Context, id string) error

	ListProducts(ctx context.Context) ([]models.RawProduct, error)
	GetProduct(ctx context.Context, id string) (*models.RawProduct, error)
	CreateProduct(ctx context.Context, in models.ProductInput) (*models.RawProduct, error)
	UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) error
	DeleteProduct(ctx context.Context, id string) error

	ListFarmers(ctx context.Context, limit, offset int) ([]models.RawFarmer, error)
	DeleteFarmer(ctx context.Context, id string) error
}

// envelope is the {success, data, message} wrapper every endpoint uses. The
// unexported fields record the request it answered, for error reporting.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`

	method string
	path   string
	status int
}

// located is implemented by response bodies that want to know which request
// they answer.
type located interface {
	locate(method, path string, status int)
}

func (e *envelope) locate(method, path string, status int) {
	e.method, e.path, e.status = method, path, status
}

// HTTPGateway implements Gateway over net/http.
type HTTPGateway struct {
	http    *http.Client
	builder *RequestBuilder
	log     logging.Logger
}

var _ Gateway = (*HTTPGateway)(nil)

func NewHTTPGateway(httpClient *http.Client, builder *RequestBuilder, log logging.Logger) *HTTPGateway {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPGateway{http: httpClient, builder: builder, log: log.With("component", "gateway")}
}

// doInto sends one request and decodes the body of a 2xx answer into out
// (when non-nil). Transport failures become KindNetwork errors, non-2xx
// statuses and undecodable bodies KindServer errors.
func (g *HTTPGateway) doInto(ctx context.Context, method string, segments []string, query url.Values, body any, out any) error {
	req, err := g.builder.Build(ctx, method, segments, query, body)
	if err != nil {
		return err
	}
	path := req.URL.Path
	reqID := req.Header.Get(common.RequestIDHeaderName)

	start := time.Now()
	resp, err := g.http.Do(req)
	if err != nil {
		g.log.Debug(ctx, "request failed", "method", method, "path", path, "request_id", reqID, "error", err)
		return &APIError{Kind: KindNetwork, Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Kind: KindNetwork, Method: method, Path: path, Status: resp.StatusCode, Err: err}
	}

	g.log.Debug(ctx, "request done", "method", method, "path", path, "status", resp.StatusCode,
		"request_id", reqID, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return mapStatus(method, path, resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	if l, ok := out.(located); ok {
		l.locate(method, path, resp.StatusCode)
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &APIError{Kind: KindServer, Method: method, Path: path, Status: resp.StatusCode,
			Message: "malformed response", Err: err}
	}
	return nil
}

// decodeData unmarshals env.Data into out. Missing data leaves out untouched.
func decodeData(env *envelope, out any) error {
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &APIError{Kind: KindServer, Method: env.method, Path: env.path, Status: env.status,
			Message: "malformed response data", Err: err}
	}
	return nil
}

// Login exchanges credentials for a bearer token. The token is accepted at
// the top level of the answer or inside data.
func (g *HTTPGateway) Login(ctx context.Context, mobile, password string) (string, error) {
	req := struct {
		Mobile   string `json:"mobile"`
		Password string `json:"password"`
	}{Mobile: mobile, Password: password}

	var env loginEnvelope
	if err := g.doInto(ctx, http.MethodPost, []string{"auth", "login"}, nil, req, &env); err != nil {
		return "", err
	}
	if env.Token != "" {
		return env.Token, nil
	}
	var data struct {
		Token string `json:"token"`
	}
	if err := decodeData(&env.envelope, &data); err != nil {
		return "", err
	}
	if data.Token == "" {
		return "", &APIError{Kind: KindServer, Method: env.method, Path: env.path,
			Status: env.status, Message: "login response carried no token"}
	}
	return data.Token, nil
}

type loginEnvelope struct {
	envelope
	Token string `json:"token"`
}

func (g *HTTPGateway) ListCategories(ctx context.Context) ([]models.RawCategory, error) {
	var env envelope
	if err := g.doInto(ctx, http.MethodGet, []string{"categories"}, nil, nil, &env); err != nil {
		return nil, err
	}
	var data struct {
		Categories []models.RawCategory `json:"categories"`
	}
	if err := decodeData(&env, &data); err != nil {
		return nil, err
	}
	if data.Categories == nil {
		return []models.RawCategory{}, nil
	}
	return data.Categories, nil
}

func (g *HTTPGateway) GetCategory(ctx context.Context, id string) (*models.RawCategory, error) {
	var env envelope
	if err := g.doInto(ctx, http.MethodGet, []string{"categories", id}, nil, nil, &env); err != nil {
		return nil, err
	}
	return decodeCategory(&env)
}

func (g *HTTPGateway) CreateCategory(ctx context.Context, in models.CategoryInput) (*models.RawCategory, error) {
	var env envelope
	if err := g.doInto(ctx, http.MethodPost, []string{"categories"}, nil, in, &env); err != nil {
		return nil, err
	}
	return decodeCategory(&env)
}

// decodeCategory accepts both {data:{...}} and {data:{category:{...}}}.
func decodeCategory(env *envelope) (*models.RawCategory, error) {
	var wrapped struct {
		Category *models.RawCategory `json:"category"`
	}
	if err := decodeData(env, &wrapped); err != nil {
		return nil, err
	}
	if wrapped.Category != nil {
		return wrapped.Category, nil
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, nil
	}
	var c models.RawCategory
	if err := decodeData(env, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (g *HTTPGateway) UpdateCategory(ctx context.Context, id string, patch models.CategoryPatch) error {
	return g.doInto(ctx, http.MethodPatch, []string{"categories", id}, nil, patch, nil)
}

func (g *HTTPGateway) UpdateCategoryStatus(ctx context.Context, id string, active bool) error {
	body := struct {
		IsActive bool `json:"is_active"`
	}{IsActive: active}
	return g.doInto(ctx, http.MethodPatch, []string{"categories", id, "status"}, nil, body, nil)
}

func (g *HTTPGateway) DeleteCategory(ctx context.Context, id string) error {
	return g.doInto(ctx, http.MethodDelete, []string{"categories", id}, nil, nil, nil)
}

// ListProducts returns an empty list when the gateway reports success=false.
func (g *HTTPGateway) ListProducts(ctx context.Context) ([]models.RawProduct, error) {
	var env envelope
	if err := g.doInto(ctx, http.MethodGet, []string{"products"}, nil, nil, &env); err != nil {
		return nil, err
	}
	out := []models.RawProduct{}
	if !env.Success {
		return out, nil
	}
	if err := decodeData(&env, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.RawProduct{}
	}
	return out, nil
}

// GetProduct returns nil without error when the gateway reports success=false.
func (g *HTTPGateway) GetProduct(ctx context.Context, id string) (*models.RawProduct, error) {
	var env envelope
	if err := g.doInto(ctx, http.MethodGet, []string{"products", id}, nil, nil, &env); err != nil {
		return nil, err
	}
	return decodeProduct(&env)
}

func (g *HTTPGateway) CreateProduct(ctx context.Context, in models.ProductInput) (*models.RawProduct, error) {
	var env envelope
	if err := g.doInto(ctx, http.MethodPost, []string{"products"}, nil, in, &env); err != nil {
		return nil, err
	}
	return decodeProduct(&env)
}

func decodeProduct(env *envelope) (*models.RawProduct, error) {
	if !env.Success || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, nil
	}
	var p models.RawProduct
	if err := decodeData(env, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (g *HTTPGateway) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) error {
	return g.doInto(ctx, http.MethodPatch, []string{"products", id}, nil, patch, nil)
}

func (g *HTTPGateway) DeleteProduct(ctx context.Context, id string) error {
	return g.doInto(ctx, http.MethodDelete, []string{"products", id}, nil, nil, nil)
}

func (g *HTTPGateway) ListFarmers(ctx context.Context, limit, offset int) ([]models.RawFarmer, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var env envelope
	if err := g.doInto(ctx, http.MethodGet, []string{"farmers"}, q, nil, &env); err != nil {
		return nil, err
	}
	out := []models.RawFarmer{}
	if err := decodeData(&env, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.RawFarmer{}
	}
	return out, nil
}

func (g *HTTPGateway) DeleteFarmer(ctx context.Context, id string) error {
	return g.doInto(ctx, http.MethodDelete, []string{"farmers", id}, nil, nil, nil)
}

// IsNetworkError reports whether err is a transport-level failure.
func IsNetworkError(err error) bool {
	return errors.Is(err, common.ErrNetwork)
}
