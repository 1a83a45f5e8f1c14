package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const maxErrorBody = 4 << 10

// Client talks to the remote catalog API.
type Client interface {
	Login(ctx context.Context, email, password string) (*Usuario, error)
	Register(ctx context.Context, u Usuario) (*Usuario, error)

	ListProducts(ctx context.Context) ([]Producto, error)
	ListOffers(ctx context.Context) ([]Producto, error)
	GetProduct(ctx context.Context, id int64) (*Producto, error)
	CreateProduct(ctx context.Context, p Producto) (*Producto, error)
	DeleteProduct(ctx context.Context, id int64) error
	UploadImage(ctx context.Context, filename string, content io.Reader) (string, error)

	CreateBoleta(ctx context.Context, b Boleta) (*Boleta, error)
	GetBoleta(ctx context.Context, id int64) (*Boleta, error)
}

type httpClient struct {
	baseURL string
	client  *http.Client
	log     *logrus.Logger
}

// NewHTTPClient returns a Client for the API rooted at baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *logrus.Logger) Client {
	return &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		log: logger,
	}
}

func (c *httpClient) Login(ctx context.Context, email, password string) (*Usuario, error) {
	var out Usuario
	if err := c.doJSON(ctx, "login", http.MethodPost, "/api/auth/login", loginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) Register(ctx context.Context, u Usuario) (*Usuario, error) {
	var out Usuario
	if err := c.doJSON(ctx, "register", http.MethodPost, "/api/auth/registro", u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) ListProducts(ctx context.Context) ([]Producto, error) {
	return c.listProducts(ctx, "list products", "/api/productos")
}

func (c *httpClient) ListOffers(ctx context.Context) ([]Producto, error) {
	return c.listProducts(ctx, "list offers", "/api/productos/ofertas")
}

// listProducts rejects a JSON null body. Only an actual [] is an empty list.
func (c *httpClient) listProducts(ctx context.Context, op, path string) ([]Producto, error) {
	var out []Producto
	if err := c.doJSON(ctx, op, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		c.log.Errorf("RemoteClient: %s returned a null body", op)
		return nil, &DecodeError{Op: op, Err: errNullBody}
	}
	return out, nil
}

func (c *httpClient) GetProduct(ctx context.Context, id int64) (*Producto, error) {
	var out Producto
	if err := c.doJSON(ctx, "get product", http.MethodGet, fmt.Sprintf("/api/productos/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) CreateProduct(ctx context.Context, p Producto) (*Producto, error) {
	var out Producto
	if err := c.doJSON(ctx, "create product", http.MethodPost, "/api/productos", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) DeleteProduct(ctx context.Context, id int64) error {
	return c.doJSON(ctx, "delete product", http.MethodDelete, fmt.Sprintf("/api/productos/%d", id), nil, nil)
}

// UploadImage posts content as the multipart part "file" and returns the
// stored path exactly as the remote sends it.
func (c *httpClient) UploadImage(ctx context.Context, filename string, content io.Reader) (string, error) {
	const op = "upload image"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("%s: build form: %w", op, err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("%s: read content: %w", op, err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("%s: build form: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/productos/upload", &buf)
	if err != nil {
		return "", fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.send(op, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &DecodeError{Op: op, Err: err}
	}
	path := strings.TrimSpace(string(body))
	c.log.WithField("path", path).Info("RemoteClient: image uploaded")
	return path, nil
}

func (c *httpClient) CreateBoleta(ctx context.Context, b Boleta) (*Boleta, error) {
	var out Boleta
	if err := c.doJSON(ctx, "create boleta", http.MethodPost, "/api/boletas", b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) GetBoleta(ctx context.Context, id int64) (*Boleta, error) {
	var out Boleta
	if err := c.doJSON(ctx, "get boleta", http.MethodGet, fmt.Sprintf("/api/boletas/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// doJSON sends in as the JSON body (when not nil) and decodes the response
// into out (when not nil).
func (c *httpClient) doJSON(ctx context.Context, op, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.send(op, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.log.Errorf("RemoteClient: failed to decode %s response: %v", op, err)
		return &DecodeError{Op: op, Err: err}
	}
	return nil
}

// send executes req and turns transport failures and non-2xx answers into
// typed errors. On success the caller owns resp.Body.
func (c *httpClient) send(op string, req *http.Request) (*http.Response, error) {
	c.log.Debugf("RemoteClient: %s %s", req.Method, req.URL)
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warnf("RemoteClient: %s failed: %v", op, err)
		return nil, &NetworkError{Op: op, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()
		c.log.Warnf("RemoteClient: %s returned status %d", op, resp.StatusCode)
		return nil, &StatusError{Op: op, Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	return resp, nil
}
