package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/gocle/pkg/config"
	"github.com/shandysiswandi/gocle/pkg/form"
	"github.com/shandysiswandi/gocle/pkg/goerror"
	"github.com/shandysiswandi/gocle/pkg/instrument"
	"github.com/shandysiswandi/gocle/pkg/response"
	"github.com/shandysiswandi/gocle/pkg/uid"
)

type wireEnvelope struct {
	Success bool `json:"success"`
	Meta    struct {
		Message      string                 `json:"message"`
		ErrorDetails []response.ErrorDetail `json:"errorDetails"`
		Schemas      map[string]any         `json:"schemas"`
		Pagination   map[string]any         `json:"pagination"`
	} `json:"meta"`
	Data json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T, yaml string) *Router {
	t.Helper()

	var cfg config.Config
	if yaml != "" {
		v, err := config.NewViperFromBytes("yaml", []byte(yaml))
		require.NoError(t, err)
		cfg = v
	}

	return NewRouter(Config{
		Config:      cfg,
		UUID:        uid.Static("cid-fixed"),
		Instrument:  instrument.NewNoop(),
		ServiceName: "contact",
	})
}

func serve(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, wireEnvelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env wireEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func TestRouter_Success(t *testing.T) {
	ro := newTestRouter(t, "")
	ro.GET("/items/:id", func(r *Request) (any, error) {
		return map[string]any{"item_id": r.GetParam("id")}, nil
	})

	rec, env := serve(t, ro, httptest.NewRequest(http.MethodGet, "/items/42", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, contentTypeJSON, rec.Header().Get("Content-Type"))
	assert.Equal(t, "cid-fixed", rec.Header().Get(HeaderCorrelationID))
	assert.True(t, env.Success)
	assert.Equal(t, response.MessageOK, env.Meta.Message)
	assert.JSONEq(t, `{"itemId":"42"}`, string(env.Data))
}

func TestRouter_CreatedEnvelope(t *testing.T) {
	ro := newTestRouter(t, "")
	ro.POST("/items", func(*Request) (any, error) {
		return response.Created(map[string]any{"id": 1}), nil
	})

	rec, env := serve(t, ro, httptest.NewRequest(http.MethodPost, "/items", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
}

func TestRouter_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{
			name:       "NotFound",
			err:        goerror.NewNotFound("abc"),
			wantStatus: http.StatusNotFound,
			wantDetail: "Resource with id abc could not be found",
		},
		{
			name:       "BadRequest",
			err:        goerror.NewBadRequest("Subject is not allowed"),
			wantStatus: http.StatusBadRequest,
			wantDetail: "Subject is not allowed",
		},
		{
			name:       "Unclassified",
			err:        errors.New("dial tcp: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantDetail: response.MessageInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ro := newTestRouter(t, "")
			ro.GET("/fail", func(*Request) (any, error) { return nil, tt.err })

			rec, env := serve(t, ro, httptest.NewRequest(http.MethodGet, "/fail", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.False(t, env.Success)
			require.Len(t, env.Meta.ErrorDetails, 1)
			assert.Equal(t, tt.wantDetail, env.Meta.ErrorDetails[0].Message)
			assert.NotContains(t, rec.Body.String(), "connection refused")
		})
	}
}

func TestRouter_Bind(t *testing.T) {
	type input struct {
		SenderName string `json:"sender_name"`
	}

	res, err := form.New()
	require.NoError(t, err)
	schema := form.NewSchema("TestForm", form.String("sender_name").Required().Rules("max=5"))

	ro := newTestRouter(t, "")
	ro.POST("/bind", func(r *Request) (any, error) {
		in, err := Bind[input](r, res, schema)
		if err != nil {
			return nil, err
		}
		return in, nil
	})

	t.Run("Valid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/bind", strings.NewReader(`{"sender_name":"ana"}`))

		rec, env := serve(t, ro, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"senderName":"ana"}`, string(env.Data))
	})

	t.Run("Invalid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/bind", strings.NewReader(`{"sender_name":123}`))

		rec, env := serve(t, ro, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, response.MessageBadRequest, env.Meta.Message)
		assert.Equal(t, []response.ErrorDetail{{Location: "sender_name", Message: "must be a string"}}, env.Meta.ErrorDetails)
		assert.Contains(t, env.Meta.Schemas, "requestBody")
		assert.Equal(t, "null", string(env.Data))
	})

	t.Run("Empty", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/bind", nil)

		rec, env := serve(t, ro, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		require.Len(t, env.Meta.ErrorDetails, 1)
		assert.Equal(t, form.DetailInvalidJSON, env.Meta.ErrorDetails[0].Message)
	})

	t.Run("TooLarge", func(t *testing.T) {
		// Arrange
		body := `{"sender_name":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
		req := httptest.NewRequest(http.MethodPost, "/bind", strings.NewReader(body))

		// Act
		rec, env := serve(t, ro, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, []response.ErrorDetail{{Message: DetailPayloadTooLarge}}, env.Meta.ErrorDetails)
	})

	t.Run("ExactlyAtLimit", func(t *testing.T) {
		// Arrange
		prefix, suffix := `{"sender_name":"ana","pad":"`, `"}`
		pad := strings.Repeat("a", MaxBodyBytes-len(prefix)-len(suffix))
		req := httptest.NewRequest(http.MethodPost, "/bind", strings.NewReader(prefix+pad+suffix))

		// Act
		rec, _ := serve(t, ro, req)

		// Assert
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRouter_BindQuery(t *testing.T) {
	type query struct {
		Page     int `json:"page"`
		PageSize int `json:"page_size"`
	}

	res, err := form.New()
	require.NoError(t, err)
	schema := form.NewSchema("ListQuery",
		form.Int("page").Rules("min=1").Default(1),
		form.Int("page_size").Rules("min=1,max=100").Default(10),
	)

	ro := newTestRouter(t, "")
	ro.GET("/list", func(r *Request) (any, error) {
		q, err := BindQuery[query](r, res, schema)
		if err != nil {
			return nil, err
		}
		return response.OK(nil, response.WithPagination(response.NewPagination(q.Page, q.PageSize, 25))), nil
	})

	rec, env := serve(t, ro, httptest.NewRequest(http.MethodGet, "/list?page=2", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"page": 2.0, "pageSize": 10.0, "totalItems": 25.0, "totalPages": 3.0}, env.Meta.Pagination)

	rec, env = serve(t, ro, httptest.NewRequest(http.MethodGet, "/list?page_size=500", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.Len(t, env.Meta.ErrorDetails, 1)
	assert.Equal(t, "page_size", env.Meta.ErrorDetails[0].Location)
	assert.Contains(t, env.Meta.Schemas, "queryParameters")
}

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	ro := newTestRouter(t, "")
	ro.GET("/only-get", func(*Request) (any, error) { return nil, nil })

	rec, env := serve(t, ro, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)

	rec, env = serve(t, ro, httptest.NewRequest(http.MethodDelete, "/only-get", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.False(t, env.Success)
	require.Len(t, env.Meta.ErrorDetails, 1)
	assert.Equal(t, messageMethodNotAllowed, env.Meta.ErrorDetails[0].Message)
}

func TestRouter_Maintenance(t *testing.T) {
	ro := newTestRouter(t, `
app:
  maintenance:
    endpoints: ["/blocked/:id"]
`)
	ro.GET("/blocked/:id", func(*Request) (any, error) { return "ok", nil })
	ro.GET("/open", func(*Request) (any, error) { return "ok", nil })

	rec, env := serve(t, ro, httptest.NewRequest(http.MethodGet, "/blocked/1", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Len(t, env.Meta.ErrorDetails, 1)
	assert.Equal(t, messageMaintenance, env.Meta.ErrorDetails[0].Message)

	rec, _ = serve(t, ro, httptest.NewRequest(http.MethodGet, "/open", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_PanicInMiddleware(t *testing.T) {
	ro := newTestRouter(t, "")
	ro.GET("/boom", func(*Request) (any, error) { return nil, nil }, func(http.Handler) http.Handler {
		return http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
	})

	rec, env := serve(t, ro, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, response.MessageInternalError, env.Meta.Message)
}

func TestRouter_CorrelationIDHeader(t *testing.T) {
	ro := newTestRouter(t, "")
	ro.GET("/cid", func(r *Request) (any, error) {
		return instrument.GetCorrelationID(r.Context()), nil
	})

	req := httptest.NewRequest(http.MethodGet, "/cid", nil)
	req.Header.Set(HeaderRequestID, "  from-proxy  ")

	rec, env := serve(t, ro, req)

	assert.Equal(t, "from-proxy", rec.Header().Get(HeaderCorrelationID))
	assert.JSONEq(t, `"from-proxy"`, string(env.Data))
}

func TestNormalizeCorrelationID(t *testing.T) {
	assert.Equal(t, "", NormalizeCorrelationID("a\r\nb"))
	assert.Equal(t, "abc", NormalizeCorrelationID(" abc "))
	assert.Len(t, NormalizeCorrelationID(strings.Repeat("x", 300)), maxCorrelationIDLen)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "TrueClientIP", headers: map[string]string{"True-Client-IP": "1.1.1.1"}, remote: "9.9.9.9:1", want: "1.1.1.1"},
		{name: "ForwardedFor", headers: map[string]string{"X-Forwarded-For": "2.2.2.2, 3.3.3.3"}, remote: "9.9.9.9:1", want: "2.2.2.2"},
		{name: "InvalidHeader", headers: map[string]string{"X-Real-IP": "nope"}, remote: "9.9.9.9:1", want: "9.9.9.9"},
		{name: "Nothing", remote: "pipe", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			assert.Equal(t, tt.want, clientIP(req))
		})
	}
}

func TestMasker(t *testing.T) {
	m := masker{"password": {}, "authorization": {}}

	got := m.body("application/json", []byte(`{"user":"a","Password":"secret","nested":[{"password":"x"}]}`))
	assert.Equal(t, map[string]any{
		"user":     "a",
		"Password": maskedValue,
		"nested":   []any{map[string]any{"password": maskedValue}},
	}, got)

	formBody := m.body("application/x-www-form-urlencoded", []byte("password=a&tag=1&tag=2"))
	assert.Equal(t, map[string]any{"password": maskedValue, "tag": []string{"1", "2"}}, formBody)

	h := http.Header{"Authorization": []string{"Bearer x"}}
	assert.Equal(t, maskedValue, m.headers(h).Get("Authorization"))
	assert.Equal(t, "Bearer x", h.Get("Authorization"))

	assert.Equal(t, binaryBodyOmitted, m.body("", []byte{0xff, 0xfe}))
	assert.Nil(t, m.body("", nil))
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { order = append(order, "handler") }),
		mw("first"), nil, mw("second"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"first", "second", "handler"}, order)
}
