package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/gocle/pkg/clock"
	"github.com/shandysiswandi/gocle/pkg/config"
	"github.com/shandysiswandi/gocle/pkg/form"
	"github.com/shandysiswandi/gocle/pkg/instrument"
	"github.com/shandysiswandi/gocle/pkg/mail"
	"github.com/shandysiswandi/gocle/pkg/notify"
	"github.com/shandysiswandi/gocle/pkg/router"
	"github.com/shandysiswandi/gocle/pkg/storage"
	"github.com/shandysiswandi/gocle/pkg/uid"
	"github.com/shandysiswandi/gocle/pkg/validator"
)

const messageID = "0190b6d4-2f3a-7c1e-9a55-3c2a1f0e4b77"

type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memStorage) PutObject(_ context.Context, key string, r io.Reader, _ storage.PutOptions) (storage.ObjectInfo, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return storage.ObjectInfo{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = body
	return storage.ObjectInfo{Key: key}, nil
}

func (m *memStorage) GetObject(_ context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	body, ok := m.objects[key]
	if !ok {
		return nil, storage.ObjectInfo{}, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(body)), storage.ObjectInfo{Key: key}, nil
}

func (m *memStorage) DeleteObject(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memStorage) ListObjects(_ context.Context, prefix string, _ storage.ListOptions) ([]storage.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []storage.ObjectInfo{}
	for key := range m.objects {
		if strings.HasPrefix(key, prefix) {
			out = append(out, storage.ObjectInfo{Key: key})
		}
	}
	return out, nil
}

func (m *memStorage) Close() error { return nil }

type fakeMail struct{ sent []mail.Message }

func (f *fakeMail) Send(_ context.Context, msg mail.Message) (string, error) {
	f.sent = append(f.sent, msg)
	return "mail-1", nil
}

func (f *fakeMail) Close() error { return nil }

type fakePublisher struct{ published []notify.PublishInput }

func (f *fakePublisher) Publish(_ context.Context, in notify.PublishInput) (string, error) {
	f.published = append(f.published, in)
	return "sns-1", nil
}

func TestNew_EndToEnd(t *testing.T) {
	// Arrange
	cfg, err := config.NewViperFromBytes("yaml", []byte(`
modules:
  contact:
    owner_email: owner@example.com
    topic_arn: arn:aws:sns:us-east-1:123456789012:contact
`))
	require.NoError(t, err)

	v, err := validator.NewV10Validator()
	require.NoError(t, err)
	res, err := form.NewResolver(v)
	require.NoError(t, err)

	mailer := &fakeMail{}
	publisher := &fakePublisher{}
	ro := router.NewRouter(router.Config{UUID: uid.Static("cid"), Instrument: instrument.NewNoop()})

	require.NoError(t, New(Dependency{
		Config:     cfg,
		Instrument: instrument.NewNoop(),
		UUID:       uid.Static(messageID),
		Clock:      clock.Fixed(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)),
		Validator:  v,
		Resolver:   res,
		Storage:    &memStorage{objects: map[string][]byte{}},
		Mail:       mailer,
		Publisher:  publisher,
		Router:     ro,
	}))

	// Act
	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/contact/messages",
		strings.NewReader(`{"sender_name":"Ana","sender_email":"ana@example.com","subject":"Hi","body":"Hello!"}`)))

	getRec := httptest.NewRecorder()
	ro.ServeHTTP(getRec, httptest.NewRequest(http.MethodGet, "/api/v1/contact/messages/"+messageID, nil))

	listRec := httptest.NewRecorder()
	ro.ServeHTTP(listRec, httptest.NewRequest(http.MethodGet, "/api/v1/contact/messages", nil))

	// Assert
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusOK, getRec.Code, getRec.Body.String())
	assert.Equal(t, http.StatusOK, listRec.Code, listRec.Body.String())

	var list struct {
		Meta struct {
			Pagination map[string]int `json:"pagination"`
		} `json:"meta"`
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &list))
	assert.Equal(t, map[string]int{"page": 1, "pageSize": 10, "totalItems": 1, "totalPages": 1}, list.Meta.Pagination)
	require.Len(t, list.Data, 1)
	assert.Equal(t, messageID, list.Data[0]["id"])

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"owner@example.com"}, mailer.sent[0].To)
	assert.Equal(t, []string{"ana@example.com"}, mailer.sent[0].ReplyTo)

	require.Len(t, publisher.published, 1)
	assert.Equal(t, "arn:aws:sns:us-east-1:123456789012:contact", publisher.published[0].TopicARN)
}

func TestNew_InvalidDependency(t *testing.T) {
	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	err = New(Dependency{Validator: v})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid dependency")
}
