package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/shandysiswandi/gocle/internal/contact/entity"
	"github.com/shandysiswandi/gocle/pkg/instrument"
	"github.com/shandysiswandi/gocle/pkg/storage"
)

const (
	prefixMessages  = "messages/"
	contentTypeJSON = "application/json"
)

// Store keeps every message as one JSON object in the bucket.
type Store struct {
	storage storage.Storage
	ins     instrument.Instrumentation
}

func New(s storage.Storage, ins instrument.Instrumentation) *Store {
	return &Store{storage: s, ins: ins}
}

func (s *Store) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("contact.outbound.store").Start(ctx, name)
}

func (s *Store) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, entity.ErrMessageNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func messageKey(id string) string {
	return prefixMessages + id + ".json"
}

func (s *Store) SaveMessage(ctx context.Context, msg entity.Message) (err error) {
	ctx, span := s.startSpan(ctx, "SaveMessage")
	defer func() { s.endSpan(span, err) }()

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	_, err = s.storage.PutObject(ctx, messageKey(msg.ID), bytes.NewReader(body), storage.PutOptions{
		Size:        int64(len(body)),
		ContentType: contentTypeJSON,
		Metadata:    map[string]string{"message-id": msg.ID},
	})
	return err
}

func (s *Store) GetMessage(ctx context.Context, id string) (_ *entity.Message, err error) {
	ctx, span := s.startSpan(ctx, "GetMessage")
	defer func() { s.endSpan(span, err) }()

	return s.read(ctx, messageKey(id))
}

// ListMessages returns newest messages first. Keys embed time ordered ids, so
// reversing the key order sorts by creation time.
func (s *Store) ListMessages(ctx context.Context, offset, limit int) (_ *entity.MessagePage, err error) {
	ctx, span := s.startSpan(ctx, "ListMessages")
	defer func() { s.endSpan(span, err) }()

	objects, err := s.storage.ListObjects(ctx, prefixMessages, storage.ListOptions{})
	if err != nil {
		return nil, err
	}

	keys := lo.FilterMap(objects, func(obj storage.ObjectInfo, _ int) (string, bool) {
		return obj.Key, strings.HasSuffix(obj.Key, ".json")
	})
	slices.Sort(keys)
	slices.Reverse(keys)

	page := &entity.MessagePage{Items: []entity.Message{}, Total: len(keys)}
	if offset < 0 || offset >= len(keys) || limit < 1 {
		return page, nil
	}

	for _, key := range lo.Subset(keys, offset, uint(limit)) {
		msg, err := s.read(ctx, key)
		if errors.Is(err, entity.ErrMessageNotFound) {
			// deleted between list and read
			continue
		}
		if err != nil {
			return nil, err
		}
		page.Items = append(page.Items, *msg)
	}

	return page, nil
}

func (s *Store) read(ctx context.Context, key string) (*entity.Message, error) {
	rc, _, err := s.storage.GetObject(ctx, key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, entity.ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var msg entity.Message
	if err := json.NewDecoder(rc).Decode(&msg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path.Base(key), err)
	}

	return &msg, nil
}
