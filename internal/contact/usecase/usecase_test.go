package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/gocle/internal/contact/entity"
	"github.com/shandysiswandi/gocle/pkg/clock"
	"github.com/shandysiswandi/gocle/pkg/goerror"
	"github.com/shandysiswandi/gocle/pkg/uid"
)

const testID = "0190b6d4-2f3a-7c1e-9a55-3c2a1f0e4b77"

type fakeStore struct {
	saved   []entity.Message
	saveErr error
	getErr  error
	page    *entity.MessagePage
	listErr error

	offset, limit int
}

func (f *fakeStore) SaveMessage(_ context.Context, msg entity.Message) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, msg)
	return nil
}

func (f *fakeStore) GetMessage(_ context.Context, id string) (*entity.Message, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &entity.Message{ID: id}, nil
}

func (f *fakeStore) ListMessages(_ context.Context, offset, limit int) (*entity.MessagePage, error) {
	f.offset, f.limit = offset, limit
	return f.page, f.listErr
}

type fakeMail struct {
	sent []entity.Message
	err  error
}

func (f *fakeMail) SendMessageCopy(_ context.Context, msg entity.Message) error {
	f.sent = append(f.sent, msg)
	return f.err
}

type fakeNotify struct {
	published []entity.Message
	err       error
}

func (f *fakeNotify) PublishMessageReceived(_ context.Context, msg entity.Message) error {
	f.published = append(f.published, msg)
	return f.err
}

type fixture struct {
	store  *fakeStore
	mail   *fakeMail
	notify *fakeNotify
	uc     *Usecase
	now    time.Time
}

func newFixture() *fixture {
	f := &fixture{
		store:  &fakeStore{},
		mail:   &fakeMail{},
		notify: &fakeNotify{},
		now:    time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	f.uc = New(Dependency{
		RepoStore:  f.store,
		RepoMail:   f.mail,
		RepoNotify: f.notify,
		UUID:       uid.Static(testID),
		Clock:      clock.Fixed(f.now),
	})
	return f
}

func TestUsecase_SubmitMessage(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		f := newFixture()

		// Act
		msg, err := f.uc.SubmitMessage(context.Background(), SubmitMessageInput{
			SenderName:  "  Ana  ",
			SenderEmail: "Ana@Example.com",
			Subject:     "Hello",
			Body:        "Hi there",
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, entity.Message{
			ID:          testID,
			SenderName:  "Ana",
			SenderEmail: "ana@example.com",
			Subject:     "Hello",
			Body:        "Hi there",
			CreatedAt:   f.now,
		}, *msg)
		assert.Equal(t, []entity.Message{*msg}, f.store.saved)
		assert.Len(t, f.mail.sent, 1)
		assert.Len(t, f.notify.published, 1)
	})

	t.Run("DefaultSubject", func(t *testing.T) {
		f := newFixture()

		msg, err := f.uc.SubmitMessage(context.Background(), SubmitMessageInput{SenderName: "Ana", SenderEmail: "a@b.co", Body: "x"})

		require.NoError(t, err)
		assert.Equal(t, "Message from Ana", msg.Subject)
	})

	t.Run("StoreFailure", func(t *testing.T) {
		f := newFixture()
		f.store.saveErr = errors.New("bucket unavailable")

		msg, err := f.uc.SubmitMessage(context.Background(), SubmitMessageInput{SenderName: "Ana", SenderEmail: "a@b.co", Body: "x"})

		assert.Nil(t, msg)
		serr, ok := goerror.AsService(err)
		require.True(t, ok)
		assert.Equal(t, goerror.CodeInternal, serr.Code())
		assert.Empty(t, f.mail.sent)
		assert.Empty(t, f.notify.published)
	})

	t.Run("FanOutFailuresAreNotFatal", func(t *testing.T) {
		f := newFixture()
		f.mail.err = errors.New("ses throttled")
		f.notify.err = errors.New("sns down")

		msg, err := f.uc.SubmitMessage(context.Background(), SubmitMessageInput{SenderName: "Ana", SenderEmail: "a@b.co", Body: "x"})

		require.NoError(t, err)
		assert.Equal(t, testID, msg.ID)
		assert.Len(t, f.store.saved, 1)
	})
}

func TestUsecase_ListMessages(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newFixture()
		f.store.page = &entity.MessagePage{Items: []entity.Message{{ID: testID}}, Total: 21}

		page, err := f.uc.ListMessages(context.Background(), ListMessagesInput{Page: 3, PageSize: 10})

		require.NoError(t, err)
		assert.Equal(t, 21, page.Total)
		assert.Equal(t, 20, f.store.offset)
		assert.Equal(t, 10, f.store.limit)
	})

	t.Run("InvalidPage", func(t *testing.T) {
		f := newFixture()

		_, err := f.uc.ListMessages(context.Background(), ListMessagesInput{Page: 0, PageSize: 10})

		serr, ok := goerror.AsService(err)
		require.True(t, ok)
		assert.Equal(t, goerror.CodeBadRequest, serr.Code())
	})

	t.Run("PageOutOfRange", func(t *testing.T) {
		f := newFixture()

		_, err := f.uc.ListMessages(context.Background(), ListMessagesInput{Page: 1 << 62, PageSize: 4})

		serr, ok := goerror.AsService(err)
		require.True(t, ok)
		assert.Equal(t, goerror.CodeBadRequest, serr.Code())
		assert.Zero(t, f.store.limit)
	})

	t.Run("StoreFailure", func(t *testing.T) {
		f := newFixture()
		f.store.listErr = errors.New("boom")

		_, err := f.uc.ListMessages(context.Background(), ListMessagesInput{Page: 1, PageSize: 10})

		serr, ok := goerror.AsService(err)
		require.True(t, ok)
		assert.Equal(t, goerror.CodeInternal, serr.Code())
	})
}

func TestUsecase_GetMessage(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		getErr   error
		wantCode goerror.Code
		wantErr  bool
	}{
		{name: "Found", id: testID},
		{name: "NotUUID", id: "abc", wantErr: true, wantCode: goerror.CodeNotFound},
		{name: "Missing", id: testID, getErr: entity.ErrMessageNotFound, wantErr: true, wantCode: goerror.CodeNotFound},
		{name: "StoreFailure", id: testID, getErr: errors.New("boom"), wantErr: true, wantCode: goerror.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.store.getErr = tt.getErr

			msg, err := f.uc.GetMessage(context.Background(), GetMessageInput{ID: tt.id})

			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, tt.id, msg.ID)
				return
			}

			serr, ok := goerror.AsService(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, serr.Code())
			if tt.wantCode == goerror.CodeNotFound {
				assert.Equal(t, tt.id, serr.Identifier())
			}
		})
	}
}
