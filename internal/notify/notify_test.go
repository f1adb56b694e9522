package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dorm_booking/internal/config"
	"dorm_booking/internal/db/dbtest"
	"dorm_booking/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTransport struct {
	sent []Message
	err  error
}

func (r *recordingTransport) Send(ctx context.Context, msg Message) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func TestRender(t *testing.T) {
	got := Render("Dear [Student Name], your [Room Type] room is approved. [Your Name]", Vars{
		StudentName: "Ada Lovelace",
		RoomType:    "Double",
		StaffName:   "Grace Hopper",
	})
	assert.Equal(t, "Dear Ada Lovelace, your Double room is approved. Grace Hopper", got)
}

func TestRenderHTMLEscapesValues(t *testing.T) {
	got := RenderHTML("<p>Dear [Student Name],</p>", Vars{StudentName: `<script>alert("x")</script> & co`})
	assert.Equal(t, "<p>Dear &lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt; &amp; co,</p>", got)
}

func TestTemplateStoreSaveUpserts(t *testing.T) {
	store := NewTemplateStore(dbtest.Open(t))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.EmailTemplate{Status: domain.StatusApproved, Subject: "v1", Body: "b1"}))
	require.NoError(t, store.Save(ctx, &domain.EmailTemplate{Status: domain.StatusApproved, Subject: "v2", Body: "b2"}))

	tpls, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, tpls, 1)
	assert.Equal(t, "v2", tpls[0].Subject)
	assert.Equal(t, "b2", tpls[0].Body)

	_, err = store.Get(ctx, domain.StatusPending)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestDispatcherNotify(t *testing.T) {
	store := NewTemplateStore(dbtest.Open(t))
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &domain.EmailTemplate{
		Status:  domain.StatusApproved,
		Subject: "[Room Type] approved",
		Body:    "<p>Hi [Student Name]</p><p>[Your Name]</p>",
	}))

	transport := &recordingTransport{}
	d := NewDispatcher(store, transport)
	err := d.Notify(ctx, Notice{
		Status:    domain.StatusApproved,
		Recipient: "ada@example.edu",
		Vars:      Vars{StudentName: "Ada <b>", RoomType: "Single", StaffName: "Warden"},
	})
	require.NoError(t, err)
	require.Len(t, transport.sent, 1)
	assert.Equal(t, "ada@example.edu", transport.sent[0].To)
	assert.Equal(t, "Single approved", transport.sent[0].Subject)
	assert.Equal(t, "<p>Hi Ada &lt;b&gt;</p><p>Warden</p>", transport.sent[0].HTML)
}

func TestDispatcherMissingTemplate(t *testing.T) {
	d := NewDispatcher(NewTemplateStore(dbtest.Open(t)), &recordingTransport{})
	err := d.Notify(context.Background(), Notice{Status: domain.StatusApproved, Recipient: "a@b"})
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestDispatcherSwallowsTransportFailure(t *testing.T) {
	store := NewTemplateStore(dbtest.Open(t))
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &domain.EmailTemplate{Status: domain.StatusApproved, Subject: "s", Body: "b"}))

	d := NewDispatcher(store, &recordingTransport{err: errors.New("smtp down")})
	assert.NoError(t, d.Notify(ctx, Notice{Status: domain.StatusApproved, Recipient: "a@b"}))
}

func TestWebhookTransport(t *testing.T) {
	var got map[string]string
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	tr := NewWebhookTransport(srv.URL, "tok")
	require.NoError(t, tr.Send(context.Background(), Message{To: "a@b", Subject: "s", HTML: "<p>x</p>"}))
	assert.Equal(t, "Bearer tok", auth)
	assert.Equal(t, "a@b", got["to"])
	assert.Equal(t, "<p>x</p>", got["html"])
}

func TestWebhookTransportRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewWebhookTransport(srv.URL, "").Send(context.Background(), Message{To: "a@b"})
	assert.Error(t, err)
}

func TestSMTPBuildHasTextAlternative(t *testing.T) {
	tr := NewSMTPTransport(config.Mail{SMTPHost: "smtp.example.edu", SMTPPort: 587, From: "dorms@example.edu", FromName: "Dorm Finder"})
	raw, err := tr.build(Message{To: "ada@example.edu", Subject: "Approved", HTML: "<p>Hello <strong>Ada</strong></p>"})
	require.NoError(t, err)

	body := string(raw)
	assert.Contains(t, body, "To: ada@example.edu\r\n")
	assert.Contains(t, body, "multipart/alternative")
	assert.Contains(t, body, "text/plain; charset=utf-8")
	assert.Contains(t, body, "Hello **Ada**")
	assert.True(t, strings.Contains(body, "<strong>Ada</strong>"))
}

func TestNewTransport(t *testing.T) {
	tr, err := NewTransport(config.Mail{Transport: "log"})
	require.NoError(t, err)
	assert.IsType(t, LogTransport{}, tr)

	_, err = NewTransport(config.Mail{Transport: "smtp"})
	assert.Error(t, err)

	_, err = NewTransport(config.Mail{Transport: "pigeon"})
	assert.Error(t, err)
}
