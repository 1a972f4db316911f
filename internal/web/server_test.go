package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"campusbot/internal/assistant"
	"campusbot/internal/config"
	"campusbot/internal/knowledge"
	"campusbot/internal/logging"
	"campusbot/internal/session"
	"campusbot/internal/transcript"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	reply string
	err   error
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.reply, g.err
}

type stubKnowledge struct {
	base *knowledge.Base
	err  error
	path string
}

func (k *stubKnowledge) Current() (*knowledge.Base, error) { return k.base, k.err }
func (k *stubKnowledge) Path() string                      { return k.path }

func loadedKnowledge() *stubKnowledge {
	return &stubKnowledge{
		base: knowledge.NewBase("qa.xlsx", []knowledge.Entry{
			{Question: "Where is the campus?", Answer: "Kigali"},
		}),
		path: "/data/qa.xlsx",
	}
}

func newTestServer(t *testing.T, gen assistant.Generator, kb *stubKnowledge, logo string) (*Server, *session.Store) {
	t.Helper()

	logger := logging.Discard()
	sessions := session.NewStore()
	ex := assistant.NewExchange(gen, kb, time.Second, logger)
	srv, err := NewServer(ex, kb, sessions, Options{LogoFile: logo, ModelName: "gemini-test"}, logger)
	require.NoError(t, err)
	return srv, sessions
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestIndex_ChatView(t *testing.T) {
	srv, sessions := newTestServer(t, &stubGenerator{reply: "hi"}, loadedKnowledge(), "")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Welcome to Kepler CampusBot")
	assert.Contains(t, body, config.ChatPlaceholder)
	assert.Contains(t, body, "Navigation")
	assert.NotContains(t, body, "<img")
	assert.Equal(t, 1, sessions.Len())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
}

func TestIndex_AboutView(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{}, loadedKnowledge(), "")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?page=about", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, config.AboutTitle)
	assert.Contains(t, body, "+250789773042")
	assert.NotContains(t, body, `name="message"`)
}

func TestIndex_UnknownPageFallsBackToChat(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{}, loadedKnowledge(), "")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?page=settings", nil))

	assert.Contains(t, rec.Body.String(), `name="message"`)
}

func TestIndex_MissingDataFile(t *testing.T) {
	kb := &stubKnowledge{
		err:  knowledge.ErrDataSourceNotFound,
		path: "/data/Chatbot Questions & Answers.xlsx",
	}
	srv, _ := newTestServer(t, &stubGenerator{}, kb, "")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "not found. Please make sure it&#39;s in the same directory.")
	assert.NotContains(t, body, `name="message"`)
	assert.NotContains(t, body, "Navigation")
}

func TestChatForm_RoundTrip(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{reply: "It is in **Kigali**."}, loadedKnowledge(), "")
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	client := newClient(t)

	resp, err := client.PostForm(ts.URL+"/chat", url.Values{"message": {"Where is the campus?"}})
	require.NoError(t, err)
	body := readBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/", resp.Request.URL.Path)
	assert.Equal(t, "chat", resp.Request.URL.Query().Get("page"))
	assert.Contains(t, body, "Where is the campus?")
	assert.Contains(t, body, "<strong>Kigali</strong>")

	// second turn lands in the same session
	resp, err = client.PostForm(ts.URL+"/chat", url.Values{"message": {"Thanks"}})
	require.NoError(t, err)
	body = readBody(t, resp)
	assert.Equal(t, 4, strings.Count(body, `class="msg `))
}

func TestChatForm_BlankMessage(t *testing.T) {
	srv, sessions := newTestServer(t, &stubGenerator{reply: "unused"}, loadedKnowledge(), "")
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	client := newClient(t)

	resp, err := client.PostForm(ts.URL+"/chat", url.Values{"message": {"   "}})
	require.NoError(t, err)
	body := readBody(t, resp)

	assert.Equal(t, "rejected", resp.Request.URL.Query().Get("status"))
	assert.Contains(t, body, "Please type a question first.")
	assert.Equal(t, 0, strings.Count(body, `class="msg `))
	assert.Equal(t, 1, sessions.Len())
}

func TestChatForm_GenerationFailureShowsFallback(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{err: assert.AnError}, loadedKnowledge(), "")
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	client := newClient(t)

	resp, err := client.PostForm(ts.URL+"/chat", url.Values{"message": {"Hello"}})
	require.NoError(t, err)
	body := readBody(t, resp)

	assert.Equal(t, "failed", resp.Request.URL.Query().Get("status"))
	assert.Contains(t, body, "The assistant could not answer that question.")
	assert.Equal(t, 2, strings.Count(body, `class="msg `))
}

func TestIndex_FallsBackToSessionPage(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{}, loadedKnowledge(), "")
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	client := newClient(t)

	resp, err := client.Get(ts.URL + "/nav/about")
	require.NoError(t, err)
	readBody(t, resp)

	// no page parameter: the last selected page is shown
	resp, err = client.Get(ts.URL + "/")
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.Contains(t, body, config.AboutTitle)
	assert.NotContains(t, body, `name="message"`)

	resp, err = client.Get(ts.URL + "/?page=chat")
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), `name="message"`)

	resp, err = client.Get(ts.URL + "/")
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), `name="message"`)
}

func TestNav_PersistsPageOnSession(t *testing.T) {
	srv, sessions := newTestServer(t, &stubGenerator{}, loadedKnowledge(), "")
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	client := newClient(t)

	resp, err := client.Get(ts.URL + "/nav/about")
	require.NoError(t, err)
	body := readBody(t, resp)

	assert.Equal(t, "about", resp.Request.URL.Query().Get("page"))
	assert.Contains(t, body, config.AboutTitle)
	require.Equal(t, 1, sessions.Len())

	u, err := url.Parse(ts.URL)
	require.NoError(t, err)
	cookies := client.Jar.Cookies(u)
	require.Len(t, cookies, 1)
	sess, ok := sessions.Get(cookies[0].Value)
	require.True(t, ok)
	assert.Equal(t, "about", sess.Page().String())
}

func TestChatAPI(t *testing.T) {
	tests := []struct {
		name       string
		gen        *stubGenerator
		kb         *stubKnowledge
		body       string
		wantStatus int
		wantOut    assistant.Outcome
		wantMsgs   int
		wantReply  string
	}{
		{
			name:       "answered",
			gen:        &stubGenerator{reply: "Kigali"},
			kb:         loadedKnowledge(),
			body:       `{"message":"Where?"}`,
			wantStatus: http.StatusOK,
			wantOut:    assistant.OutcomeAnswered,
			wantMsgs:   2,
			wantReply:  "Kigali",
		},
		{
			name:       "blank",
			gen:        &stubGenerator{reply: "unused"},
			kb:         loadedKnowledge(),
			body:       `{"message":"  "}`,
			wantStatus: http.StatusBadRequest,
			wantOut:    assistant.OutcomeRejected,
		},
		{
			name:       "knowledge missing",
			gen:        &stubGenerator{reply: "unused"},
			kb:         &stubKnowledge{err: knowledge.ErrDataSourceNotFound},
			body:       `{"message":"Where?"}`,
			wantStatus: http.StatusServiceUnavailable,
			wantOut:    assistant.OutcomeUnavailable,
		},
		{
			name:       "model error",
			gen:        &stubGenerator{err: assert.AnError},
			kb:         loadedKnowledge(),
			body:       `{"message":"Where?"}`,
			wantStatus: http.StatusBadGateway,
			wantOut:    assistant.OutcomeFailed,
			wantMsgs:   2,
			wantReply:  config.FallbackReply,
		},
		{
			name:       "empty completion",
			gen:        &stubGenerator{reply: "  "},
			kb:         loadedKnowledge(),
			body:       `{"message":"Where?"}`,
			wantStatus: http.StatusBadGateway,
			wantOut:    assistant.OutcomeEmpty,
			wantMsgs:   2,
			wantReply:  config.FallbackReply,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tt.gen, tt.kb, "")

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(tt.body))
			srv.Handler().ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var resp ChatResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantOut, resp.Outcome)
			assert.Equal(t, tt.wantReply, resp.Reply)
			assert.Len(t, resp.Messages, tt.wantMsgs)
			if tt.wantMsgs > 0 {
				assert.Equal(t, transcript.RoleUser, resp.Messages[0].Role)
				assert.Equal(t, transcript.RoleAssistant, resp.Messages[1].Role)
			}
		})
	}
}

func TestChatAPI_InvalidJSON(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{}, loadedKnowledge(), "")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString("{")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTranscript_FollowsSessionCookie(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{reply: "Kigali"}, loadedKnowledge(), "")
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	client := newClient(t)

	resp, err := client.Post(ts.URL+"/api/chat", "application/json", strings.NewReader(`{"message":"Where?"}`))
	require.NoError(t, err)
	readBody(t, resp)

	resp, err = client.Get(ts.URL + "/api/transcript")
	require.NoError(t, err)
	var tr TranscriptResponse
	require.NoError(t, json.Unmarshal([]byte(readBody(t, resp)), &tr))
	assert.NotEmpty(t, tr.Session)
	require.Len(t, tr.Messages, 2)
	assert.Equal(t, "Where?", tr.Messages[0].Content)
	assert.Equal(t, "Kigali", tr.Messages[1].Content)

	// a fresh visitor gets an empty transcript
	resp, err = http.Get(ts.URL + "/api/transcript")
	require.NoError(t, err)
	var fresh TranscriptResponse
	require.NoError(t, json.Unmarshal([]byte(readBody(t, resp)), &fresh))
	assert.NotEqual(t, tr.Session, fresh.Session)
	assert.Empty(t, fresh.Messages)
}

func TestSchema(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{}, loadedKnowledge(), "")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/schema", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var doc map[string]map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Contains(t, doc, "chat_request")
	assert.Contains(t, doc, "chat_response")
	assert.Equal(t, "object", doc["chat_request"]["type"])
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{}, loadedKnowledge(), "")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var h HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &h))
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, 1, h.Entries)
	assert.Equal(t, "gemini-test", h.Model)

	srv, _ = newTestServer(t, &stubGenerator{}, &stubKnowledge{err: knowledge.ErrDataSourceNotFound}, "")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLogo(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{}, loadedKnowledge(), filepath.Join(t.TempDir(), "missing.png"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/logo", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	logo := filepath.Join(t.TempDir(), "kepler-logo.png")
	require.NoError(t, os.WriteFile(logo, []byte("\x89PNG\r\n\x1a\n"), 0o644))
	srv, _ = newTestServer(t, &stubGenerator{}, loadedKnowledge(), logo)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/logo", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, rec.Body.String(), `<img src="/logo"`)
}

func TestRecoverMiddleware(t *testing.T) {
	h := recoverMiddleware(logging.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMarkdownSanitizes(t *testing.T) {
	out := string(newMarkdown().HTML("**bold** <script>alert(1)</script>"))
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.NotContains(t, out, "<script>")
}
