package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"

	"campusbot/internal/assistant"
	"campusbot/internal/page"
	"campusbot/internal/transcript"
	"campusbot/internal/view"

	"github.com/gorilla/mux"
)

const maxBodyBytes = 64 << 10

// handleIndex renders the view selected by the page query parameter, or the
// session's last page when the parameter is absent.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	p := sess.Page()
	if r.URL.Query().Has(page.Param) {
		p = page.Parse(r.URL.Query().Get(page.Param))
		sess.SetPage(p)
	}

	base, err := s.knowledge.Current()
	model := view.Build(view.Input{
		Page:         p,
		Messages:     sess.Messages(),
		Knowledge:    base,
		KnowledgeErr: err,
		DataFile:     s.knowledge.Path(),
		LogoURL:      s.logoURL(),
		ModelName:    s.opts.ModelName,
		Notice:       view.NoticeFor(assistant.Outcome(r.URL.Query().Get("status"))),
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if model.Error != "" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := s.templates.ExecuteTemplate(w, "index.html", model); err != nil {
		s.logger.Error("failed to render page", "err", err)
	}
}

// handleChatForm processes a chat submission and redirects back to the chat
// view so a reload does not resubmit.
func (s *Server) handleChatForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	sess := s.session(w, r)
	result := s.exchange.Reply(r.Context(), sess, r.PostForm.Get("message"))
	sess.SetPage(page.Chat)

	target := "/" + page.Chat.Query()
	if !result.Answered() {
		target += "&status=" + url.QueryEscape(string(result.Outcome))
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// handleNav implements the "select chat" and "select about" actions.
func (s *Server) handleNav(w http.ResponseWriter, r *http.Request) {
	p := page.Parse(mux.Vars(r)["page"])
	s.session(w, r).SetPage(p)
	http.Redirect(w, r, "/"+p.Query(), http.StatusSeeOther)
}

// handleLogo serves the configured logo image, or 404 when it is absent.
func (s *Server) handleLogo(w http.ResponseWriter, r *http.Request) {
	if !s.hasLogo() {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, s.opts.LogoFile)
}

func (s *Server) handleChatAPI(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ChatResponse{Outcome: assistant.OutcomeRejected, Error: "invalid JSON body"})
		return
	}

	sess := s.session(w, r)
	result := s.exchange.Reply(r.Context(), sess, req.Message)

	resp := ChatResponse{Outcome: result.Outcome, Reply: result.Reply}
	if result.Recorded() {
		resp.Messages = sess.Messages()
	}
	if notice := view.NoticeFor(result.Outcome); notice != "" {
		resp.Error = notice
	}
	writeJSON(w, statusFor(result.Outcome), resp)
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	msgs := sess.Messages()
	if msgs == nil {
		msgs = []transcript.Message{}
	}
	writeJSON(w, http.StatusOK, TranscriptResponse{Session: sess.ID, Messages: msgs})
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, apiSchemas())
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "ok",
		Knowledge: "loaded",
		Sessions:  s.sessions.Len(),
		Model:     s.opts.ModelName,
	}
	status := http.StatusOK

	base, err := s.knowledge.Current()
	if err != nil {
		resp.Status = "degraded"
		resp.Knowledge = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		resp.Entries = base.Len()
	}
	writeJSON(w, status, resp)
}

func (s *Server) hasLogo() bool {
	if s.opts.LogoFile == "" {
		return false
	}
	info, err := os.Stat(s.opts.LogoFile)
	return err == nil && !info.IsDir()
}

func (s *Server) logoURL() string {
	if s.hasLogo() {
		return "/logo"
	}
	return ""
}

func statusFor(o assistant.Outcome) int {
	switch o {
	case assistant.OutcomeAnswered:
		return http.StatusOK
	case assistant.OutcomeRejected:
		return http.StatusBadRequest
	case assistant.OutcomeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func isUser(role transcript.Role) bool { return role == transcript.RoleUser }
