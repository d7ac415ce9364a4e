// Package web serves the chat page, a JSON form of the same call and the
// reset action.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/muhammadolammi/resumeclone/internal/chat"
	"github.com/muhammadolammi/resumeclone/internal/transcript"
)

const chatCookie = "chat_id"

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("index.html").
	Funcs(template.FuncMap{"markdown": renderMarkdown}).
	ParseFS(templateFS, "templates/index.html"))

// Responder is the conversation core the server drives.
type Responder interface {
	Respond(ctx context.Context, message string, history []chat.Turn) string
	Reset() []chat.Turn
}

type Config struct {
	Title string
	// Intro is markdown shown under the title.
	Intro string
	// Archive restores a known chat that is no longer held in memory.
	Archive transcript.Archive
	// MaxChats and IdleTTL bound the in-memory transcripts; zero picks a default.
	MaxChats int
	IdleTTL  time.Duration
}

type Server struct {
	responder Responder
	recorder  transcript.Recorder
	histories *historyStore
	config    Config
	logger    zerolog.Logger
}

func NewServer(responder Responder, recorder transcript.Recorder, config Config, logger zerolog.Logger) *Server {
	if recorder == nil {
		recorder = transcript.Nop{}
	}
	return &Server{
		responder: responder,
		recorder:  recorder,
		histories: newHistoryStore(config.MaxChats, config.IdleTTL),
		config:    config,
		logger:    logger,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("POST /reset", s.handleReset)
	mux.HandleFunc("POST /api/chat", s.handleAPIChat)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	return mux
}

type pageData struct {
	Title string
	Intro string
	Turns []chat.Turn
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	id, known := s.chatID(w, r)
	data := pageData{
		Title: s.config.Title,
		Intro: s.config.Intro,
		Turns: s.history(r.Context(), id, known),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error().Err(err).Msg("failed to render page")
	}
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	id, known := s.chatID(w, r)
	message := r.FormValue("message")

	history := s.history(r.Context(), id, known)
	reply := s.responder.Respond(r.Context(), message, history)
	s.histories.Append(id,
		chat.Turn{Role: chat.RoleUser, Content: message},
		chat.Turn{Role: chat.RoleAssistant, Content: reply},
	)
	s.logger.Debug().Str("chat_id", id.String()).Int("history", len(history)).Msg("answered")

	s.record(r.Context(), transcript.NewExchange(id, message, reply))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleReset starts the browser on a fresh chat id, so saved exchanges of
// the old chat are never restored into the new one.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if old, ok := cookieChatID(r); ok {
		s.histories.Forget(old)
	}
	s.histories.Replace(s.newChat(w), s.responder.Reset())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type apiTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiChatRequest struct {
	Message string    `json:"message"`
	History []apiTurn `json:"history"`
}

type apiChatResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) handleAPIChat(w http.ResponseWriter, r *http.Request) {
	var req apiChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	history := make([]chat.Turn, 0, len(req.History))
	for _, t := range req.History {
		role, err := chat.ParseRole(t.Role)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		history = append(history, chat.Turn{Role: role, Content: t.Content})
	}

	respondWithJSON(w, http.StatusOK, apiChatResponse{
		Reply: s.responder.Respond(r.Context(), req.Message, history),
	})
}

// history returns the chat's displayed transcript. A chat the browser already
// knew about but that is no longer in memory is rebuilt from the archive.
func (s *Server) history(ctx context.Context, id uuid.UUID, known bool) []chat.Turn {
	if turns, ok := s.histories.Get(id); ok || !known || s.config.Archive == nil {
		return turns
	}
	exchanges, err := s.config.Archive.Exchanges(ctx, id)
	if err != nil {
		s.logger.Warn().Err(err).Str("chat_id", id.String()).Msg("failed to restore chat")
		return nil
	}
	turns := make([]chat.Turn, 0, 2*len(exchanges))
	for _, ex := range exchanges {
		turns = append(turns,
			chat.Turn{Role: chat.RoleUser, Content: ex.Question},
			chat.Turn{Role: chat.RoleAssistant, Content: ex.Answer},
		)
	}
	s.histories.Replace(id, turns)
	restored, _ := s.histories.Get(id)
	return restored
}

func (s *Server) record(ctx context.Context, ex transcript.Exchange) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.recorder.Record(ctx, ex); err != nil {
		s.logger.Warn().Err(err).Str("chat_id", ex.ChatID.String()).Msg("failed to record exchange")
	}
}

// chatID returns the browser's chat id and whether the browser sent one,
// issuing a new cookie when it did not.
func (s *Server) chatID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	if id, ok := cookieChatID(r); ok {
		return id, true
	}
	return s.newChat(w), false
}

func cookieChatID(r *http.Request) (uuid.UUID, bool) {
	c, err := r.Cookie(chatCookie)
	if err != nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) newChat(w http.ResponseWriter) uuid.UUID {
	id := uuid.New()
	http.SetCookie(w, &http.Cookie{
		Name:     chatCookie,
		Value:    id.String(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, code int, msg string) {
	respondWithJSON(w, code, map[string]string{"error": msg})
}
