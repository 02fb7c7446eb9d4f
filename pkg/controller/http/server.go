package http

import (
	"encoding/json"
	"net/http"

	"github.com/commguard/cerberus/pkg/domain/interfaces"
	"github.com/commguard/cerberus/pkg/domain/types"
	"github.com/commguard/cerberus/pkg/utils/errutil"
	"github.com/commguard/cerberus/pkg/utils/safe"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
)

// Server exposes the operational status endpoints. There is no user
// facing surface here: everything member-visible goes through the chat
// platform.
type Server struct {
	router *chi.Mux
	repo   interfaces.Repository
}

// New creates the status HTTP server
func New(repo interfaces.Repository) *Server {
	s := &Server{
		router: chi.NewRouter(),
		repo:   repo,
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(accessLogger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/api/status", s.handleStatus)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	safe.Write(r.Context(), w, []byte("OK"))
}

type statusResponse struct {
	PrimedGuilds   int                        `json:"primed_guilds"`
	TrackedTickets int                        `json:"tracked_tickets"`
	TicketsByState map[types.TicketStatus]int `json:"tickets_by_state"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	guilds, err := s.repo.Invite().GuildCount(ctx)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to count primed guilds"), http.StatusInternalServerError)
		return
	}

	tickets, err := s.repo.Ticket().List(ctx)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to list tickets"), http.StatusInternalServerError)
		return
	}

	resp := statusResponse{
		PrimedGuilds:   guilds,
		TrackedTickets: len(tickets),
		TicketsByState: make(map[types.TicketStatus]int),
	}
	for _, ticket := range tickets {
		resp.TicketsByState[ticket.Status]++
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to encode status response"), http.StatusInternalServerError)
	}
}
