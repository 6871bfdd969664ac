package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mentoria-hub/mentoria-hub/internal/application/command"
	"github.com/mentoria-hub/mentoria-hub/internal/application/query"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/business"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/diagnostic"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/material"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/mentoria"
	"github.com/mentoria-hub/mentoria-hub/internal/interface/http/handlers"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH ENDPOINTS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"service": "mentoria-hub",
		"version": s.config.Version,
	})
}

func (s *Server) health(r *http.Request) handlers.HealthStatus {
	if s.deps.HealthChecker == nil {
		return handlers.HealthStatus{
			Healthy:   true,
			Ready:     true,
			Timestamp: time.Now(),
			Version:   s.config.Version,
		}
	}
	return s.deps.HealthChecker.Check(r.Context())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.health(r)
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, r, code, status)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := s.health(r)
	if !status.Ready {
		writeJSONError(w, r, http.StatusServiceUnavailable, "not_ready", status.Message)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]bool{"ready": true})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]bool{"alive": true})
}

// ══════════════════════════════════════════════════════════════════════════════
// MATERIALS
// ══════════════════════════════════════════════════════════════════════════════

type materialRequest struct {
	Title           string        `json:"titulo"`
	Description     string        `json:"descricao"`
	Type            material.Type `json:"tipo"`
	Mandatory       bool          `json:"obrigatorio"`
	Order           int           `json:"ordem"`
	URL             string        `json:"url"`
	SizeBytes       int64         `json:"tamanho_bytes"`
	DurationSeconds int           `json:"duracao_segundos"`
}

func (s *Server) handleListMaterials(w http.ResponseWriter, r *http.Request) {
	list, err := s.deps.Services.ListMaterials.Handle(r.Context(), actorFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, list)
}

func (s *Server) handleCreateMaterial(w http.ResponseWriter, r *http.Request) {
	s.saveMaterial(w, r, "")
}

func (s *Server) handleUpdateMaterial(w http.ResponseWriter, r *http.Request) {
	s.saveMaterial(w, r, chi.URLParam(r, "materialID"))
}

func (s *Server) saveMaterial(w http.ResponseWriter, r *http.Request, id string) {
	var req materialRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := s.deps.Services.SaveMaterial.Handle(r.Context(), command.SaveMaterialCommand{
		Actor:           actorFrom(r.Context()),
		ID:              id,
		Title:           req.Title,
		Description:     req.Description,
		Type:            req.Type,
		Mandatory:       req.Mandatory,
		Order:           req.Order,
		URL:             req.URL,
		SizeBytes:       req.SizeBytes,
		DurationSeconds: req.DurationSeconds,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	writeJSON(w, r, status, res.Material)
}

// ══════════════════════════════════════════════════════════════════════════════
// MENTORS AND TRAINING
// ══════════════════════════════════════════════════════════════════════════════

type registerMentorRequest struct {
	ID    string `json:"id"`
	Name  string `json:"nome"`
	Email string `json:"email"`
}

type completeMaterialRequest struct {
	Feedback string `json:"feedback"`
	Rating   *int   `json:"avaliacao"`
}

func (s *Server) handleListMentors(w http.ResponseWriter, r *http.Request) {
	mentors, err := s.deps.Services.ListMentors.Handle(r.Context(), actorFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, mentors, len(mentors))
}

func (s *Server) handleRegisterMentor(w http.ResponseWriter, r *http.Request) {
	var req registerMentorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	m, err := s.deps.Services.RegisterMentor.Handle(r.Context(), command.RegisterMentorCommand{
		Actor: actorFrom(r.Context()),
		ID:    req.ID,
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, m)
}

func (s *Server) handleGetMentorProgress(w http.ResponseWriter, r *http.Request) {
	dto, err := s.deps.Services.GetMentorProgress.Handle(r.Context(), query.GetMentorProgressQuery{
		Actor:    actorFrom(r.Context()),
		MentorID: chi.URLParam(r, "mentorID"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto)
}

func (s *Server) handleGetQualification(w http.ResponseWriter, r *http.Request) {
	status, err := s.deps.Services.GetQualification.Handle(r.Context(), query.GetQualificationQuery{
		Actor:    actorFrom(r.Context()),
		MentorID: chi.URLParam(r, "mentorID"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, status)
}

func (s *Server) handleAcceptProtocol(w http.ResponseWriter, r *http.Request) {
	m, err := s.deps.Services.AcceptProtocol.Handle(r.Context(), command.AcceptProtocolCommand{
		Actor:    actorFrom(r.Context()),
		MentorID: chi.URLParam(r, "mentorID"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, m)
}

func (s *Server) handleStartMaterial(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.Services.StartMaterial.Handle(r.Context(), command.StartMaterialCommand{
		Actor:      actorFrom(r.Context()),
		MentorID:   chi.URLParam(r, "mentorID"),
		MaterialID: chi.URLParam(r, "materialID"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	status := http.StatusCreated
	if res.AlreadyStarted {
		status = http.StatusOK
	}
	writeJSON(w, r, status, res.Progress)
}

func (s *Server) handleCompleteMaterial(w http.ResponseWriter, r *http.Request) {
	var req completeMaterialRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := s.deps.Services.CompleteMaterial.Handle(r.Context(), command.CompleteMaterialCommand{
		Actor:      actorFrom(r.Context()),
		MentorID:   chi.URLParam(r, "mentorID"),
		MaterialID: chi.URLParam(r, "materialID"),
		Feedback:   req.Feedback,
		Rating:     req.Rating,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res.Progress)
}

// ══════════════════════════════════════════════════════════════════════════════
// BUSINESSES
// ══════════════════════════════════════════════════════════════════════════════

type createBusinessRequest struct {
	Name string `json:"nome"`
}

type assignMentorRequest struct {
	MentorID string `json:"mentor_id"`
	Notes    string `json:"observacoes"`
}

type unassignMentorRequest struct {
	Reason string `json:"motivo"`
}

func (s *Server) handleListBusinesses(w http.ResponseWriter, r *http.Request) {
	list, err := s.deps.Services.ListBusinesses.Handle(r.Context(), query.ListBusinessesQuery{
		Actor:    actorFrom(r.Context()),
		MentorID: r.URL.Query().Get("mentor_id"),
		Status:   business.Status(r.URL.Query().Get("status")),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, list, len(list))
}

func (s *Server) handleCreateBusiness(w http.ResponseWriter, r *http.Request) {
	var req createBusinessRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	b, err := s.deps.Services.CreateBusiness.Handle(r.Context(), command.CreateBusinessCommand{
		Actor: actorFrom(r.Context()),
		Name:  req.Name,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, b)
}

func (s *Server) handleGetBusiness(w http.ResponseWriter, r *http.Request) {
	dto, err := s.deps.Services.GetBusiness.Handle(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "businessID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto)
}

func (s *Server) handleAssignMentor(w http.ResponseWriter, r *http.Request) {
	var req assignMentorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	b, err := s.deps.Services.AssignMentor.Handle(r.Context(), command.AssignMentorCommand{
		Actor:      actorFrom(r.Context()),
		BusinessID: chi.URLParam(r, "businessID"),
		MentorID:   req.MentorID,
		Notes:      req.Notes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, b)
}

func (s *Server) handleUnassignMentor(w http.ResponseWriter, r *http.Request) {
	var req unassignMentorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	b, err := s.deps.Services.UnassignMentor.Handle(r.Context(), command.UnassignMentorCommand{
		Actor:      actorFrom(r.Context()),
		BusinessID: chi.URLParam(r, "businessID"),
		Reason:     req.Reason,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, b)
}

// ══════════════════════════════════════════════════════════════════════════════
// MENTORIA SESSIONS
// ══════════════════════════════════════════════════════════════════════════════

type scheduleRequest struct {
	ScheduledAt     string `json:"data_agendada"`
	DurationMinutes int    `json:"duracao_minutos"`
}

type transitionRequest struct {
	Reason string `json:"motivo"`
}

type checkoutRequest struct {
	SessionScore *int              `json:"nota_mentoria"`
	MentorScore  *int              `json:"nota_mentor"`
	ProgramScore *int              `json:"nota_programa"`
	Notes        string            `json:"observacoes"`
	NextSteps    mentoria.NextStep `json:"proximos_passos"`
}

type saveDiagnosticResponse struct {
	Diagnostic *diagnostic.Diagnostic  `json:"diagnostico"`
	Steps      []diagnostic.StepResult `json:"etapas"`
	Complete   bool                    `json:"completo"`
}

type checkoutResponse struct {
	Session  *mentoria.Session  `json:"mentoria"`
	Checkout *mentoria.Checkout `json:"checkout"`
}

func (s *Server) handleScheduleFirst(w http.ResponseWriter, r *http.Request) {
	s.schedule(w, r, command.ScheduleFirst)
}

func (s *Server) handleScheduleNext(w http.ResponseWriter, r *http.Request) {
	s.schedule(w, r, command.ScheduleNext)
}

func (s *Server) schedule(w http.ResponseWriter, r *http.Request, mode command.ScheduleMode) {
	var req scheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	session, err := s.deps.Services.ScheduleSession.Handle(r.Context(), command.ScheduleSessionCommand{
		Actor:           actorFrom(r.Context()),
		Mode:            mode,
		BusinessID:      chi.URLParam(r, "businessID"),
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := s.deps.Services.ListSessions.Handle(r.Context(), query.ListSessionsQuery{
		Actor:      actorFrom(r.Context()),
		BusinessID: q.Get("negocio_id"),
		MentorID:   q.Get("mentor_id"),
		Status:     mentoria.Status(q.Get("status")),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, list, len(list))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	dto, err := s.deps.Services.GetSession.Handle(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto)
}

func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	session, err := s.deps.Services.TransitionSession.Handle(r.Context(), command.TransitionSessionCommand{
		Actor:      actorFrom(r.Context()),
		SessionID:  chi.URLParam(r, "sessionID"),
		Transition: mentoria.Transition(chi.URLParam(r, "transition")),
		Reason:     req.Reason,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, session)
}

func (s *Server) handleReschedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	session, err := s.deps.Services.RescheduleSession.Handle(r.Context(), command.RescheduleSessionCommand{
		Actor:           actorFrom(r.Context()),
		SessionID:       chi.URLParam(r, "sessionID"),
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, session)
}

func (s *Server) handleSaveDiagnostic(w http.ResponseWriter, r *http.Request) {
	var d diagnostic.Diagnostic
	if err := decodeJSON(r, &d); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := s.deps.Services.SaveDiagnostic.Handle(r.Context(), command.SaveDiagnosticCommand{
		Actor:      actorFrom(r.Context()),
		SessionID:  chi.URLParam(r, "sessionID"),
		Diagnostic: d,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, saveDiagnosticResponse{
		Diagnostic: res.Diagnostic,
		Steps:      res.Steps,
		Complete:   res.Complete,
	})
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := s.deps.Services.CheckoutSession.Handle(r.Context(), command.CheckoutSessionCommand{
		Actor:        actorFrom(r.Context()),
		SessionID:    chi.URLParam(r, "sessionID"),
		SessionScore: req.SessionScore,
		MentorScore:  req.MentorScore,
		ProgramScore: req.ProgramScore,
		Notes:        req.Notes,
		NextSteps:    req.NextSteps,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, checkoutResponse{Session: res.Session, Checkout: res.Checkout})
}
