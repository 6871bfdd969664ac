// Package application wires the command and query handlers over one set of
// repositories. Interface adapters and the CLI depend on Services instead of
// constructing handlers themselves.
package application

import (
	"github.com/mentoria-hub/mentoria-hub/internal/application/command"
	"github.com/mentoria-hub/mentoria-hub/internal/application/query"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/business"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/material"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/mentor"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/mentoria"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/progress"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/qualification"
)

// Repositories is the persistence a Services instance runs on.
type Repositories struct {
	Materials  material.Repository
	Progress   progress.Repository
	Mentors    mentor.Repository
	Businesses business.Repository
	Sessions   mentoria.Repository
}

// Services holds every command and query handler.
type Services struct {
	// ─────────────────────────────────────────────────────────────────────────
	// Training and qualification
	// ─────────────────────────────────────────────────────────────────────────

	SaveMaterial     *command.SaveMaterialHandler
	StartMaterial    *command.StartMaterialHandler
	CompleteMaterial *command.CompleteMaterialHandler
	RegisterMentor   *command.RegisterMentorHandler
	AcceptProtocol   *command.AcceptProtocolHandler

	ListMaterials     *query.ListMaterialsHandler
	ListMentors       *query.ListMentorsHandler
	GetMentorProgress *query.GetMentorProgressHandler
	GetQualification  *query.GetQualificationHandler

	// ─────────────────────────────────────────────────────────────────────────
	// Businesses
	// ─────────────────────────────────────────────────────────────────────────

	CreateBusiness *command.CreateBusinessHandler
	AssignMentor   *command.AssignMentorHandler
	UnassignMentor *command.UnassignMentorHandler

	GetBusiness    *query.GetBusinessHandler
	ListBusinesses *query.ListBusinessesHandler

	// ─────────────────────────────────────────────────────────────────────────
	// Mentoria sessions
	// ─────────────────────────────────────────────────────────────────────────

	ScheduleSession   *command.ScheduleSessionHandler
	TransitionSession *command.TransitionSessionHandler
	RescheduleSession *command.RescheduleSessionHandler
	SaveDiagnostic    *command.SaveDiagnosticHandler
	CheckoutSession   *command.CheckoutSessionHandler

	GetSession   *query.GetSessionHandler
	ListSessions *query.ListSessionsHandler
}

// NewServices builds every handler over repos.
func NewServices(repos Repositories, rt command.Runtime) *Services {
	evaluator := qualification.NewEvaluator(repos.Mentors, repos.Materials, repos.Progress)

	return &Services{
		SaveMaterial:     command.NewSaveMaterialHandler(repos.Materials, rt),
		StartMaterial:    command.NewStartMaterialHandler(repos.Mentors, repos.Materials, repos.Progress, rt),
		CompleteMaterial: command.NewCompleteMaterialHandler(repos.Mentors, repos.Materials, repos.Progress, rt),
		RegisterMentor:   command.NewRegisterMentorHandler(repos.Mentors, rt),
		AcceptProtocol:   command.NewAcceptProtocolHandler(repos.Mentors, rt),

		ListMaterials:     query.NewListMaterialsHandler(repos.Materials),
		ListMentors:       query.NewListMentorsHandler(repos.Mentors),
		GetMentorProgress: query.NewGetMentorProgressHandler(evaluator),
		GetQualification:  query.NewGetQualificationHandler(evaluator),

		CreateBusiness: command.NewCreateBusinessHandler(repos.Businesses, rt),
		AssignMentor:   command.NewAssignMentorHandler(repos.Businesses, evaluator, rt),
		UnassignMentor: command.NewUnassignMentorHandler(repos.Businesses, rt),

		GetBusiness:    query.NewGetBusinessHandler(repos.Businesses),
		ListBusinesses: query.NewListBusinessesHandler(repos.Businesses),

		ScheduleSession:   command.NewScheduleSessionHandler(repos.Businesses, repos.Sessions, rt),
		TransitionSession: command.NewTransitionSessionHandler(repos.Sessions, rt),
		RescheduleSession: command.NewRescheduleSessionHandler(repos.Sessions, rt),
		SaveDiagnostic:    command.NewSaveDiagnosticHandler(repos.Sessions, rt),
		CheckoutSession:   command.NewCheckoutSessionHandler(repos.Sessions, rt),

		GetSession:   query.NewGetSessionHandler(repos.Sessions),
		ListSessions: query.NewListSessionsHandler(repos.Sessions),
	}
}
