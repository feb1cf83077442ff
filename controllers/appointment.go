// controllers/appointment.go
package controllers

import (
	"net/http"
	"strings"

	"repairpro-backend/services"
	"repairpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AppointmentController struct {
	Service *services.AppointmentService
}

// currentUserID reads the authenticated user's ID from the Gin context.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return uuid.Nil, false
	}
	str, _ := raw.(string)
	id, err := uuid.Parse(str)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid user ID in token")
		return uuid.Nil, false
	}
	return id, true
}

func isStaff(c *gin.Context) bool {
	role, _ := c.Get("role")
	roleStr, _ := role.(string)
	return utils.IsStaffRole(roleStr)
}

func appointmentID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return uuid.Nil, false
	}
	return id, true
}

type CreateAppointmentRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Type        string  `json:"type" binding:"omitempty,oneof=service pickup delivery inspection consultation repair property_viewing other"`
	TicketID    *string `json:"ticketId"`
	Date        *string `json:"date"`
	StartTime   *string `json:"startTime"`
	EndTime     *string `json:"endTime"`
}

// Create books an appointment or files a dateless request.
func (ctl *AppointmentController) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var ticketID *uuid.UUID
	if req.TicketID != nil && *req.TicketID != "" {
		parsed, err := uuid.Parse(*req.TicketID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid ticket ID format")
			return
		}
		ticketID = &parsed
	}

	appt, err := ctl.Service.Create(c.Request.Context(), services.CreateAppointmentInput{
		CustomerID:  userID,
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		TicketID:    ticketID,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsStaff:     isStaff(c),
	})
	if err != nil {
		utils.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

// List returns the authenticated user's own appointments, optionally
// filtered by a comma-separated status list.
func (ctl *AppointmentController) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var statuses []string
	if raw := c.Query("status"); raw != "" {
		statuses = strings.Split(raw, ",")
	}

	appts, err := ctl.Service.ListForCustomer(c.Request.Context(), userID, statuses)
	if err != nil {
		utils.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appts)
}

func (ctl *AppointmentController) ListRequests(c *gin.Context) {
	appts, err := ctl.Service.ListRequests(c.Request.Context())
	if err != nil {
		utils.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appts)
}

func (ctl *AppointmentController) ListOngoing(c *gin.Context) {
	appts, err := ctl.Service.ListOngoing(c.Request.Context())
	if err != nil {
		utils.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appts)
}

func (ctl *AppointmentController) ListUnregistered(c *gin.Context) {
	appts, err := ctl.Service.ListUnregistered(c.Request.Context())
	if err != nil {
		utils.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appts)
}

func (ctl *AppointmentController) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	appt, err := ctl.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		utils.RespondWithServiceError(c, err)
		return
	}
	if appt.CustomerID != userID && !isStaff(c) {
		utils.RespondWithError(c, http.StatusForbidden, "Not your appointment")
		return
	}
	c.JSON(http.StatusOK, appt)
}

type ProposeRequest struct {
	Date string `json:"date" binding:"required"`
	Text string `json:"text"`
}

func (ctl *AppointmentController) Propose(c *gin.Context) {
	staffID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	var req ProposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	appt, err := ctl.Service.Propose(c.Request.Context(), id, staffID, req.Date, req.Text)
	if err != nil {
		utils.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

type RespondRequest struct {
	Accept  *bool  `json:"accept" binding:"required"`
	Message string `json:"message"`
}

func (ctl *AppointmentController) Respond(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	appt, err := ctl.Service.RespondToProposal(c.Request.Context(), id, userID, *req.Accept, req.Message)
	if err != nil {
		utils.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (ctl *AppointmentController) Confirm(c *gin.Context) {
	staffID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	appt, err := ctl.Service.Confirm(c.Request.Context(), id, staffID)
	if err != nil {
		utils.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (ctl *AppointmentController) Register(c *gin.Context) {
	staffID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	appt, err := ctl.Service.Register(c.Request.Context(), id, staffID)
	if err != nil {
		utils.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

type QuestionRequest struct {
	Question string `json:"question" binding:"required"`
}

func (ctl *AppointmentController) AskQuestion(c *gin.Context) {
	staffID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	appt, err := ctl.Service.AskQuestion(c.Request.Context(), id, staffID, req.Question)
	if err != nil {
		utils.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

type AnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

func (ctl *AppointmentController) AnswerQuestion(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	appt, err := ctl.Service.AnswerQuestion(c.Request.Context(), id, userID, req.Answer)
	if err != nil {
		utils.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

type RescheduleRequest struct {
	Date      string  `json:"date" binding:"required"`
	StartTime string  `json:"startTime" binding:"required"`
	EndTime   *string `json:"endTime"`
}

func (ctl *AppointmentController) Reschedule(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	appt, err := ctl.Service.Reschedule(c.Request.Context(), id, userID, services.RescheduleInput{
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		IsStaff:   isStaff(c),
	})
	if err != nil {
		utils.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

func (ctl *AppointmentController) Cancel(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	appt, err := ctl.Service.Cancel(c.Request.Context(), id, userID, req.Reason)
	if err != nil {
		utils.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// ExportICS serves the appointment as an iCalendar file.
func (ctl *AppointmentController) ExportICS(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	appt, err := ctl.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		utils.RespondWithServiceError(c, err)
		return
	}
	if appt.CustomerID != userID && !isStaff(c) {
		utils.RespondWithError(c, http.StatusForbidden, "Not your appointment")
		return
	}

	ics, err := services.BuildICalendar(appt, ctl.Service.Location())
	if err != nil {
		utils.RespondWithServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="appointment.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(ics))
}
