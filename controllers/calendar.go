// controllers/calendar.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"repairpro-backend/models"
	"repairpro-backend/repository"
	"repairpro-backend/services"
	"repairpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CalendarController struct {
	Repo  *repository.CalendarRepo
	Hours *services.OpeningHoursService
}

// Status reports whether the shop is open right now.
func (ctl *CalendarController) Status(c *gin.Context) {
	status := ctl.Hours.Status(c.Request.Context(), time.Now())
	c.JSON(http.StatusOK, status)
}

// Day resolves the effective schedule for one date.
func (ctl *CalendarController) Day(c *gin.Context) {
	date, err := utils.ParseDate(c.Param("date"), ctl.Hours.Location())
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, ctl.Hours.ResolveDay(c.Request.Context(), date))
}

type DayScheduleInput struct {
	DayOfWeek *int            `json:"dayOfWeek" binding:"required,min=0,max=6"`
	Season    string          `json:"season" binding:"required,oneof=standard winter"`
	IsClosed  bool            `json:"isClosed"`
	Periods   []models.Period `json:"periods"`
}

// UpsertDaySchedule creates or replaces one weekly template row.
func (ctl *CalendarController) UpsertDaySchedule(c *gin.Context) {
	var input DayScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if err := validatePeriods(input.IsClosed, input.Periods); err != nil {
		utils.RespondWithServiceError(c, err)
		return
	}

	ds := models.DaySchedule{
		DayOfWeek: *input.DayOfWeek,
		Season:    models.Season(input.Season),
		IsClosed:  input.IsClosed,
		Periods:   input.Periods,
	}
	if err := ctl.Repo.UpsertDaySchedule(c.Request.Context(), &ds); err != nil {
		utils.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ds)
}

func (ctl *CalendarController) ListDaySchedules(c *gin.Context) {
	rows, err := ctl.Repo.ListDaySchedules(c.Request.Context())
	if err != nil {
		utils.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

type HolidayInput struct {
	Name         string          `json:"name" binding:"required"`
	Date         *string         `json:"date"`
	IsRecurring  bool            `json:"isRecurring"`
	Month        int             `json:"month" binding:"omitempty,min=1,max=12"`
	Day          int             `json:"day" binding:"omitempty,min=1,max=31"`
	IsClosed     *bool           `json:"isClosed"`
	SpecialHours []models.Period `json:"specialHours"`
}

func (ctl *CalendarController) CreateHoliday(c *gin.Context) {
	var input HolidayInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	h := models.Holiday{
		Name:         input.Name,
		IsRecurring:  input.IsRecurring,
		Month:        input.Month,
		Day:          input.Day,
		IsClosed:     true,
		SpecialHours: input.SpecialHours,
	}
	if input.IsClosed != nil {
		h.IsClosed = *input.IsClosed
	}

	if input.IsRecurring {
		if input.Month == 0 || input.Day == 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "Recurring holidays need month and day")
			return
		}
	} else {
		if input.Date == nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Holidays need a date or a recurring month-day")
			return
		}
		date, err := utils.ParseDate(*input.Date, ctl.Hours.Location())
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		h.Date = &date
	}

	if err := validatePeriods(h.IsClosed, input.SpecialHours); err != nil {
		utils.RespondWithServiceError(c, err)
		return
	}

	if err := ctl.Repo.CreateHoliday(c.Request.Context(), &h); err != nil {
		utils.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h)
}

func (ctl *CalendarController) ListHolidays(c *gin.Context) {
	rows, err := ctl.Repo.ListHolidays(c.Request.Context())
	if err != nil {
		utils.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (ctl *CalendarController) DeleteHoliday(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid holiday ID format")
		return
	}

	if err := ctl.Repo.DeleteHoliday(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Holiday not found")
			return
		}
		utils.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Holiday deleted successfully"})
}

// validatePeriods enforces the template invariants: closed days carry no
// periods, each period is a valid same-day interval, and periods are
// ordered without overlap.
func validatePeriods(isClosed bool, periods []models.Period) error {
	if isClosed {
		if len(periods) > 0 {
			return utils.NewValidationError("A closed day cannot have open periods")
		}
		return nil
	}

	prevClose := -1
	for _, p := range periods {
		open, err := utils.ParseClock(p.Open)
		if err != nil {
			return utils.NewValidationError(err.Error())
		}
		closeMin, err := utils.ParseClock(p.Close)
		if err != nil {
			return utils.NewValidationError(err.Error())
		}
		if open >= closeMin {
			return utils.NewValidationError("Period must open before it closes")
		}
		if open < prevClose {
			return utils.NewValidationError("Periods must be ordered and non-overlapping")
		}
		prevClose = closeMin
	}
	return nil
}
