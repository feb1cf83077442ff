package routes

import (
	"repairpro-backend/config"
	"repairpro-backend/controllers"
	"repairpro-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(appointments *controllers.AppointmentController, calendar *controllers.CalendarController) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	// Open/closed status needs no login.
	r.GET("/api/opening-hours/status", calendar.Status)
	r.GET("/api/opening-hours/day/:date", calendar.Day)

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		appts := api.Group("/appointments")
		{
			appts.POST("", appointments.Create)
			appts.GET("", appointments.List)
			appts.GET("/:id", appointments.Get)
			appts.GET("/:id/calendar.ics", appointments.ExportICS)
			appts.POST("/:id/respond", appointments.Respond)
			appts.POST("/:id/answer", appointments.AnswerQuestion)
			appts.POST("/:id/reschedule", appointments.Reschedule)
			appts.POST("/:id/cancel", appointments.Cancel)

			staff := appts.Group("", utils.RequireStaff())
			{
				staff.GET("/requests", appointments.ListRequests)
				staff.GET("/ongoing", appointments.ListOngoing)
				staff.GET("/unregistered", appointments.ListUnregistered)
				staff.POST("/:id/propose", appointments.Propose)
				staff.POST("/:id/confirm", appointments.Confirm)
				staff.POST("/:id/register", appointments.Register)
				staff.POST("/:id/question", appointments.AskQuestion)
			}
		}

		cal := api.Group("/calendar", utils.RequireStaff())
		{
			cal.GET("/schedules", calendar.ListDaySchedules)
			cal.PUT("/schedules", calendar.UpsertDaySchedule)
			cal.GET("/holidays", calendar.ListHolidays)
			cal.POST("/holidays", calendar.CreateHoliday)
			cal.DELETE("/holidays/:id", calendar.DeleteHoliday)
		}
	}

	return r
}
