package main

import (
	"fmt"

	"repairpro-backend/config"
	"repairpro-backend/controllers"
	"repairpro-backend/models"
	"repairpro-backend/repository"
	"repairpro-backend/routes"
	"repairpro-backend/services"
	"repairpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found")
	}
	config.LoadConfig()
	utils.InitializeLogger()
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Appointment{},
		&models.DaySchedule{},
		&models.Holiday{},
		&models.Notification{},
	)
}

func main() {
	logger := utils.GetLogger()
	defer logger.Sync()

	calendarRepo := repository.NewCalendarRepo(config.DB)
	appointmentRepo := repository.NewAppointmentRepo(config.DB)
	userRepo := repository.NewUserRepo(config.DB)
	notificationRepo := repository.NewNotificationRepo(config.DB)

	sms := services.NewTwilioSender(
		config.AppConfig.TwilioAccountSID,
		config.AppConfig.TwilioAuthToken,
		config.AppConfig.TwilioFromNumber,
	)
	notifier := services.NewDefaultNotifier(notificationRepo, userRepo, sms)

	hours := services.NewOpeningHoursService(calendarRepo, services.BuiltinDefaultWeek(), config.Location)
	availability := services.NewAvailabilityService(hours)
	appointments := services.NewAppointmentService(appointmentRepo, userRepo, notifier, availability, config.Location)

	reminders := services.NewReminderService(appointmentRepo, notifier, config.Location, config.AppConfig.ReminderInterval)
	reminders.Start()
	defer reminders.Stop()

	r := routes.SetupRouter(
		&controllers.AppointmentController{Service: appointments},
		&controllers.CalendarController{Repo: calendarRepo, Hours: hours},
	)
	printRoutes(r)

	logger.Info("listening", zap.String("port", config.AppConfig.AppPort))
	r.Run(":" + config.AppConfig.AppPort)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
