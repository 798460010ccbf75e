package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hotel-booking-api/auth"
	"hotel-booking-api/config"
	"hotel-booking-api/controllers"
	"hotel-booking-api/repository"
	"hotel-booking-api/services"
)

// App is the wired application: services built on one store and the router
// that exposes them.
type App struct {
	Router *gin.Engine
	Admins *services.AdminService
}

func NewApp(db *gorm.DB, cfg config.Config, logger *slog.Logger) *App {
	store := repository.NewStore(db)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)

	hotelService := services.NewHotelService(store, logger)
	accommodationService := services.NewAccommodationService(store, logger)
	bookingService := services.NewBookingService(store, logger)
	userService := services.NewUserService(store, tokens, bookingService, logger)
	adminService := services.NewAdminService(userService, logger)

	router := SetupRouter(
		controllers.NewHotelController(hotelService),
		controllers.NewAccommodationController(accommodationService),
		controllers.NewUserController(userService, bookingService),
		tokens,
		userService,
		RouterConfig{
			CORSOrigins:    cfg.CORSOrigins,
			RateLimitRPS:   cfg.RateLimitRPS,
			RateLimitBurst: cfg.RateLimitBurst,
			Logger:         logger,
		},
	)
	return &App{Router: router, Admins: adminService}
}
