package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hotel-booking-api/apperror"
	"hotel-booking-api/controllers"
	"hotel-booking-api/middleware"
	"hotel-booking-api/models"
	"hotel-booking-api/utils"
)

type RouterConfig struct {
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
	Logger         *slog.Logger
}

// SetupRouter รับ Controller Instances เข้ามาเพื่อกำหนด Route
func SetupRouter(
	hc *controllers.HotelController,
	ac *controllers.AccommodationController,
	uc *controllers.UserController,
	tokens middleware.TokenParser,
	resolver middleware.UserResolver,
	cfg RouterConfig,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(cfg.Logger))

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.NoRoute(func(c *gin.Context) {
		utils.AbortWithError(c, apperror.Wrap(apperror.ErrRouteNotFound, "Route %s %s not found", c.Request.Method, c.Request.URL.Path))
	})

	authenticated := middleware.Authenticate(tokens, resolver)
	staff := middleware.RequireRole(models.RoleHotelManager, models.RoleAdmin)
	admin := middleware.RequireRole(models.RoleAdmin)

	api := r.Group("/api/v1")
	{
		hotels := api.Group("/hotels")
		{
			hotels.GET("", hc.GetHotels)
			hotels.GET("/:id", hc.GetHotel)
			hotels.POST("", authenticated, admin, hc.CreateHotel)
			hotels.PUT("/:id", authenticated, staff, hc.UpdateHotel)
			hotels.DELETE("/:id", authenticated, admin, hc.DeleteHotel)
		}

		accommodations := api.Group("/accommodations")
		{
			accommodations.GET("", ac.GetAccommodations)
			accommodations.GET("/:id", ac.GetAccommodation)
			accommodations.POST("", authenticated, staff, ac.CreateAccommodation)
			accommodations.PUT("/:id", authenticated, staff, ac.UpdateAccommodation)
			accommodations.DELETE("/:id", authenticated, staff, ac.DeleteAccommodation)
		}

		users := api.Group("/users")
		{
			limited := middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst)
			users.POST("/register", limited, uc.Register)
			users.POST("/login", limited, uc.Login)

			users.GET("", authenticated, admin, uc.GetUsers)
			users.GET("/:id", authenticated, admin, uc.GetUser)
			users.PUT("/:id", authenticated, uc.UpdateUser)
			users.DELETE("/:id", authenticated, uc.DeleteUser)

			users.POST("/:id/to-manager/:hotelId", authenticated, admin, uc.ConvertToManager)
			users.POST("/to-admin/:newAdminId", authenticated, admin, uc.ConvertToAdmin)
			users.POST("/:id/book/:accommodationId", authenticated, uc.BookAccommodation)
		}
	}

	return r
}
