package routes

import (
	"net/http"
	"time"

	"slotbook/handlers"
	"slotbook/middleware"
	"slotbook/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers account and credential endpoints.
func RegisterAuthRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle, auth gin.HandlerFunc) {
	api.POST("/send-code", hb.User.SendCodeHandler)
	api.POST("/register", hb.User.RegisterHandler)
	api.POST("/login", hb.User.LoginHandler)
	api.POST("/restore", hb.User.RestoreHandler)
	api.POST("/logout", auth, hb.User.LogoutHandler)
	api.GET("/search", hb.User.SearchHandler)
}

// RegisterUserRoutes registers profile and media endpoints.
func RegisterUserRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle, auth gin.HandlerFunc) {
	users := api.Group("/users")
	{
		users.GET("/:id", hb.User.GetUserByIDHandler)
		users.GET("/:id/avatar", hb.Media.GetAvatarHandler)
		users.GET("/:id/works", hb.Media.ListWorksHandler)
		users.GET("/:id/works/:workId", hb.Media.GetWorkHandler)

		// Protected routes (Require Authentication)
		users.PUT("", auth, hb.User.UpdateUserHandler)
		users.PUT("/push-token", auth, hb.User.SetPushTokenHandler)
		users.POST("/avatar", auth, hb.Media.UploadAvatarHandler)
		users.POST("/works", auth, hb.Media.UploadWorkHandler)
	}

	masters := api.Group("/masters")
	{
		masters.GET("", hb.User.ListMastersHandler)
		masters.GET("/:username", hb.User.GetMasterHandler)
		masters.DELETE("/works/:id", auth, hb.Media.DeleteWorkHandler)
	}
}

// RegisterScheduleRoutes registers availability endpoints. All of them need a token.
func RegisterScheduleRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle, auth gin.HandlerFunc) {
	sched := api.Group("/schedule", auth)
	{
		sched.GET("/:id", hb.Schedule.GetScheduleHandler)
		sched.PUT("/dayoff", hb.Schedule.SetDayOffHandler)
		sched.PUT("/hours/weekday", hb.Schedule.SetWeekdaySlotsHandler)
		sched.PUT("/hours/date", hb.Schedule.SetDateSlotsHandler)
		sched.DELETE("/hours/date", hb.Schedule.DeleteDateSlotsHandler)
	}
}

// RegisterBookingRoutes registers appointment endpoints.
func RegisterBookingRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle, auth gin.HandlerFunc) {
	appts := api.Group("/appointments", auth)
	{
		appts.POST("", hb.Booking.CreateAppointmentHandler)
		appts.GET("", hb.Booking.ListAppointmentsHandler)
		appts.DELETE("/:id", hb.Booking.CancelAppointmentHandler)
	}
}

// RegisterReviewRoutes registers review endpoints.
func RegisterReviewRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle, auth gin.HandlerFunc) {
	reviews := api.Group("/reviews")
	{
		reviews.GET("/master/:id", hb.Review.ListMasterReviewsHandler)
		reviews.POST("/", auth, hb.Review.CreateReviewHandler)
		reviews.PUT("/:id", auth, hb.Review.UpdateReviewHandler)
		reviews.DELETE("/:id", auth, hb.Review.DeleteReviewHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware under prefix.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, prefix string) {
	handlers.RegisterValidators()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	auth := middleware.JWTAuthMiddleware(hb.UserRepo, hb.Sessions)
	api := r.Group(prefix)

	RegisterAuthRoutes(api, hb, auth)
	RegisterUserRoutes(api, hb, auth)
	RegisterScheduleRoutes(api, hb, auth)
	RegisterBookingRoutes(api, hb, auth)
	RegisterReviewRoutes(api, hb, auth)
	RegisterHealthRoute(r)
	r.NoRoute(utils.NotFoundHandler)
}
