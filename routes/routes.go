package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"guesthouse-backend/controllers"
	"guesthouse-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires the controllers onto the gin engine.
func SetupRouter(
	rc *controllers.ReservationController,
	roomc *controllers.RoomController,
	cc *controllers.CustomerController,
	repc *controllers.ReportController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestTimeout(10 * time.Second))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		reservations := api.Group("/reservations")
		{
			reservations.GET("", rc.List)
			reservations.POST("", rc.Create)
			reservations.GET("/:id", rc.Get)
			reservations.PUT("/:id", rc.Update)
			reservations.PATCH("/:id/status", rc.PatchStatus)
			reservations.POST("/:id/checkin", rc.CheckIn)
			reservations.POST("/:id/checkout", rc.CheckOut)
			reservations.DELETE("/:id", rc.Delete)
		}

		api.GET("/availability", rc.GetAvailability)
		api.GET("/calendar", rc.GetCalendar)

		rooms := api.Group("/rooms")
		{
			rooms.GET("", roomc.GetRooms)
			rooms.POST("", roomc.CreateRoom)
			rooms.GET("/:id", roomc.GetRoom)
			rooms.PUT("/:id", roomc.UpdateRoom)
			rooms.PATCH("/:id/status", roomc.UpdateRoomStatus)
			rooms.DELETE("/:id", roomc.DeleteRoom)
		}

		customers := api.Group("/customers")
		{
			customers.GET("", cc.GetCustomers)
			customers.POST("", cc.CreateCustomer)
			customers.GET("/:id", cc.GetCustomer)
		}

		reports := api.Group("/reports")
		{
			reports.GET("/occupancy", repc.GetOccupancy)
			reports.GET("/revenue", repc.GetRevenue)
			reports.GET("/dashboard", repc.GetDashboard)
			reports.GET("/monthly", repc.GetMonthly)
			reports.GET("/yearly", repc.GetYearly)
		}
	}

	return r
}
