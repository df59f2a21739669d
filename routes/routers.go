package routes

import (
	"net/http"

	"frontoffice/constants"
	"frontoffice/controllers"
	middlewares "frontoffice/middleware"
	"frontoffice/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services gom các service mà route table cần
type Services struct {
	Rooms    *services.RoomService
	Folio    *services.FolioService
	Bookings *services.BookingService
	Revenue  *services.RevenueService
	Tax      *services.TaxService
}

func SetupRoutes(router *gin.Engine, svc Services, jwtSecret string) {
	roomController := controllers.NewRoomController(svc.Rooms)
	bookingController := controllers.NewBookingController(svc.Bookings)
	folioController := controllers.NewFolioController(svc.Folio)
	revenueController := controllers.NewRevenueController(svc.Revenue, svc.Tax)

	managers := middlewares.RoleMiddleware(constants.RoleOwner, constants.RoleManager)
	frontDesk := middlewares.RoleMiddleware(constants.RoleOwner, constants.RoleManager, constants.RoleReceptionist)
	finance := middlewares.RoleMiddleware(constants.RoleOwner, constants.RoleManager, constants.RoleAccountant)
	maintenance := middlewares.RoleMiddleware(constants.RoleOwner, constants.RoleManager, constants.RoleHousekeeper)

	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(middlewares.AuthMiddleware(jwtSecret))

	v1.GET("/room-categories", roomController.ListCategories)
	v1.POST("/room-categories", managers, roomController.CreateCategory)
	v1.PUT("/room-categories/:id", managers, roomController.UpdateCategory)
	v1.DELETE("/room-categories/:id", managers, roomController.DeleteCategory)

	v1.GET("/rooms", roomController.ListRooms)
	v1.POST("/rooms", managers, roomController.CreateRoom)
	v1.GET("/rooms/:id", roomController.GetRoom)
	v1.PUT("/rooms/:id/status", maintenance, roomController.UpdateRoomStatus)
	v1.DELETE("/rooms/:id", managers, roomController.DeleteRoom)

	v1.GET("/bookings", bookingController.ListBookings)
	v1.POST("/bookings", frontDesk, bookingController.CreateBooking)
	v1.GET("/bookings/:id", bookingController.GetBooking)
	v1.POST("/bookings/:id/check-in", frontDesk, bookingController.CheckIn)
	v1.POST("/bookings/:id/check-out", frontDesk, bookingController.CheckOut)
	v1.POST("/bookings/:id/cancel", frontDesk, bookingController.Cancel)
	v1.POST("/bookings/:id/change-room", frontDesk, bookingController.ChangeRoom)
	v1.POST("/bookings/:id/extend", frontDesk, bookingController.ExtendStay)
	v1.POST("/bookings/:id/override-status", managers, bookingController.OverrideStatus)

	v1.GET("/bookings/:id/folio", folioController.GetFolio)
	v1.POST("/bookings/:id/charges", frontDesk, folioController.AddCharge)
	v1.POST("/bookings/:id/payments", frontDesk, folioController.AddPayment)
	v1.POST("/charges", frontDesk, folioController.RecordStandaloneCharge)
	v1.GET("/charge-categories", folioController.ListChargeCategories)
	v1.POST("/charge-categories", managers, folioController.CreateChargeCategory)

	v1.GET("/revenue", finance, revenueController.GetReport)
	v1.GET("/revenue/daily", finance, revenueController.GetDailySnapshots)
	v1.GET("/tax-config", finance, revenueController.GetTaxConfig)
	v1.PUT("/tax-config", finance, revenueController.SetTaxConfig)
}
