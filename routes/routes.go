package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"havana-backend/controllers"
	"havana-backend/middleware"
	"havana-backend/services"
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

// SetupRouter wires every controller instance onto the /api route tree.
func SetupRouter(
	cc *controllers.CheckoutController,
	ic *controllers.InvoiceController,
	pmc *controllers.PaymentController,
	pc *controllers.PantryController,
	kc *controllers.KitchenController,
	mc *controllers.MaintenanceController,
	ec *controllers.EventsController,
	gstSvc *services.GSTService,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

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

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		rooms := api.Group("/rooms")
		{
			rooms.GET("", controllers.GetRooms)
			rooms.POST("", controllers.CreateRoom)
			rooms.PATCH("/:id", controllers.UpdateRoom)
			rooms.PUT("/:id", controllers.UpdateRoom)
			rooms.DELETE("/:id", controllers.DeleteRoom)
		}

		checkouts := api.Group("/checkouts")
		{
			checkouts.POST("", cc.CreateCheckout)
			checkouts.GET("/booking/:id", cc.GetByBooking)
			checkouts.PUT("/:id/payment-status", cc.UpdatePaymentStatus)
			checkouts.GET("/:id/invoice", cc.GetInvoice)
		}

		invoices := api.Group("/invoices")
		{
			invoices.GET("", ic.GetAllInvoices)
			invoices.POST("", ic.CreateInvoice)

			// literal segment before /:id so it does not shadow the param route
			invoices.GET("/final/booking/:id", ic.GetFinalInvoiceByBooking)

			invoices.GET("/:id", ic.GetInvoice)
			invoices.POST("/:id/payment", ic.ProcessPayment)
		}

		payments := api.Group("/payments")
		{
			payments.GET("", pmc.GetAllPayments)
			payments.POST("", pmc.CreatePayment)
			payments.GET("/source/:sourceType/:sourceId", pmc.GetPaymentsBySource)
			payments.GET("/total/:sourceType/:sourceId", pmc.GetTotalPaid)
			payments.GET("/:id", pmc.GetPayment)
		}

		pantry := api.Group("/pantry")
		{
			items := pantry.Group("/items")
			{
				items.GET("", pc.GetAllItems)
				items.GET("/low-stock", pc.GetLowStockItems)
				items.GET("/low-stock/report", pc.GetLowStockReport)
				items.POST("", pc.CreateItem)
				items.PUT("/:id", pc.UpdateItem)
				items.DELETE("/:id", pc.DeleteItem)
				items.PATCH("/:id/stock", pc.AdjustStock)
			}

			orders := pantry.Group("/orders")
			{
				orders.GET("", pc.GetOrders)
				orders.POST("", pc.CreateOrder)
				orders.GET("/:id", pc.GetOrder)
				orders.PUT("/:id/status", pc.UpdateOrderStatus)
				orders.PUT("/:id/payment-status", pc.UpdatePaymentStatus)
				orders.POST("/:id/fulfill", pc.FulfillOrder)
				orders.DELETE("/:id", pc.DeleteOrder)
			}

			vendors := pantry.Group("/vendors")
			{
				vendors.GET("/suggested", pc.GetSuggestedVendors)
				vendors.GET("/:id/analytics", pc.GetVendorAnalytics)
			}
		}

		kitchen := api.Group("/kitchen")
		{
			orders := kitchen.Group("/orders")
			{
				orders.GET("", kc.GetAllOrders)
				orders.POST("", kc.CreateOrder)
				orders.POST("/sync-missing", kc.SyncMissingOrders)
				orders.GET("/:id", kc.GetOrder)
				orders.PUT("/:id", kc.UpdateOrder)
				orders.DELETE("/:id", kc.DeleteOrder)
			}

			store := kitchen.Group("/store")
			{
				store.GET("", kc.GetStoreItems)
				store.POST("", kc.CreateStoreItem)
				store.POST("/take-out", kc.TakeOutItems)
				store.PUT("/:id", kc.UpdateStoreItem)
				store.DELETE("/:id", kc.DeleteStoreItem)
				store.POST("/:id/order", kc.RestockFromPantry)
			}
		}

		vendors := api.Group("/vendors")
		{
			vendors.GET("", controllers.GetVendors)
			vendors.POST("", controllers.CreateVendor)
			vendors.PUT("/:id", controllers.UpdateVendor)
			vendors.DELETE("/:id", controllers.DeleteVendor)
		}

		gstRates := api.Group("/gst-rates")
		{
			gstRates.GET("", controllers.GetGSTRates)
			gstRates.POST("", controllers.CreateGSTRate)
			gstRates.GET("/:id", controllers.GetGSTRate)
			gstRates.PUT("/:id", controllers.UpdateGSTRate(gstSvc))
			gstRates.DELETE("/:id", controllers.DeleteGSTRate)
		}

		admin := api.Group("/admin")
		{
			admin.POST("/fix-room-status", mc.FixRoomStatus)
			admin.POST("/fix-payment-data", mc.FixPaymentData)
			admin.POST("/migrate-room-rates", mc.MigrateRoomRates)
		}

		api.GET("/events", ec.Stream)
	}

	return r
}
