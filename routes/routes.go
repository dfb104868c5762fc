package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"go-foodorder/controllers"
	"go-foodorder/middleware"
)

// RegisterRoutes sets up all the routes for the application. authMW is the
// token-checking middleware applied to the protected subrouters.
func RegisterRoutes(
	router *mux.Router,
	authMW func(http.Handler) http.Handler,
	authController *controllers.AuthController,
	menuController *controllers.MenuController,
	cartController *controllers.CartController,
	orderController *controllers.OrderController,
	userController *controllers.UserController,
) {
	api := router.PathPrefix("/api").Subrouter()

	// Public auth routes
	api.HandleFunc("/auth/signup", authController.Register).Methods("POST")
	api.HandleFunc("/auth/login", authController.Login).Methods("POST")
	api.HandleFunc("/auth/send-otp", authController.SendOtp).Methods("POST")
	api.HandleFunc("/auth/verify-otp", authController.VerifyOtp).Methods("POST")
	api.HandleFunc("/auth/google-login", authController.GoogleLogin).Methods("POST")

	// Public catalog
	api.HandleFunc("/menu", menuController.List).Methods("GET")

	// Admin catalog management
	menuAdmin := api.PathPrefix("/menu").Subrouter()
	menuAdmin.Use(authMW)
	menuAdmin.Use(middleware.Admin)
	menuAdmin.HandleFunc("/deleted", menuController.ListDeleted).Methods("GET")
	menuAdmin.HandleFunc("", menuController.Create).Methods("POST")
	menuAdmin.HandleFunc("/{id}", menuController.Update).Methods("PUT")
	menuAdmin.HandleFunc("/{id}", menuController.SoftDelete).Methods("DELETE")
	menuAdmin.HandleFunc("/{id}", menuController.Restore).Methods("PATCH")
	menuAdmin.HandleFunc("/{id}/permanent", menuController.PermanentDelete).Methods("DELETE")

	// Cart routes
	cart := api.PathPrefix("/cart").Subrouter()
	cart.Use(authMW)
	cart.HandleFunc("", cartController.Get).Methods("GET")
	cart.HandleFunc("/add", cartController.Add).Methods("POST")
	cart.HandleFunc("/update/{id}", cartController.UpdateQuantity).Methods("PUT")
	cart.HandleFunc("/remove/{id}", cartController.Remove).Methods("DELETE")
	cart.HandleFunc("/clear", cartController.Clear).Methods("DELETE")

	// Order routes; the admin-only views check the role in the handler.
	orders := api.PathPrefix("/orders").Subrouter()
	orders.Use(authMW)
	orders.HandleFunc("", orderController.Place).Methods("POST")
	orders.HandleFunc("/myorders", orderController.ListMine).Methods("GET")
	orders.HandleFunc("/all", orderController.ListAll).Methods("GET")
	orders.HandleFunc("/currentOrders", orderController.CurrentOrders).Methods("GET")
	orders.HandleFunc("/pastOrders", orderController.PastOrders).Methods("GET")
	orders.HandleFunc("/cancelledOrders", orderController.CancelledOrders).Methods("GET")
	orders.HandleFunc("/cancel/{id}", orderController.Cancel).Methods("PUT")
	orders.HandleFunc("/markAsDelivered", orderController.MarkDelivered).Methods("POST")

	// Profile routes
	users := api.PathPrefix("/users").Subrouter()
	users.Use(authMW)
	users.HandleFunc("/profile", userController.Profile).Methods("GET")
	users.HandleFunc("/stats", userController.Stats).Methods("GET")
	users.HandleFunc("/favorites/{id}", userController.ToggleFavorite).Methods("POST")
}
