package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-foodorder/middleware"
	"go-foodorder/models"
	"go-foodorder/utils"
)

// OrderController handles order placement, views, and fulfillment.
type OrderController struct {
	Orders       *mongo.Collection
	Users        *mongo.Collection
	Foods        *mongo.Collection
	EmailService *utils.EmailService
}

// NewOrderController creates an OrderController bound to the given database.
func NewOrderController(db *mongo.Database, emailService *utils.EmailService) *OrderController {
	return &OrderController{
		Orders:       db.Collection("orders"),
		Users:        db.Collection("users"),
		Foods:        db.Collection("foods"),
		EmailService: emailService,
	}
}

// orderLineView is an order line joined with catalog details for display.
// The snapshot references items by id, so the details resolve even after an
// item is soft-deleted.
type orderLineView struct {
	ItemID     primitive.ObjectID `json:"item_id"`
	Name       string             `json:"name"`
	Price      models.Price       `json:"price"`
	Image      string             `json:"image"`
	Categories []string           `json:"categories"`
	Quantity   int                `json:"quantity"`
}

// orderView is an order with its lines resolved.
type orderView struct {
	ID            primitive.ObjectID `json:"id"`
	Items         []orderLineView    `json:"items"`
	TotalAmount   float64            `json:"total_amount"`
	PaymentMethod string             `json:"payment_method"`
	Status        string             `json:"status"`
	CreatedAt     time.Time          `json:"created_at"`
}

// adminOrderView adds the placing user for the admin listings.
type adminOrderView struct {
	orderView
	UserName string `json:"user_name"`
	Username string `json:"username"`
}

// Place creates an order snapshot with status "placed". Items and total come
// from the client and are stored as-is; the cart is not touched.
func (oc *OrderController) Place(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}

	var req struct {
		Items []struct {
			ItemID   string `json:"item_id"`
			Quantity int    `json:"quantity"`
		} `json:"items"`
		Total         float64 `json:"total"`
		PaymentMethod string  `json:"payment_method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid input")
		return
	}
	if len(req.Items) == 0 {
		utils.RespondError(w, http.StatusBadRequest, "order must contain at least one item")
		return
	}
	method := strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	if !models.ValidPaymentMethod(method) {
		utils.RespondError(w, http.StatusBadRequest, "invalid payment method")
		return
	}
	if req.Total <= 0 {
		utils.RespondError(w, http.StatusBadRequest, "total must be a positive number")
		return
	}

	lines := make([]models.CartLine, len(req.Items))
	for i, it := range req.Items {
		itemID, err := primitive.ObjectIDFromHex(it.ItemID)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid item id: "+it.ItemID)
			return
		}
		if it.Quantity < 1 {
			utils.RespondError(w, http.StatusBadRequest, "quantity must be at least 1")
			return
		}
		lines[i] = models.CartLine{ItemID: itemID, Quantity: it.Quantity}
	}

	order := models.Order{
		UserID:        userID,
		Items:         lines,
		TotalAmount:   req.Total,
		PaymentMethod: method,
		Status:        models.StatusPlaced,
		CreatedAt:     time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := oc.Orders.InsertOne(ctx, order)
	if err != nil {
		utils.RespondServerError(w, err)
		return
	}
	order.ID = result.InsertedID.(primitive.ObjectID)

	go func(email string, order models.Order) {
		if err := oc.EmailService.SendOrderConfirmationEmail(email, order); err != nil {
			log.Printf("failed to send order confirmation to %s: %v", email, err)
		}
	}(claims.Email, order)

	utils.RespondJSON(w, http.StatusCreated, order)
}

// ListMine returns the caller's orders with item details resolved. An empty
// history is surfaced as 404, matching the documented API behavior.
func (oc *OrderController) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orders, err := oc.findOrders(ctx, bson.M{"user_id": userID})
	if err != nil {
		utils.RespondServerError(w, err)
		return
	}
	if len(orders) == 0 {
		utils.RespondError(w, http.StatusNotFound, "no orders found")
		return
	}

	views, err := oc.resolveOrders(ctx, orders)
	if err != nil {
		utils.RespondServerError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, views)
}

// ListAll returns every order system-wide, newest first (admin only).
func (oc *OrderController) ListAll(w http.ResponseWriter, r *http.Request) {
	oc.listForAdmin(w, r, bson.M{})
}

// CurrentOrders lists orders awaiting fulfillment (admin only).
func (oc *OrderController) CurrentOrders(w http.ResponseWriter, r *http.Request) {
	oc.listForAdmin(w, r, bson.M{"status": models.StatusPlaced})
}

// PastOrders lists delivered orders (admin only).
func (oc *OrderController) PastOrders(w http.ResponseWriter, r *http.Request) {
	oc.listForAdmin(w, r, bson.M{"status": models.StatusDelivered})
}

// CancelledOrders lists cancelled orders (admin only).
func (oc *OrderController) CancelledOrders(w http.ResponseWriter, r *http.Request) {
	oc.listForAdmin(w, r, bson.M{"status": models.StatusCancelled})
}

func (oc *OrderController) listForAdmin(w http.ResponseWriter, r *http.Request, filter bson.M) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok || claims.Role != models.RoleAdmin {
		utils.RespondError(w, http.StatusForbidden, "admin access required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orders, err := oc.findOrders(ctx, filter)
	if err != nil {
		utils.RespondServerError(w, err)
		return
	}

	views, err := oc.resolveOrders(ctx, orders)
	if err != nil {
		utils.RespondServerError(w, err)
		return
	}

	// Join each order with the placing user's name and username.
	userIDs := make([]primitive.ObjectID, 0, len(orders))
	seen := make(map[primitive.ObjectID]bool)
	for _, o := range orders {
		if !seen[o.UserID] {
			seen[o.UserID] = true
			userIDs = append(userIDs, o.UserID)
		}
	}
	usersByID := make(map[primitive.ObjectID]models.User)
	if len(userIDs) > 0 {
		cursor, err := oc.Users.Find(ctx, bson.M{"_id": bson.M{"$in": userIDs}})
		if err != nil {
			utils.RespondServerError(w, err)
			return
		}
		defer cursor.Close(ctx)
		var u models.User
		for cursor.Next(ctx) {
			if err := cursor.Decode(&u); err != nil {
				utils.RespondServerError(w, err)
				return
			}
			usersByID[u.ID] = u
		}
		if err := cursor.Err(); err != nil {
			utils.RespondServerError(w, err)
			return
		}
	}

	out := make([]adminOrderView, len(orders))
	for i, o := range orders {
		u := usersByID[o.UserID]
		out[i] = adminOrderView{
			orderView: views[i],
			UserName:  u.Name,
			Username:  u.Username,
		}
	}
	utils.RespondJSON(w, http.StatusOK, out)
}

// Cancel transitions the caller's own placed order to cancelled.
func (oc *OrderController) Cancel(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}
	orderID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var order models.Order
	if err := oc.Orders.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
		utils.RespondError(w, http.StatusNotFound, "order not found")
		return
	}
	if order.UserID.Hex() != claims.UserID && claims.Role != models.RoleAdmin {
		utils.RespondError(w, http.StatusForbidden, "you can only cancel your own orders")
		return
	}
	if !models.CanTransition(order.Status, models.StatusCancelled) {
		utils.RespondError(w, http.StatusConflict, "order can no longer be cancelled")
		return
	}

	oc.setStatus(ctx, w, orderID, models.StatusCancelled, "order cancelled")
}

// MarkDelivered transitions a placed order to delivered (admin only).
func (oc *OrderController) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok || claims.Role != models.RoleAdmin {
		utils.RespondError(w, http.StatusForbidden, "admin access required")
		return
	}

	var req struct {
		OrderID string `json:"order_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid input")
		return
	}
	orderID, err := primitive.ObjectIDFromHex(req.OrderID)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var order models.Order
	if err := oc.Orders.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
		utils.RespondError(w, http.StatusNotFound, "order not found")
		return
	}
	if !models.CanTransition(order.Status, models.StatusDelivered) {
		utils.RespondError(w, http.StatusConflict, "order is not awaiting delivery")
		return
	}

	oc.setStatus(ctx, w, orderID, models.StatusDelivered, "order marked as delivered")
}

func (oc *OrderController) setStatus(ctx context.Context, w http.ResponseWriter, orderID primitive.ObjectID, status, message string) {
	_, err := oc.Orders.UpdateOne(ctx, bson.M{"_id": orderID}, bson.M{
		"$set": bson.M{"status": status},
	})
	if err != nil {
		utils.RespondServerError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": message})
}

// findOrders loads orders matching the filter, newest first.
func (oc *OrderController) findOrders(ctx context.Context, filter bson.M) ([]models.Order, error) {
	cursor, err := oc.Orders.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// resolveOrders joins order lines with catalog details in one $in fetch
// across all orders.
func (oc *OrderController) resolveOrders(ctx context.Context, orders []models.Order) ([]orderView, error) {
	idSet := make(map[primitive.ObjectID]bool)
	for _, o := range orders {
		for _, line := range o.Items {
			idSet[line.ItemID] = true
		}
	}
	byID := make(map[primitive.ObjectID]models.FoodItem)
	if len(idSet) > 0 {
		ids := make([]primitive.ObjectID, 0, len(idSet))
		for id := range idSet {
			ids = append(ids, id)
		}
		cursor, err := oc.Foods.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)
		var item models.FoodItem
		for cursor.Next(ctx) {
			if err := cursor.Decode(&item); err != nil {
				return nil, err
			}
			byID[item.ID] = item
		}
		if err := cursor.Err(); err != nil {
			return nil, err
		}
	}

	views := make([]orderView, len(orders))
	for i, o := range orders {
		lines := make([]orderLineView, len(o.Items))
		for j, line := range o.Items {
			item := byID[line.ItemID]
			lines[j] = orderLineView{
				ItemID:     line.ItemID,
				Name:       item.Name,
				Price:      item.Price,
				Image:      item.Image,
				Categories: item.Categories,
				Quantity:   line.Quantity,
			}
		}
		views[i] = orderView{
			ID:            o.ID,
			Items:         lines,
			TotalAmount:   o.TotalAmount,
			PaymentMethod: o.PaymentMethod,
			Status:        o.Status,
			CreatedAt:     o.CreatedAt,
		}
	}
	return views, nil
}
