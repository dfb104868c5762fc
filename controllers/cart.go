package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"go-foodorder/middleware"
	"go-foodorder/models"
	"go-foodorder/utils"
)

// CartController handles the per-user cart embedded in the user document.
type CartController struct {
	Users *mongo.Collection
	Foods *mongo.Collection
}

// NewCartController creates a CartController bound to the given database.
func NewCartController(db *mongo.Database) *CartController {
	return &CartController{
		Users: db.Collection("users"),
		Foods: db.Collection("foods"),
	}
}

// Get returns the cart with item details resolved against the catalog.
func (cc *CartController) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, ok := cc.currentUser(ctx, w, r)
	if !ok {
		return
	}

	if len(user.Cart) == 0 {
		utils.RespondJSON(w, http.StatusOK, []models.ResolvedCartLine{})
		return
	}

	ids := make([]primitive.ObjectID, len(user.Cart))
	for i, line := range user.Cart {
		ids[i] = line.ItemID
	}
	cursor, err := cc.Foods.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		utils.RespondServerError(w, err)
		return
	}
	defer cursor.Close(ctx)

	byID := make(map[primitive.ObjectID]models.FoodItem)
	var item models.FoodItem
	for cursor.Next(ctx) {
		if err := cursor.Decode(&item); err != nil {
			utils.RespondServerError(w, err)
			return
		}
		byID[item.ID] = item
	}
	if err := cursor.Err(); err != nil {
		utils.RespondServerError(w, err)
		return
	}

	resolved := []models.ResolvedCartLine{}
	for _, line := range user.Cart {
		if it, found := byID[line.ItemID]; found {
			resolved = append(resolved, models.ResolvedCartLine{Item: it, Quantity: line.Quantity})
		}
	}
	utils.RespondJSON(w, http.StatusOK, resolved)
}

// Add puts one unit of an item into the cart, merging with an existing line.
func (cc *CartController) Add(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID string `json:"item_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid input")
		return
	}
	itemID, err := primitive.ObjectIDFromHex(req.ItemID)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// Only visible catalog items may enter a cart.
	count, err := cc.Foods.CountDocuments(ctx, bson.M{"_id": itemID, "is_deleted": false})
	if err != nil {
		utils.RespondServerError(w, err)
		return
	}
	if count == 0 {
		utils.RespondError(w, http.StatusNotFound, "item not found")
		return
	}

	user, ok := cc.currentUser(ctx, w, r)
	if !ok {
		return
	}
	cart := models.AddToCart(user.Cart, itemID)
	if !cc.saveCart(ctx, w, user.ID, cart) {
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "item added to cart"})
}

// UpdateQuantity sets a line's quantity directly. Zero or less removes the
// line; a line that does not exist is a 404.
func (cc *CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	itemID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid input")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, ok := cc.currentUser(ctx, w, r)
	if !ok {
		return
	}
	cart, found := models.SetCartQuantity(user.Cart, itemID, req.Quantity)
	if !found {
		utils.RespondError(w, http.StatusNotFound, "item not in cart")
		return
	}
	if !cc.saveCart(ctx, w, user.ID, cart) {
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "cart updated"})
}

// Remove deletes a line from the cart.
func (cc *CartController) Remove(w http.ResponseWriter, r *http.Request) {
	itemID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, ok := cc.currentUser(ctx, w, r)
	if !ok {
		return
	}
	cart, found := models.RemoveFromCart(user.Cart, itemID)
	if !found {
		utils.RespondError(w, http.StatusBadRequest, "item not in cart")
		return
	}
	if !cc.saveCart(ctx, w, user.ID, cart) {
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "item removed from cart"})
}

// Clear empties the cart unconditionally.
func (cc *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, ok := cc.currentUser(ctx, w, r)
	if !ok {
		return
	}
	if !cc.saveCart(ctx, w, user.ID, []models.CartLine{}) {
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "cart cleared"})
}

// currentUser loads the authenticated user's document. It writes the error
// response itself and returns ok=false when the caller should stop.
func (cc *CartController) currentUser(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.User, bool) {
	var user models.User
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "missing or invalid token")
		return user, false
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "missing or invalid token")
		return user, false
	}
	if err := cc.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		utils.RespondError(w, http.StatusNotFound, "user not found")
		return user, false
	}
	return user, true
}

// saveCart persists the whole cart array back to the user document.
// Last write wins; concurrent mutations of the same cart are not detected.
func (cc *CartController) saveCart(ctx context.Context, w http.ResponseWriter, userID primitive.ObjectID, cart []models.CartLine) bool {
	_, err := cc.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{"cart": cart, "updated_at": time.Now()},
	})
	if err != nil {
		utils.RespondServerError(w, err)
		return false
	}
	return true
}
