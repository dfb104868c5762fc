package controllers

import (
	"context"
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

// UserController handles profile and favorites.
type UserController struct {
	Users  *mongo.Collection
	Orders *mongo.Collection
	Foods  *mongo.Collection
}

// NewUserController creates a UserController bound to the given database.
func NewUserController(db *mongo.Database) *UserController {
	return &UserController{
		Users:  db.Collection("users"),
		Orders: db.Collection("orders"),
		Foods:  db.Collection("foods"),
	}
}

// Profile returns the authenticated user's account, minus credentials.
func (uc *UserController) Profile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, ok := uc.currentUser(ctx, w, r)
	if !ok {
		return
	}
	user.Password = ""
	utils.RespondJSON(w, http.StatusOK, user)
}

// Stats summarizes the user's activity: order count, total spent, cart size,
// and favorites.
func (uc *UserController) Stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, ok := uc.currentUser(ctx, w, r)
	if !ok {
		return
	}

	cursor, err := uc.Orders.Find(ctx, bson.M{"user_id": user.ID})
	if err != nil {
		utils.RespondServerError(w, err)
		return
	}
	defer cursor.Close(ctx)

	stats := models.UserStats{
		FavoriteCount: len(user.Favorites),
		MemberSince:   user.CreatedAt.Format("2006-01-02"),
		Verified:      user.IsVerified,
	}
	var order models.Order
	for cursor.Next(ctx) {
		if err := cursor.Decode(&order); err != nil {
			utils.RespondServerError(w, err)
			return
		}
		stats.TotalOrders++
		if order.Status != models.StatusCancelled {
			stats.TotalSpent += order.TotalAmount
		}
	}
	if err := cursor.Err(); err != nil {
		utils.RespondServerError(w, err)
		return
	}
	for _, line := range user.Cart {
		stats.CartItems += line.Quantity
	}

	utils.RespondJSON(w, http.StatusOK, stats)
}

// ToggleFavorite adds an item to the user's favorites, or removes it when
// already present.
func (uc *UserController) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	itemID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, ok := uc.currentUser(ctx, w, r)
	if !ok {
		return
	}

	isFavorite := false
	for _, fav := range user.Favorites {
		if fav == itemID {
			isFavorite = true
			break
		}
	}

	var update bson.M
	var msg string
	if isFavorite {
		update = bson.M{"$pull": bson.M{"favorites": itemID}}
		msg = "removed from favorites"
	} else {
		count, err := uc.Foods.CountDocuments(ctx, bson.M{"_id": itemID, "is_deleted": false})
		if err != nil {
			utils.RespondServerError(w, err)
			return
		}
		if count == 0 {
			utils.RespondError(w, http.StatusNotFound, "item not found")
			return
		}
		update = bson.M{"$addToSet": bson.M{"favorites": itemID}}
		msg = "added to favorites"
	}
	update["$set"] = bson.M{"updated_at": time.Now()}

	if _, err := uc.Users.UpdateOne(ctx, bson.M{"_id": user.ID}, update); err != nil {
		utils.RespondServerError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": msg})
}

func (uc *UserController) currentUser(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.User, bool) {
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
	if err := uc.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		utils.RespondError(w, http.StatusNotFound, "user not found")
		return user, false
	}
	return user, true
}
