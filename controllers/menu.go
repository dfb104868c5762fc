package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-foodorder/models"
	"go-foodorder/utils"
)

// MenuController handles the food catalog.
type MenuController struct {
	Foods *mongo.Collection
}

// NewMenuController creates a MenuController bound to the given database.
func NewMenuController(db *mongo.Database) *MenuController {
	return &MenuController{Foods: db.Collection("foods")}
}

// menuPage is the listing response envelope.
type menuPage struct {
	Items      []models.FoodItem `json:"items"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalItems int64             `json:"total_items"`
	TotalPages int               `json:"total_pages"`
}

// List returns the paginated public catalog. Soft-deleted items are excluded.
func (mc *MenuController) List(w http.ResponseWriter, r *http.Request) {
	mc.list(w, r, false)
}

// ListDeleted is the admin-only mirror of List over soft-deleted items.
func (mc *MenuController) ListDeleted(w http.ResponseWriter, r *http.Request) {
	mc.list(w, r, true)
}

func (mc *MenuController) list(w http.ResponseWriter, r *http.Request, deleted bool) {
	q, err := parseMenuQuery(r.URL.Query())
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := q.filter(deleted)
	total, err := mc.Foods.CountDocuments(ctx, filter)
	if err != nil {
		utils.RespondServerError(w, err)
		return
	}
	totalPages := q.totalPages(total)
	q.clampPage(totalPages)

	findOpts := options.Find().
		SetSkip(int64((q.Page - 1) * q.Limit)).
		SetLimit(int64(q.Limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := mc.Foods.Find(ctx, filter, findOpts)
	if err != nil {
		utils.RespondServerError(w, err)
		return
	}
	defer cursor.Close(ctx)

	items := []models.FoodItem{}
	if err := cursor.All(ctx, &items); err != nil {
		utils.RespondServerError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, menuPage{
		Items:      items,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

// Create adds a new catalog item (admin only).
func (mc *MenuController) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string       `json:"name"`
		Description string       `json:"description"`
		Image       string       `json:"image"`
		Price       models.Price `json:"price"`
		Type        string       `json:"type"`
		Categories  []string     `json:"categories"`
		InStock     *bool        `json:"in_stock"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid input")
		return
	}

	now := time.Now()
	item := models.FoodItem{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Price:       req.Price,
		Type:        req.Type,
		Categories:  req.Categories,
		InStock:     true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.InStock != nil {
		item.InStock = *req.InStock
	}
	if err := models.ValidateNewFood(&item); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	dup, err := mc.isDuplicate(ctx, item.Name, item.Categories, primitive.NilObjectID)
	if err != nil {
		utils.RespondServerError(w, err)
		return
	}
	if dup {
		utils.RespondError(w, http.StatusConflict, "an item with that name and category set already exists")
		return
	}

	result, err := mc.Foods.InsertOne(ctx, item)
	if err != nil {
		utils.RespondServerError(w, err)
		return
	}
	item.ID = result.InsertedID.(primitive.ObjectID)
	utils.RespondJSON(w, http.StatusCreated, item)
}

// Update applies a partial update to a catalog item (admin only). Only the
// provided fields are validated and changed.
func (mc *MenuController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req struct {
		Name        *string       `json:"name"`
		Description *string       `json:"description"`
		Image       *string       `json:"image"`
		Price       *models.Price `json:"price"`
		Type        *string       `json:"type"`
		Categories  *[]string     `json:"categories"`
		InStock     *bool         `json:"in_stock"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid input")
		return
	}

	set := bson.M{}
	if req.Name != nil {
		if err := models.ValidateFoodName(*req.Name); err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		set["name"] = models.NormalizeFoodName(*req.Name)
	}
	if req.Description != nil {
		if err := models.ValidateFoodDescription(*req.Description); err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		set["description"] = *req.Description
	}
	if req.Image != nil {
		set["image"] = *req.Image
	}
	if req.Price != nil {
		if req.Price.Org <= 0 {
			utils.RespondError(w, http.StatusBadRequest, "price.org must be a positive number")
			return
		}
		set["price"] = *req.Price
	}
	if req.Type != nil {
		t := strings.ToLower(strings.TrimSpace(*req.Type))
		if !models.ValidFoodType(t) {
			utils.RespondError(w, http.StatusBadRequest, "unknown type: "+*req.Type)
			return
		}
		set["type"] = t
	}
	if req.Categories != nil {
		if len(*req.Categories) == 0 {
			utils.RespondError(w, http.StatusBadRequest, "at least one category is required")
			return
		}
		cats := make([]string, len(*req.Categories))
		for i, c := range *req.Categories {
			norm := models.NormalizeCategory(c)
			if !models.ValidCategory(norm) {
				utils.RespondError(w, http.StatusBadRequest, "unknown category: "+c)
				return
			}
			cats[i] = norm
		}
		set["categories"] = cats
	}
	if req.InStock != nil {
		set["in_stock"] = *req.InStock
	}
	if len(set) == 0 {
		utils.RespondError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var existing models.FoodItem
	if err := mc.Foods.FindOne(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
		utils.RespondError(w, http.StatusNotFound, "item not found")
		return
	}

	// Re-run the duplicate check when the (name, categories) identity changes.
	if _, nameChanged := set["name"]; nameChanged || set["categories"] != nil {
		name := existing.Name
		if v, ok := set["name"].(string); ok {
			name = v
		}
		cats := existing.Categories
		if v, ok := set["categories"].([]string); ok {
			cats = v
		}
		dup, err := mc.isDuplicate(ctx, name, cats, id)
		if err != nil {
			utils.RespondServerError(w, err)
			return
		}
		if dup {
			utils.RespondError(w, http.StatusConflict, "an item with that name and category set already exists")
			return
		}
	}

	set["updated_at"] = time.Now()
	var updated models.FoodItem
	err = mc.Foods.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "item not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, updated)
}

// SoftDelete hides an item from the public catalog without removing it.
func (mc *MenuController) SoftDelete(w http.ResponseWriter, r *http.Request) {
	mc.setDeleted(w, r, true)
}

// Restore brings a soft-deleted item back into the public catalog.
func (mc *MenuController) Restore(w http.ResponseWriter, r *http.Request) {
	mc.setDeleted(w, r, false)
}

func (mc *MenuController) setDeleted(w http.ResponseWriter, r *http.Request, deleted bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := mc.Foods.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"is_deleted": deleted, "updated_at": time.Now()},
	})
	if err != nil {
		utils.RespondServerError(w, err)
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondError(w, http.StatusNotFound, "item not found")
		return
	}
	msg := "item restored"
	if deleted {
		msg = "item deleted"
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": msg})
}

// PermanentDelete removes an item irrecoverably (admin cleanup of
// soft-deleted records).
func (mc *MenuController) PermanentDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := mc.Foods.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		utils.RespondServerError(w, err)
		return
	}
	if result.DeletedCount == 0 {
		utils.RespondError(w, http.StatusNotFound, "item not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "item permanently deleted"})
}

// isDuplicate reports whether a non-deleted item other than excludeID already
// uses the normalized name with an identical category set.
func (mc *MenuController) isDuplicate(ctx context.Context, name string, categories []string, excludeID primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"name":       name,
		"is_deleted": false,
		"categories": bson.M{"$all": categories, "$size": len(categories)},
	}
	if excludeID != primitive.NilObjectID {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	count, err := mc.Foods.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
