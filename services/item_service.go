package services

import (
	"encoding/json"
	"log"
	"net/http"

	"mercari_mini_back_end_go/auth"
	"mercari_mini_back_end_go/db"
	"mercari_mini_back_end_go/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

func ListItems(c *gin.Context, repo db.ItemRepository) {
	items, err := repo.List(c.Request.Context())
	if err != nil {
		log.Println("Database error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func ListMyItems(c *gin.Context, repo db.ItemRepository) {
	sellerID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated"})
		return
	}

	items, err := repo.ListBySeller(c.Request.Context(), sellerID)
	if err != nil {
		log.Println("Database error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func GetItemById(c *gin.Context, repo db.ItemRepository) {
	itemID := c.Param("itemId")
	// Identifiers are opaque; a malformed one can never match a record.
	if _, err := uuid.Parse(itemID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Item not found"})
		return
	}

	item, err := repo.GetByID(c.Request.Context(), itemID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Item not found"})
		} else {
			log.Println("Database error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, item)
}

func CreateItem(c *gin.Context, repo db.ItemRepository) {
	sellerID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated"})
		return
	}

	var req models.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Title and a non-negative price are required"})
		return
	}

	// Seller, sold and timestamps are server-assigned, never client-supplied.
	item, err := repo.Create(c.Request.Context(), models.Item{
		Title:       req.Title,
		Description: req.Description,
		Price:       *req.Price,
		ImageURL:    req.ImageURL,
		Seller:      sellerID,
	})
	if err != nil {
		log.Println("Database error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusCreated, item)
}

func UpdateItem(c *gin.Context, repo db.ItemRepository) {
	sellerID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated"})
		return
	}

	itemID := c.Param("itemId")
	if _, err := uuid.Parse(itemID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Item not found"})
		return
	}

	item, err := repo.GetByID(c.Request.Context(), itemID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Item not found"})
		} else {
			log.Println("Database error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}

	// Ownership comes before payload validation: a non-owner gets 403 no
	// matter what the patch looks like.
	if item.Seller != sellerID {
		c.JSON(http.StatusForbidden, gin.H{"message": "You can only modify your own items"})
		return
	}

	patch, err := bindItemPatch(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	// Sold is forward-only; a sold item never goes back on sale.
	if patch.Sold != nil && !*patch.Sold && item.Sold {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Item is already sold"})
		return
	}

	updated, err := repo.Update(c.Request.Context(), itemID, sellerID, patch)
	if err != nil {
		// The record can vanish between the ownership check and the
		// conditional update; that race reads as a missing item.
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Item not found"})
		} else {
			log.Println("Database error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, updated)
}

func DeleteItem(c *gin.Context, repo db.ItemRepository) {
	sellerID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated"})
		return
	}

	itemID := c.Param("itemId")
	if _, err := uuid.Parse(itemID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Item not found"})
		return
	}

	item, err := repo.GetByID(c.Request.Context(), itemID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Item not found"})
		} else {
			log.Println("Database error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}

	if item.Seller != sellerID {
		c.JSON(http.StatusForbidden, gin.H{"message": "You can only delete your own items"})
		return
	}

	if err := repo.Delete(c.Request.Context(), itemID, sellerID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Item not found"})
		} else {
			log.Println("Database error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}

// bindItemPatch decodes the update payload against the allow-list of mutable
// fields. Unknown keys (seller, _id, timestamps, ...) are rejected instead of
// silently overwriting stored fields.
func bindItemPatch(c *gin.Context) (models.UpdateItemRequest, error) {
	var patch models.UpdateItemRequest

	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&patch); err != nil {
		return models.UpdateItemRequest{}, errors.New("Invalid request format")
	}

	if patch.IsEmpty() {
		return models.UpdateItemRequest{}, errors.New("No updatable fields in request")
	}
	if patch.Title != nil && *patch.Title == "" {
		return models.UpdateItemRequest{}, errors.New("Title cannot be empty")
	}
	if patch.Price != nil && *patch.Price < 0 {
		return models.UpdateItemRequest{}, errors.New("Price cannot be negative")
	}
	return patch, nil
}
