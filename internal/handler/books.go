package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"bookwise/backend/internal/model"
	"bookwise/backend/internal/store"
	"bookwise/backend/internal/trending"
)

type createBookBody struct {
	OwnerID     string              `json:"user_id" binding:"required"`
	Name        string              `json:"bookName" binding:"required,max=200"`
	Author      string              `json:"author" binding:"max=200"`
	Genre       model.Genre         `json:"genre"`
	Description string              `json:"description" binding:"max=2000"`
	Condition   model.BookCondition `json:"bookCondition"`
	Images      []string            `json:"bookImages"`
}

type updateBookBody struct {
	Name        *string              `json:"bookName"`
	Author      *string              `json:"author"`
	Genre       *model.Genre         `json:"genre"`
	Description *string              `json:"description"`
	Condition   *model.BookCondition `json:"bookCondition"`
	Images      *[]string            `json:"bookImages"`
}

type interactionBody struct {
	UserID   string                `json:"user_id" binding:"required"`
	Type     model.InteractionType `json:"interaction_type" binding:"required"`
	Metadata map[string]any        `json:"metadata"`
}

// HandleCreateBook lists a new book for exchange.
func (h *Handler) HandleCreateBook(c *gin.Context) {
	var req createBookBody
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: user_id and bookName are required")
		return
	}
	if req.Genre != "" && !req.Genre.Valid() {
		badRequest(c, "Unknown genre: "+string(req.Genre))
		return
	}
	if req.Condition != "" && !req.Condition.Valid() {
		badRequest(c, "Unknown condition: "+string(req.Condition))
		return
	}

	id, err := h.store.Books.Insert(c.Request.Context(), model.Book{
		OwnerID:     req.OwnerID,
		Name:        req.Name,
		Author:      req.Author,
		Genre:       req.Genre,
		Description: req.Description,
		Condition:   req.Condition,
		Images:      req.Images,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	book, err := h.store.Books.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, book)
}

// HandleListBooks returns the whole catalog.
func (h *Handler) HandleListBooks(c *gin.Context) {
	books, err := h.store.Books.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if books == nil {
		books = []model.Book{}
	}
	c.JSON(http.StatusOK, books)
}

// HandleGetBook returns one book with its owner's name denormalized in. A
// failed owner lookup degrades the response rather than failing it.
func (h *Handler) HandleGetBook(c *gin.Context) {
	id := c.Param("id")
	if !validObjectID(c, id) {
		return
	}

	book, err := h.store.Books.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	owner := model.BookOwner{Name: "Unknown"}
	user, err := h.store.Users.GetByID(c.Request.Context(), book.OwnerID)
	if err == nil {
		owner = model.BookOwner{
			UserID:            book.OwnerID,
			Name:              user.FirstName + " " + user.LastName,
			ProfilePictureURL: user.ProfilePictureURL,
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Printf("[WARN] Failed to resolve owner %s for book %s: %v", book.OwnerID, id, err)
	}

	c.JSON(http.StatusOK, gin.H{"book": book, "owner": owner})
}

// HandleUpdateBook applies owner-initiated field changes.
func (h *Handler) HandleUpdateBook(c *gin.Context) {
	id := c.Param("id")
	if !validObjectID(c, id) {
		return
	}

	var req updateBookBody
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if req.Genre != nil && *req.Genre != "" && !req.Genre.Valid() {
		badRequest(c, "Unknown genre: "+string(*req.Genre))
		return
	}
	if req.Condition != nil && *req.Condition != "" && !req.Condition.Valid() {
		badRequest(c, "Unknown condition: "+string(*req.Condition))
		return
	}

	fields := bson.M{}
	if req.Name != nil {
		fields["bookName"] = *req.Name
	}
	if req.Author != nil {
		fields["author"] = *req.Author
	}
	if req.Genre != nil {
		fields["genre"] = *req.Genre
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Condition != nil {
		fields["bookCondition"] = *req.Condition
	}
	if req.Images != nil {
		fields["bookImages"] = *req.Images
	}
	if len(fields) == 0 {
		badRequest(c, "No updatable fields provided")
		return
	}

	book, err := h.store.Books.Update(c.Request.Context(), id, fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

// HandleTrendingBooks ranks the catalog by all-time interaction counts.
func (h *Handler) HandleTrendingBooks(c *gin.Context) {
	skip, limit, ok := parsePagination(c, 10, 50)
	if !ok {
		return
	}

	books, err := h.store.Books.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	counts, err := h.store.Interactions.CountsPerBook(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trending_books": trending.Rank(books, counts, int(skip), int(limit)),
	})
}

// HandleBookInteraction appends one interaction event. VIEW also bumps the
// book's denormalized view counter.
func (h *Handler) HandleBookInteraction(c *gin.Context) {
	id := c.Param("id")
	if !validObjectID(c, id) {
		return
	}

	var req interactionBody
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: user_id and interaction_type are required")
		return
	}
	if !req.Type.Valid() {
		badRequest(c, "Unknown interaction type: "+string(req.Type))
		return
	}

	if _, err := h.store.Books.GetByID(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	if err := h.store.Interactions.Insert(c.Request.Context(), model.BookInteraction{
		UserID:   req.UserID,
		BookID:   id,
		Type:     req.Type,
		Metadata: req.Metadata,
	}); err != nil {
		respondError(c, err)
		return
	}

	if req.Type == model.InteractionView {
		if err := h.store.Books.IncrementViewCount(c.Request.Context(), id); err != nil {
			log.Printf("[WARN] Failed to bump view count for book %s: %v", id, err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Interaction tracked successfully"})
}
