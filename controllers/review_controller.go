package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/designxpo/PoonamCosmetics-sub001/entity"
	"github.com/designxpo/PoonamCosmetics-sub001/pkg/resp"
	"github.com/designxpo/PoonamCosmetics-sub001/repository"
	"github.com/designxpo/PoonamCosmetics-sub001/services"
	"github.com/designxpo/PoonamCosmetics-sub001/utils"
)

type ReviewController struct {
	svc *services.ReviewService
}

func NewReviewController(svc *services.ReviewService) *ReviewController {
	return &ReviewController{svc: svc}
}

func reviewID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		resp.BadRequest(c, "invalid review id")
		return primitive.NilObjectID, false
	}
	return id, true
}

// POST /api/reviews (protected)
func (rc *ReviewController) Create(c *gin.Context) {
	uid, ok := utils.CurrentUserID(c)
	if !ok {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	var req services.CreateReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	review, err := rc.svc.Create(c.Request.Context(), &req, uid)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, gin.H{"review": review})
}

// GET /api/reviews?product=&user=&status=&rating=&page=&limit=&sort=
// Public callers always see approved reviews; the status filter is
// honored for admins only.
func (rc *ReviewController) List(c *gin.Context) {
	f := repository.ReviewFilter{Sort: c.DefaultQuery("sort", "newest")}

	if p := c.Query("product"); p != "" {
		id, err := primitive.ObjectIDFromHex(p)
		if err != nil {
			resp.BadRequest(c, "invalid product id")
			return
		}
		f.Product = &id
	}
	if u := c.Query("user"); u != "" {
		id, err := primitive.ObjectIDFromHex(u)
		if err != nil {
			resp.BadRequest(c, "invalid user id")
			return
		}
		f.User = &id
	}
	if r := c.Query("rating"); r != "" {
		rating, err := strconv.Atoi(r)
		if err != nil || rating < 1 || rating > 5 {
			resp.BadRequest(c, "rating must be between 1 and 5")
			return
		}
		f.Rating = &rating
	}

	status := entity.ReviewApproved
	if s := c.Query("status"); s != "" && utils.CurrentRole(c) == entity.RoleAdmin {
		status = entity.ReviewStatus(s)
		if !status.Valid() {
			resp.BadRequest(c, "unknown review status")
			return
		}
	}
	f.Status = &status

	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))

	reviews, total, err := rc.svc.List(c.Request.Context(), f)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"reviews": reviews, "total": total, "page": f.Page, "limit": f.Limit})
}

// GET /api/reviews/:id
func (rc *ReviewController) Get(c *gin.Context) {
	id, ok := reviewID(c)
	if !ok {
		return
	}
	review, err := rc.svc.Get(c.Request.Context(), id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"review": review})
}

// PUT /api/reviews/:id (protected; owner while pending, admin always)
func (rc *ReviewController) Update(c *gin.Context) {
	uid, ok := utils.CurrentUserID(c)
	if !ok {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	id, ok := reviewID(c)
	if !ok {
		return
	}
	var req services.UpdateReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	isAdmin := utils.CurrentRole(c) == entity.RoleAdmin
	review, err := rc.svc.Update(c.Request.Context(), id, &req, uid, isAdmin)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"review": review})
}

// DELETE /api/reviews/:id (protected; owner or admin)
func (rc *ReviewController) Delete(c *gin.Context) {
	uid, ok := utils.CurrentUserID(c)
	if !ok {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	id, ok := reviewID(c)
	if !ok {
		return
	}
	isAdmin := utils.CurrentRole(c) == entity.RoleAdmin
	if err := rc.svc.Delete(c.Request.Context(), id, uid, isAdmin); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"message": "review deleted"})
}

// POST /api/reviews/:id/helpful (protected)
func (rc *ReviewController) ToggleHelpful(c *gin.Context) {
	uid, ok := utils.CurrentUserID(c)
	if !ok {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	id, ok := reviewID(c)
	if !ok {
		return
	}
	helpful, marked, err := rc.svc.ToggleHelpful(c.Request.Context(), id, uid)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"data": gin.H{"helpful": helpful, "isMarkedByUser": marked}})
}

// GET /api/ratings/:productId (public)
func (rc *ReviewController) ProductStats(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		resp.BadRequest(c, "invalid product id")
		return
	}
	stats, err := rc.svc.ProductStats(c.Request.Context(), productID)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"data": stats})
}
