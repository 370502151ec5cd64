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

type OrderController struct {
	svc *services.OrderService
	// cronSecret gates the auto-cancel sweep endpoint.
	cronSecret string
}

func NewOrderController(svc *services.OrderService, cronSecret string) *OrderController {
	return &OrderController{svc: svc, cronSecret: cronSecret}
}

// POST /api/orders (optional auth: guests pass guestInfo instead)
func (oc *OrderController) Create(c *gin.Context) {
	var req services.CreateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	var userID *primitive.ObjectID
	if uid, ok := utils.CurrentUserID(c); ok {
		userID = &uid
	}

	order, err := oc.svc.Create(c.Request.Context(), &req, userID)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, gin.H{"order": order})
}

// GET /api/orders/number/:orderNumber (public order tracking)
func (oc *OrderController) GetByNumber(c *gin.Context) {
	order, err := oc.svc.GetByNumber(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"order": order})
}

// GET /api/orders (protected, caller's own orders)
func (oc *OrderController) ListForMe(c *gin.Context) {
	uid, ok := utils.CurrentUserID(c)
	if !ok {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	orders, err := oc.svc.ListForUser(c.Request.Context(), uid)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"orders": orders})
}

// PUT /api/orders/:orderNumber/cancel (protected)
func (oc *OrderController) Cancel(c *gin.Context) {
	uid, ok := utils.CurrentUserID(c)
	if !ok {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	order, err := oc.svc.CancelByCustomer(c.Request.Context(), c.Param("orderNumber"), uid)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"order": order})
}

// PUT /api/guest/orders/:orderNumber/cancel (public; order-number
// possession is the only credential, see OrderService.CancelByGuest)
func (oc *OrderController) GuestCancel(c *gin.Context) {
	order, err := oc.svc.CancelByGuest(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"order": order})
}

// POST /api/orders/auto-cancel (cron, shared-secret header)
func (oc *OrderController) AutoCancel(c *gin.Context) {
	if c.GetHeader("X-Cron-Secret") != oc.cronSecret {
		resp.Unauthorized(c, "invalid cron secret")
		return
	}
	count, orderNumbers, err := oc.svc.AutoCancelSweep(c.Request.Context())
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"cancelledCount": count, "orderNumbers": orderNumbers})
}

// GET /api/admin/orders?status=&page=&limit= (admin)
func (oc *OrderController) AdminList(c *gin.Context) {
	f := repository.OrderFilter{}
	if s := c.Query("status"); s != "" {
		status := entity.OrderStatus(s)
		if !status.Valid() {
			resp.BadRequest(c, "unknown order status")
			return
		}
		f.Status = &status
	}
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	orders, total, err := oc.svc.ListAll(c.Request.Context(), f)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"orders": orders, "total": total, "page": f.Page, "limit": f.Limit})
}

type UpdateOrderStatusReq struct {
	Status  entity.OrderStatus `json:"status" binding:"required"`
	Message string             `json:"message"`
}

// PUT /api/admin/orders/:orderNumber/status (admin)
func (oc *OrderController) AdminUpdateStatus(c *gin.Context) {
	var req UpdateOrderStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	order, err := oc.svc.AdminUpdateStatus(c.Request.Context(), c.Param("orderNumber"), req.Status, req.Message)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"order": order})
}
