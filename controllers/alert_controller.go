package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pricejoshua/wehavefoodathome-backend/models"
)

type AlertLister interface {
	List(ctx context.Context, houseID, requesterID uuid.UUID) ([]models.Alert, error)
}

type AlertController struct {
	Svc AlertLister
}

func NewAlertController(svc AlertLister) *AlertController {
	return &AlertController{Svc: svc}
}

// GET /alerts?house_id=
func (ac *AlertController) List(c *gin.Context) {
	uid, ok := requester(c)
	if !ok {
		return
	}
	houseID, ok := requiredUUIDQuery(c, "house_id")
	if !ok {
		return
	}
	out, err := ac.Svc.List(c.Request.Context(), houseID, uid)
	if err != nil {
		respondError(c, err, "House")
		return
	}
	c.JSON(http.StatusOK, out)
}
