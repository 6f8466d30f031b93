package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pricejoshua/wehavefoodathome-backend/logger"
	"github.com/pricejoshua/wehavefoodathome-backend/services"
	"go.uber.org/zap"
)

const pingInterval = 25 * time.Second

type MembershipChecker interface {
	IsMember(ctx context.Context, houseID, userID uuid.UUID) (bool, error)
}

type RealtimeController struct {
	RT      *services.RealtimeHub
	Members MembershipChecker
}

// constructor
func NewRealtimeController(rt *services.RealtimeHub, members MembershipChecker) *RealtimeController {
	return &RealtimeController{RT: rt, Members: members}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// GET /ws?house_id=
func (rc *RealtimeController) HouseWS(c *gin.Context) {
	uid, ok := requester(c)
	if !ok {
		return
	}
	houseID, ok := requiredUUIDQuery(c, "house_id")
	if !ok {
		return
	}
	member, err := rc.Members.IsMember(c.Request.Context(), houseID, uid)
	if err != nil {
		respondError(c, err, "House")
		return
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.FromContext(c).Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	cl := &services.WSClient{HouseID: houseID, UserID: uid, Conn: conn}
	rc.RT.Register(cl)

	done := make(chan struct{})
	defer close(done)
	go func() {
		t := time.NewTicker(pingInterval)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				if err := cl.WritePing(); err != nil {
					rc.RT.Unregister(cl)
					return
				}
			}
		}
	}()

	// the read loop ends on client close or error
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			rc.RT.Unregister(cl)
			return
		}
	}
}
