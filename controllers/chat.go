package controllers

import (
	"io"
	"net/http"
	"time"

	"HealthLife/config/jwt"
	"HealthLife/models"
	"HealthLife/services"
	"HealthLife/util"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type ChatController struct {
	svc       *services.ChatService
	heartbeat time.Duration
}

func NewChatController(svc *services.ChatService) *ChatController {
	return &ChatController{svc: svc, heartbeat: 25 * time.Second}
}

// PatientRoutes registers the chat endpoints of the patient app.
func (h *ChatController) PatientRoutes(group *gin.RouterGroup) {
	group.POST("/start", h.Start)
	group.GET("", h.List)
	group.GET("/single/:chatId", h.Get)
	group.POST("/message", h.Send)
	group.GET("/stream/:chatId", h.Stream)
}

func (h *ChatController) DoctorRoutes(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.GET("/single/:chatId", h.Get)
	group.POST("/reply", h.Send)
	group.GET("/stream/:chatId", h.Stream)
}

/*
* Bind the doctor id
* Start the chat for the calling patient
 */
func (h *ChatController) Start(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req models.StartChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.BadRequest(util.DOCTOR_NOT_AVAILABLE))
		return
	}
	chat, err := h.svc.Start(c.Request.Context(), id.ID, req.DoctorID)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(gin.H{"message": util.CHAT_STARTED, "chat": chat}))
}

func (h *ChatController) List(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	chats, err := h.svc.List(c.Request.Context(), id)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(gin.H{"chats": chats}))
}

func (h *ChatController) Get(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	chat, err := h.svc.Get(c.Request.Context(), id, c.Param("chatId"))
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(gin.H{"chat": chat}))
}

/*
* Bind chat id and text
* Append as the caller's role, patients message and doctors reply
 */
func (h *ChatController) Send(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	sent := util.MESSAGE_SENT
	if id.Role == jwt.RoleDoctor {
		sent = util.REPLY_SENT
	}
	var req models.ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.BadRequest(util.PROVIDE_VALID_DETAILS))
		return
	}
	chat, err := h.svc.Append(c.Request.Context(), id, req.ChatID, req.Text)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(gin.H{"message": sent, "chat": chat}))
}

/*
* Check ownership like Get, then hold the connection open
* Forward hub events as server sent events with a periodic ping
 */
func (h *ChatController) Stream(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	chat, events, release, err := h.svc.Subscribe(c.Request.Context(), id, c.Param("chatId"))
	if err != nil {
		util.Fail(c, err)
		return
	}
	defer release()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("ready", gin.H{"chatId": chat.ID.Hex(), "isActive": chat.IsActive})
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	done := c.Request.Context().Done()

	c.Stream(func(w io.Writer) bool {
		select {
		case e, open := <-events:
			if !open {
				return false
			}
			c.SSEvent(e.Type, e)
			return true
		case t := <-ticker.C:
			c.SSEvent("ping", t.Unix())
			return true
		case <-done:
			return false
		}
	})
	log.Debug().Str("chatId", chat.ID.Hex()).Str("role", id.Role).Msg("chat stream closed")
}
