package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/psds-microservice/chatbot-service/api"
	"github.com/psds-microservice/chatbot-service/internal/handler"
	"github.com/psds-microservice/helpy/paths"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Handlers struct {
	Chat        *handler.ChatHandler
	Ticket      *handler.TicketHandler
	SupportUser *handler.SupportUserHandler
	Chatbot     *handler.ChatbotHandler
}

func New(h Handlers) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET(paths.PathHealth, handler.Health)
	r.GET(paths.PathReady, handler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET(paths.PathSwagger, func(c *gin.Context) { c.Redirect(http.StatusFound, paths.PathSwagger+"/") })
	r.GET(paths.PathSwagger+"/*any", func(c *gin.Context) {
		if strings.TrimPrefix(c.Param("any"), "/") == "openapi.json" {
			c.Data(http.StatusOK, "application/json", api.OpenAPISpec)
			return
		}
		if strings.TrimPrefix(c.Param("any"), "/") == "" {
			c.Request.URL.Path = paths.PathSwagger + "/index.html"
			c.Request.RequestURI = paths.PathSwagger + "/index.html"
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/openapi.json"))(c)
	})

	v1 := r.Group("/api/v1")
	{
		v1.POST("/chat/:chatbotId/send-message", h.Chat.SendMessage)
		v1.GET("/sessions/:sessionId", h.Chat.SessionInfo)
		v1.GET("/sessions/:sessionId/history", h.Chat.History)
		v1.POST("/sessions/:sessionId/support-message", h.Chat.SendSupportMessage)

		v1.POST("/chatbots", h.Chatbot.Create)
		v1.GET("/chatbots/:chatbotId", h.Chatbot.Get)
		v1.POST("/chatbots/:chatbotId/agent", h.Chatbot.InitializeAgent)

		v1.POST("/chatbots/:chatbotId/support-users", h.SupportUser.Create)
		v1.GET("/chatbots/:chatbotId/support-users", h.SupportUser.List)

		v1.POST("/chatbots/:chatbotId/tickets", h.Ticket.Create)
		v1.GET("/chatbots/:chatbotId/tickets", h.Ticket.List)
		v1.GET("/tickets/:id", h.Ticket.Get)
		v1.PUT("/tickets/:id/assignee", h.Ticket.Reassign)
	}

	return r
}
