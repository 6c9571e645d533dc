package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes builds the gin engine with middleware and all routes
func (s *Server) RegisterRoutes() http.Handler {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware())
	r.Use(s.metrics.Middleware())

	if len(s.cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     s.cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Accept", "Content-Type", "Origin"},
			ExposeHeaders:    []string{RequestIDHeader},
			AllowCredentials: true,
		}))
	}

	r.GET("/health", s.healthHandler)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	userRoutes := r.Group("/users")
	{
		userRoutes.POST("", s.users.Register)
		userRoutes.GET("", s.users.List)
	}

	mealRoutes := r.Group("/meals")
	{
		mealRoutes.POST("", s.authorizer.Require(s.meals.CreateMeal))
		mealRoutes.GET("", s.authorizer.Require(s.meals.ListMeals))
		mealRoutes.GET("/metrics", s.authorizer.Require(s.meals.GetMetrics))
		mealRoutes.GET("/:id", s.authorizer.Require(s.meals.GetMeal))
		mealRoutes.PATCH("/:id", s.authorizer.Require(s.meals.UpdateMeal))
		mealRoutes.DELETE("/:id", s.authorizer.Require(s.meals.DeleteMeal))
	}

	return r
}

func (s *Server) healthHandler(c *gin.Context) {
	response := make(map[string]any)

	response["database"] = s.db.Health()

	sessionHealth := map[string]string{"store": s.cfg.SessionStore}
	if err := s.sessions.Ping(c.Request.Context()); err != nil {
		sessionHealth["status"] = "down"
		sessionHealth["error"] = err.Error()
	} else {
		sessionHealth["status"] = "up"
	}
	response["sessions"] = sessionHealth

	c.JSON(http.StatusOK, response)
}
