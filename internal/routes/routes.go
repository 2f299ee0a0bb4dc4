package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/schoolverse/game_backend/internal/config"
	"github.com/schoolverse/game_backend/internal/controllers"
	"github.com/schoolverse/game_backend/internal/middleware"
	"github.com/schoolverse/game_backend/internal/models"
	"github.com/schoolverse/game_backend/internal/ws"
)

func Register(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	expiresMins, err := time.ParseDuration(cfg.JWTExpiresIn + "m")
	if err != nil || expiresMins == 0 {
		expiresMins = 24 * time.Hour
	}

	hub := ws.NewLobbyHub()
	go hub.Run()

	authCtrl := &controllers.AuthController{DB: db, JWTSecret: cfg.JWTSecret, ExpiresIn: expiresMins}
	parentCtrl := &controllers.ParentController{DB: db}
	missionCtrl := &controllers.MissionController{DB: db}
	serverCtrl := &controllers.ServerController{DB: db, Hub: hub}
	teacherCtrl := &controllers.TeacherController{DB: db, Hub: hub}
	adminCtrl := &controllers.AdminController{DB: db}
	docsCtrl := &controllers.DocsController{}

	// Public
	r.POST("/auth/register", authCtrl.Register)
	r.POST("/auth/login", authCtrl.Login)
	r.POST("/server/register", serverCtrl.RegisterServer)
	r.GET("/server/list", serverCtrl.ListServers)
	r.GET("/docs/openapi.json", docsCtrl.OpenAPI)

	// Protected
	authMW := middleware.AuthMiddleware(db, cfg.JWTSecret)
	api := r.Group("/", authMW)
	{
		api.GET("/auth/me", authCtrl.Me)

		// Any authenticated role may report mission progress.
		api.POST("/mission/update", missionCtrl.UpdateMission)

		parent := api.Group("/parent", middleware.RequireRoles(models.RoleParent))
		{
			parent.POST("/link_child", parentCtrl.LinkChild)
			parent.GET("/stats", parentCtrl.ChildrenStats)
		}

		teacher := api.Group("/teacher", middleware.RequireRoles(models.RoleTeacher))
		{
			teacher.GET("/class/overview", teacherCtrl.ClassOverview)
			teacher.GET("/student/:public_id", teacherCtrl.StudentSummary)
			teacher.POST("/quiz", teacherCtrl.CreateQuiz)
			teacher.POST("/message", teacherCtrl.SendMessage)
			teacher.POST("/lobby/create", teacherCtrl.CreateLobby)
		}

		admin := api.Group("/admin", middleware.RequireRoles(models.RoleAdmin))
		{
			admin.GET("/users", adminCtrl.ListUsers)
		}

		// Live server registry feed for teacher/admin dashboards.
		api.GET("/ws/servers", ws.LobbyHandler(hub))
	}
}
