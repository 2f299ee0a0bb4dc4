package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/schoolverse/game_backend/internal/middleware"
	"github.com/schoolverse/game_backend/internal/models"
	"github.com/schoolverse/game_backend/internal/ws"
)

type TeacherController struct {
	DB  *gorm.DB
	Hub *ws.LobbyHub
}

// missionSummary and quizSummary are the per-student aggregate blocks in the
// class overview. Students without any rows get the zero value, never a null:
// the dashboard renders a fixed-column table.
type missionSummary struct {
	MissionsTotal     int64   `json:"missions_total"`
	MissionsCompleted int64   `json:"missions_completed"`
	MissionAvgScore   float64 `json:"mission_avg_score"`
	MissionBestScore  int     `json:"mission_best_score"`
}

type quizSummary struct {
	QuizzesTaken  int64   `json:"quizzes_taken"`
	QuizAvgScore  float64 `json:"quiz_avg_score"`
	QuizBestScore int     `json:"quiz_best_score"`
}

type missionAggRow struct {
	UserID            uint
	MissionsTotal     int64
	MissionsCompleted int64
	MissionAvgScore   float64
	MissionBestScore  int
}

type quizAggRow struct {
	StudentID     uint
	QuizzesTaken  int64
	QuizAvgScore  float64
	QuizBestScore int
}

// ClassOverview returns every class owned by the calling teacher and an
// aggregated roster of their students. Aggregates are computed with one
// grouped query per relation, not per student.
func (t *TeacherController) ClassOverview(c *gin.Context) {
	teacher, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var classes []models.Class
	if err := t.DB.Where("teacher_id = ?", teacher.ID).Find(&classes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(classes) == 0 {
		c.JSON(http.StatusOK, gin.H{"classes": []gin.H{}, "students": []gin.H{}})
		return
	}

	classIDs := make([]uint, 0, len(classes))
	classNameByID := make(map[uint]string, len(classes))
	classPublicByID := make(map[uint]string, len(classes))
	classPayload := make([]gin.H, 0, len(classes))
	for _, cl := range classes {
		classIDs = append(classIDs, cl.ID)
		classNameByID[cl.ID] = cl.Name
		classPublicByID[cl.ID] = cl.PublicID
		classPayload = append(classPayload, gin.H{"public_id": cl.PublicID, "name": cl.Name})
	}

	var students []models.User
	if err := t.DB.
		Where("class_id IN ? AND role = ?", classIDs, models.RoleStudent).
		Order("class_id ASC, username ASC").
		Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(students) == 0 {
		c.JSON(http.StatusOK, gin.H{"classes": classPayload, "students": []gin.H{}})
		return
	}

	studentIDs := make([]uint, 0, len(students))
	for _, s := range students {
		studentIDs = append(studentIDs, s.ID)
	}

	var missionRows []missionAggRow
	if err := t.DB.Model(&models.MissionProgress{}).
		Select("user_id, COUNT(id) AS missions_total, "+
			"SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS missions_completed, "+
			"COALESCE(AVG(score), 0) AS mission_avg_score, "+
			"COALESCE(MAX(score), 0) AS mission_best_score", models.MissionCompleted).
		Where("user_id IN ?", studentIDs).
		Group("user_id").
		Scan(&missionRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var quizRows []quizAggRow
	if err := t.DB.Model(&models.QuizResult{}).
		Select("student_id, COUNT(id) AS quizzes_taken, "+
			"COALESCE(AVG(score), 0) AS quiz_avg_score, "+
			"COALESCE(MAX(score), 0) AS quiz_best_score").
		Where("student_id IN ?", studentIDs).
		Group("student_id").
		Scan(&quizRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	missionByUser := make(map[uint]missionSummary, len(missionRows))
	for _, row := range missionRows {
		missionByUser[row.UserID] = missionSummary{
			MissionsTotal:     row.MissionsTotal,
			MissionsCompleted: row.MissionsCompleted,
			MissionAvgScore:   row.MissionAvgScore,
			MissionBestScore:  row.MissionBestScore,
		}
	}
	quizByUser := make(map[uint]quizSummary, len(quizRows))
	for _, row := range quizRows {
		quizByUser[row.StudentID] = quizSummary{
			QuizzesTaken:  row.QuizzesTaken,
			QuizAvgScore:  row.QuizAvgScore,
			QuizBestScore: row.QuizBestScore,
		}
	}

	studentPayload := make([]gin.H, 0, len(students))
	for _, s := range students {
		var classPublic, className string
		if s.ClassID != nil {
			classPublic = classPublicByID[*s.ClassID]
			className = classNameByID[*s.ClassID]
		}
		studentPayload = append(studentPayload, gin.H{
			"student_public_id": s.PublicID,
			"username":          s.Username,
			"class_public_id":   classPublic,
			"class_name":        className,
			"missions":          missionByUser[s.ID],
			"quizzes":           quizByUser[s.ID],
		})
	}

	c.JSON(http.StatusOK, gin.H{"classes": classPayload, "students": studentPayload})
}

type progressDetailRow struct {
	MissionPublicID string    `json:"mission_public_id"`
	Title           string    `json:"title"`
	Status          string    `json:"status"`
	Score           int       `json:"score"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type quizDetailRow struct {
	QuizPublicID string    `json:"quiz_public_id"`
	Title        string    `json:"title"`
	Score        int       `json:"score"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StudentSummary returns one student's records and scalar summary. The class
// ownership check is a relationship check on top of the Teacher role gate: a
// student in another teacher's class is 403, a missing student 404.
func (t *TeacherController) StudentSummary(c *gin.Context) {
	teacher, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	publicID := strings.TrimSpace(c.Param("public_id"))
	if publicID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid student id"})
		return
	}

	var student models.User
	if err := t.DB.Where("public_id = ? AND role = ?", publicID, models.RoleStudent).First(&student).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}

	var class models.Class
	classErr := gorm.ErrRecordNotFound
	if student.ClassID != nil {
		classErr = t.DB.Where("id = ? AND teacher_id = ?", *student.ClassID, teacher.ID).First(&class).Error
	}
	if classErr != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Student is not in your class"})
		return
	}

	var progress []progressDetailRow
	if err := t.DB.Model(&models.MissionProgress{}).
		Select("missions.public_id AS mission_public_id, missions.title, mission_progresses.status, mission_progresses.score, mission_progresses.updated_at").
		Joins("JOIN missions ON missions.id = mission_progresses.mission_id").
		Where("mission_progresses.user_id = ?", student.ID).
		Order("mission_progresses.updated_at DESC").
		Scan(&progress).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var quizResults []quizDetailRow
	if err := t.DB.Model(&models.QuizResult{}).
		Select("quizzes.public_id AS quiz_public_id, quizzes.title, quiz_results.score, quiz_results.updated_at").
		Joins("JOIN quizzes ON quizzes.id = quiz_results.quiz_id").
		Where("quiz_results.student_id = ?", student.ID).
		Scan(&quizResults).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var playtime []models.PlaytimeLog
	if err := t.DB.Where("user_id = ?", student.ID).Order("date DESC").Find(&playtime).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Empty lists yield 0.0 means, not an error.
	missionAvg := 0.0
	if len(progress) > 0 {
		sum := 0
		for _, p := range progress {
			sum += p.Score
		}
		missionAvg = float64(sum) / float64(len(progress))
	}
	quizAvg := 0.0
	if len(quizResults) > 0 {
		sum := 0
		for _, q := range quizResults {
			sum += q.Score
		}
		quizAvg = float64(sum) / float64(len(quizResults))
	}
	totalPlaytime := 0
	playtimePayload := make([]gin.H, 0, len(playtime))
	for _, pl := range playtime {
		totalPlaytime += pl.DurationMinutes
		playtimePayload = append(playtimePayload, gin.H{
			"date":    pl.Date.Format("2006-01-02"),
			"minutes": pl.DurationMinutes,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"student": gin.H{
			"public_id":       student.PublicID,
			"username":        student.Username,
			"class_public_id": class.PublicID,
			"class_name":      class.Name,
		},
		"summary": gin.H{
			"mission_count":          len(progress),
			"quiz_count":             len(quizResults),
			"mission_average_score":  missionAvg,
			"quiz_average_score":     quizAvg,
			"total_playtime_minutes": totalPlaytime,
		},
		"missions":      progress,
		"quiz_results":  quizResults,
		"playtime_logs": playtimePayload,
	})
}

type createQuizRequest struct {
	Title        string `json:"title"`
	TimerSeconds *int   `json:"timer_seconds"`
	StartDate    string `json:"start_date"`
}

func (t *TeacherController) CreateQuiz(c *gin.Context) {
	teacher, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	timerSeconds := 300
	if req.TimerSeconds != nil {
		timerSeconds = *req.TimerSeconds
	}
	if timerSeconds <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "timer_seconds must be a positive integer"})
		return
	}

	startDate := time.Now().UTC()
	if strings.TrimSpace(req.StartDate) != "" {
		parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(req.StartDate))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be a valid ISO-8601 datetime"})
			return
		}
		startDate = parsed
	}

	quiz := models.Quiz{
		TeacherID:    teacher.ID,
		Title:        title,
		TimerSeconds: timerSeconds,
		StartDate:    startDate,
	}
	if err := t.DB.Create(&quiz).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Quiz created successfully",
		"quiz": gin.H{
			"public_id":     quiz.PublicID,
			"title":         quiz.Title,
			"timer_seconds": quiz.TimerSeconds,
			"start_date":    quiz.StartDate,
		},
	})
}

type sendMessageRequest struct {
	ReceiverPublicID string `json:"receiver_public_id"`
	Content          string `json:"content"`
}

// SendMessage authorizes by relationship, not just role: a Student receiver
// must sit in one of the sender's classes, a Parent receiver must have a child
// in one of them.
func (t *TeacherController) SendMessage(c *gin.Context) {
	teacher, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	receiverID := strings.TrimSpace(req.ReceiverPublicID)
	content := strings.TrimSpace(req.Content)
	if receiverID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "receiver_public_id is required"})
		return
	}
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}

	var receiver models.User
	if err := t.DB.Where("public_id = ?", receiverID).First(&receiver).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Receiver not found"})
		return
	}

	switch receiver.Role {
	case models.RoleStudent:
		var count int64
		if receiver.ClassID != nil {
			if err := t.DB.Model(&models.Class{}).
				Where("id = ? AND teacher_id = ?", *receiver.ClassID, teacher.ID).
				Count(&count).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		}
		if count == 0 {
			c.JSON(http.StatusForbidden, gin.H{"error": "Student is not in your class"})
			return
		}
	case models.RoleParent:
		var classIDs []uint
		if err := t.DB.Model(&models.Class{}).
			Where("teacher_id = ?", teacher.ID).
			Pluck("id", &classIDs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if len(classIDs) == 0 {
			c.JSON(http.StatusForbidden, gin.H{"error": "You have no assigned classes"})
			return
		}
		var count int64
		if err := t.DB.Model(&models.User{}).
			Where("parent_id = ? AND role = ? AND class_id IN ?", receiver.ID, models.RoleStudent, classIDs).
			Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if count == 0 {
			c.JSON(http.StatusForbidden, gin.H{"error": "Parent is not linked to your students"})
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Receiver must be a Student or Parent"})
		return
	}

	message := models.Message{
		SenderID:   teacher.ID,
		ReceiverID: receiver.ID,
		Content:    content,
	}
	if err := t.DB.Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Message sent successfully",
		"data": gin.H{
			"public_id":          message.PublicID,
			"receiver_public_id": receiver.PublicID,
			"content":            message.Content,
			"created_at":         message.CreatedAt,
		},
	})
}

type createLobbyRequest struct {
	ClassPublicID string `json:"class_public_id"`
	Name          string `json:"name"`
	IP            string `json:"ip"`
	Port          *int   `json:"port"`
	PlayerCount   *int   `json:"player_count"`
}

// CreateLobby registers or refreshes a game server record tied to one of the
// teacher's classes. GameServer has no class column; the linkage is enforced
// here and echoed in the response.
func (t *TeacherController) CreateLobby(c *gin.Context) {
	teacher, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createLobbyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	classID := strings.TrimSpace(req.ClassPublicID)
	if classID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "class_public_id is required"})
		return
	}

	var class models.Class
	if err := t.DB.Where("public_id = ? AND teacher_id = ?", classID, teacher.ID).First(&class).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Class not found or not owned by teacher"})
		return
	}

	ip := strings.TrimSpace(req.IP)
	if ip == "" || req.Port == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "ip and port are required to create a lobby record",
			"integration": gin.H{
				"option":      "Use existing /server/register heartbeat flow",
				"instruction": "Start your game server and POST {name, port, count} to /server/register from the game host.",
				"tip":         "Include class metadata in name, for example: " + class.Name + " Lobby",
			},
		})
		return
	}

	playerCount := 0
	if req.PlayerCount != nil {
		playerCount = *req.PlayerCount
	}
	if *req.Port <= 0 || playerCount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "port must be positive and player_count must be >= 0"})
		return
	}

	serverName := strings.TrimSpace(req.Name)
	if serverName == "" {
		serverName = class.Name + " Lobby"
	}

	server, created, err := upsertGameServer(t.DB, ip, *req.Port, serverName, playerCount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	broadcastServerStatus(t.Hub, server)

	status := http.StatusOK
	verb := "updated"
	if created {
		status = http.StatusCreated
		verb = "created"
	}
	c.JSON(status, gin.H{
		"message": "Lobby " + verb + " successfully",
		"lobby": gin.H{
			"public_id":       server.PublicID,
			"name":            server.Name,
			"ip":              server.IP,
			"port":            server.Port,
			"player_count":    server.PlayerCount,
			"class_public_id": class.PublicID,
			"class_name":      class.Name,
		},
	})
}
