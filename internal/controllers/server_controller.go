package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/schoolverse/game_backend/internal/models"
	"github.com/schoolverse/game_backend/internal/ws"
)

// heartbeatWindow is how long a server stays listed after its last heartbeat.
const heartbeatWindow = 15 * time.Second

type ServerController struct {
	DB  *gorm.DB
	Hub *ws.LobbyHub
}

type registerServerRequest struct {
	IP    string `json:"ip"`
	Port  *int   `json:"port"`
	Name  string `json:"name"`
	Count *int   `json:"count"`
}

// RegisterServer is the heartbeat endpoint called by game server instances.
// Unauthenticated: servers are identified by their (ip, port) pair.
func (s *ServerController) RegisterServer(c *gin.Context) {
	var req registerServerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Port == nil || *req.Port <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "port is required and must be positive"})
		return
	}

	ip := strings.TrimSpace(req.IP)
	if ip == "" {
		ip = c.ClientIP()
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "Unknown Server"
	}
	count := 0
	if req.Count != nil {
		count = *req.Count
	}

	server, _, err := upsertGameServer(s.DB, ip, *req.Port, name, count)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	broadcastServerStatus(s.Hub, server)

	c.String(http.StatusOK, "OK")
}

// ListServers returns servers whose heartbeat is within the liveness window.
// Stale rows are filtered, never deleted.
func (s *ServerController) ListServers(c *gin.Context) {
	cutoff := time.Now().UTC().Add(-heartbeatWindow)

	var servers []models.GameServer
	if err := s.DB.Where("last_heartbeat > ?", cutoff).Find(&servers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]gin.H, 0, len(servers))
	for _, srv := range servers {
		out = append(out, gin.H{
			"public_id": srv.PublicID,
			"ip":        srv.IP,
			"port":      srv.Port,
			"name":      srv.Name,
			"count":     srv.PlayerCount,
		})
	}
	c.JSON(http.StatusOK, out)
}

// upsertGameServer finds-or-creates by (ip, port) and refreshes name, player
// count and heartbeat. The read-then-write has an insert race under the
// unique index on (ip, port); a unique-violation loser retries as an update.
func upsertGameServer(db *gorm.DB, ip string, port int, name string, count int) (models.GameServer, bool, error) {
	now := time.Now().UTC()

	var server models.GameServer
	err := db.Where("ip = ? AND port = ?", ip, port).First(&server).Error
	if err == nil {
		server.Name = name
		server.PlayerCount = count
		server.LastHeartbeat = now
		if err := db.Save(&server).Error; err != nil {
			return models.GameServer{}, false, err
		}
		return server, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.GameServer{}, false, err
	}

	server = models.GameServer{
		IP:            ip,
		Port:          port,
		Name:          name,
		PlayerCount:   count,
		LastHeartbeat: now,
	}
	if err := db.Create(&server).Error; err != nil {
		if isUniqueViolation(err) {
			// Lost the insert race; the row exists now, update it.
			var existing models.GameServer
			if ferr := db.Where("ip = ? AND port = ?", ip, port).First(&existing).Error; ferr != nil {
				return models.GameServer{}, false, ferr
			}
			existing.Name = name
			existing.PlayerCount = count
			existing.LastHeartbeat = now
			if serr := db.Save(&existing).Error; serr != nil {
				return models.GameServer{}, false, serr
			}
			return existing, false, nil
		}
		return models.GameServer{}, false, err
	}
	return server, true, nil
}

func broadcastServerStatus(hub *ws.LobbyHub, server models.GameServer) {
	hub.Broadcast(ws.ServerStatus{
		PublicID:      server.PublicID,
		Name:          server.Name,
		IP:            server.IP,
		Port:          server.Port,
		PlayerCount:   server.PlayerCount,
		LastHeartbeat: server.LastHeartbeat,
	})
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// sqlite driver surfaces constraint failures as plain errors
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
