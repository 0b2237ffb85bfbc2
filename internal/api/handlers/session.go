package handlers

import (
	"encoding/gob"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"quizgen/internal/models"
)

const (
	recentSessionKey = "recent_artifacts"
	maxRecent        = 5
)

func init() {
	// Session stores encode values with gob and need the concrete type.
	gob.Register([]models.RecentArtifact{})
}

// recentArtifacts returns the artifacts generated earlier in this browser session, newest first.
func recentArtifacts(c *gin.Context) []models.RecentArtifact {
	recent, _ := sessions.Default(c).Get(recentSessionKey).([]models.RecentArtifact)
	return recent
}

// addRecent prepends a to the session list, keeping at most maxRecent entries.
func addRecent(c *gin.Context, a models.RecentArtifact) error {
	session := sessions.Default(c)
	recent := append([]models.RecentArtifact{a}, recentArtifacts(c)...)
	if len(recent) > maxRecent {
		recent = recent[:maxRecent]
	}
	session.Set(recentSessionKey, recent)
	return session.Save()
}
