package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAdmin vérifie que l'utilisateur porte le drapeau admin
func RequireAdmin(c *gin.Context) {
	if !c.GetBool("is_admin") {
		c.JSON(http.StatusForbidden, gin.H{"message": "Accès réservé aux administrateurs"})
		c.Abort()
		return
	}
	c.Next()
}
