package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard/internal/constants"
	"github.com/yukikurage/taskboard/internal/realtime"
)

// TabIDHeader carries the browser tab id so change events skip their sender
const TabIDHeader = "X-Tab-ID"

// ClientTab tags the request context with the caller's tab id
func ClientTab() gin.HandlerFunc {
	return func(c *gin.Context) {
		tabID := c.GetHeader(TabIDHeader)
		if tabID == "" {
			tabID = c.Query("tab")
		}
		if tabID != "" {
			c.Set(constants.ContextKeyClientTabID, tabID)
			c.Request = c.Request.WithContext(realtime.WithOrigin(c.Request.Context(), tabID))
		}
		c.Next()
	}
}
