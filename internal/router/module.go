package router

import "github.com/gin-gonic/gin"

// Module is a feature slice (auth, users, merchants, deals) that registers
// its own routes on the shared /api group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
