package router

import (
	"github.com/gin-gonic/gin"
	_ "github.com/library/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SwaggerPath serves the generated API documentation
const SwaggerPath = "/swagger/*any"

// MountSwagger serves the API docs outside the authenticated API prefix
func MountSwagger(engine *gin.Engine) {
	engine.GET(SwaggerPath, ginSwagger.WrapHandler(swaggerFiles.Handler))
}
