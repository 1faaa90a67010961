package api

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const defaultAPIVersion = "v1"

// VersionMiddleware 解析请求的 API 版本并写入上下文
// 版本来源: URL 路径 /api/v1/... 或请求头 API-Version(优先)
func VersionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		version := versionFromPath(c.Request.URL.Path)
		if hv := c.GetHeader("API-Version"); hv != "" {
			version = hv
		}

		c.Set("api_version", version)
		c.Header("X-API-Version", version)
		c.Next()
	}
}

func versionFromPath(path string) string {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(parts) >= 2 && parts[0] == "api" && strings.HasPrefix(parts[1], "v") && len(parts[1]) > 1 {
		return parts[1]
	}
	return defaultAPIVersion
}

// GetAPIVersion 从上下文获取 API 版本
func GetAPIVersion(c *gin.Context) string {
	if v, ok := c.Get("api_version"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return defaultAPIVersion
}
