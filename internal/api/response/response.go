package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope of every JSON body served under /api and /healthz.
type Response struct {
	Success bool `json:"success"`
	Code    int  `json:"code"`
	Extras  any  `json:"extras"`
}

func NewResponse(success bool, code int, extras any) Response {
	return Response{Success: success, Code: code, Extras: extras}
}

func ok(c *gin.Context, extras any) {
	c.JSON(http.StatusOK, NewResponse(true, http.StatusOK, extras))
}

// SuccessResponseContent wraps a plain text result as {"content": ...}.
func SuccessResponseContent(c *gin.Context, content string) {
	ok(c, gin.H{"content": content})
}

// SuccessResponseList wraps items under key together with their count.
// A nil slice is served as an empty list.
func SuccessResponseList[T any](c *gin.Context, key string, items []T) {
	if items == nil {
		items = []T{}
	}
	ok(c, gin.H{key: items, "count": len(items)})
}

func SuccessResponse(c *gin.Context, extras any) {
	ok(c, extras)
}

// ErrorResponse aborts the handler chain with a {"message": ...} body.
func ErrorResponse(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, NewResponse(false, code, gin.H{"message": message}))
}
