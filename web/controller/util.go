package controller

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/leadmap/leadmap/logger"
	"github.com/leadmap/leadmap/util/common"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	// report JSON field names in validation messages
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// jsonError writes err as {"error": msg} with the status matching its kind.
// Unexpected errors are logged and reported without details.
func jsonError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch common.KindOf(err) {
	case common.KindValidation:
		status = http.StatusBadRequest
	case common.KindAuth:
		status = http.StatusUnauthorized
	case common.KindForbidden:
		status = http.StatusForbidden
	case common.KindConflict:
		status = http.StatusConflict
	case common.KindRateLimited:
		status = http.StatusTooManyRequests
	}

	if status == http.StatusInternalServerError {
		logger.Errorf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.AbortWithStatusJSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// jsonMsg writes {"message": msg} with the given status.
func jsonMsg(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

// bindJSON decodes and validates the request body into form, writing a 400
// response and returning false on failure.
func bindJSON(c *gin.Context, form any) bool {
	err := c.ShouldBindJSON(form)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		msg := fe.Field() + " is invalid"
		switch fe.Tag() {
		case "required":
			msg = fe.Field() + " is required"
		case "min":
			msg = fe.Field() + " must be at least " + fe.Param()
		}
		jsonError(c, common.NewValidationError(msg))
		return false
	}
	jsonError(c, common.NewValidationError("Invalid request body"))
	return false
}

// paramId parses the :id route parameter.
func paramId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonError(c, common.NewValidationError("Invalid id"))
		return 0, false
	}
	return id, true
}
