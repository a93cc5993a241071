package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"HospitalCare/middleware"
	"HospitalCare/policy"
	"HospitalCare/util"
)

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, util.SuccessResponse(data))
}

func created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, util.SuccessResponse(data))
}

func fail(c *gin.Context, err error) {
	appErr := util.AsAppError(err)
	c.JSON(util.StatusCode(appErr.Kind), util.FailedResponse(appErr))
}

func caller(c *gin.Context) *policy.Principal {
	return middleware.Principal(c)
}

/*
* Bind the JSON body into the request struct
* Turn validator output into a readable ValidationError
 */
func bindJSON(c *gin.Context, out interface{}) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		fail(c, util.Validation(bindingMessage(err)))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, out interface{}) bool {
	if err := c.ShouldBindQuery(out); err != nil {
		fail(c, util.Validation(bindingMessage(err)))
		return false
	}
	return true
}

func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return util.INVALID_REQUEST_BODY
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	case "hhmm":
		return util.INVALID_TIME
	case "ymd":
		return util.INVALID_DATE
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
