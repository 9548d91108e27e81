package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/markkent-max/schedease/internal/dto"
	"github.com/markkent-max/schedease/internal/service"
	"github.com/markkent-max/schedease/pkg/response"
)

var bindingOnce sync.Once

// RegisterBinding installs the scheduling rules on gin's validator and makes
// field errors report json names. Safe to call more than once.
func RegisterBinding() error {
	var err error
	bindingOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin validator engine is not validator/v10")
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
				if name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})
		err = service.RegisterValidationRules(v)
	})
	return err
}

// bindError answers a request that failed ShouldBindJSON/ShouldBindQuery.
func bindError(c *gin.Context, err error) {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "invalid request body", err.Error())
		return
	}
	fields := make([]dto.FieldErrorResponse, 0, len(ves))
	for _, fe := range ves {
		fields = append(fields, dto.FieldErrorResponse{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
	}
	response.ErrorWithData(c, http.StatusBadRequest, 10001, "validation failed", gin.H{"fields": fields})
}

// handleCommonError answers errors shared by every module. It reports false
// when err needs a module specific mapping.
func handleCommonError(c *gin.Context, err error) bool {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		if len(ve.Fields) > 0 {
			response.ErrorWithData(c, http.StatusBadRequest, 10001, "validation failed", gin.H{"fields": ve.Fields})
		} else {
			response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "validation failed", ve.Error())
		}
	case errors.Is(err, service.ErrConcurrentModification):
		response.Conflict(c, 10007, "record was modified concurrently, retry")
	case errors.Is(err, service.ErrResourceBusy):
		response.Conflict(c, 10008, "room or instructor is busy, retry")
	default:
		return false
	}
	return true
}
