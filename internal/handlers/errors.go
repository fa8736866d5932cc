package handlers

import (
	"github.com/gin-gonic/gin"

	"clinic-scheduling-server/internal/scheduling"
	"clinic-scheduling-server/internal/utils"
)

// respondSchedulingError maps a scheduling error kind onto a client
// status. Errors without a kind are treated as internal.
func respondSchedulingError(c *gin.Context, err error) {
	switch scheduling.KindOf(err) {
	case scheduling.KindInvalidRange:
		utils.BadRequest(c, err.Error())
	case scheduling.KindAccessDenied:
		utils.Forbidden(c, err.Error())
	case scheduling.KindNotFound, scheduling.KindUnknownUser:
		utils.NotFound(c, err.Error())
	case scheduling.KindOverlap, scheduling.KindConflict, scheduling.KindInvalidTransition:
		utils.Conflict(c, err.Error())
	case scheduling.KindDoctorUnavailable, scheduling.KindInactiveUser:
		utils.UnprocessableEntity(c, err.Error())
	default:
		utils.InternalServerError(c, err.Error())
	}
}
