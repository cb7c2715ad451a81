package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/bob1127/eSIM-pwa-sub000/internal/domain/errors"
	"github.com/bob1127/eSIM-pwa-sub000/internal/server/http/dto"
)

// writeError maps domain failures onto the uniform failure envelope without
// leaking internals. Validation-class problems carry their message through so
// the customer sees something actionable; store failures do not.
func writeError(c *gin.Context, err error) {
	var (
		missingPlan *domainErrors.MissingPlanMappingError
		vendorErr   *domainErrors.VendorError
		gatewayErr  *domainErrors.GatewayError
		storeErr    *domainErrors.StoreError
		deliverErr  *domainErrors.DeliveryError
	)

	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		respond(c, http.StatusNotFound, "order not found")
	case errors.As(err, &missingPlan):
		respond(c, http.StatusUnprocessableEntity, missingPlan.Error()+", please contact support")
	case errors.Is(err, domainErrors.ErrValidation):
		respond(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domainErrors.ErrCouponExpired):
		respond(c, http.StatusBadRequest, "coupon expired")
	case errors.Is(err, domainErrors.ErrAlreadyFulfilled):
		respond(c, http.StatusConflict, "order is already fulfilled")
	case errors.Is(err, domainErrors.ErrInvalidTransition):
		respond(c, http.StatusConflict, "order is not in a state that allows this operation")
	case errors.As(err, &storeErr):
		respond(c, http.StatusInternalServerError, "something went wrong, please try again")
	case errors.As(err, &vendorErr):
		respond(c, http.StatusBadGateway, err.Error())
	case errors.As(err, &gatewayErr):
		respond(c, http.StatusBadGateway, "payment form could not be generated, please retry")
	case errors.As(err, &deliverErr):
		respond(c, http.StatusBadGateway, "notification could not be delivered, it will be retried")
	default:
		respond(c, http.StatusInternalServerError, "something went wrong, please try again")
	}
}

func respond(c *gin.Context, status int, message string) {
	c.JSON(status, dto.ErrorResponse{Success: false, Message: message})
}
