// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/checkout"
	"github.com/your-org/storefront/internal/pkg/metrics"
)

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	checkout *checkout.Service
	metrics  *metrics.Metrics
	log      logrus.FieldLogger
}

// NewCheckoutHandler creates a new checkout handler. m may be nil.
func NewCheckoutHandler(checkoutService *checkout.Service, m *metrics.Metrics, log logrus.FieldLogger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkoutService,
		metrics:  m,
		log:      log,
	}
}

// Checkout handles POST /cart/checkout
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	receipt, err := h.checkout.Complete(c.Request.Context())
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Cart is empty",
			})
			return
		}
		h.log.WithError(err).Error("checkout failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to complete checkout",
		})
		return
	}

	if h.metrics != nil {
		h.metrics.CheckoutsCompleted.Inc()
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Checkout completed successfully",
		"notification": "Order placed",
		"data":         receipt,
	})
}
