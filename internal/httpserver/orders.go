package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"storefront/internal/domain"
	ordersvc "storefront/internal/service/order"
)

func createOrderHandler(orders orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := currentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "authorization token required"})
			return
		}

		var in ordersvc.CreateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
			return
		}

		created, err := orders.Create(c.Request.Context(), u.ID, in)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"orderId": created.ID})
	}
}

func listOrdersHandler(orders orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := currentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "authorization token required"})
			return
		}

		list, err := orders.List(c.Request.Context(), u.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not load orders"})
			return
		}
		if list == nil {
			list = []domain.Order{}
		}
		c.JSON(http.StatusOK, list)
	}
}

func getOrderHandler(orders orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := currentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "authorization token required"})
			return
		}

		o, err := orders.Get(c.Request.Context(), u.ID, u.IsAdmin(), c.Param("id"))
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
			case errors.Is(err, ordersvc.ErrForbidden):
				c.JSON(http.StatusForbidden, gin.H{"message": "access denied"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"message": "could not load order"})
			}
			return
		}

		c.JSON(http.StatusOK, o)
	}
}
