package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopcore/internal/domain"
)

type addItemInput struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

type changeItemInput struct {
	Quantity int `json:"quantity"`
}

func getCartHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		lines, err := svc.Get(c.Request.Context(), currentUser(c))
		if err != nil {
			writeError(c, err)
			return
		}
		if lines == nil {
			lines = []domain.CartLine{}
		}
		c.JSON(http.StatusOK, gin.H{
			"lines": lines,
			"total": domain.CartTotal(lines),
		})
	}
}

func addCartItemHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in addItemInput
		if err := c.ShouldBindJSON(&in); err != nil {
			writeBadRequest(c, err)
			return
		}
		line, err := svc.AddItem(c.Request.Context(), currentUser(c), in.SKU, in.Quantity)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, line)
	}
}

func changeCartItemHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		lineID, ok := pathUUID(c, "id")
		if !ok {
			return
		}
		var in changeItemInput
		if err := c.ShouldBindJSON(&in); err != nil {
			writeBadRequest(c, err)
			return
		}
		if err := svc.ChangeItem(c.Request.Context(), currentUser(c), lineID, in.Quantity); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func clearCartHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Clear(c.Request.Context(), currentUser(c)); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
