package controllers

import (
	"github.com/Strmly-Technologies/Delivery-Page-sub000/pkg/resp"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/repository"

	"github.com/gin-gonic/gin"
)

type ProductController struct {
	Products *repository.ProductRepository
}

func NewProductController(products *repository.ProductRepository) *ProductController {
	return &ProductController{Products: products}
}

// GET /products — active catalog, public
func (pc *ProductController) List(c *gin.Context) {
	out, err := pc.Products.List()
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}
