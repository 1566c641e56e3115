package http

// CreateCart godoc
// @Summary Create an empty cart
// @Tags Carts
// @Produce json
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Router /api/carts [post]
func (h *CartHandler) CreateCartDoc() {}

// GetCart godoc
// @Summary Get cart by ID
// @Tags Carts
// @Produce json
// @Param cid path string true "Cart ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/carts/{cid} [get]
func (h *CartHandler) GetCartDoc() {}

// AddItem godoc
// @Summary Add a product to a cart
// @Description Reserve stock for the quantity (default 1) and add or grow the cart line
// @Tags Carts
// @Accept json
// @Produce json
// @Param cid path string true "Cart ID"
// @Param pid path string true "Product ID"
// @Param request body object{quantity=int} false "Quantity"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/carts/{cid}/product/{pid} [post]
func (h *CartHandler) AddItemDoc() {}

// SetQuantity godoc
// @Summary Set a cart line's quantity
// @Description Reserve or release the stock delta, then set the line quantity
// @Tags Carts
// @Accept json
// @Produce json
// @Param cid path string true "Cart ID"
// @Param pid path string true "Product ID"
// @Param request body object{quantity=int} true "New quantity"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/carts/{cid}/product/{pid} [put]
func (h *CartHandler) SetQuantityDoc() {}

// RemoveItem godoc
// @Summary Remove a product from a cart
// @Description Drop the line and return its reserved quantity to catalog stock
// @Tags Carts
// @Produce json
// @Param cid path string true "Cart ID"
// @Param pid path string true "Product ID"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/carts/{cid}/product/{pid} [delete]
func (h *CartHandler) RemoveItemDoc() {}

// ClearCart godoc
// @Summary Empty a cart
// @Description Return every line's reserved stock (best-effort) and empty the line list
// @Tags Carts
// @Produce json
// @Param cid path string true "Cart ID"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/carts/{cid}/products [delete]
func (h *CartHandler) ClearCartDoc() {}

// DeleteCart godoc
// @Summary Delete a cart
// @Description Return all reserved stock (best-effort) and remove the cart
// @Tags Carts
// @Produce json
// @Param cid path string true "Cart ID"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/carts/{cid} [delete]
func (h *CartHandler) DeleteCartDoc() {}
