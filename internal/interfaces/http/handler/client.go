package handler

import (
	partnerapp "github.com/finsuite/backend/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// ClientHandler handles client-related API endpoints
type ClientHandler struct {
	BaseHandler
	clientService *partnerapp.ClientService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService *partnerapp.ClientService) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
	}
}

// Create godoc
// @Summary      Create a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CreateClientRequest true "Client creation request"
// @Success      201 {object} dto.Response{data=partnerapp.ClientResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	var req partnerapp.CreateClientRequest
	if !h.BindJSON(c, &req) {
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, client)
}

// List godoc
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Success      200 {object} dto.Response{data=[]partnerapp.ClientResponse}
// @Security     BearerAuth
// @Router       /clients [get]
func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.clientService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, clients)
}

// GetWithProducts godoc
// @Summary      Get client with products
// @Description  Look a client up by obfuscated unique code and attach its products.
// @Description  The code must be percent-encoded. When the product service cannot be reached
// @Description  the response is 200 with a null data field.
// @Tags         clients
// @Produce      json
// @Param        code path string true "Obfuscated unique code"
// @Success      200 {object} dto.Response{data=partnerapp.ClientWithProductsResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clients/{code} [get]
func (h *ClientHandler) GetWithProducts(c *gin.Context) {
	client, err := h.clientService.GetWithProducts(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if client == nil {
		h.Success(c, nil)
		return
	}

	h.Success(c, client)
}

// GetBasic godoc
// @Summary      Get client without products
// @Tags         clients
// @Produce      json
// @Param        code path string true "Obfuscated unique code"
// @Success      200 {object} dto.Response{data=partnerapp.ClientResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clients/{code}/basic [get]
func (h *ClientHandler) GetBasic(c *gin.Context) {
	client, err := h.clientService.GetBasic(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, client)
}

// GetByID godoc
// @Summary      Get client by internal ID
// @Description  Used by the product service to verify that a client exists
// @Tags         clients
// @Produce      json
// @Param        id path int true "Client ID"
// @Success      200 {object} dto.Response{data=partnerapp.ClientResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clients/id/{id} [get]
func (h *ClientHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	client, err := h.clientService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, client)
}

// Update godoc
// @Summary      Update a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        id path int true "Client ID"
// @Param        request body partnerapp.UpdateClientRequest true "Client update request"
// @Success      200 {object} dto.Response{data=partnerapp.ClientResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clients/id/{id} [put]
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req partnerapp.UpdateClientRequest
	if !h.BindJSON(c, &req) {
		return
	}

	client, err := h.clientService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, client)
}

// Delete godoc
// @Summary      Delete a client
// @Tags         clients
// @Param        id path int true "Client ID"
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clients/id/{id} [delete]
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.clientService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
