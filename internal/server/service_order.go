package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	serviceorderdomain "github.com/smallbiznis/taller/internal/serviceorder/domain"
)

func (s *Server) CreateServiceOrder(c *gin.Context) {
	var req serviceorderdomain.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.serviceorderSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListServiceOrders(c *gin.Context) {
	var req serviceorderdomain.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.serviceorderSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetServiceOrder(c *gin.Context) {
	resp, err := s.serviceorderSvc.Get(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateServiceOrder(c *gin.Context) {
	var req serviceorderdomain.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.serviceorderSvc.Update(c.Request.Context(), c.Param("order_id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateServiceOrderStatus(c *gin.Context) {
	var req struct {
		Status serviceorderdomain.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.serviceorderSvc.UpdateStatus(c.Request.Context(), c.Param("order_id"), req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// GetServiceOrderDocument returns the staff projection, including
// cost and margin, for on-screen review.
func (s *Server) GetServiceOrderDocument(c *gin.Context) {
	doc, err := s.serviceorderSvc.Project(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": doc})
}

// ShareServiceOrder mints or reuses the order's tracking token and
// returns the public link plus a QR code. Sharing is idempotent: the
// same order always yields the same link.
func (s *Server) ShareServiceOrder(c *gin.Context) {
	resp, err := s.trackingSvc.Share(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// GetServiceTicketPDF renders the printable intake ticket with the
// tracking QR embedded.
func (s *Server) GetServiceTicketPDF(c *gin.Context) {
	orderID := c.Param("order_id")

	share, err := s.trackingSvc.Share(c.Request.Context(), orderID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	doc, err := s.serviceorderSvc.Project(c.Request.Context(), orderID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	reader, err := s.pdfProvider.RenderServiceTicket(c.Request.Context(), *doc, s.cfg.AppName, share.URL)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	payload, err := io.ReadAll(reader)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+doc.Identity.Folio+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", payload)
}
