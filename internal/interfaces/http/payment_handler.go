package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/happyshop-api/internal/application/checkout"
	"github.com/jhoicas/happyshop-api/internal/application/dto"
)

// PaymentHandler checkout, historial de auditoría y comprobantes.
type PaymentHandler struct {
	uc *checkout.PaymentUseCase
}

// NewPaymentHandler construye el handler de pagos.
func NewPaymentHandler(uc *checkout.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

// Pay godoc
// @Summary      Procesar el pago de una orden
// @Description  Un pago rechazado responde 402 con el motivo en details.
// @Tags         checkout
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PaymentRequest  true  "orden, monto y método"
// @Success      201   {object}  dto.PaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      402   {object}  dto.PaymentResponse
// @Router       /api/checkout/payments [post]
func (h *PaymentHandler) Pay(c *fiber.Ctx) error {
	var in dto.PaymentRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Pay(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	if !out.Success {
		return c.Status(fiber.StatusPaymentRequired).JSON(out)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// History godoc
// @Summary      Historial de transacciones de una orden
// @Tags         checkout
// @Security     BearerAuth
// @Produce      json,plain
// @Param        orderId  path   int     true   "ID de la orden"
// @Param        format   query  string  false  "text para una línea por registro"
// @Success      200   {object}  dto.TransactionHistoryResponse
// @Router       /api/orders/{orderId}/transactions [get]
func (h *PaymentHandler) History(c *fiber.Ctx) error {
	orderID, err := strconv.ParseInt(c.Params("orderId"), 10, 64)
	if err != nil || orderID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "orderId inválido"})
	}
	if c.Query("format") == "text" {
		body, err := h.uc.HistoryText(c.UserContext(), orderID)
		if err != nil {
			return writeError(c, err)
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.SendString(body)
	}
	out, err := h.uc.History(c.UserContext(), orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Comprobante PDF de una transacción
// @Tags         checkout
// @Security     BearerAuth
// @Produce      application/pdf
// @Param        id  path  int  true  "ID de la transacción"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id}/receipt [get]
func (h *PaymentHandler) Receipt(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	pdfBytes, filename, err := h.uc.Receipt(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
