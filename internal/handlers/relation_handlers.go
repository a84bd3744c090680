package handlers

import (
	"github.com/gofiber/fiber/v2"
)

type sendConnectionReq struct {
	SendingID   string `json:"sendingId" validate:"required"`
	ReceivingID string `json:"receivingId" validate:"required"`
}

func (h *Handler) SendConnectionRequest(c *fiber.Ctx) error {
	var req sendConnectionReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body !")
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	if err := h.relations.SendRequest(c.Context(), req.SendingID, req.ReceivingID); err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"status":  true,
		"message": "connection request sent",
	})
}

type respondConnectionReq struct {
	RespondingID    string `json:"respondingId" validate:"required"`
	ReceivingID     string `json:"receivingId" validate:"required"`
	ConnectResponse *bool  `json:"connectResponse" validate:"required"`
}

func (h *Handler) RespondConnectionRequest(c *fiber.Ctx) error {
	var req respondConnectionReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body !")
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	accept := *req.ConnectResponse
	if err := h.relations.Respond(c.Context(), req.RespondingID, req.ReceivingID, accept); err != nil {
		return h.fail(c, err)
	}

	message := "connection request declined"
	if accept {
		message = "connection request accepted"
	}
	return c.JSON(fiber.Map{
		"status":  true,
		"message": message,
	})
}

type sendCallReq struct {
	SendingID   string `json:"sendingId" validate:"required"`
	ReceivingID string `json:"receivingId" validate:"required"`
	CallerName  string `json:"callerName" validate:"required"`
}

func (h *Handler) SendCallRequest(c *fiber.Ctx) error {
	var req sendCallReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body !")
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	if err := h.calls.PlaceCall(c.Context(), req.SendingID, req.ReceivingID, req.CallerName); err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"status":  true,
		"message": "call request sent",
	})
}
