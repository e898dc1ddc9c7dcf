package controller

import (
	"errors"
	"strings"

	"virtual-assistant-be/internal/constant"
	"virtual-assistant-be/internal/dto"
	"virtual-assistant-be/internal/pkg/serverutils"
	"virtual-assistant-be/internal/service"
	"virtual-assistant-be/pkg/rag/session"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	GeminiChat(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
	CreateSession(ctx *fiber.Ctx) error
	ShowSession(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
	ClearMessages(ctx *fiber.Ctx) error
	TriggerAction(ctx *fiber.Ctx) error
	CloseSession(ctx *fiber.Ctx) error
}

type assistantController struct {
	assistantService service.IAssistantService
}

func NewAssistantController(assistantService service.IAssistantService) IAssistantController {
	return &assistantController{
		assistantService: assistantService,
	}
}

// RegisterRoutes mounts the widget endpoints on the application root.
func (c *assistantController) RegisterRoutes(r fiber.Router) {
	r.Post("/gemini-chat", c.GeminiChat)

	api := r.Group("/api")
	api.Post("/gemini-chat", c.GeminiChat)
	api.Get("/health", c.Health)

	h := api.Group("/chat/v1")
	h.Post("/session", c.CreateSession)
	h.Get("/session/:id", c.ShowSession)
	h.Delete("/session/:id", c.CloseSession)
	h.Post("/session/:id/message", c.SendMessage)
	h.Delete("/session/:id/messages", c.ClearMessages)
	h.Post("/session/:id/action", c.TriggerAction)
}

// GeminiChat answers { message } with { answer }. Generation failures are
// answered conversationally with status 200.
func (c *assistantController) GeminiChat(ctx *fiber.Ctx) error {
	var req dto.GeminiChatRequest
	if err := ctx.BodyParser(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(dto.GeminiChatErrorResponse{Error: constant.ErrMissingMessage})
	}

	res, err := c.assistantService.Ask(ctx.UserContext(), &req)
	if err != nil {
		if errors.Is(err, service.ErrMissingMessage) {
			return ctx.Status(fiber.StatusBadRequest).JSON(dto.GeminiChatErrorResponse{Error: constant.ErrMissingMessage})
		}
		if errors.Is(err, service.ErrKnowledgeUnavailable) {
			return ctx.Status(fiber.StatusInternalServerError).JSON(dto.GeminiChatErrorResponse{Error: constant.ErrKnowledgeUnavailable})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(dto.GeminiChatErrorResponse{Error: err.Error()})
	}

	return ctx.JSON(res)
}

func (c *assistantController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success health check", c.assistantService.Health(ctx.UserContext())))
}

func (c *assistantController) CreateSession(ctx *fiber.Ctx) error {
	res, err := c.assistantService.CreateSession(ctx.UserContext())
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *assistantController) ShowSession(ctx *fiber.Ctx) error {
	res, err := c.assistantService.GetSession(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *assistantController) SendMessage(ctx *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, constant.ErrMissingMessage))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return fail(ctx, err)
	}

	res, err := c.assistantService.SendMessage(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success send message", res))
}

func (c *assistantController) ClearMessages(ctx *fiber.Ctx) error {
	res, err := c.assistantService.ClearMessages(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success clear messages", res))
}

func (c *assistantController) TriggerAction(ctx *fiber.Ctx) error {
	var req dto.TriggerActionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return fail(ctx, err)
	}

	res, err := c.assistantService.TriggerAction(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success trigger action", res))
}

func (c *assistantController) CloseSession(ctx *fiber.Ctx) error {
	if err := c.assistantService.CloseSession(ctx.UserContext(), ctx.Params("id")); err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success close session", nil))
}

func fail(ctx *fiber.Ctx, err error) error {
	code, message := fiber.StatusInternalServerError, err.Error()

	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		code, message = fiber.StatusBadRequest, serverutils.ValidationMessage(validationErrs)
	case errors.Is(err, session.ErrSessionNotFound):
		code, message = fiber.StatusNotFound, constant.ErrSessionNotFound
	case errors.Is(err, session.ErrEmptyMessage):
		code, message = fiber.StatusBadRequest, constant.ErrMissingMessage
	case errors.Is(err, session.ErrTurnInFlight):
		code, message = fiber.StatusConflict, constant.ErrTurnInFlight
	case errors.Is(err, session.ErrTurnDiscarded):
		code, message = fiber.StatusConflict, constant.ErrTurnDiscarded
	case errors.Is(err, session.ErrActionNotFound):
		code, message = fiber.StatusUnprocessableEntity, constant.ErrActionNotOffered
	}

	return ctx.Status(code).JSON(serverutils.ErrorResponse(code, message))
}
