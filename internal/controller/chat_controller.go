package controller

import (
	"errors"

	"rag-compare-be/internal/dto"
	"rag-compare-be/internal/pkg/serverutils"
	"rag-compare-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Compare(ctx *fiber.Ctx) error
	ListSessions(ctx *fiber.Ctx) error
	ShowSession(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
	ClearSessions(ctx *fiber.Ctx) error
}

type chatController struct {
	compareService service.ICompareService
	sessionService service.ISessionService
}

func NewChatController(compareService service.ICompareService, sessionService service.ISessionService) IChatController {
	return &chatController{
		compareService: compareService,
		sessionService: sessionService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Post("compare", c.Compare)
	h.Get("sessions", c.ListSessions)
	h.Get("sessions/:id", c.ShowSession)
	h.Delete("sessions/:id", c.DeleteSession)
	h.Delete("sessions", c.ClearSessions)
}

func (c *chatController) Compare(ctx *fiber.Ctx) error {
	var req dto.CompareRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.compareService.Compare(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success compare prompt", res))
}

func (c *chatController) ListSessions(ctx *fiber.Ctx) error {
	res, err := c.sessionService.GetAll(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list sessions", res))
}

func (c *chatController) ShowSession(ctx *fiber.Ctx) error {
	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	res, err := c.sessionService.Get(ctx.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(fiber.StatusNotFound, err.Error()))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *chatController) DeleteSession(ctx *fiber.Ctx) error {
	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	err := c.sessionService.Delete(ctx.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(fiber.StatusNotFound, err.Error()))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete session", dto.DeleteSessionResponse{Deleted: true}))
}

func (c *chatController) ClearSessions(ctx *fiber.Ctx) error {
	deleted, err := c.sessionService.DeleteAll(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success clear sessions", dto.ClearSessionsResponse{Deleted: deleted}))
}
