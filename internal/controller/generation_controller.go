package controller

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"ai-writingpad-be/internal/dto"
	"ai-writingpad-be/internal/pkg/serverutils"
	"ai-writingpad-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type IGenerationController interface {
	RegisterRoutes(r fiber.Router)
	Submit(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	Stream(ctx *fiber.Ctx) error
}

type generationController struct {
	generationService service.IGenerationService
}

func NewGenerationController(generationService service.IGenerationService) IGenerationController {
	return &generationController{
		generationService: generationService,
	}
}

func (c *generationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/generation/v1")
	h.Post("", c.Submit)
	h.Post(":id/cancel", c.Cancel)
	h.Get(":id/stream", c.Stream)
}

func (c *generationController) Submit(ctx *fiber.Ctx) error {
	var req dto.SubmitGenerationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.generationService.Submit(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success submit generation", res))
}

func (c *generationController) Cancel(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	if err := c.generationService.Cancel(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success cancel generation", nil))
}

// Stream relays the generation's events as SSE. The stream writer runs after
// the handler returns, so it gets its own context; cancelling it when the
// writer exits is what tells the relay the client went away.
func (c *generationController) Stream(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")
	ctx.Set("X-Accel-Buffering", "no")

	streamCtx, cancel := context.WithCancel(context.Background())
	events := c.generationService.Attach(streamCtx, id)

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()

		for event := range events {
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			// Flush per event so deltas reach the client immediately; a flush
			// failure means the client disconnected.
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))

	return nil
}
