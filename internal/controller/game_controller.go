package controller

import (
	"errors"
	"log"

	"github.com/benbeisheim/chess960-backend/internal/middleware"
	"github.com/benbeisheim/chess960-backend/internal/model"
	"github.com/benbeisheim/chess960-backend/internal/service"
	"github.com/benbeisheim/chess960-backend/internal/ws"
	"github.com/gofiber/fiber/v2"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

// statusFor maps service and engine errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound), errors.Is(err, service.ErrHistoryOutOfRange):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrNotSeated):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrGameFull),
		errors.Is(err, service.ErrNotYourTurn),
		errors.Is(err, model.ErrPlayerInQueue),
		errors.Is(err, model.ErrGameOver),
		errors.Is(err, model.ErrPromotionPending):
		return fiber.StatusConflict
	case errors.Is(err, model.ErrIllegalMove),
		errors.Is(err, model.ErrInvalidPromotion),
		errors.Is(err, model.ErrNoPendingPromotion):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func sendErr(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	gameID, layout := gc.gameService.CreateGame()
	return c.JSON(fiber.Map{
		"message": "Game created",
		"gameId":  gameID,
		"layout":  layout,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	color, err := gc.gameService.JoinGame(c.Params("gameId"), middleware.PlayerID(c))
	if err != nil {
		return sendErr(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return sendErr(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) GetHistory(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "history index must be an integer",
		})
	}
	board, err := gc.gameService.GetHistory(c.Params("gameId"), index)
	if err != nil {
		return sendErr(c, err)
	}
	return c.JSON(fiber.Map{
		"index":  index,
		"board":  board,
		"layout": board.Layout(),
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var move model.Move
	if err := c.BodyParser(&move); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid move body",
		})
	}
	gameID := c.Params("gameId")
	if err := gc.gameService.HandleMove(gameID, middleware.PlayerID(c), move); err != nil {
		return sendErr(c, err)
	}
	return gc.GetGameState(c)
}

func (gc *GameController) Promote(c *fiber.Ctx) error {
	var p ws.PromotionPayload
	if err := c.BodyParser(&p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid promotion body",
		})
	}
	if err := gc.gameService.HandlePromotion(c.Params("gameId"), middleware.PlayerID(c), p); err != nil {
		return sendErr(c, err)
	}
	return gc.GetGameState(c)
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	if err := gc.gameService.JoinMatchmaking(middleware.PlayerID(c)); err != nil {
		return sendErr(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "queued",
	})
}
