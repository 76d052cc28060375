package handler

import (
	"github.com/ev-spark-hub/internal/delivery/http/middleware"
	"github.com/ev-spark-hub/internal/pkg/errors"
	"github.com/ev-spark-hub/internal/pkg/utils"
	"github.com/ev-spark-hub/internal/pkg/validator"
	"github.com/ev-spark-hub/internal/usecase"
	"github.com/ev-spark-hub/internal/usecase/dto"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RewardsHandler - обработчик Spark Coins
type RewardsHandler struct {
	rewardsUC *usecase.RewardsUseCase
	logger    *zap.Logger
}

func NewRewardsHandler(rewardsUC *usecase.RewardsUseCase, logger *zap.Logger) *RewardsHandler {
	return &RewardsHandler{
		rewardsUC: rewardsUC,
		logger:    logger,
	}
}

// GetBalance godoc
// @Summary Баланс Spark Coins
// @Tags Rewards
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.SuccessResponse{data=dto.BalanceResponse}
// @Router /api/v1/rewards [get]
func (h *RewardsHandler) GetBalance(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	balance, err := h.rewardsUC.Balance(c.UserContext(), userID)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.BalanceResponse{UserID: userID, Balance: balance}, nil)
}

// GetHistory godoc
// @Summary История Spark Coins, новые первыми
// @Tags Rewards
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.SuccessResponse{data=dto.HistoryResponse}
// @Router /api/v1/rewards/history [get]
func (h *RewardsHandler) GetHistory(c *fiber.Ctx) error {
	ledger, err := h.rewardsUC.History(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.HistoryResponse{
		UserID:  ledger.UserID,
		Balance: ledger.Balance,
		History: ledger.History,
	}, &utils.Meta{Total: len(ledger.History)})
}

// Earn godoc
// @Summary Начисление монет
// @Tags Rewards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CoinsRequest true "Сумма и описание"
// @Success 200 {object} utils.SuccessResponse{data=dto.BalanceResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/v1/rewards/earn [post]
func (h *RewardsHandler) Earn(c *fiber.Ctx) error {
	var req dto.CoinsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}

	if err := validateCoins(&req); err != nil {
		return utils.SendError(c, err)
	}

	userID := middleware.UserID(c)
	balance, err := h.rewardsUC.AddCoins(c.UserContext(), userID, req.Amount, req.Description)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.BalanceResponse{UserID: userID, Balance: balance}, nil)
}

// Spend godoc
// @Summary Списание монет
// @Description При недостаточном балансе возвращает 422 INSUFFICIENT_COINS, баланс не меняется
// @Tags Rewards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CoinsRequest true "Сумма и описание"
// @Success 200 {object} utils.SuccessResponse{data=dto.SpendResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/v1/rewards/spend [post]
func (h *RewardsHandler) Spend(c *fiber.Ctx) error {
	var req dto.CoinsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}

	if err := validateCoins(&req); err != nil {
		return utils.SendError(c, err)
	}

	ok, balance, err := h.rewardsUC.UseCoins(c.UserContext(), middleware.UserID(c), req.Amount, req.Description)
	if err != nil {
		return utils.SendError(c, err)
	}
	if !ok {
		return utils.SendError(c, errors.ErrInsufficientCoins.WithDetails(map[string]interface{}{
			"balance":   balance,
			"requested": req.Amount,
		}))
	}
	return utils.SendSuccess(c, dto.SpendResponse{Success: true, Balance: balance}, nil)
}

// validateCoins - ошибки суммы отдаются как INVALID_AMOUNT, остальные поля как INVALID_REQUEST
func validateCoins(req *dto.CoinsRequest) error {
	err := validator.Validate(req)
	if err == nil {
		return nil
	}
	if tag, ok := validator.FailedTag(err, "Amount"); ok {
		return errors.ErrInvalidAmount.WithDetails(map[string]interface{}{"amount": tag})
	}
	return err
}

// Reset godoc
// @Summary Сброс леджера к стартовому состоянию
// @Tags Rewards
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.SuccessResponse{data=dto.HistoryResponse}
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/v1/rewards/reset [post]
func (h *RewardsHandler) Reset(c *fiber.Ctx) error {
	ledger, err := h.rewardsUC.Reset(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.HistoryResponse{
		UserID:  ledger.UserID,
		Balance: ledger.Balance,
		History: ledger.History,
	}, nil)
}
