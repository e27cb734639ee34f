package controllers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/openswap/swapex/config"
	"github.com/openswap/swapex/controllers/entities"
	"github.com/openswap/swapex/controllers/helpers"
	"github.com/openswap/swapex/matching"
	"github.com/openswap/swapex/models"
	"github.com/openswap/swapex/signer"
)

// CreateTrade accepts a signed submission, gates it on signature
// verification and hands it to the matching engine. The response body is a
// bare boolean: true when the order was matched or rested, false on any
// rejection. Rejections are audit logged and never fail the request.
func CreateTrade(c *fiber.Ctx) error {
	errs := new(helpers.Errors)
	params := new(helpers.CreateTradeParams)

	if err := c.BodyParser(params); err != nil {
		models.RecordLog(c.Body(), "server.method.invalid_message_body")
		return c.Status(200).JSON(false)
	}

	helpers.Vaildate(params, errs)
	helpers.Vaildate(params.Payload, errs)
	if errs.Size() > 0 {
		models.RecordLog(c.Body(), errs.Errors[0])
		return c.Status(200).JSON(false)
	}

	payload_message, _ := json.Marshal(params.Payload)

	if !signer.Verify(payload_message, params.Sig, signer.Platform(params.Payload.Platform), params.Payload.SenderPK) {
		models.RecordLog(payload_message, "market.trade.invalid_signature")
		return c.Status(200).JSON(false)
	}

	order := params.BuildOrder(errs)
	if errs.Size() > 0 {
		models.RecordLog(payload_message, errs.Errors[0])
		return c.Status(200).JSON(false)
	}

	engine := matching.NewEngine(config.DataBase)

	if _, err := engine.Submit(order); err != nil {
		config.Logger.Errorf("trade submission failed: %v", err)
		return c.Status(503).JSON(false)
	}

	return c.Status(200).JSON(true)
}

// GetOrderBook returns every order, resting and filled, in submission order.
func GetOrderBook(c *fiber.Ctx) error {
	var orders []models.Order

	if err := config.DataBase.Order("id asc").Find(&orders).Error; err != nil {
		return c.Status(503).JSON(helpers.Errors{
			Errors: []string{"server.internal_error"},
		})
	}

	book := entities.OrderBookEntity{
		Data: make([]entities.OrderEntity, 0, len(orders)),
	}
	for i := range orders {
		book.Data = append(book.Data, orders[i].ToEntity())
	}

	return c.Status(200).JSON(book)
}
