package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/openswap/swapex/controllers"
)

func SetupRouter() *fiber.App {
	app := fiber.New()

	app.Get("/timestamp", controllers.GetTimestamp)

	app.Post("/trade", controllers.CreateTrade)
	app.Get("/order_book", controllers.GetOrderBook)

	return app
}
