package api

import (
	"github.com/gofiber/fiber/v2"
	docs "github.com/sirapurapushyam/AluminiHub-sub000/docs"
	fiberSwagger "github.com/swaggo/fiber-swagger"
)

func RegisterSwagger(app *fiber.App) {
	// host and scheme follow the incoming request
	app.Use("/swagger", func(c *fiber.Ctx) error {
		docs.SwaggerInfo.Host = c.Hostname()
		docs.SwaggerInfo.Schemes = []string{c.Protocol()}
		return c.Next()
	})

	app.Get("/swagger/*", fiberSwagger.WrapHandler)
}
