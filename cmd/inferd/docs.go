package main

// General API documentation for swaggo. Regenerate the docs package with
// `swag init -g cmd/inferd/docs.go -o docs`.
//
// @title           inferd admin API
// @version         1.0
// @description     Admin and observability surface for the inferd language model service.
//
// @contact.name   inferd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
