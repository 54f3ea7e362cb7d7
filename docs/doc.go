// Package docs provides generated OpenAPI documentation.
//
// SchemaForge API
//
//	@title			SchemaForge API
//	@version		1.0
//	@description	LLM-backed structured extraction and data model inference.
//	@termsOfService	http://swagger.io/terms/
//
//	@contact.name	API Support
//	@contact.url	https://github.com/schemaforge/schemaforge
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8000
//	@BasePath	/
//
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/schemaforge/serve.go -o ./swagger --parseDependency --parseInternal
