// Package api содержит OpenAPI-спеку, которую роутер отдаёт Swagger UI.
package api

import _ "embed"

//go:embed openapi.json
var OpenAPISpec []byte
