// Package api embeds the OpenAPI document served on /docs.
package api

import _ "embed"

//go:embed openapi.yaml
var OpenAPISpec []byte
