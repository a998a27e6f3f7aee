// Package swagger embeds the OpenAPI document of the REST API.
package swagger

import _ "embed"

// Spec is the OpenAPI 2.0 document served at /openapi/user.swagger.json.
//
//go:embed user.swagger.json
var Spec []byte
