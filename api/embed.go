// Package api holds the OpenAPI document of the reconciler HTTP surface.
package api

import _ "embed"

//go:embed openapi.json
var Spec []byte
