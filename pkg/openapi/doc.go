// Package openapi derives form configurations from the request bodies of
// OpenAPI 3 operations. Documents are parsed with kin-openapi; the resulting
// model.FormConfig goes through the same contract checks as hand-written
// form files.
package openapi
