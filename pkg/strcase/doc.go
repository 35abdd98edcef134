// Package strcase converts identifiers between naming conventions.
//
// ToLowerSnake is used for validator field paths and ToLowerCamel plus
// CamelizeKeys rewrite response keys into the wire convention right before
// encoding. Only mapping keys are rewritten, values are never touched.
package strcase
