// Package validator checks structs and single values with go-playground
// validator v10 and reports failures as goerror validation errors.
//
// Field locations use the json tag name. Fields without a tag fall back to
// their snake_case Go name, and "json:\"-\"" fields are reported without a name.
// Messages are English translations. Two rules are added to the built-in set:
// "arn" accepts an Amazon Resource Name and "alphaspace" accepts letters of
// any script, spaces, apostrophes and hyphens.
package validator
