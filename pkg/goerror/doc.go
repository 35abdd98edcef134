// Package goerror is the error taxonomy understood by the error boundary.
//
// There are three classes:
//   - *ValidationError: client caused, field level, carries one detail per
//     violated field and the violated schema so it can be echoed back.
//   - *Error: domain level failures raised by handler logic, rendered with the
//     status its Code maps to.
//   - anything else: unclassified, always rendered as an internal error with
//     the underlying message suppressed.
package goerror
