// Package parser recovers schema-conforming values from free-form model
// output. Model responses routinely wrap JSON in explanatory prose or
// markdown fences, truncate mid-object, leave trailing commas, or emit
// several competing JSON blocks; this package extracts candidate objects
// with a fixed sequence of strategies, validates them against a
// schema.Schema, and scores the result with a confidence in [0,1].
//
// The package never returns an error or panics for unrecoverable input:
// every call produces a fully populated Outcome whose Success flag,
// diagnostics and Confidence encode what happened. All operations are
// synchronous and perform no I/O, so they are safe to call from any
// execution context. The only stateful surface is the streaming Session,
// which is owned by a single caller and must not be fed concurrently.
package parser
