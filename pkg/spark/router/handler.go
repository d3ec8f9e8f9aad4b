package router

import (
	"github.com/yourusername/spark/pkg/spark/http1"
)

// Handler serves one route. It receives the decoded request body
// (http1.NoBody when the request had none) and returns the response payload.
//
// A returned error becomes a 500 response whose message embeds err.
type Handler func(body http1.Body) (Result, error)

// TextFunc adapts a function returning a string into a Handler.
func TextFunc(fn func(body http1.Body) (string, error)) Handler {
	return func(body http1.Body) (Result, error) {
		s, err := fn(body)
		if err != nil {
			return Result{}, err
		}
		return Text(s), nil
	}
}

// JSONFunc adapts a function returning any serializable value into a Handler.
//
// Example:
//
//	b.Post("/sum", router.JSONFunc(func(body http1.Body) (float64, error) {
//	    ...
//	}))
func JSONFunc[T any](fn func(body http1.Body) (T, error)) Handler {
	return func(body http1.Body) (Result, error) {
		v, err := fn(body)
		if err != nil {
			return Result{}, err
		}
		return JSON(v), nil
	}
}
