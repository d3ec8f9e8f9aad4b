package main

import (
	"errors"
	"fmt"

	"github.com/yourusername/spark/pkg/spark/http1"
	"github.com/yourusername/spark/pkg/spark/router"
)

var errSumInput = errors.New(`expected a JSON object {"data": [numbers]}`)

// routes builds the demo routing table.
func routes() *router.Table {
	return router.NewBuilder().
		Get("/", router.TextFunc(hello)).
		Get("/health", router.JSONFunc(health)).
		Post("/sum", router.JSONFunc(sum)).
		Post("/echo", echo).
		Build()
}

func hello(http1.Body) (string, error) {
	return "hi", nil
}

func health(http1.Body) (map[string]string, error) {
	return map[string]string{"status": "ok"}, nil
}

// sum adds up the numbers in the "data" list of a JSON object.
func sum(body http1.Body) (float64, error) {
	if body.Kind != http1.BodyJSON {
		return 0, errSumInput
	}
	obj, ok := body.Value.(map[string]any)
	if !ok {
		return 0, errSumInput
	}
	items, ok := obj["data"].([]any)
	if !ok {
		return 0, errSumInput
	}

	var total float64
	for i, it := range items {
		n, ok := it.(float64)
		if !ok {
			return 0, fmt.Errorf("data[%d] is not a number", i)
		}
		total += n
	}
	return total, nil
}

// echo returns the request body unchanged, in its own format.
func echo(body http1.Body) (router.Result, error) {
	switch body.Kind {
	case http1.BodyText:
		return router.Text(body.Text), nil
	case http1.BodyJSON:
		return router.JSON(body.Value), nil
	default:
		return router.Text(""), nil
	}
}
