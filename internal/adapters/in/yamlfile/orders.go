// Package yamlfile loads a batch of orders from a YAML document:
//
//	orders:
//	  - customer: Ana
//	    food: Breakfast
//	    drink: Coffee
//	    dessert: Vanilla ice cream
package yamlfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"fooddelivery/internal/core/application/usecases/commands"

	"gopkg.in/yaml.v3"
)

type document struct {
	Orders []orderEntry `yaml:"orders"`
}

type orderEntry struct {
	Customer string `yaml:"customer"`
	Food     string `yaml:"food"`
	Drink    string `yaml:"drink"`
	Dessert  string `yaml:"dessert"`
}

// LoadOrders reads the orders file at path.
func LoadOrders(path string) ([]commands.OrderRequest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open orders: %w", err)
	}
	defer f.Close()

	return ReadOrders(f)
}

// ReadOrders decodes orders in document order. Unknown keys are rejected and
// an empty document yields no orders.
func ReadOrders(r io.Reader) ([]commands.OrderRequest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse orders: %w", err)
	}

	requests := make([]commands.OrderRequest, 0, len(doc.Orders))
	for _, e := range doc.Orders {
		requests = append(requests, commands.OrderRequest{
			Customer: e.Customer,
			Food:     e.Food,
			Drink:    e.Drink,
			Dessert:  e.Dessert,
		})
	}
	return requests, nil
}
