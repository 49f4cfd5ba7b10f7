package models

import (
	"fmt"
	"strings"
)

// ProductKind identifies one of the retail catalog tables.
type ProductKind string

const (
	ProductLaptops    ProductKind = "laptops"
	ProductMobiles    ProductKind = "mobiles"
	ProductHeadphones ProductKind = "headphones"
)

// ProductKinds lists every catalog table.
var ProductKinds = []ProductKind{ProductLaptops, ProductMobiles, ProductHeadphones}

// ParseProductKind converts raw input into a ProductKind, ignoring case.
func ParseProductKind(raw string) (ProductKind, error) {
	candidate := ProductKind(strings.ToLower(raw))
	for _, kind := range ProductKinds {
		if kind == candidate {
			return kind, nil
		}
	}
	return "", fmt.Errorf("invalid product kind %q", raw)
}

func (k ProductKind) String() string { return string(k) }

// Product is a flat retail catalog record.
type Product struct {
	ID       int64   `db:"pid" json:"pid"`
	Name     string  `db:"pname" json:"pname"`
	Cost     int     `db:"pcost" json:"pcost"`
	Quantity int     `db:"pqty" json:"pqty"`
	Image    *string `db:"pimage" json:"pimage,omitempty"`
}
