package pinterest

import (
	"fmt"

	"pinterest-forwarder/internal/model"
)

// eventNames maps commerce event names to the labels Pinterest attributes.
var eventNames = map[string]string{
	"Product Added":     "addtocart",
	"Order Completed":   "checkout",
	"Products Searched": "search",
}

// productAttributes are flattened per product, in this order.
var productAttributes = []string{
	"product_id",
	"sku",
	"category",
	"name",
	"brand",
	"variant",
	"price",
}

// MapEventName returns the Pinterest label for a commerce event name.
func MapEventName(name string) (string, bool) {
	mapped, ok := eventNames[name]
	return mapped, ok
}

// FlattenEcommerce turns an ecommerce object into index-suffixed fields.
// It returns nil when the object is missing or carries no products list.
func FlattenEcommerce(ecommerce any) []model.Field {
	order, ok := asObject(ecommerce)
	if !ok {
		return nil
	}
	rawProducts, _ := order("products")
	products, ok := asList(rawProducts)
	if !ok {
		return nil
	}

	var out model.Payload
	setIfPresent(&out, order, "order_id", "order_id")
	setIfPresent(&out, order, "currency", "currency")
	if v, ok := orderValue(order); ok {
		out.Set("value", v)
	}
	setIfPresent(&out, order, "order_quantity", "quantity")

	for i, raw := range products {
		product, ok := asObject(raw)
		if !ok {
			continue
		}
		for _, attr := range productAttributes {
			v, ok := product(attr)
			if !truthy(v) {
				v, ok = product("sku")
			}
			if ok {
				out.Set(fmt.Sprintf("product_%s[%d]", attr, i), v)
			}
		}
	}

	return out.Fields()
}

// orderValue picks the first truthy of revenue, total and value. When none is
// truthy the last candidate is used as is.
func orderValue(order lookup) (any, bool) {
	for _, key := range []string{"revenue", "total"} {
		if v, ok := order(key); ok && truthy(v) {
			return v, true
		}
	}
	return order("value")
}

func setIfPresent(out *model.Payload, order lookup, key, source string) {
	if v, ok := order(source); ok {
		out.Set(key, v)
	}
}
