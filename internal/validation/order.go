// Package validation checks the shape of order payloads before they reach
// order creation.
package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Reason identifies which rule rejected an order body
type Reason int

const (
	ReasonBodyNotObject Reason = iota + 1
	ReasonItemsNotArray
	ReasonItemsEmpty
	ReasonItemNotObject
	ReasonInvalidProductID
	ReasonInvalidQuantity
)

// Violation is the rejection half of a validation result.
// Index is the offending element of items, or -1 for body-level rules.
type Violation struct {
	Reason Reason
	Index  int
}

// Error returns the user-facing message for the violation
func (v *Violation) Error() string {
	switch v.Reason {
	case ReasonBodyNotObject:
		return "Request body must be a JSON object"
	case ReasonItemsNotArray:
		return "items must be an array"
	case ReasonItemsEmpty:
		return "items must not be empty"
	case ReasonItemNotObject:
		return fmt.Sprintf("items[%d] must be an object", v.Index)
	case ReasonInvalidProductID:
		return fmt.Sprintf("items[%d].productId must be a non-empty string", v.Index)
	case ReasonInvalidQuantity:
		return fmt.Sprintf("items[%d].quantity must be a positive integer", v.Index)
	default:
		return "invalid order request"
	}
}

// bodyRule inspects the decoded body; itemRule inspects one element of items.
type (
	bodyRule func(body any) *Violation
	itemRule func(item map[string]any) Reason
)

var bodyRules = []bodyRule{
	requireObject,
	requireItemsArray,
	requireItemsNotEmpty,
	eachItem(
		requireItemProductID,
		requireItemQuantity,
	),
}

// ValidateOrderBody checks a decoded JSON value (as produced by
// encoding/json into an any) and returns the first violation, or nil when
// the body is acceptable. Accepted values are not normalized.
func ValidateOrderBody(body any) *Violation {
	for _, rule := range bodyRules {
		if v := rule(body); v != nil {
			return v
		}
	}
	return nil
}

func requireObject(body any) *Violation {
	if _, ok := body.(map[string]any); !ok {
		return &Violation{Reason: ReasonBodyNotObject, Index: -1}
	}
	return nil
}

func requireItemsArray(body any) *Violation {
	if _, ok := items(body); !ok {
		return &Violation{Reason: ReasonItemsNotArray, Index: -1}
	}
	return nil
}

func requireItemsNotEmpty(body any) *Violation {
	if list, _ := items(body); len(list) == 0 {
		return &Violation{Reason: ReasonItemsEmpty, Index: -1}
	}
	return nil
}

// eachItem applies rules to every element in index order; an element that
// is not an object fails before any item rule runs.
func eachItem(rules ...itemRule) bodyRule {
	return func(body any) *Violation {
		list, _ := items(body)
		for i, raw := range list {
			item, ok := raw.(map[string]any)
			if !ok {
				return &Violation{Reason: ReasonItemNotObject, Index: i}
			}
			for _, rule := range rules {
				if reason := rule(item); reason != 0 {
					return &Violation{Reason: reason, Index: i}
				}
			}
		}
		return nil
	}
}

func requireItemProductID(item map[string]any) Reason {
	id, ok := item["productId"].(string)
	if !ok || strings.TrimSpace(id) == "" {
		return ReasonInvalidProductID
	}
	return 0
}

func requireItemQuantity(item map[string]any) Reason {
	q, ok := item["quantity"].(float64)
	if !ok || !isInteger(q) || q <= 0 {
		return ReasonInvalidQuantity
	}
	return 0
}

func items(body any) ([]any, bool) {
	obj, _ := body.(map[string]any)
	list, ok := obj["items"].([]any)
	return list, ok
}

func isInteger(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f) && math.Trunc(f) == f
}

// ValidateOrderJSON decodes raw request bytes and validates them.
// Empty input is treated as an empty object; input that is not valid JSON
// fails as a non-object body.
func ValidateOrderJSON(data []byte) *Violation {
	if len(bytes.TrimSpace(data)) == 0 {
		return ValidateOrderBody(map[string]any{})
	}

	var body any
	if err := json.Unmarshal(data, &body); err != nil {
		return &Violation{Reason: ReasonBodyNotObject, Index: -1}
	}
	return ValidateOrderBody(body)
}
