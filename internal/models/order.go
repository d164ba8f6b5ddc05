package models

import (
	"bytes"
	"encoding/json"
	"errors"
)

type OrderStatus string

// Статусы, которые знает бэкенд. Неизвестные значения проходят как есть.
const (
	OrderStatusCreated   OrderStatus = "CREATED"
	OrderStatusPacked    OrderStatus = "PACKED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// OrderStatuses lists the known statuses in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusCreated,
	OrderStatusPacked,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func (s OrderStatus) Known() bool {
	for _, k := range OrderStatuses {
		if s == k {
			return true
		}
	}
	return false
}

func (s OrderStatus) String() string { return string(s) }

type TrackingEvent struct {
	Status     string    `json:"status"`
	OccurredAt Timestamp `json:"occurredAt"`
	Note       *string   `json:"note,omitempty"`
}

// Order is a read-only copy of the backend's order. When decoded from JSON it
// remembers the original document and marshals back to it unchanged.
type Order struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customerId"`
	Status     OrderStatus     `json:"status"`
	CreatedAt  Timestamp       `json:"createdAt"`
	UpdatedAt  Timestamp       `json:"updatedAt"`
	History    []TrackingEvent `json:"history"`

	raw json.RawMessage
}

type plainOrder Order

var errNullOrder = errors.New("order: got null instead of an object")

// UnmarshalJSON rejects a null document: an order response must be an object.
func (o *Order) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return errNullOrder
	}
	var p plainOrder
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*o = Order(p)
	o.raw = append(json.RawMessage(nil), b...)
	return nil
}

func (o Order) MarshalJSON() ([]byte, error) {
	if len(o.raw) > 0 {
		return o.raw, nil
	}
	return json.Marshal(plainOrder(o))
}

type RegisterOrderRequest struct {
	OrderID    string `json:"orderId"`
	CustomerID string `json:"customerId"`
}

// Note is sent as null when absent.
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status"`
	Note   *string     `json:"note"`
}
