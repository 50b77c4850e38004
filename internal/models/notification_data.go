package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Payload is the typed body of a notification. Each notification type has
// exactly one payload variant.
type Payload interface {
	Kind() NotificationType
}

// BudgetAlertPayload describes a budget that crossed its notification threshold.
type BudgetAlertPayload struct {
	BudgetID   string       `json:"budget_id"`
	Category   Category     `json:"category"`
	Period     BudgetPeriod `json:"period"`
	PeriodKey  string       `json:"period_key"`
	Amount     int64        `json:"amount"`
	Spent      int64        `json:"spent"`
	Remaining  int64        `json:"remaining"`
	Percentage float64      `json:"percentage"`
	Threshold  int          `json:"threshold"`
	OverBudget bool         `json:"over_budget"`
}

// SubscriptionReminderPayload describes an upcoming subscription renewal.
type SubscriptionReminderPayload struct {
	SubscriptionID string    `json:"subscription_id"`
	Name           string    `json:"name"`
	Amount         int64     `json:"amount"`
	RenewalDate    time.Time `json:"renewal_date"`
	DaysUntil      int       `json:"days_until"`
}

// SpendingAnomalyPayload describes a transaction well above the usual spend.
type SpendingAnomalyPayload struct {
	TransactionID string   `json:"transaction_id"`
	Category      Category `json:"category"`
	Amount        int64    `json:"amount"`
	Average       int64    `json:"average"`
}

// GoalProgressPayload describes a savings goal milestone.
type GoalProgressPayload struct {
	GoalID        string     `json:"goal_id"`
	Name          string     `json:"name"`
	TargetAmount  int64      `json:"target_amount"`
	CurrentAmount int64      `json:"current_amount"`
	Percentage    float64    `json:"percentage"`
	Status        GoalStatus `json:"status"`
	Deadline      *time.Time `json:"deadline,omitempty"`
}

// SystemPayload carries free-text details for system notifications.
type SystemPayload struct {
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func (BudgetAlertPayload) Kind() NotificationType          { return NotificationBudgetAlert }
func (SubscriptionReminderPayload) Kind() NotificationType { return NotificationSubscriptionReminder }
func (SpendingAnomalyPayload) Kind() NotificationType      { return NotificationSpendingAnomaly }
func (GoalProgressPayload) Kind() NotificationType         { return NotificationGoalProgress }
func (SystemPayload) Kind() NotificationType               { return NotificationSystem }

var payloadFactories = map[NotificationType]func() Payload{
	NotificationBudgetAlert:          func() Payload { return &BudgetAlertPayload{} },
	NotificationSubscriptionReminder: func() Payload { return &SubscriptionReminderPayload{} },
	NotificationSpendingAnomaly:      func() Payload { return &SpendingAnomalyPayload{} },
	NotificationGoalProgress:         func() Payload { return &GoalProgressPayload{} },
	NotificationSystem:               func() Payload { return &SystemPayload{} },
}

// NotificationData is a tagged union over the payload variants. It is stored
// and serialized as {"type": ..., "payload": {...}}.
type NotificationData struct {
	Payload Payload
}

type dataEnvelope struct {
	Type    NotificationType `json:"type"`
	Payload json.RawMessage  `json:"payload"`
}

// NewNotificationData wraps a payload variant.
func NewNotificationData(p Payload) NotificationData {
	return NotificationData{Payload: p}
}

// DecodePayload decodes raw JSON into the variant registered for t.
func DecodePayload(t NotificationType, raw []byte) (Payload, error) {
	factory, ok := payloadFactories[t]
	if !ok {
		return nil, fmt.Errorf("unknown notification type %q", t)
	}
	p := factory()
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", t, err)
		}
	}
	// Callers type-switch on value variants, never pointers.
	switch v := p.(type) {
	case *BudgetAlertPayload:
		return *v, nil
	case *SubscriptionReminderPayload:
		return *v, nil
	case *SpendingAnomalyPayload:
		return *v, nil
	case *GoalProgressPayload:
		return *v, nil
	case *SystemPayload:
		return *v, nil
	}
	return p, nil
}

// MarshalJSON implements json.Marshaler.
func (d NotificationData) MarshalJSON() ([]byte, error) {
	if d.Payload == nil {
		return []byte("null"), nil
	}
	body, err := json.Marshal(d.Payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(dataEnvelope{Type: d.Payload.Kind(), Payload: body})
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *NotificationData) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		d.Payload = nil
		return nil
	}
	var env dataEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	p, err := DecodePayload(env.Type, env.Payload)
	if err != nil {
		return err
	}
	d.Payload = p
	return nil
}

// Value implements driver.Valuer.
func (d NotificationData) Value() (driver.Value, error) {
	if d.Payload == nil {
		return nil, nil
	}
	b, err := d.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (d *NotificationData) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		d.Payload = nil
		return nil
	case []byte:
		return d.UnmarshalJSON(v)
	case string:
		return d.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("unsupported notification data type %T", src)
	}
}
