package models

import "github.com/shopspring/decimal"

// MarkupSetting is the agent's configured default and floor markup for one
// item type. Consulted when creating items and when validating markup edits.
type MarkupSetting struct {
	ItemType      string          `json:"itemType"`
	DefaultMarkup decimal.Decimal `json:"defaultMarkup"`
	MinimumMarkup decimal.Decimal `json:"minimumMarkup"`
	MarkupType    string          `json:"markupType"` // percentage | fixed
}
