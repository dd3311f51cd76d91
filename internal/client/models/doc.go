// Package models defines the client-side records of the farm-produce
// marketplace (categories, products, farmers), the raw shapes the gateway
// sends, and the normalization between the two.
//
// Raw* types mirror the gateway's JSON. Normalize* functions turn them into
// the records the cache stores and consumers render. *Input and *Patch types
// are write payloads; their Validate methods implement the client-side
// required-field checks and fail with an error matching common.ErrValidation.
package models
