// Package services implements the driving port interfaces.
// Services contain the mapping logic and reach the catalog only
// through driven ports (adapters).
//
// Services hold no storage or transport code of their own.
package services
