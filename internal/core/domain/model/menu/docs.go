// Package menu holds the read-only menu catalog model.
package menu
