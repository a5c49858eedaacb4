// Package staff models the accounts that operate the order board.
package staff
