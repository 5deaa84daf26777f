// Package effects shapes the background audio that DTMF sequences are mixed into.
package effects
