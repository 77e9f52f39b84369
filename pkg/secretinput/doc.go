// Package secretinput abstracts how secret values reach the program:
// interactively from a terminal with echo disabled, or queued up front for
// tests and scripted runs.
package secretinput
