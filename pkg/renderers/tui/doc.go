// Package tui drives the tagging form from a terminal through survey prompts.
package tui
