// Package testsupport holds helpers shared by package tests: deterministic
// row ids and golden file comparison.
package testsupport
